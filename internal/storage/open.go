package storage

import (
	"fmt"

	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/db"
	redisclient "github.com/oxygenixlabs/storefront/pkg/redis"
)

// Deps carries the shared clients a medium may be built on. Either may be nil.
type Deps struct {
	Redis *redisclient.Client
	DB    *db.Client
}

// Open builds the snapshot medium selected by cfg.Driver.
func Open(cfg config.StorageConfig, deps Deps) (Storage, error) {
	switch cfg.NormalizedDriver() {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverFile:
		return NewFile(cfg.FileDir)
	case config.StorageDriverRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("redis storage requires a redis client")
		}
		return NewRedis(deps.Redis), nil
	case config.StorageDriverSQL:
		if deps.DB == nil {
			return nil, fmt.Errorf("sql storage requires a database client")
		}
		return NewSQL(deps.DB.DB()), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
