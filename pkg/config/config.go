package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	Cart          CartConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Sweep         SweepConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"OXYGENIX_APP_ENV" required:"true"`
	Port         string   `envconfig:"OXYGENIX_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"OXYGENIX_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"OXYGENIX_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"OXYGENIX_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"OXYGENIX_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the key-value medium that holds cart and session snapshots.
type StorageConfig struct {
	Driver  string `envconfig:"OXYGENIX_STORAGE_DRIVER" default:"file"`
	FileDir string `envconfig:"OXYGENIX_STORAGE_FILE_DIR" default:"./data/snapshots"`
}

// NormalizedDriver returns the lower-cased storage driver name.
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

type DBConfig struct {
	Driver string `envconfig:"OXYGENIX_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"OXYGENIX_DB_DSN" default:"file:oxygenix.db?_pragma=foreign_keys(1)"`

	MaxOpenConns    int           `envconfig:"OXYGENIX_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"OXYGENIX_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"OXYGENIX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OXYGENIX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"OXYGENIX_REDIS_URL"`
	Address      string        `envconfig:"OXYGENIX_REDIS_ADDR"`
	Password     string        `envconfig:"OXYGENIX_REDIS_PASSWORD"`
	DB           int           `envconfig:"OXYGENIX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OXYGENIX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OXYGENIX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OXYGENIX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OXYGENIX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OXYGENIX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CartConfig struct {
	Namespace  string        `envconfig:"OXYGENIX_CART_NAMESPACE" default:"oxygenix-cart"`
	CookieName string        `envconfig:"OXYGENIX_CART_COOKIE_NAME" default:"oxygenix_cart"`
	CookieTTL  time.Duration `envconfig:"OXYGENIX_CART_COOKIE_TTL" default:"8760h"`
}

type SessionConfig struct {
	Namespace string        `envconfig:"OXYGENIX_SESSION_NAMESPACE" default:"oxygenix_auth"`
	TTL       time.Duration `envconfig:"OXYGENIX_SESSION_TTL" default:"168h"`
	ResetTTL  time.Duration `envconfig:"OXYGENIX_SESSION_RESET_TTL" default:"1h"`
	Secret    string        `envconfig:"OXYGENIX_SESSION_SECRET" required:"true"`
	Issuer    string        `envconfig:"OXYGENIX_SESSION_ISSUER" default:"oxygenix-storefront"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OXYGENIX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OXYGENIX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OXYGENIX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OXYGENIX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OXYGENIX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"OXYGENIX_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// SweepConfig schedules removal of expired snapshots from file and sql storage.
type SweepConfig struct {
	Interval time.Duration `envconfig:"OXYGENIX_SWEEP_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"OXYGENIX_SWEEP_LOCK_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OXYGENIX_AUTO_MIGRATE" default:"true"`
}

func (c *Config) validate() error {
	switch c.Storage.NormalizedDriver() {
	case StorageDriverMemory, StorageDriverFile, StorageDriverSQL:
	case StorageDriverRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvStorageDriver, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}

	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	return nil
}
