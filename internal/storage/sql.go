package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oxygenixlabs/storefront/internal/repo"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores entries in the snapshots table.
type SQL struct {
	base repo.Base
	now  func() time.Time
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{base: repo.NewBase(db), now: time.Now}
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var row models.Snapshot
	err := s.base.DB(ctx).Where("snapshot_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	if expired(s.now(), row.ExpiresAt) {
		return nil, ErrNotFound
	}
	return []byte(row.Payload), nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now().UTC()
	row := models.Snapshot{
		Key:       key,
		Payload:   string(value),
		ExpiresAt: expiryFor(now, ttl),
		UpdatedAt: now,
	}
	err := s.base.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := s.base.DB(ctx).Where("snapshot_key = ?", key).Delete(&models.Snapshot{}).Error; err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Sweep deletes rows whose expiry has passed.
func (s *SQL) Sweep(ctx context.Context) (int, error) {
	res := s.base.DB(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.Snapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep snapshots: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}
