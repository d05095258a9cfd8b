package models

import "time"

// Snapshot is a key-value row backing the sql snapshot storage.
type Snapshot struct {
	Key       string     `gorm:"column:snapshot_key;primaryKey"`
	Payload   string     `gorm:"column:payload;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Snapshot) TableName() string { return "snapshots" }
