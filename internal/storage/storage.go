// Package storage provides the key-value media that hold cart and session
// snapshots: process memory, a directory of files, redis, or a sql table.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a byte-oriented key-value medium. A zero ttl never expires.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Sweeper is implemented by media that need expired entries removed explicitly.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

func expiryFor(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	exp := now.Add(ttl)
	return &exp
}

func expired(now time.Time, expiresAt *time.Time) bool {
	return expiresAt != nil && !now.Before(*expiresAt)
}
