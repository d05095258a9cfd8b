package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const fileExt = ".json"

type fileEnvelope struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Data      []byte     `json:"data"`
}

// File stores one JSON envelope per key inside a directory. Writes go through
// a temp file and rename so readers never observe a partial entry.
type File struct {
	dir string
	now func() time.Time
}

func NewFile(dir string) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %q: %w", dir, err)
	}
	return &File{dir: dir, now: time.Now}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+fileExt)
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	env, err := f.read(f.path(key))
	if err != nil {
		return nil, err
	}
	if expired(f.now(), env.ExpiresAt) {
		return nil, ErrNotFound
	}
	return env.Data, nil
}

func (f *File) read(path string) (fileEnvelope, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileEnvelope{}, ErrNotFound
	}
	if err != nil {
		return fileEnvelope{}, fmt.Errorf("read %s: %w", path, err)
	}
	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fileEnvelope{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return env, nil
}

func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	raw, err := json.Marshal(fileEnvelope{ExpiresAt: expiryFor(f.now(), ttl), Data: value})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Sweep removes expired entries. Unreadable files are reported but do not stop the sweep.
func (f *File) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("list storage directory: %w", err)
	}

	now := f.now()
	removed := 0
	var errs error
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, multierr.Append(errs, ctx.Err())
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		path := filepath.Join(f.dir, e.Name())
		env, err := f.read(path)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !expired(now, env.ExpiresAt) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
