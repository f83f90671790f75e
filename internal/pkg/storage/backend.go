package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Delete when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a hierarchical key/blob store. Keys are slash separated,
// e.g. "locations/42/beach.jpg".
type Backend interface {
	// Put stores data under key, replacing any previous blob.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. A missing key yields ErrNotFound.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the names of the direct children of dir. A missing dir is empty.
	List(ctx context.Context, dir string) ([]string, error)
	// RemoveDir removes an empty directory. Stores without real
	// directories treat it as a no-op.
	RemoveDir(ctx context.Context, dir string) error
}

// New creates the backend selected by cfg.Driver.
func New(ctx context.Context, cfg *Config) (Backend, error) {
	switch cfg.Driver {
	case DriverLocal:
		return NewLocalBackend(cfg.MediaRoot)
	case DriverS3:
		return NewS3Backend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
