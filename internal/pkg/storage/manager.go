package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// StorageManager wraps a Backend and reports every operation as a FileOperation
type StorageManager struct {
	backend Backend
}

// FileOperation represents a file operation result
type FileOperation struct {
	Success  bool          `json:"success"`
	Key      string        `json:"key"`
	Size     int           `json:"size,omitempty"`
	Missing  bool          `json:"missing,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    error         `json:"error,omitempty"`
}

// NewStorageManager creates a new storage manager instance
func NewStorageManager(backend Backend) *StorageManager {
	return &StorageManager{backend: backend}
}

// Backend returns the wrapped backend
func (sm *StorageManager) Backend() Backend {
	return sm.backend
}

// SaveFile stores data under key
func (sm *StorageManager) SaveFile(ctx context.Context, key string, data []byte) (*FileOperation, error) {
	startTime := time.Now()
	operation := &FileOperation{Key: key, Size: len(data)}

	if err := sm.backend.Put(ctx, key, data); err != nil {
		operation.Error = err
		operation.Duration = time.Since(startTime)
		log.Errorf("[StorageManager] Failed to save %s: %v", key, err)
		return operation, err
	}

	operation.Success = true
	operation.Duration = time.Since(startTime)
	log.Debugf("[StorageManager] Saved %s (%d bytes) in %v", key, len(data), operation.Duration)
	return operation, nil
}

// DeleteFile removes key. A key that is already gone counts as success
// with Missing set.
func (sm *StorageManager) DeleteFile(ctx context.Context, key string) (*FileOperation, error) {
	startTime := time.Now()
	operation := &FileOperation{Key: key}

	if err := sm.backend.Delete(ctx, key); err != nil {
		if !errors.Is(err, ErrNotFound) {
			operation.Error = err
			operation.Duration = time.Since(startTime)
			return operation, err
		}
		// File doesn't exist, consider it successful
		operation.Missing = true
	}

	operation.Success = true
	operation.Duration = time.Since(startTime)
	log.Debugf("[StorageManager] Deleted %s in %v (missing: %t)", key, operation.Duration, operation.Missing)
	return operation, nil
}

// PruneDir removes dir if it has no children left. Success without removal
// is reported when the directory still holds files.
//
// List and remove are two separate calls: a file written into dir between
// them can make the removal fail, which is reported but harmless. The
// directory is never removed recursively.
func (sm *StorageManager) PruneDir(ctx context.Context, dir string) (pruned bool, err error) {
	if dir == "" {
		return false, nil
	}
	children, err := sm.backend.List(ctx, dir)
	if err != nil {
		return false, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(children) > 0 {
		return false, nil
	}
	if err := sm.backend.RemoveDir(ctx, dir); err != nil {
		return false, fmt.Errorf("remove %s: %w", dir, err)
	}
	return true, nil
}

// HealthCheck writes, checks and deletes a probe key.
func (sm *StorageManager) HealthCheck(ctx context.Context) error {
	key := fmt.Sprintf(".healthcheck/%d", time.Now().UnixNano())
	if err := sm.backend.Put(ctx, key, []byte("ok")); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	exists, err := sm.backend.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("stat probe: %w", err)
	}
	if !exists {
		return errors.New("probe not readable after write")
	}
	if err := sm.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	if _, err := sm.PruneDir(ctx, ".healthcheck"); err != nil {
		log.Warnf("[StorageManager] Could not remove health probe directory: %v", err)
	}
	return nil
}
