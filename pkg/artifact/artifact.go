// Package artifact is the durable blob store for generated calendar
// documents. Keys follow the fixed "wishlists/<steamID>.ics" pattern and
// writes are unconditional overwrites; there is no versioning.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("artifact not found")

// Store writes and reads artifact bytes under deterministic keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key returns the storage key for a profile's calendar document.
func Key(steamID string) string {
	return "wishlists/" + steamID + ".ics"
}

// FSStore keeps artifacts as plain files under a base directory. It is the
// default backend for single-host deployments.
type FSStore struct {
	Root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{Root: root}
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
