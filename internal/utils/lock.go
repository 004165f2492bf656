package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileSuffix = ".tick.lock"

// TickLock is a file-based lock that keeps two dispatcher ticks from
// overlapping. A tick that finds the lock held skips instead of waiting:
// the next scheduled tick will pick up any profiles the in-flight one
// hasn't reached.
type TickLock struct {
	lock *flock.Flock
	path string
}

// NewTickLock creates a lock file next to the given database path.
func NewTickLock(dbPath string) (*TickLock, error) {
	absPath, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute db path: %w", err)
	}
	lockPath := absPath + lockFileSuffix
	return &TickLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// TryLock attempts to acquire the lock without blocking. It returns false
// when another dispatch tick currently holds it.
func (l *TickLock) TryLock() (bool, error) {
	locked, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	return locked, nil
}

// Unlock releases the lock.
func (l *TickLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// GetAbsDBPath resolves the database path.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "wishcal", "wishcal.sqlite"), nil
	}
	return filepath.Abs(dbPath)
}
