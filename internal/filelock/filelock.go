// Package filelock guards bulk recalculation against concurrent runs
// from other processes sharing the same cache.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// FileLock wraps a flock file lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by the file at path. The file is created on
// first acquisition.
func New(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForCache returns the lock guarding the cache at dsn.
func ForCache(dsn string) *FileLock {
	return New(dsn + ".lock")
}

// Path returns the lock file path.
func (fl *FileLock) Path() string { return fl.path }

// Lock blocks until the lock is acquired or ctx is done.
func (fl *FileLock) Lock(ctx context.Context) error {
	ok, err := fl.flock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire lock on %s: %w", fl.path, err)
	}
	if !ok {
		return fmt.Errorf("acquire lock on %s: %w", fl.path, ErrLocked)
	}
	return nil
}

// TryLock acquires the lock without blocking.
func (fl *FileLock) TryLock() error {
	ok, err := fl.flock.TryLock()
	if err != nil {
		return fmt.Errorf("try lock on %s: %w", fl.path, err)
	}
	if !ok {
		return fmt.Errorf("try lock on %s: %w", fl.path, ErrLocked)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock on %s: %w", fl.path, err)
	}
	return nil
}

// With runs fn while holding the lock.
func (fl *FileLock) With(ctx context.Context, fn func() error) error {
	if err := fl.Lock(ctx); err != nil {
		return err
	}
	defer fl.Unlock()
	return fn()
}
