package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// DirLock is an exclusive cross-process lock on an index directory. Only the
// holder may open the directory for writing. flock(2) semantics also make a
// second lock on the same path fail inside one process.
type DirLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewDirLock creates a lock for dir. The lock file lives at <dir>/.writer.lock.
func NewDirLock(dir string) *DirLock {
	p := LockPath(dir)
	return &DirLock{path: p, flock: flock.New(p)}
}

// TryLock attempts to take the lock without blocking. It returns false when
// another holder owns it.
func (l *DirLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Calling it on an unlocked DirLock is a no-op.
func (l *DirLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *DirLock) Path() string { return l.path }

// IsLocked reports whether this DirLock holds the lock.
func (l *DirLock) IsLocked() bool { return l.locked }
