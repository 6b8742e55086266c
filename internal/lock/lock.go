// Package lock keeps two racoon runs from writing into the same directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the lock file created in the locked directory.
const FileName = ".racoon.lock"

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another racoon run is already using this directory")

// Lock represents a file-based lock on a directory.
type Lock struct {
	path string
	file *os.File
}

// New creates a lock for dir. Nothing is touched until Acquire.
func New(dir string) *Lock {
	return &Lock{path: filepath.Join(dir, FileName)}
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Acquire takes the lock without blocking. It returns ErrLocked if the
// lock is already held.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		f.Close()
		l.file = nil
		return err
	}

	// PID for debugging
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release releases the lock and removes the lock file.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	err := unlockFile(l.file)
	l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	os.Remove(l.path)
	return nil
}

// WithLock runs fn while holding the lock on dir.
func WithLock(dir string, fn func() error) error {
	lock := New(dir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}
