// Package filemanager provides process-safe YAML document storage.
//
// Every operation takes a flock on a sidecar "<path>.lock" file, writes go
// through a temp file and rename so readers never observe a partial document,
// and Update re-checks the file's stat before writing to detect writers that
// do not use the lock.
package filemanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConcurrentModification is returned when a file has been modified since it was read
	ErrConcurrentModification = errors.New("file was modified concurrently")

	// ErrLockTimeout is returned when acquiring a file lock times out
	ErrLockTimeout = errors.New("timeout acquiring file lock")

	// ErrDecode is returned when a file exists but is not a valid document
	ErrDecode = errors.New("failed to decode document")
)

const lockRetryDelay = 50 * time.Millisecond

// FileInfo is the stat snapshot used for compare-and-swap writes
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

func (i *FileInfo) matches(stat os.FileInfo) bool {
	return stat.ModTime().Equal(i.ModTime) && stat.Size() == i.Size
}

// UpdateFunc modifies a document in place
type UpdateFunc[T any] func(data *T) error

// Manager reads and writes documents of type T
type Manager[T any] struct {
	lockTimeout time.Duration
}

// NewManager creates a file manager with a 5 second lock timeout
func NewManager[T any]() *Manager[T] {
	return NewManagerWithTimeout[T](5 * time.Second)
}

// NewManagerWithTimeout creates a file manager with a custom lock timeout
func NewManagerWithTimeout[T any](timeout time.Duration) *Manager[T] {
	return &Manager[T]{lockTimeout: timeout}
}

// LockPath returns the sidecar lock file used for path
func LockPath(path string) string {
	return path + ".lock"
}

// Read decodes the document at path under a shared lock.
// A missing file yields an error satisfying os.IsNotExist.
func (m *Manager[T]) Read(ctx context.Context, path string) (*T, *FileInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}

	var (
		data *T
		info *FileInfo
	)
	err := m.withLock(ctx, path, false, func() error {
		var err error
		data, info, err = readLocked[T](path)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return data, info, nil
}

// Write replaces the document at path under an exclusive lock
func (m *Manager[T]) Write(ctx context.Context, path string, data *T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return m.withLock(ctx, path, true, func() error {
		return writeLocked(path, data)
	})
}

// WriteWithCAS writes data only if the file still matches expected.
// A nil expected skips the check.
func (m *Manager[T]) WriteWithCAS(ctx context.Context, path string, data *T, expected *FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return m.withLock(ctx, path, true, func() error {
		if expected != nil {
			stat, err := os.Stat(path)
			switch {
			case err == nil:
				if !expected.matches(stat) {
					return ErrConcurrentModification
				}
			case !os.IsNotExist(err):
				return fmt.Errorf("failed to stat file: %w", err)
			}
		}
		return writeLocked(path, data)
	})
}

// Update applies fn to the current document and writes the result back.
// A missing file starts from the zero value of T. Concurrent modifications
// are retried a bounded number of times.
func (m *Manager[T]) Update(ctx context.Context, path string, fn UpdateFunc[T]) error {
	const maxRetries = 10

	for attempt := 0; attempt < maxRetries; attempt++ {
		data, info, err := m.Read(ctx, path)
		if err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read file: %w", err)
			}
			data, info = new(T), nil
		}

		if err := fn(data); err != nil {
			return fmt.Errorf("update function failed: %w", err)
		}

		err = m.WriteWithCAS(ctx, path, data, info)
		if errors.Is(err, ErrConcurrentModification) {
			continue
		}
		return err
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, ErrConcurrentModification)
}

func (m *Manager[T]) withLock(ctx context.Context, path string, exclusive bool, fn func() error) error {
	lock := flock.New(LockPath(path))

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrLockTimeout
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func readLocked[T any](path string) (*T, *FileInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	var result T
	if err := yaml.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	return &result, &FileInfo{
		Path:    path,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}, nil
}

func writeLocked[T any](path string, data *T) error {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}

	tempFile := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(encoded); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	_ = f.Sync()
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
