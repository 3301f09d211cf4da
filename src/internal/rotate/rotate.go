// FILE: elklog/src/internal/rotate/rotate.go

// Package rotate provides a size-bounded log file with numbered backups.
//
// The active file is rolled over before a write that would take it to or
// past MaxSize: name.log.(N-1) becomes name.log.N, ..., name.log becomes
// name.log.1, and the oldest backup beyond the retention count is removed.
// A single write larger than MaxSize still lands in one file, so the active
// file never exceeds MaxSize by more than one record.
package rotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrRotate marks a failed rollover. The record that triggered it is still
// appended to the reopened active file, which keeps growing until a later
// rollover succeeds.
var ErrRotate = errors.New("rotate: rollover failed")

// File is a rotating append-only file. It is safe for concurrent use; a
// write and any rotation it triggers happen under one lock.
type File struct {
	path    string
	maxSize int64
	backups int

	mu     sync.Mutex
	file   *os.File
	size   int64
	closed bool
}

// Open opens (or creates) the active file at path. maxSize <= 0 disables
// rotation; backups is the number of rolled files kept.
func Open(path string, maxSize int64, backups int) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("rotate: empty path")
	}
	if backups < 0 {
		backups = 0
	}

	f := &File{
		path:    path,
		maxSize: maxSize,
		backups: backups,
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("rotate: failed to create directory %s: %w", dir, err)
		}
	}
	if err := f.openExisting(); err != nil {
		return nil, err
	}
	return f, nil
}

// Write appends p to the active file, rolling over first if needed. When
// the rollover fails p is written anyway and the returned error wraps
// ErrRotate with n == len(p).
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureOpen(); err != nil {
		return 0, err
	}

	var rotateErr error
	if f.shouldRotate(int64(len(p))) {
		if err := f.rotate(); err != nil {
			if f.file == nil {
				return 0, err
			}
			rotateErr = fmt.Errorf("%w: %w", ErrRotate, err)
		}
	}

	n, err := f.file.Write(p)
	f.size += int64(n)
	if err != nil {
		return n, err
	}
	return n, rotateErr
}

// Rotate forces a rollover regardless of the current size.
func (f *File) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.rotate()
}

// Close closes the active file. Further writes fail with fs.ErrClosed.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Path returns the active file path.
func (f *File) Path() string {
	return f.path
}

// Size returns the current size of the active file.
func (f *File) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// BackupName returns the path of the n-th backup, 1 being the newest.
func (f *File) BackupName(n int) string {
	return fmt.Sprintf("%s.%d", f.path, n)
}

// Backups lists the backup files currently on disk, newest first.
func (f *File) Backups() []string {
	var found []string
	for i := 1; i <= f.backups; i++ {
		name := f.BackupName(i)
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	return found
}

func (f *File) shouldRotate(n int64) bool {
	if f.maxSize <= 0 {
		return false
	}
	// An empty file takes the write even when it alone is oversized
	if f.size == 0 {
		return false
	}
	return f.size+n >= f.maxSize
}

// ensureOpen reopens the active file after a failed rollover left it
// closed. Only an explicit Close makes the file unusable.
func (f *File) ensureOpen() error {
	if f.closed {
		return fs.ErrClosed
	}
	if f.file == nil {
		return f.openExisting()
	}
	return nil
}

func (f *File) rotate() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("rotate: failed to close %s: %w", f.path, err)
	}
	f.file = nil

	if err := f.rollover(); err != nil {
		// Keep appending to whatever is at the active path
		if reopenErr := f.openExisting(); reopenErr != nil {
			return errors.Join(err, reopenErr)
		}
		return err
	}
	return nil
}

func (f *File) rollover() error {
	if f.backups > 0 {
		if err := f.shiftBackups(); err != nil {
			return err
		}
		if err := os.Rename(f.path, f.BackupName(1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("rotate: failed to rename %s: %w", f.path, err)
		}
	}

	return f.openNew()
}

// shiftBackups moves name.i to name.i+1, dropping the oldest.
func (f *File) shiftBackups() error {
	oldest := f.BackupName(f.backups)
	if err := os.Remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("rotate: failed to remove %s: %w", oldest, err)
	}

	for i := f.backups - 1; i >= 1; i-- {
		src := f.BackupName(i)
		dst := f.BackupName(i + 1)
		if err := os.Rename(src, dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("rotate: failed to rename %s: %w", src, err)
		}
	}
	return nil
}

func (f *File) openExisting() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("rotate: failed to open %s: %w", f.path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("rotate: failed to stat %s: %w", f.path, err)
	}
	f.file = file
	f.size = info.Size()
	return nil
}

func (f *File) openNew() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("rotate: failed to open %s: %w", f.path, err)
	}
	f.file = file
	f.size = 0
	return nil
}
