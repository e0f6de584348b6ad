package logging

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tungetti/starter/internal/errors"
)

// RotatingFile is an append-only log file that rolls over to numbered
// backups (<path>.1 is the newest, <path>.N the oldest) once a write would
// push it past MaxBytes. It is safe for concurrent use.
type RotatingFile struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	backups  int
	file     *os.File
	size     int64
}

// OpenRotatingFile opens (or creates) the active log file at path, appending
// to existing content. maxBytes <= 0 disables size-triggered rollover.
// The parent directory is created if needed.
func OpenRotatingFile(path string, maxBytes int64, backups int) (*RotatingFile, error) {
	if backups < 0 {
		backups = 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.Configuration, "failed to create log directory", err).
			WithOp("logging.OpenRotatingFile")
	}

	r := &RotatingFile{path: path, maxBytes: maxBytes, backups: backups}
	if err := r.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open(mode int) error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|mode, 0644)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to open log file", err).
			WithOp("logging.RotatingFile")
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return errors.Wrap(errors.Configuration, "failed to stat log file", err).
			WithOp("logging.RotatingFile")
	}
	r.file = f
	r.size = info.Size()
	return nil
}

// Write appends p, rolling over first if p would overflow a non-empty file.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}
	if r.maxBytes > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxBytes {
		if err := r.rollover(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Rollover unconditionally shifts the backups and starts an empty active file.
func (r *RotatingFile) Rollover() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollover()
}

// RotateIfNonEmpty rolls over only when the active file has content, so
// repeated startups do not leave empty backups behind. It reports whether a
// rollover happened.
func (r *RotatingFile) RotateIfNonEmpty() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return false, os.ErrClosed
	}
	info, err := r.file.Stat()
	if err != nil {
		return false, errors.Wrap(errors.Configuration, "failed to stat log file", err).
			WithOp("logging.RotateIfNonEmpty")
	}
	if info.Size() == 0 {
		return false, nil
	}
	if err := r.rollover(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RotatingFile) rollover() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return errors.Wrap(errors.Configuration, "failed to close log file", err).
				WithOp("logging.Rollover")
		}
		r.file = nil
	}

	if r.backups > 0 {
		for i := r.backups - 1; i >= 1; i-- {
			src := BackupName(r.path, i)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, BackupName(r.path, i+1)); err != nil {
				return r.reopen(errors.Wrap(errors.Configuration, "failed to shift log backup", err).
					WithOp("logging.Rollover"))
			}
		}
		if err := os.Rename(r.path, BackupName(r.path, 1)); err != nil && !os.IsNotExist(err) {
			return r.reopen(errors.Wrap(errors.Configuration, "failed to rename log file", err).
				WithOp("logging.Rollover"))
		}
	}

	return r.open(os.O_TRUNC)
}

// reopen keeps the sink usable after a failed rollover by appending to the
// active file again. It returns cause.
func (r *RotatingFile) reopen(cause error) error {
	if err := r.open(os.O_APPEND); err != nil {
		return stderrors.Join(cause, err)
	}
	return cause
}

// Path returns the active file path.
func (r *RotatingFile) Path() string {
	return r.path
}

// Size returns the number of bytes in the active file.
func (r *RotatingFile) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Close closes the active file. Further writes fail with os.ErrClosed.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// BackupName returns the path of the n-th backup of the active file.
func BackupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
