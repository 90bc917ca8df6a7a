// Package storage persists evidence files on disk. File removal is
// best-effort: a missing file is never an error, and callers invoke removal
// only after the owning database transaction has committed.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FileStore stores evidence files under a base directory.
type FileStore struct {
	fs      afero.Fs
	baseDir string
	logger  *logrus.Logger
}

// NewFileStore creates a file store backed by the OS filesystem.
func NewFileStore(baseDir string, logger *logrus.Logger) (*FileStore, error) {
	return NewFileStoreWithFs(afero.NewOsFs(), baseDir, logger)
}

// NewFileStoreWithFs creates a file store over the given filesystem. Tests
// pass an in-memory filesystem here.
func NewFileStoreWithFs(fs afero.Fs, baseDir string, logger *logrus.Logger) (*FileStore, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{
		fs:      fs,
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save writes the reader's content to a new file with a generated name and
// returns the stored path and byte count. The original file name is kept in
// the database row, never on disk.
func (s *FileStore) Save(r io.Reader, ext string) (string, int64, error) {
	name := uuid.New().String() + ext
	path := filepath.Join(s.baseDir, name)

	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create evidence file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		_ = s.fs.Remove(path)
		return "", 0, fmt.Errorf("failed to write evidence file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = s.fs.Remove(path)
		return "", 0, fmt.Errorf("failed to close evidence file: %w", err)
	}

	return path, size, nil
}

// Open opens a stored file for reading.
func (s *FileStore) Open(path string) (afero.File, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence file: %w", err)
	}
	return f, nil
}

// Exists reports whether a stored file is present.
func (s *FileStore) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Remove deletes a stored file. A file that is already absent is not an
// error; removal is idempotent.
func (s *FileStore) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove evidence file: %w", err)
	}
	return nil
}

// RemoveAll deletes the given stored files after a cascade delete has
// committed. Failures are logged, never returned: the rows are already gone
// and the operation must not be reported as failed.
func (s *FileStore) RemoveAll(paths []string) {
	for _, path := range paths {
		if err := s.Remove(path); err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to remove evidence file")
		}
	}
}
