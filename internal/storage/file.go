package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Compile-time interface check.
var _ domain.SecureStore = (*FileStore)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one file per key inside a private directory. Files are
// written with 0600 permissions and replaced atomically (temp + rename),
// so a crash mid-write never leaves a truncated session record behind.
type FileStore struct {
	mu  sync.Mutex
	dir string
	log *logger.Logger
}

// NewFileStore creates the directory (0700) if needed and returns a store
// rooted at it.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

// Get reads the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("key not found on disk: %s", key)
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("file store: read %s: %w", key, err)
	}
	return string(data), nil
}

// Set writes value under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("file store: temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("file store: chmod %s: %w", key, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("file store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("file store: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("file store: rename %s: %w", key, err)
	}

	s.log.Debug("stored %s on disk (%d bytes)", key, len(value))
	return nil
}

// Delete removes the file for key. A missing file is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: delete %s: %w", key, err)
	}
	s.log.Debug("deleted %s from disk", key)
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("file store: key %q: %w", key, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, key), nil
}
