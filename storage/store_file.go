package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists values as files under a data folder, one file per key.
// Used when a browser's state should survive a process restart.
type FileStore struct {
	mu     sync.Mutex
	folder string
}

// NewFileStore creates the data folder if needed and returns a store over it.
func NewFileStore(folder string) (*FileStore, error) {
	if folder == "" {
		return nil, errors.New("[NewFileStore] folder is required")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}
	return &FileStore{folder: folder}, nil
}

func (s *FileStore) Read(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore Read]")
	}
	return value, nil
}

func (s *FileStore) Write(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, value, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore Write]")
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore Remove]")
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	// Keys are storage names like "auth", never paths
	if strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.folder, key+".json"), nil
}
