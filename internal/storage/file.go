package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

const fileName = "storage.json"

// FileStore keeps every key in one JSON document under the state directory.
// Writes go to a temp file that is renamed over the document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Storage = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, fileName)}, nil
}

// Path returns the location of the backing document
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	observe("file", "get", err)
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err == nil {
		data[key] = value
		err = s.save(data)
	}
	observe("file", "set", err)
	return err
}

func (s *FileStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err == nil {
		for _, key := range keys {
			delete(data, key)
		}
		err = s.save(data)
	}
	observe("file", "remove", err)
	return err
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt document behaves like an empty one so the user can log in again
		logger.Warn("Ignoring unreadable state file", zap.String("path", s.path), zap.Error(err))
		return map[string]string{}, nil
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
