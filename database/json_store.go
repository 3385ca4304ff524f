package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps an exchange store as a single JSON object on disk.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// NewJSONStores opens one JSONStore per name inside dir.
func NewJSONStores(dir string, names []string) ExchangeStores {
	stores := make(ExchangeStores, 0, len(names))
	for _, name := range names {
		stores = append(stores, NewJSONStore(filepath.Join(dir, name)))
	}
	return stores
}

func (s *JSONStore) Name() string {
	return filepath.Base(s.path)
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Upsert(_ context.Context, request, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[request] = response
	return s.write(data)
}

func (s *JSONStore) Get(_ context.Context, request string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[request]
	return value, ok, nil
}

func (s *JSONStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(map[string]string{})
}

// load returns an empty map when the file does not exist yet.
func (s *JSONStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return data, nil
}

func (s *JSONStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
