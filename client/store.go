package client

import (
	"encoding/json"
	"os"
	"sync"
)

// Store is the persistence boundary for session state. Keeping it this small
// makes the token storage strategy swappable and testable without touching
// the session itself.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStore keeps values in a small JSON file so sessions survive restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	v, ok := values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	delete(values, key)
	return s.save(values)
}

func (s *FileStore) load() map[string]string {
	values := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	json.Unmarshal(raw, &values)
	return values
}

func (s *FileStore) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
