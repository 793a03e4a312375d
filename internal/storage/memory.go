package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"upcheck/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used by tests. Documents are held as
// marshaled JSON so reads hand back copies with the same round-trip semantics
// as the file store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]json.RawMessage)}
}

func (s *MemoryStore) Create(_ context.Context, collection, key string, value any) error {
	data, err := encode(collection, key, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[collection]
	if col == nil {
		col = make(map[string]json.RawMessage)
		s.collections[collection] = col
	}
	if _, ok := col[key]; ok {
		return sentinel.ErrConflict
	}
	col[key] = data
	return nil
}

func (s *MemoryStore) Read(_ context.Context, collection, key string, out any) error {
	if err := validateNames(collection, key); err != nil {
		return err
	}
	s.mu.RLock()
	data, ok := s.collections[collection][key]
	s.mu.RUnlock()
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, key string, value any) error {
	data, err := encode(collection, key, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][key]; !ok {
		return sentinel.ErrNotFound
	}
	s.collections[collection][key] = data
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	if err := validateNames(collection, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.collections[collection], key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]string, error) {
	if err := ValidateName(collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.collections[collection] {
		keys = append(keys, key)
	}
	return keys, nil
}

func encode(collection, key string, value any) (json.RawMessage, error) {
	if err := validateNames(collection, key); err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document %s/%s: %w", collection, key, err)
	}
	return data, nil
}

func validateNames(collection, key string) error {
	if err := ValidateName(collection); err != nil {
		return err
	}
	return ValidateName(key)
}
