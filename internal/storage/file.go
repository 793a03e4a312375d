package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"upcheck/pkg/platform/sentinel"
)

const fileSuffix = ".json"

// FileStore keeps one JSON file per document under
// <baseDir>/<collection>/<key>.json.
//
// Writes publish atomically: content goes to a temp file in the collection
// directory, is synced, then renamed over the target, so a concurrent reader
// sees either the old document or the new one, never a torn write. A per-path
// lock serializes writers on the same document without serializing the store.
type FileStore struct {
	baseDir string
	locks   *KeyMutex
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir, locks: NewKeyMutex()}, nil
}

func (s *FileStore) Create(_ context.Context, collection, key string, value any) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(collection + "/" + key)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	if _, err := os.Stat(path); err == nil {
		return sentinel.ErrConflict
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat document %s/%s: %w", collection, key, err)
	}
	return s.publish(path, collection, key, value)
}

func (s *FileStore) Read(_ context.Context, collection, key string, out any) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(collection + "/" + key)
	defer unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read document %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FileStore) Update(_ context.Context, collection, key string, value any) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(collection + "/" + key)
	defer unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return sentinel.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("stat document %s/%s: %w", collection, key, err)
	}
	return s.publish(path, collection, key, value)
}

func (s *FileStore) Delete(_ context.Context, collection, key string) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(collection + "/" + key)
	defer unlock()

	if err := os.Remove(path); os.IsNotExist(err) {
		return sentinel.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, key, err)
	}
	return nil
}

// List returns the keys of every document in a collection. A collection that
// was never written to is simply empty.
func (s *FileStore) List(_ context.Context, collection string) ([]string, error) {
	if err := ValidateName(collection); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileSuffix))
	}
	return keys, nil
}

func (s *FileStore) path(collection, key string) (string, error) {
	if err := ValidateName(collection); err != nil {
		return "", err
	}
	if err := ValidateName(key); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, collection, key+fileSuffix), nil
}

// publish writes value to a temp file and renames it over path. Callers hold
// the per-path lock.
func (s *FileStore) publish(path, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("stage document %s/%s: %w", collection, key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write document %s/%s: %w", collection, key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync document %s/%s: %w", collection, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close document %s/%s: %w", collection, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish document %s/%s: %w", collection, key, err)
	}
	return nil
}
