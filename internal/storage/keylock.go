package storage

import "sync"

// KeyMutex provides an exclusive critical section per key while leaving
// distinct keys fully concurrent. The file store uses one internally to
// serialize writers on a document, and services take their own instance to
// span read-modify-write sequences over an owner record.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*keyLockEntry)}
}

// Lock acquires the exclusive lock for key and returns the matching unlock.
// Entries are reference counted so the map does not grow with every key ever
// seen.
func (m *KeyMutex) Lock(key string) (unlock func()) {
	m.mu.Lock()
	e := m.entries[key]
	if e == nil {
		e = &keyLockEntry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}
