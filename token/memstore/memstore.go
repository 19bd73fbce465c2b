package memstore

import (
	"sync"

	"github.com/jrsteele09/go-jobportal-client/token"
)

var _ token.KV = (*MemStore)(nil)

// MemStore keeps the session in process memory only. It is the fallback when no
// durable location is usable, and the backend used by tests.
type MemStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func New() *MemStore {
	return &MemStore{
		values: make(map[string]string),
	}
}

func (m *MemStore) Get(key string) (string, bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Set(values map[string]string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemStore) Delete(keys ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Len returns the number of stored keys
func (m *MemStore) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.values)
}
