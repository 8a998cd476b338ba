package storage

import (
	"context"
	"sync"
)

/*
Memstore is an in-memory storage provider backed by a map. It is only suitable
for tests.
*/

////////////////////////////////////////////////////////////////////////////////

// MemStore is an in-memory store.
type MemStore struct {
	data map[string][]byte
	mtx  *sync.RWMutex
}

// Put stores an object in the store.
func (m *MemStore) Put(_ context.Context, id string, data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.data[id] = data
	return nil
}

// GetRange retrieves a range of bytes from an object in the store.
func (m *MemStore) GetRange(_ context.Context, id string, offset int64, length int) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	data, ok := m.data[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	if offset < 0 || offset+int64(length) > int64(len(data)) {
		return nil, ErrInvalidRange
	}
	return data[offset : offset+int64(length)], nil
}

// Size returns the size of an object in the store.
func (m *MemStore) Size(_ context.Context, id string) (int64, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	data, ok := m.data[id]
	if !ok {
		return 0, ErrObjectNotFound
	}
	return int64(len(data)), nil
}

// Delete removes an object from the store.
func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.data, id)
	return nil
}

func (m *MemStore) String() string {
	return "memory"
}

// NewMemStore returns a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string][]byte),
		mtx:  &sync.RWMutex{},
	}
}
