package calendar

import (
	"context"
	"sync"
)

// MemoryStore is an in-process BlobStore for tests and single-process use.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string]memoryBlob
	hub   *notifyHub
}

type memoryBlob struct {
	data    []byte
	version int64
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]memoryBlob),
		hub:   newNotifyHub(),
	}
}

// Load returns the blob and version; a missing key yields (nil, 0, nil).
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, 0, nil
	}
	data := make([]byte, len(blob.data))
	copy(data, blob.data)
	return data, blob.version, nil
}

// Save overwrites the blob iff its version still equals expected.
func (m *MemoryStore) Save(_ context.Context, key string, data []byte, expected int64, origin string) (int64, error) {
	m.mu.Lock()
	blob := m.blobs[key]
	if blob.version != expected {
		m.mu.Unlock()
		return 0, ErrConflict
	}
	next := blob.version + 1
	m.blobs[key] = memoryBlob{data: append([]byte(nil), data...), version: next}
	m.mu.Unlock()

	m.hub.notify(key, origin)
	return next, nil
}

// ForceSave overwrites the blob unconditionally.
func (m *MemoryStore) ForceSave(_ context.Context, key string, data []byte, origin string) (int64, error) {
	m.mu.Lock()
	next := m.blobs[key].version + 1
	m.blobs[key] = memoryBlob{data: append([]byte(nil), data...), version: next}
	m.mu.Unlock()

	m.hub.notify(key, origin)
	return next, nil
}

// Subscribe registers fn for writes to key made by other origins.
func (m *MemoryStore) Subscribe(key, origin string, fn func()) (func(), error) {
	return m.hub.subscribe(key, origin, fn), nil
}

// SetRaw seeds the blob directly, bypassing versioning. Test helper for
// exercising corrupt-blob recovery.
func (m *MemoryStore) SetRaw(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = memoryBlob{data: append([]byte(nil), data...), version: m.blobs[key].version + 1}
}
