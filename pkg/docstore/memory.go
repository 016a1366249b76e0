package docstore

import (
	"context"
	"slices"
	"sync"

	fwerrors "github.com/framewright/framewright/pkg/errors"
)

// MemoryStore keeps documents in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Kind returns "memory".
func (m *MemoryStore) Kind() string { return "memory" }

// Load returns a copy of the stored document.
func (m *MemoryStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data.
func (m *MemoryStore) Save(ctx context.Context, id string, data []byte) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = slices.Clone(data)
	return nil
}

// Delete removes id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

// List returns the stored ids.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (m *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
