package store

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*Object),
	}
}

// Put publishes an object under the given path. The content type is derived
// from the path extension when empty.
func (s *MemoryStore) Put(objectPath string, body []byte, contentType string) {
	if contentType == "" {
		contentType = contentTypeForPath(objectPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = &Object{
		Body:        body,
		ContentType: contentType,
	}
}

// Delete removes the object at the given path, if any.
func (s *MemoryStore) Delete(objectPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectPath)
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, objectPath string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Path: objectPath, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[objectPath]
	if !ok {
		return nil, ErrNotFound
	}
	return obj, nil
}
