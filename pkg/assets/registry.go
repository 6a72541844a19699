package assets

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds assets belonging to one editing session.
//
// Dropped images live here until storage uploads them; the deck
// references them as "asset://<id>". Each session owns its own Registry,
// so sessions never observe each other's assets.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	types map[string]string
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

// Add stores data under a fresh ID and returns the loader reference
// ("asset://<id>") for it.
func (r *Registry) Add(data []byte, contentType string) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[id] = data
	r.types[id] = contentType
	return assetScheme + id
}

// Get returns the blob for id.
func (r *Registry) Get(id string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.blobs[id]
	return data, ok
}

// ContentType returns the stored MIME type for id, or "" if unknown.
func (r *Registry) ContentType(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[id]
}

// Remove deletes id from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, id)
	delete(r.types, id)
}

// Len reports the number of stored assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
