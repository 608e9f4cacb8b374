// Package registry implements the object-handle allocator and the storage
// registry the transaction engine consults during dispatch.
package registry

import "sync"

// HandleRegistry is a two-way mapping between ObjectHandle (1-based, dense,
// monotonically assigned) and filesystem path. Entries are never removed:
// handles stay valid for the lifetime of the responder process, including
// across CloseSession (see the spec's open question on session-scoped
// eviction — this registry deliberately does not evict).
type HandleRegistry struct {
	mu           sync.Mutex
	pathToHandle map[string]uint32
	handleToPath map[uint32]string
	next         uint32
}

// NewHandleRegistry returns an empty registry. The first handle issued is 1;
// 0 is reserved to mean "no parent" / "root of a storage".
func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{
		pathToHandle: make(map[string]uint32),
		handleToPath: make(map[uint32]string),
		next:         1,
	}
}

// GetOrInsert returns the handle for path, allocating a new one if path has
// never been seen. Both directions of the mapping stay O(1) amortized.
func (r *HandleRegistry) GetOrInsert(path string) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.pathToHandle[path]; ok {
		return h
	}
	h := r.next
	r.next++
	r.pathToHandle[path] = h
	r.handleToPath[h] = path
	return h
}

// Lookup returns the path stored for handle, or ok=false if it was never
// issued.
func (r *HandleRegistry) Lookup(handle uint32) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, ok := r.handleToPath[handle]
	return path, ok
}

// Len reports the number of distinct paths that have been assigned a
// handle.
func (r *HandleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pathToHandle)
}
