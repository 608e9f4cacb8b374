package registry

import "sync"

// StorageEntry describes one registered storage: the drive-qualified root
// used by the VolumeProvider and the human-readable label reported to the
// host.
type StorageEntry struct {
	MountPrefix string
	Label       string
}

// StorageRegistry maps StorageId to its StorageEntry, preserving
// registration order for GetStorageIds.
type StorageRegistry struct {
	mu      sync.Mutex
	order   []uint32
	entries map[uint32]StorageEntry
}

// NewStorageRegistry returns an empty registry.
func NewStorageRegistry() *StorageRegistry {
	return &StorageRegistry{
		entries: make(map[uint32]StorageEntry),
	}
}

// Insert registers (or replaces) the entry for id.
func (r *StorageRegistry) Insert(id uint32, mountPrefix, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = StorageEntry{MountPrefix: mountPrefix, Label: label}
}

// Lookup returns the entry for id, or ok=false if unregistered.
func (r *StorageRegistry) Lookup(id uint32) (StorageEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	return e, ok
}

// IDs returns all registered storage ids in registration order.
func (r *StorageRegistry) IDs() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, len(r.order))
	copy(ids, r.order)
	return ids
}

// FindByPrefix returns the storage id whose mount prefix is a path's
// leading component, determined by a "prefix:/" match, and ok=false if no
// registered storage owns it.
func (r *StorageRegistry) FindByPrefix(path string) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		prefix := r.entries[id].MountPrefix + ":/"
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			return id, true
		}
	}
	return 0, false
}
