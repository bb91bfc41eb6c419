// Package cache provides intersect.Store implementations.
package cache

import (
	"sync"

	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/types"
)

// MemoryStore is a concurrency-safe in-process store. Results are copied on
// the way in and out so callers can not mutate stored entries.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*intersect.Raw
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*intersect.Raw),
	}
}

// Get implements intersect.Store.
func (s *MemoryStore) Get(key string) (*intersect.Raw, bool, error) {
	s.mu.RLock()
	raw, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return cloneRaw(raw), true, nil
}

// Put implements intersect.Store.
func (s *MemoryStore) Put(key string, raw *intersect.Raw) error {
	cp := cloneRaw(raw)
	s.mu.Lock()
	s.items[key] = cp
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored results.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func cloneRaw(raw *intersect.Raw) *intersect.Raw {
	return &intersect.Raw{
		Locations: append([]types.Vec3(nil), raw.Locations...),
		RayIndex:  append([]int(nil), raw.RayIndex...),
		NumRays:   raw.NumRays,
	}
}
