package repository

import (
	"context"
	"sync"

	"github.com/ca-srg/tzexplorer/domain/repository"
)

// MemoryPreferenceRepository keeps preferences for the life of the process.
// It stands in when the SQLite store cannot be opened.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryPreferenceRepository creates an empty in-memory store
func NewMemoryPreferenceRepository() repository.PreferenceRepository {
	return &MemoryPreferenceRepository{items: make(map[string]string)}
}

func (r *MemoryPreferenceRepository) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[key]
	return value, ok, nil
}

func (r *MemoryPreferenceRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
	return nil
}

func (r *MemoryPreferenceRepository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
	return nil
}

// Watch returns a closed channel; nothing else can write to process memory
func (r *MemoryPreferenceRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	out := make(chan struct{})
	close(out)
	return out, nil
}

func (r *MemoryPreferenceRepository) Close() error {
	return nil
}
