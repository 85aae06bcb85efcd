package kv

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmitrijs2005/scenevault/internal/common"
)

// MemoryRepository keeps everything in process memory. Values are copied on
// the way in and out so callers cannot alias stored bytes.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[Namespace]map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[Namespace]map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, ns Namespace, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[ns][key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return bytes.Clone(v), nil
}

func (r *MemoryRepository) Set(ctx context.Context, ns Namespace, key string, value []byte) error {
	if value == nil {
		return r.Delete(ctx, ns, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(ns, key, value)
	return nil
}

func (r *MemoryRepository) Has(_ context.Context, ns Namespace, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.data[ns][key]
	return ok, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ns Namespace, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data[ns], key)
	return nil
}

// Update runs fn under the repository write lock.
func (r *MemoryRepository) Update(_ context.Context, ns Namespace, key string, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, found := r.data[ns][key]
	next, err := fn(bytes.Clone(old), found)
	if err != nil {
		return err
	}
	if next == nil {
		delete(r.data[ns], key)
		return nil
	}
	r.put(ns, key, next)
	return nil
}

func (r *MemoryRepository) put(ns Namespace, key string, value []byte) {
	bucket, ok := r.data[ns]
	if !ok {
		bucket = make(map[string][]byte)
		r.data[ns] = bucket
	}
	bucket[key] = bytes.Clone(value)
}
