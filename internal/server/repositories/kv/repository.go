// Package kv provides the namespaced key-value repositories that hold scene
// blobs and scene indexes. Backends: in-memory, PostgreSQL, SQLite and S3.
//
// A Repository offers no atomicity across keys. Backends that can lock a
// single key additionally implement Updater.
package kv

import "context"

// Namespace partitions the key space.
type Namespace string

const (
	NamespaceScenes   Namespace = "scenes"
	NamespaceSettings Namespace = "settings"
)

// Repository is the key-value contract consumed by the scene store.
type Repository interface {
	// Get returns the stored value or common.ErrorNotFound.
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)
	// Set stores value under key. A nil value deletes the key.
	Set(ctx context.Context, ns Namespace, key string, value []byte) error
	// Has reports whether key exists without reading its value.
	Has(ctx context.Context, ns Namespace, key string) (bool, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, ns Namespace, key string) error
}

// UpdateFunc receives the current value (found=false when absent) and
// returns the value to store. Returning a nil value deletes the key.
type UpdateFunc func(old []byte, found bool) ([]byte, error)

// Updater is implemented by backends that can run a read-modify-write on a
// single key without interleaving with other writers of that key.
type Updater interface {
	Update(ctx context.Context, ns Namespace, key string, fn UpdateFunc) error
}
