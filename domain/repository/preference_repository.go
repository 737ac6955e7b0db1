package repository

import "context"

// PreferenceRepository is a small persistent key/value store.
type PreferenceRepository interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool, error)

	Set(key, value string) error

	Delete(key string) error

	// Watch emits a signal whenever the backing store is modified by any
	// writer, this process included. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)

	Close() error
}
