package kv

import (
	"context"
)

// UpdateFunc receives the current value (nil when the key is absent) and
// returns the value to store. Returning an error aborts the update and
// nothing is written.
type UpdateFunc func(old []byte) ([]byte, error)

// Repository is a key-value store scoped to one local client.
type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Update runs a read-modify-write of key atomically with respect to
	// other Update/Set/Delete calls on the same repository.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
