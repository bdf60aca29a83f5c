// Package kv defines the key-value backend contract the wiki is stored in.
//
// Backends own the persisted bytes only. Interpreting those bytes is left to
// the caller, so a Store never inspects or validates values.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("kv: not found")
	// ErrUnavailable marks transport or storage failures.
	ErrUnavailable = errors.New("kv: backend unavailable")
	// ErrTooLarge is returned by Put when the backend refuses the value size.
	ErrTooLarge = errors.New("kv: value too large")
)

// Store is implemented by every key-value backend.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, in backend order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
