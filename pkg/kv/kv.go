// Package kv provides the key-value storage layer for profile and session
// records. Keys are hierarchical paths represented as string slices
// (e.g., ["profile", "alice"]) joined with '/' for storage.
//
// Two backends are provided: a BadgerDB-backed store for on-disk
// persistence and an in-memory store for tests. Both are safe for
// concurrent use.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments in the encoded representation.
// Key segments must not contain it.
const Separator byte = '/'

// Key is a hierarchical path represented as a slice of segments.
// Key{"profile", "alice"} encodes to "profile/alice".
type Key []string

// String returns the encoded form of the key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

// encode converts a Key to its stored byte representation.
func encode(k Key) []byte {
	n := 0
	for i, seg := range k {
		if i > 0 {
			n++
		}
		n += len(seg)
	}
	buf := make([]byte, 0, n)
	for i, seg := range k {
		if i > 0 {
			buf = append(buf, Separator)
		}
		buf = append(buf, seg...)
	}
	return buf
}

// decode converts a stored byte representation back to a Key.
func decode(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the interface both backends implement.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Removing an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates over all entries under the given prefix in
	// lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close flushes pending writes and releases resources.
	Close() error
}
