// Package storage is the persistence boundary of the frontend: a small
// key-value store standing in for browser local storage. One well-known key
// holds the serialized session, another the transient cart. No other
// component writes to those keys.
package storage

import "github.com/chronoluxe/rental-frontend/internal/errors"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.ErrNotFound

// Store is the browser-storage analog. Values are opaque byte blobs;
// callers own serialization.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Remove(key string) error
}
