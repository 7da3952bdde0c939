// Package store provides the durable key-value blob store backing the todo
// service: a file backend with atomic writes and checksums, an in-memory
// backend for tests, and a SQLite backend.
package store

// BlobStore is a durable key-value blob store. Get returns
// types.ErrKeyNotFound when the key holds no value. Put replaces any
// existing value atomically. Implementations are synchronous and blocking.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}
