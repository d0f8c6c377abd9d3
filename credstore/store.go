// Package credstore provides durable, expiring key/value persistence for
// session credentials. Each key carries its own TTL; a logical credential
// set is written and removed in a single atomic operation so readers never
// observe a partially written set.
package credstore

import "time"

// Entry pairs a value with its time-to-live for batch writes.
type Entry struct {
	Value string
	TTL   time.Duration
}

// Store is the contract the session layer depends on. Implementations must
// be safe for concurrent use and must apply SetAll/RemoveAll atomically with
// respect to readers.
type Store interface {
	Set(key, value string, ttl time.Duration)
	Get(key string) (string, bool)
	Remove(key string)
	SetAll(entries map[string]Entry)
	RemoveAll(keys ...string)
	Clear()
}
