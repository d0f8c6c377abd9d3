package credstore

import (
	"sync"
	"time"
)

const cleanupInterval = 1 * time.Minute

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is a thread-safe in-memory Store with per-key TTL. Expired entries
// are dropped lazily on read and swept periodically until Close.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	done    chan struct{}
	once    sync.Once

	// now is overridable in tests.
	now func() time.Time
}

// NewMemory creates an in-memory store and starts its cleanup loop.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go m.cleanupLoop()
	return m
}

// Set stores value under key. A non-positive ttl means no expiry.
func (m *Memory) Set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = m.newEntry(value, ttl)
}

// Get returns the value for key if present and not expired.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	e, found := m.entries[key]
	m.mu.RUnlock()
	if !found {
		return "", false
	}
	if e.expired(m.now()) {
		m.Remove(key)
		return "", false
	}
	return e.value, true
}

// Remove deletes key.
func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// SetAll writes every entry under one lock acquisition.
func (m *Memory) SetAll(entries map[string]Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range entries {
		m.entries[key] = m.newEntry(e.Value, e.TTL)
	}
}

// RemoveAll deletes every key under one lock acquisition.
func (m *Memory) RemoveAll(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
}

// Clear drops everything.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

// Close stops the cleanup loop. Safe to call more than once.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Memory) newEntry(value string, ttl time.Duration) entry {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	return e
}

func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
		}
	}
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}
