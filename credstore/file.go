package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// File is a Store backed by a JSON snapshot on disk, so a session survives
// process restarts the way a browser cookie jar survives page reloads.
// Every mutation rewrites the snapshot via a rename, which keeps the file
// readable by a concurrent process even mid-write.
type File struct {
	mu      sync.RWMutex
	path    string
	entries map[string]fileEntry

	now func() time.Time
}

// OpenFile loads (or creates) a file-backed store at path. Expired entries
// are dropped on load.
func OpenFile(path string) (*File, error) {
	f := &File{
		path:    path,
		entries: make(map[string]fileEntry),
		now:     time.Now,
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("credstore: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	var entries map[string]fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("credstore: corrupt store %s: %w", f.path, err)
	}
	now := f.now()
	for key, e := range entries {
		if !e.expired(now) {
			f.entries[key] = e
		}
	}
	return nil
}

// persist must be called with f.mu held for writing.
func (f *File) persist() {
	data, err := json.Marshal(f.entries)
	if err != nil {
		return
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, f.path)
}

// Set stores value under key. A non-positive ttl means no expiry.
func (f *File) Set(key, value string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = f.newEntry(value, ttl)
	f.persist()
}

// Get returns the value for key if present and not expired.
func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	e, found := f.entries[key]
	f.mu.RUnlock()
	if !found || e.expired(f.now()) {
		return "", false
	}
	return e.Value, true
}

// Remove deletes key.
func (f *File) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	f.persist()
}

// SetAll writes every entry and persists the snapshot once.
func (f *File) SetAll(entries map[string]Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, e := range entries {
		f.entries[key] = f.newEntry(e.Value, e.TTL)
	}
	f.persist()
}

// RemoveAll deletes every key and persists the snapshot once.
func (f *File) RemoveAll(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	f.persist()
}

// Clear drops everything including the on-disk snapshot content.
func (f *File) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]fileEntry)
	f.persist()
}

// Path returns the snapshot location, e.g. for diagnostics.
func (f *File) Path() string {
	return filepath.Clean(f.path)
}

func (f *File) newEntry(value string, ttl time.Duration) fileEntry {
	e := fileEntry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = f.now().Add(ttl)
	}
	return e
}
