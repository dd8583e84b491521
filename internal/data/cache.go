package data

import (
	"sync"
	"time"
)

// fileEntry is a parsed price file plus what we need to detect staleness.
type fileEntry struct {
	ModTime   time.Time
	Size      int64
	Rows      *priceFile
	ExpiresAt time.Time
}

// FileCache keeps parsed price files in memory so repeated windows over the
// same file skip re-reading and re-parsing it. Entries are invalidated when
// the file's modification time or size changes, or after the TTL.
//
// A nil *FileCache is valid and caches nothing.
type FileCache struct {
	mu    sync.RWMutex
	store map[string]*fileEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewFileCache returns a cache with the given TTL, or nil when ttl <= 0.
func NewFileCache(ttl time.Duration) *FileCache {
	if ttl <= 0 {
		return nil
	}
	return &FileCache{
		store: make(map[string]*fileEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached file if present, fresh and unchanged on disk.
func (c *FileCache) Get(path string, modTime time.Time, size int64) (*priceFile, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	entry, exists := c.store[path]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) || !entry.ModTime.Equal(modTime) || entry.Size != size {
		c.mu.Lock()
		if cur, ok := c.store[path]; ok && cur == entry {
			delete(c.store, path)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.Rows, true
}

// Set stores a parsed file.
func (c *FileCache) Set(path string, modTime time.Time, size int64, rows *priceFile) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[path] = &fileEntry{
		ModTime:   modTime,
		Size:      size,
		Rows:      rows,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *FileCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*fileEntry)
}

// Len reports the number of cached files.
func (c *FileCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
