package sfc

import (
	"fmt"
	"path/filepath"
	"sync"
)

// DescriptorCache is the read side of the descriptor table that the parser
// stage fills. Lookups are keyed by the canonical resource path.
type DescriptorCache interface {
	Get(path string) (*Descriptor, bool)
}

// Cache is a concurrency-safe in-memory DescriptorCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Descriptor
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Descriptor)}
}

func (c *Cache) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("sfc.Cache{Entries: %d}", len(c.entries))
}

// Set stores the descriptor for path, replacing any previous entry.
func (c *Cache) Set(path string, d *Descriptor) error {
	if path == "" {
		return ErrEmptyPath
	}
	if d == nil {
		return ErrDescriptorNil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[canonicalPath(path)] = d
	return nil
}

// Get returns the descriptor cached for path.
func (c *Cache) Get(path string) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[canonicalPath(path)]
	return d, ok
}

// Delete removes the entry for path.
func (c *Cache) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, canonicalPath(path))
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func canonicalPath(path string) string {
	return filepath.Clean(path)
}
