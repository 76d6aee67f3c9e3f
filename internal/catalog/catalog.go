// Package catalog holds the read-only item definitions pushed by the host.
package catalog

import (
	"maps"
	"sync"
)

// Lookup resolves an item identifier to its definition.
type Lookup interface {
	Lookup(id string) (*Definition, bool)
}

// Catalog maps item identifiers to definitions. It is only ever replaced
// wholesale or extended one entry at a time.
type Catalog struct {
	mu     sync.RWMutex
	items  map[string]*Definition
	loaded bool
}

// New creates a catalog seeded with defs.
func New(defs map[string]*Definition) *Catalog {
	c := &Catalog{}
	c.Replace(defs)
	return c
}

// Replace swaps the entire definition set.
func (c *Catalog) Replace(defs map[string]*Definition) {
	next := make(map[string]*Definition, len(defs))
	for id, d := range defs {
		if d != nil {
			next[id] = d
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = next
}

// Add inserts or overwrites a single definition.
func (c *Catalog) Add(id string, d *Definition) {
	if d == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := maps.Clone(c.items)
	if next == nil {
		next = map[string]*Definition{}
	}
	next[id] = d
	c.items = next
}

// Reset drops every definition.
func (c *Catalog) Reset() {
	c.Replace(nil)
}

func (c *Catalog) Lookup(id string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.items[id]
	return d, ok
}

// All returns a copy of the current definition set.
func (c *Catalog) All() map[string]*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.items)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Loaded reports whether the host has signalled that definitions are ready.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loaded
}

func (c *Catalog) SetLoaded(loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = loaded
}
