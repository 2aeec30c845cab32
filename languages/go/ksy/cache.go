package ksy

import (
	"slices"

	"github.com/gostdlib/base/concurrency/sync"

	"github.com/bearlytools/bitstruct/languages/go/structs"
)

// TypeCache maps user type names to the anonymous structs built for them. It is safe for
// concurrent use.
type TypeCache struct {
	mu    sync.RWMutex
	types map[string]*structs.Struct
}

// NewTypeCache returns an empty TypeCache.
func NewTypeCache() *TypeCache {
	return &TypeCache{types: map[string]*structs.Struct{}}
}

// Get returns the struct built for the named type.
func (c *TypeCache) Get(name string) (*structs.Struct, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.types[name]
	return s, ok
}

// Put stores s under name, replacing any earlier entry.
func (c *TypeCache) Put(name string, s *structs.Struct) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.types == nil {
		c.types = map[string]*structs.Struct{}
	}
	c.types[name] = s
}

// Names returns the cached type names in sorted order.
func (c *TypeCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.types))
	for n := range c.types {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
