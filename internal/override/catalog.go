package override

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is the set of element ids the rendering layer has declared.
type Catalog struct {
	mu  sync.RWMutex
	ids map[string]string // id -> description
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{ids: make(map[string]string)}
}

// Register declares id with an optional description. Registering an id
// twice keeps the latest description.
func (c *Catalog) Register(id, description string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	c.mu.Lock()
	c.ids[id] = description
	c.mu.Unlock()
	return nil
}

// MustRegister is Register for ids that are compiled in.
func (c *Catalog) MustRegister(ids ...string) {
	for _, id := range ids {
		if err := c.Register(id, ""); err != nil {
			panic(fmt.Sprintf("override: %v", err))
		}
	}
}

// Known reports whether id has been registered.
func (c *Catalog) Known(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// IDs returns the registered ids in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Description returns the description given at registration.
func (c *Catalog) Description(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ids[id]
}
