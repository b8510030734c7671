// Package filter provides diagram filters and the chains that order them.
//
// A Filter mutates the figures of a freshly built diagram (colors, for now).
// A Chain is a shared, longer-lived, ordered list of filters; every edit of the
// list fires the chain's Changed channel so that viewers can rebuild their
// diagrams. Viewers must unsubscribe when they are closed.
package filter

import (
	"slices"
	"sync"

	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/event"
)

// Filter transforms a diagram in place.
type Filter interface {
	Name() string
	Apply(d *diagram.Diagram)
}

// Chain is an ordered list of filters.
type Chain struct {
	name string

	mu      sync.RWMutex
	filters []Filter

	changed *event.Channel[*Chain]
}

// NewChain creates an empty chain.
func NewChain(name string, filters ...Filter) *Chain {
	c := &Chain{name: name, filters: slices.Clone(filters)}
	c.changed = event.NewChannel(c)
	return c
}

// Name returns the chain's name.
func (c *Chain) Name() string { return c.name }

// Changed fires after every edit of the filter list.
func (c *Chain) Changed() *event.Channel[*Chain] { return c.changed }

// Add appends a filter.
func (c *Chain) Add(f Filter) {
	c.mu.Lock()
	c.filters = append(c.filters, f)
	c.mu.Unlock()
	c.changed.Fire()
}

// Remove deletes a filter and reports whether it was present.
func (c *Chain) Remove(f Filter) bool {
	c.mu.Lock()
	i := slices.Index(c.filters, f)
	if i >= 0 {
		c.filters = slices.Delete(c.filters, i, i+1)
	}
	c.mu.Unlock()

	if i < 0 {
		return false
	}
	c.changed.Fire()
	return true
}

// Clear removes every filter.
func (c *Chain) Clear() {
	c.mu.Lock()
	c.filters = nil
	c.mu.Unlock()
	c.changed.Fire()
}

// Filters returns a copy of the filter list.
func (c *Chain) Filters() []Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.filters)
}

// Len returns the number of filters.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filters)
}

// Apply runs every filter on d in order.
func (c *Chain) Apply(d *diagram.Diagram) {
	for _, f := range c.Filters() {
		f.Apply(d)
	}
}
