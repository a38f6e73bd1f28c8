// Package session implements per-connection state (C7): a handle table
// mapping names to results, scoped to the session's lifetime.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/redbco/coldb/internal/result"
)

const defaultHandleSlots = 32

// Handle is a named binding to a generalized column, always a RESULT in
// practice (spec §3).
type Handle struct {
	Name  string
	Value result.GeneralizedColumn
}

// ClientContext owns one session's handle table. Handle tables are never
// shared between sessions (spec §4.7).
type ClientContext struct {
	ID      string
	mu      sync.Mutex
	handles []*Handle
}

// New allocates a ClientContext with an empty handle table sized to the
// reference default (spec §4.3).
func New() *ClientContext {
	return &ClientContext{
		ID:      uuid.NewString(),
		handles: make([]*Handle, 0, defaultHandleSlots),
	}
}

// Lookup finds a handle by name; linear scan is sufficient for the small,
// bounded handle counts a session accumulates (spec §4.3, design note).
func (c *ClientContext) Lookup(name string) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.handles {
		if h.Name == name {
			return h, true
		}
	}
	return nil, false
}

// Bind creates the handle named name if it does not exist, or releases its
// previously bound result and rebinds it in place (spec §4.3: "Reassigning
// a handle name releases the previously bound result before installing the
// new one"). Either way the handle's value is set to v.
func (c *ClientContext) Bind(name string, v result.GeneralizedColumn) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.handles {
		if h.Name == name {
			// Release the old payload + envelope before installing the new
			// one — there is nothing to do explicitly in Go beyond dropping
			// the reference, but we do it here (rather than relying on a
			// future GC pass over stale slots) so the handle table never
			// holds two live results under one name at once.
			h.Value = result.GeneralizedColumn{}
			h.Value = v
			return h
		}
	}
	if len(c.handles) == cap(c.handles) {
		c.grow()
	}
	h := &Handle{Name: name, Value: v}
	c.handles = append(c.handles, h)
	return h
}

// grow doubles the handle table's capacity, starting from defaultHandleSlots.
func (c *ClientContext) grow() {
	newCap := cap(c.handles) * 2
	if newCap == 0 {
		newCap = defaultHandleSlots
	}
	grown := make([]*Handle, len(c.handles), newCap)
	copy(grown, c.handles)
	c.handles = grown
}

// Release frees every handle in use. Called on disconnect (spec §4.7).
func (c *ClientContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.handles {
		c.handles[i] = nil
	}
	c.handles = c.handles[:0]
}

// Count returns the number of handles currently bound, for tests that
// assert bounded memory growth across many rebinds (spec §8, scenario S6).
func (c *ClientContext) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}
