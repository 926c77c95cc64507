package ecs

import (
	"reflect"

	"github.com/lumen2d/lumen/event"
)

// cachedCore is the arity-independent machinery behind Query1..Query5: a
// materialized list of entities owning an enabled instance of every tracked
// kind. Seeded by one full scan at creation, then maintained by re-evaluating
// only the affected entity on each relevant notification, never a rescan.
// List updates are O(1) amortized: append on join, swap-remove on leave.
type cachedCore struct {
	world    *World
	kinds    []reflect.Type
	entities []*Entity
	index    map[*Entity]int
	subs     []*event.Subscription
	depth    int       // >0 while Each iterates a snapshot
	dirty    []*Entity // re-evaluations deferred until depth returns to 0
	closed   bool
}

func newCachedCore(w *World, kinds ...reflect.Type) *cachedCore {
	for i, k := range kinds {
		for _, prev := range kinds[:i] {
			if prev == k {
				panic("lumen: cached query lists component kind " + k.String() + " twice")
			}
		}
	}
	c := &cachedCore{
		world:    w,
		kinds:    kinds,
		entities: make([]*Entity, 0, 64),
		index:    make(map[*Entity]int, 64),
	}
	c.subs = append(c.subs,
		event.Subscribe(w.bus, func(ev ComponentAdded) {
			if c.watches(ev.Kind) {
				c.reevaluate(ev.Entity)
			}
		}),
		event.Subscribe(w.bus, func(ev ComponentRemoved) {
			if c.watches(ev.Kind) {
				c.reevaluate(ev.Entity)
			}
		}),
		event.Subscribe(w.bus, func(ev ComponentToggled) {
			if c.watches(ev.Kind) {
				c.reevaluate(ev.Entity)
			}
		}),
		event.Subscribe(w.bus, func(ev EntityDestroyed) {
			c.reevaluate(ev.Entity)
		}),
	)
	for _, e := range w.entities {
		if c.matches(e) {
			c.add(e)
		}
	}
	return c
}

func (c *cachedCore) watches(kind reflect.Type) bool {
	for _, k := range c.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (c *cachedCore) matches(e *Entity) bool {
	if e.destroyed {
		return false
	}
	for _, k := range c.kinds {
		if !e.kindEnabled(k) {
			return false
		}
	}
	return true
}

// reevaluate reconciles one entity's membership with its current state.
// While an iteration snapshot is out, the change is queued and applied when
// the last nested Each returns, so mid-frame destruction never disturbs a
// running iteration.
func (c *cachedCore) reevaluate(e *Entity) {
	if c.closed {
		return
	}
	if c.depth > 0 {
		c.dirty = append(c.dirty, e)
		return
	}
	_, tracked := c.index[e]
	switch m := c.matches(e); {
	case m && !tracked:
		c.add(e)
	case !m && tracked:
		c.remove(e)
	}
}

func (c *cachedCore) add(e *Entity) {
	if _, ok := c.index[e]; ok {
		panic("lumen: cached query desync, entity already tracked")
	}
	c.index[e] = len(c.entities)
	c.entities = append(c.entities, e)
}

func (c *cachedCore) remove(e *Entity) {
	idx, ok := c.index[e]
	if !ok {
		panic("lumen: cached query desync, entity not tracked")
	}
	last := len(c.entities) - 1
	if idx < last {
		moved := c.entities[last]
		c.entities[idx] = moved
		c.index[moved] = idx
	}
	c.entities = c.entities[:last]
	delete(c.index, e)
}

// beginIter/endIter bracket one snapshot iteration. endIter flushes deferred
// re-evaluations once the outermost iteration finishes.
func (c *cachedCore) beginIter() []*Entity {
	c.depth++
	return c.entities
}

func (c *cachedCore) endIter() {
	c.depth--
	if c.depth > 0 {
		return
	}
	for len(c.dirty) > 0 {
		e := c.dirty[len(c.dirty)-1]
		c.dirty = c.dirty[:len(c.dirty)-1]
		c.reevaluate(e)
	}
}

// Count reports the current number of matching entities.
func (c *cachedCore) Count() int { return len(c.entities) }

// Contains reports whether the entity is currently in the materialized list.
func (c *cachedCore) Contains(e *Entity) bool {
	_, ok := c.index[e]
	return ok
}

// Close unsubscribes from the world's notification stream. A discarded query
// that is never closed is a dangling-subscription leak. Closing twice is a
// no-op; a closed query stops updating but its last materialized state stays
// readable.
func (c *cachedCore) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, s := range c.subs {
		s.Close()
	}
	c.subs = nil
}

// fetch returns the entity's enabled component of the given kind as *T.
// Used by Each to resolve tuples against the live state, so entries that
// stopped matching mid-iteration are skipped instead of yielding stale data.
func fetch[T any](e *Entity, kind reflect.Type) (*T, bool) {
	if e.destroyed {
		return nil, false
	}
	c, ok := e.byKind[kind]
	if !ok || !c.Enabled() {
		return nil, false
	}
	return any(c).(*T), true
}
