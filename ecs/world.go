package ecs

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/lumen2d/lumen/event"
)

// World owns the live entity set, the tag index and the structural-change
// notification stream. All state is mutated only on the frame goroutine; the
// tag index and every cached query are consistent with the entity set after
// each single mutation completes.
//
// Worlds are plain values with no global registry: tests and parallel
// simulations create as many as they need.
type World struct {
	log      *zap.Logger
	bus      *event.Bus
	ids      *idAllocator
	entities []*Entity // insertion order, live entities only
	byID     map[ID]*Entity
	tagIndex map[string]map[*Entity]struct{}

	compScratch []Component // reused by Update, zero-alloc steady state
	entScratch  []*Entity
}

type Option func(*World)

// WithLogger attaches a logger for per-mutation debug output. Default is a
// nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		log:      zap.NewNop(),
		bus:      event.NewBus(),
		ids:      newIDAllocator(),
		entities: make([]*Entity, 0, 256),
		byID:     make(map[ID]*Entity, 256),
		tagIndex: make(map[string]map[*Entity]struct{}, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events exposes the structural-change stream for subscribers.
func (w *World) Events() *event.Bus { return w.bus }

// CreateEntity registers a new live entity. It always succeeds and the
// identity is distinct from every entity ever created in this world.
func (w *World) CreateEntity(name string) *Entity {
	e := &Entity{
		id:     w.ids.alloc(),
		name:   name,
		world:  w,
		tags:   make(map[string]struct{}, 4),
		byKind: make(map[reflect.Type]Component, 8),
		order:  make([]Component, 0, 8),
	}
	w.entities = append(w.entities, e)
	w.byID[e.id] = e
	w.log.Debug("entity created", zap.Uint64("id", uint64(e.id)), zap.String("name", name))
	event.Publish(w.bus, EntityCreated{Entity: e})
	return e
}

// Entity resolves an ID to a live entity.
func (w *World) Entity(id ID) (*Entity, bool) {
	e, ok := w.byID[id]
	return e, ok
}

// Len reports the number of live entities.
func (w *World) Len() int { return len(w.entities) }

// Each walks the live entities in insertion order. The callback must not
// create or destroy entities; use Update-phase systems for that.
func (w *World) Each(fn func(*Entity)) {
	for _, e := range w.entities {
		fn(e)
	}
}

// Update runs the self-update hooks: for every active entity in insertion
// order, every enabled component implementing Updater, in component insertion
// order. The driver calls this once per frame before the update pipeline.
func (w *World) Update(dt time.Duration) {
	w.entScratch = append(w.entScratch[:0], w.entities...)
	for _, e := range w.entScratch {
		if e.destroyed || e.inactive {
			continue
		}
		w.compScratch = append(w.compScratch[:0], e.order...)
		for _, c := range w.compScratch {
			if c.Entity() != e || !c.Enabled() {
				continue // removed or disabled by an earlier hook
			}
			if u, ok := c.(Updater); ok {
				u.Update(dt)
			}
		}
	}
}

// release unregisters a destroyed entity; called by Entity.Destroy after its
// components and tags are gone.
func (w *World) release(e *Entity) {
	for i, cur := range w.entities {
		if cur == e {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			break
		}
	}
	delete(w.byID, e.id)
	w.ids.release(e.id)
	w.log.Debug("entity destroyed", zap.Uint64("id", uint64(e.id)), zap.String("name", e.name))
	event.Publish(w.bus, EntityDestroyed{Entity: e})
}

// tagged returns the index set for a tag; nil when no entity carries it.
func (w *World) tagged(tag string) map[*Entity]struct{} {
	return w.tagIndex[tag]
}

func (w *World) tag(e *Entity, tag string) {
	set := w.tagIndex[tag]
	if set == nil {
		set = make(map[*Entity]struct{}, 8)
		w.tagIndex[tag] = set
	}
	set[e] = struct{}{}
	event.Publish(w.bus, TagAdded{Entity: e, Tag: tag})
}

func (w *World) untag(e *Entity, tag string) {
	if set := w.tagIndex[tag]; set != nil {
		delete(set, e)
		if len(set) == 0 {
			delete(w.tagIndex, tag)
		}
	}
	event.Publish(w.bus, TagRemoved{Entity: e, Tag: tag})
}

func (w *World) publishComponentAdded(e *Entity, kind reflect.Type, c Component) {
	w.log.Debug("component added", zap.Uint64("entity", uint64(e.id)), zap.Stringer("kind", kind))
	event.Publish(w.bus, ComponentAdded{Entity: e, Kind: kind, Component: c})
}

func (w *World) publishComponentRemoved(e *Entity, kind reflect.Type, c Component) {
	w.log.Debug("component removed", zap.Uint64("entity", uint64(e.id)), zap.Stringer("kind", kind))
	event.Publish(w.bus, ComponentRemoved{Entity: e, Kind: kind, Component: c})
}

func (w *World) publishComponentToggled(e *Entity, kind reflect.Type, c Component, enabled bool) {
	event.Publish(w.bus, ComponentToggled{Entity: e, Kind: kind, Component: c, Enabled: enabled})
}
