package ecs

import (
	"reflect"
	"sort"
)

// Entity is an identity owning zero or more components. Entities are created
// through World.CreateEntity and live until Destroy; a destroyed entity is
// permanently unusable and any mutation of it panics.
type Entity struct {
	id        ID
	name      string
	world     *World
	inactive  bool
	destroyed bool
	tags      map[string]struct{}
	byKind    map[reflect.Type]Component
	order     []Component // insertion order, drives update-hook ordering
}

func (e *Entity) ID() ID          { return e.id }
func (e *Entity) Name() string    { return e.name }
func (e *Entity) World() *World   { return e.world }
func (e *Entity) Destroyed() bool { return e.destroyed }

func (e *Entity) SetName(name string) {
	e.mustLive("SetName")
	e.name = name
}

// Active reports whether World.Update runs this entity's component update
// hooks. Queries ignore the active flag; they filter on component enablement.
func (e *Entity) Active() bool { return !e.inactive }

func (e *Entity) SetActive(active bool) {
	e.mustLive("SetActive")
	e.inactive = !active
}

// Components returns the attached components in insertion order.
func (e *Entity) Components() []Component {
	out := make([]Component, len(e.order))
	copy(out, e.order)
	return out
}

// Add constructs a default T, attaches it to the entity and returns it. The
// owner back-reference is set before the OnAttach hook or the added
// notification fire. At most one component per kind per entity: a second Add
// of the same kind panics.
func Add[T any](e *Entity) *T {
	e.mustLive("Add")
	comp := mustComponent[T]()
	kind := reflect.TypeOf((*T)(nil)).Elem()
	if _, dup := e.byKind[kind]; dup {
		panic("lumen: duplicate component " + kind.String() + " on entity " + e.name)
	}
	comp.attach(e, kind, comp)
	e.byKind[kind] = comp
	e.order = append(e.order, comp)
	if a, ok := comp.(Attacher); ok {
		a.OnAttach()
	}
	e.world.publishComponentAdded(e, kind, comp)
	return any(comp).(*T)
}

// Get returns the entity's T component. An absent kind is not an error;
// callers must never assume presence.
func Get[T any](e *Entity) (*T, bool) {
	c, ok := e.byKind[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return any(c).(*T), true
}

// Has reports whether the entity owns a T component, enabled or not.
func Has[T any](e *Entity) bool {
	_, ok := e.byKind[reflect.TypeOf((*T)(nil)).Elem()]
	return ok
}

// Remove detaches and discards the entity's T component. The removed
// notification fires while the component is still attached, so cached queries
// depending on T update before it becomes inaccessible. Removing an absent
// kind is a no-op.
func Remove[T any](e *Entity) bool {
	return e.removeKind(reflect.TypeOf((*T)(nil)).Elem())
}

func (e *Entity) removeKind(kind reflect.Type) bool {
	c, ok := e.byKind[kind]
	if !ok {
		return false
	}
	delete(e.byKind, kind)
	for i, oc := range e.order {
		if oc == c {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.world.publishComponentRemoved(e, kind, c)
	if d, ok := c.(Detacher); ok {
		d.OnDetach()
	}
	c.detach()
	return true
}

// Destroy removes every component (reverse insertion order), clears tags,
// fires EntityDestroyed and unregisters the entity from the world. Idempotent:
// calls after the first are no-ops.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for len(e.order) > 0 {
		last := e.order[len(e.order)-1]
		e.removeKind(last.kindOf())
	}
	for tag := range e.tags {
		e.world.untag(e, tag)
	}
	clear(e.tags)
	e.world.release(e)
}

// AddTag tags the entity and indexes it under the tag. Adding a tag the
// entity already has is a no-op.
func (e *Entity) AddTag(tag string) {
	e.mustLive("AddTag")
	if _, ok := e.tags[tag]; ok {
		return
	}
	e.tags[tag] = struct{}{}
	e.world.tag(e, tag)
}

// RemoveTag removes the tag; absent tags are a no-op.
func (e *Entity) RemoveTag(tag string) {
	e.mustLive("RemoveTag")
	if _, ok := e.tags[tag]; !ok {
		return
	}
	delete(e.tags, tag)
	e.world.untag(e, tag)
}

func (e *Entity) HasTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// Tags returns the entity's tags, sorted for determinism.
func (e *Entity) Tags() []string {
	out := make([]string, 0, len(e.tags))
	for tag := range e.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (e *Entity) mustLive(op string) {
	if e.destroyed {
		panic("lumen: " + op + " on destroyed entity " + e.name)
	}
}

// kindEnabled reports whether the entity owns an enabled instance of kind.
// This is the membership predicate shared by ad-hoc and cached queries.
func (e *Entity) kindEnabled(kind reflect.Type) bool {
	c, ok := e.byKind[kind]
	return ok && c.Enabled()
}

func (e *Entity) hasKind(kind reflect.Type) bool {
	_, ok := e.byKind[kind]
	return ok
}
