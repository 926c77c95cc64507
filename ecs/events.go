package ecs

import "reflect"

// Structural-change notifications published on the world's event bus,
// synchronously as part of the triggering mutation. Cached queries are the
// primary subscribers; gameplay code may subscribe too (spawn effects,
// bookkeeping) but must not assume any ordering relative to other handlers
// of the same event.

type EntityCreated struct {
	Entity *Entity
}

type EntityDestroyed struct {
	Entity *Entity
}

// ComponentAdded fires after the component is attached and reachable.
type ComponentAdded struct {
	Entity    *Entity
	Kind      reflect.Type
	Component Component
}

// ComponentRemoved fires after the component leaves the entity's storage but
// before it is detached, so Component.Entity() is still valid in handlers.
type ComponentRemoved struct {
	Entity    *Entity
	Kind      reflect.Type
	Component Component
}

// ComponentToggled fires on every effective SetEnabled transition.
type ComponentToggled struct {
	Entity    *Entity
	Kind      reflect.Type
	Component Component
	Enabled   bool
}

type TagAdded struct {
	Entity *Entity
	Tag    string
}

type TagRemoved struct {
	Entity *Entity
	Tag    string
}
