package ecs

import (
	"reflect"
	"time"
)

// Component is implemented by every component struct through an embedded
// BaseComponent. The unexported methods keep attach/detach under the
// registry's control: a component can only enter an entity through Add, so
// the owner back-reference is always set before any hook fires.
type Component interface {
	// Entity returns the owning entity, or nil while detached. The reference
	// is only valid between attach and detach; a detached component must
	// never be reused on another entity.
	Entity() *Entity
	Enabled() bool
	SetEnabled(enabled bool)

	attach(owner *Entity, kind reflect.Type, self Component)
	detach()
	kindOf() reflect.Type
}

// Updater is the optional self-update capability. Enabled components on
// active entities receive Update once per frame from World.Update, in
// insertion order, before any pipeline system runs. Intended for small,
// self-contained behaviors; anything touching many entities belongs in a
// system over a cached query.
type Updater interface {
	Update(dt time.Duration)
}

// Attacher is the optional attach hook, called after the owner back-reference
// is set and the component is reachable through Get.
type Attacher interface {
	OnAttach()
}

// Detacher is the optional detach hook, called after the removal notification
// fires and before the owner back-reference is cleared.
type Detacher interface {
	OnDetach()
}

// BaseComponent carries the per-component bookkeeping every component kind
// embeds: enabled flag, owner back-reference, and concrete kind.
//
//	type Velocity struct {
//		ecs.BaseComponent
//		X, Y float64
//	}
type BaseComponent struct {
	owner    *Entity
	self     Component
	kind     reflect.Type
	disabled bool
}

func (b *BaseComponent) Entity() *Entity { return b.owner }

func (b *BaseComponent) Enabled() bool { return !b.disabled }

// SetEnabled toggles the component. Disabled components are skipped by
// World.Update and drop out of every query that names their kind; the
// membership change applies synchronously before SetEnabled returns.
func (b *BaseComponent) SetEnabled(enabled bool) {
	if b.disabled == !enabled {
		return
	}
	b.disabled = !enabled
	if b.owner != nil && !b.owner.destroyed {
		b.owner.world.publishComponentToggled(b.owner, b.kind, b.self, enabled)
	}
}

func (b *BaseComponent) attach(owner *Entity, kind reflect.Type, self Component) {
	b.owner = owner
	b.kind = kind
	b.self = self
}

func (b *BaseComponent) detach() {
	b.owner = nil
	b.self = nil
}

func (b *BaseComponent) kindOf() reflect.Type { return b.kind }

// Kind returns the runtime type descriptor used as the component-kind key for
// T, for use with the ad-hoc query builder.
func Kind[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// mustComponent panics unless *T satisfies Component, i.e. T embeds
// BaseComponent. Checked once at query creation and on every Add.
func mustComponent[T any]() Component {
	c, ok := any(new(T)).(Component)
	if !ok {
		panic("lumen: " + reflect.TypeOf((*T)(nil)).Elem().String() + " is not a component (embed ecs.BaseComponent)")
	}
	return c
}
