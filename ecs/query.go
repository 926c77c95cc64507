package ecs

import "reflect"

// QueryBuilder composes a one-shot conjunctive filter over the live entity
// set. Filters evaluate lazily at Execute in the order they were chained, so
// callers put the cheapest filters first; the arbitrary Where predicates
// always run last. Results are a fresh point-in-time slice in registry
// insertion order with no live connection to the world.
//
//	movable := w.Query().
//		With(ecs.Kind[Position](), ecs.Kind[Velocity]()).
//		Without(ecs.Kind[Frozen]()).
//		WithTag("enemy").
//		Execute()
type QueryBuilder struct {
	world *World
	steps []func(*Entity) bool
	preds []func(*Entity) bool
}

// Query starts a new ad-hoc query over this world.
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{world: w}
}

// EntitiesWith is shorthand for the common "everything owning these kinds"
// lookup feature systems make.
func (w *World) EntitiesWith(kinds ...reflect.Type) []*Entity {
	return w.Query().With(kinds...).Execute()
}

// With keeps entities owning an enabled instance of every given kind, the
// same membership predicate cached queries use.
func (b *QueryBuilder) With(kinds ...reflect.Type) *QueryBuilder {
	for _, kind := range kinds {
		k := kind
		b.steps = append(b.steps, func(e *Entity) bool { return e.kindEnabled(k) })
	}
	return b
}

// Without drops entities owning any of the given kinds, enabled or not.
func (b *QueryBuilder) Without(kinds ...reflect.Type) *QueryBuilder {
	for _, kind := range kinds {
		k := kind
		b.steps = append(b.steps, func(e *Entity) bool { return !e.hasKind(k) })
	}
	return b
}

// WithTag keeps entities carrying every given tag.
func (b *QueryBuilder) WithTag(tags ...string) *QueryBuilder {
	for _, tag := range tags {
		t := tag
		b.steps = append(b.steps, func(e *Entity) bool { return e.HasTag(t) })
	}
	return b
}

// Where adds an arbitrary predicate, applied after all structural filters.
func (b *QueryBuilder) Where(pred func(*Entity) bool) *QueryBuilder {
	b.preds = append(b.preds, pred)
	return b
}

// Execute evaluates the filter chain and returns the matches.
func (b *QueryBuilder) Execute() []*Entity {
	var out []*Entity
	for _, e := range b.world.entities {
		if b.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first match in insertion order.
func (b *QueryBuilder) First() (*Entity, bool) {
	for _, e := range b.world.entities {
		if b.match(e) {
			return e, true
		}
	}
	return nil, false
}

// Count evaluates the filter chain without materializing results.
func (b *QueryBuilder) Count() int {
	n := 0
	for _, e := range b.world.entities {
		if b.match(e) {
			n++
		}
	}
	return n
}

func (b *QueryBuilder) match(e *Entity) bool {
	for _, step := range b.steps {
		if !step(e) {
			return false
		}
	}
	for _, pred := range b.preds {
		if !pred(e) {
			return false
		}
	}
	return true
}
