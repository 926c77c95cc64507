package ecs

import "reflect"

// Fixed-arity cached queries. Consumers create one (typically in a system
// constructor), iterate component tuples every frame with Each, and Close it
// when the owner is discarded. Steady-state iteration allocates nothing.
//
// The arity is fixed at creation; up to five component kinds are supported.

// Query1 materializes the entities owning an enabled A.
type Query1[A any] struct {
	core *cachedCore
	ka   reflect.Type
}

func NewQuery1[A any](w *World) *Query1[A] {
	mustComponent[A]()
	ka := reflect.TypeOf((*A)(nil)).Elem()
	return &Query1[A]{core: newCachedCore(w, ka), ka: ka}
}

func (q *Query1[A]) Each(fn func(e *Entity, a *A)) {
	ents := q.core.beginIter()
	defer q.core.endIter()
	for _, e := range ents {
		a, ok := fetch[A](e, q.ka)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

// First returns the first current match, useful for singleton components
// (camera, score state).
func (q *Query1[A]) First() (*Entity, *A, bool) {
	for _, e := range q.core.entities {
		if a, ok := fetch[A](e, q.ka); ok {
			return e, a, true
		}
	}
	return nil, nil, false
}

func (q *Query1[A]) Count() int              { return q.core.Count() }
func (q *Query1[A]) Contains(e *Entity) bool { return q.core.Contains(e) }
func (q *Query1[A]) Close()                  { q.core.Close() }

// Query2 materializes the entities owning enabled A and B.
type Query2[A, B any] struct {
	core   *cachedCore
	ka, kb reflect.Type
}

func NewQuery2[A, B any](w *World) *Query2[A, B] {
	mustComponent[A]()
	mustComponent[B]()
	ka, kb := reflect.TypeOf((*A)(nil)).Elem(), reflect.TypeOf((*B)(nil)).Elem()
	return &Query2[A, B]{core: newCachedCore(w, ka, kb), ka: ka, kb: kb}
}

func (q *Query2[A, B]) Each(fn func(e *Entity, a *A, b *B)) {
	ents := q.core.beginIter()
	defer q.core.endIter()
	for _, e := range ents {
		a, ok := fetch[A](e, q.ka)
		if !ok {
			continue
		}
		b, ok := fetch[B](e, q.kb)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func (q *Query2[A, B]) Count() int              { return q.core.Count() }
func (q *Query2[A, B]) Contains(e *Entity) bool { return q.core.Contains(e) }
func (q *Query2[A, B]) Close()                  { q.core.Close() }

// Query3 materializes the entities owning enabled A, B and C.
type Query3[A, B, C any] struct {
	core       *cachedCore
	ka, kb, kc reflect.Type
}

func NewQuery3[A, B, C any](w *World) *Query3[A, B, C] {
	mustComponent[A]()
	mustComponent[B]()
	mustComponent[C]()
	ka, kb, kc := reflect.TypeOf((*A)(nil)).Elem(), reflect.TypeOf((*B)(nil)).Elem(), reflect.TypeOf((*C)(nil)).Elem()
	return &Query3[A, B, C]{core: newCachedCore(w, ka, kb, kc), ka: ka, kb: kb, kc: kc}
}

func (q *Query3[A, B, C]) Each(fn func(e *Entity, a *A, b *B, c *C)) {
	ents := q.core.beginIter()
	defer q.core.endIter()
	for _, e := range ents {
		a, ok := fetch[A](e, q.ka)
		if !ok {
			continue
		}
		b, ok := fetch[B](e, q.kb)
		if !ok {
			continue
		}
		c, ok := fetch[C](e, q.kc)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}

func (q *Query3[A, B, C]) Count() int              { return q.core.Count() }
func (q *Query3[A, B, C]) Contains(e *Entity) bool { return q.core.Contains(e) }
func (q *Query3[A, B, C]) Close()                  { q.core.Close() }

// Query4 materializes the entities owning enabled A, B, C and D.
type Query4[A, B, C, D any] struct {
	core           *cachedCore
	ka, kb, kc, kd reflect.Type
}

func NewQuery4[A, B, C, D any](w *World) *Query4[A, B, C, D] {
	mustComponent[A]()
	mustComponent[B]()
	mustComponent[C]()
	mustComponent[D]()
	ka, kb := reflect.TypeOf((*A)(nil)).Elem(), reflect.TypeOf((*B)(nil)).Elem()
	kc, kd := reflect.TypeOf((*C)(nil)).Elem(), reflect.TypeOf((*D)(nil)).Elem()
	return &Query4[A, B, C, D]{core: newCachedCore(w, ka, kb, kc, kd), ka: ka, kb: kb, kc: kc, kd: kd}
}

func (q *Query4[A, B, C, D]) Each(fn func(e *Entity, a *A, b *B, c *C, d *D)) {
	ents := q.core.beginIter()
	defer q.core.endIter()
	for _, e := range ents {
		a, ok := fetch[A](e, q.ka)
		if !ok {
			continue
		}
		b, ok := fetch[B](e, q.kb)
		if !ok {
			continue
		}
		c, ok := fetch[C](e, q.kc)
		if !ok {
			continue
		}
		d, ok := fetch[D](e, q.kd)
		if !ok {
			continue
		}
		fn(e, a, b, c, d)
	}
}

func (q *Query4[A, B, C, D]) Count() int              { return q.core.Count() }
func (q *Query4[A, B, C, D]) Contains(e *Entity) bool { return q.core.Contains(e) }
func (q *Query4[A, B, C, D]) Close()                  { q.core.Close() }

// Query5 materializes the entities owning enabled A, B, C, D and E.
type Query5[A, B, C, D, E any] struct {
	core               *cachedCore
	ka, kb, kc, kd, ke reflect.Type
}

func NewQuery5[A, B, C, D, E any](w *World) *Query5[A, B, C, D, E] {
	mustComponent[A]()
	mustComponent[B]()
	mustComponent[C]()
	mustComponent[D]()
	mustComponent[E]()
	ka, kb := reflect.TypeOf((*A)(nil)).Elem(), reflect.TypeOf((*B)(nil)).Elem()
	kc, kd, ke := reflect.TypeOf((*C)(nil)).Elem(), reflect.TypeOf((*D)(nil)).Elem(), reflect.TypeOf((*E)(nil)).Elem()
	return &Query5[A, B, C, D, E]{core: newCachedCore(w, ka, kb, kc, kd, ke), ka: ka, kb: kb, kc: kc, kd: kd, ke: ke}
}

func (q *Query5[A, B, C, D, E]) Each(fn func(e *Entity, a *A, b *B, c *C, d *D, ee *E)) {
	ents := q.core.beginIter()
	defer q.core.endIter()
	for _, en := range ents {
		a, ok := fetch[A](en, q.ka)
		if !ok {
			continue
		}
		b, ok := fetch[B](en, q.kb)
		if !ok {
			continue
		}
		c, ok := fetch[C](en, q.kc)
		if !ok {
			continue
		}
		d, ok := fetch[D](en, q.kd)
		if !ok {
			continue
		}
		ee, ok := fetch[E](en, q.ke)
		if !ok {
			continue
		}
		fn(en, a, b, c, d, ee)
	}
}

func (q *Query5[A, B, C, D, E]) Count() int              { return q.core.Count() }
func (q *Query5[A, B, C, D, E]) Contains(e *Entity) bool { return q.core.Contains(e) }
func (q *Query5[A, B, C, D, E]) Close()                  { q.core.Close() }
