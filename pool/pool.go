// Package pool implements a generic reusable-instance pool for high-churn
// objects (particles, projectiles, scratch buffers). Instances cycle through
// checked-out → mutated → checked-in instead of being allocated and freed, so
// steady-state use allocates nothing.
package pool

import "fmt"

// Pool hands out idle instances of T, constructing new ones only when the
// free list is empty. There is no upper bound; callers layer caps (e.g. an
// emitter's MaxParticles) on top as policy. Single-goroutine use only.
//
// A checked-in instance must not be referenced by any live entity or
// component; the pool cannot detect that.
type Pool[T comparable] struct {
	factory func() T
	reset   func(T)
	idle    []T
	idleSet map[T]struct{}
	made    int
}

// New builds a pool around a factory and a reset func. reset is called on
// every Put before the instance rejoins the free list; nil means no reset.
func New[T comparable](factory func() T, reset func(T)) *Pool[T] {
	if factory == nil {
		panic("lumen: pool factory must not be nil")
	}
	return &Pool[T]{
		factory: factory,
		reset:   reset,
		idle:    make([]T, 0, 16),
		idleSet: make(map[T]struct{}, 16),
	}
}

// Get returns an idle instance if one exists, else constructs a fresh one.
func (p *Pool[T]) Get() T {
	if n := len(p.idle); n > 0 {
		x := p.idle[n-1]
		p.idle = p.idle[:n-1]
		delete(p.idleSet, x)
		return x
	}
	p.made++
	return p.factory()
}

// Put resets the instance and marks it idle. Returning an instance that is
// already idle is a programmer error and panics rather than corrupting the
// free list.
func (p *Pool[T]) Put(x T) {
	if _, ok := p.idleSet[x]; ok {
		panic(fmt.Sprintf("lumen: pool Put of already-idle instance %v", x))
	}
	if p.reset != nil {
		p.reset(x)
	}
	p.idle = append(p.idle, x)
	p.idleSet[x] = struct{}{}
}

// Idle reports how many instances are currently checked in.
func (p *Pool[T]) Idle() int { return len(p.idle) }

// Made reports how many instances the factory has constructed over the pool's
// lifetime.
func (p *Pool[T]) Made() int { return p.made }
