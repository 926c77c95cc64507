// Package event provides the synchronous typed notification bus used for the
// world's structural-change stream. Handlers run inline on the publishing
// goroutine, in subscription order, before Publish returns, so a subscriber
// always observes the mutation that triggered the event, same frame.
package event

import "reflect"

// Bus routes published values to handlers keyed by the value's concrete type.
// Single-goroutine use only (frame thread); no locks.
type Bus struct {
	handlers map[reflect.Type][]*handler
	nextID   uint64
}

type handler struct {
	id uint64
	fn func(any)
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*handler, 16),
	}
}

// Subscription identifies one registered handler so it can be removed again.
// Long-lived subscribers (cached queries) must Close their subscriptions when
// discarded or they keep receiving events forever.
type Subscription struct {
	bus *Bus
	typ reflect.Type
	id  uint64
}

// Subscribe registers a typed handler for events of type T and returns its
// subscription handle.
func Subscribe[T any](b *Bus, fn func(T)) *Subscription {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.nextID++
	h := &handler{
		id: b.nextID,
		fn: func(ev any) { fn(ev.(T)) },
	}
	b.handlers[t] = append(b.handlers[t], h)
	return &Subscription{bus: b, typ: t, id: h.id}
}

// Publish delivers the event to every handler subscribed to T, synchronously
// and in subscription order. Handlers registered during delivery do not see
// the in-flight event.
func Publish[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	hs := b.handlers[t]
	for i, n := 0, len(hs); i < n; i++ {
		hs[i].fn(ev)
	}
}

// Close removes the handler from the bus. Closing twice is a no-op.
func (s *Subscription) Close() {
	if s.bus == nil {
		return
	}
	hs := s.bus.handlers[s.typ]
	for i, h := range hs {
		if h.id == s.id {
			s.bus.handlers[s.typ] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	s.bus = nil
}
