package ecs

// ID encodes a 32-bit index in the lower bits and a 32-bit generation in the
// upper bits. Generation increments on destroy so stale references held by
// gameplay code never resolve to a recycled slot.
type ID uint64

func newID(index uint32, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }
func (id ID) IsZero() bool       { return id == 0 }

// idAllocator hands out entity identities with generational indices and a
// free list, so identity stays unique across the world's lifetime while slot
// numbers get reused.
type idAllocator struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func newIDAllocator() *idAllocator {
	return &idAllocator{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (a *idAllocator) alloc() ID {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		return newID(idx, a.generations[idx])
	}
	idx := a.nextIndex
	a.nextIndex++
	if int(idx) >= len(a.generations) {
		a.generations = append(a.generations, 0)
	}
	return newID(idx, a.generations[idx])
}

func (a *idAllocator) alive(id ID) bool {
	idx := id.Index()
	if idx >= a.nextIndex {
		return false
	}
	return a.generations[idx] == id.Generation()
}

func (a *idAllocator) release(id ID) {
	idx := id.Index()
	if idx >= a.nextIndex {
		return
	}
	if a.generations[idx] != id.Generation() {
		return // already released (stale reference)
	}
	a.generations[idx]++
	a.freeList = append(a.freeList, idx)
}
