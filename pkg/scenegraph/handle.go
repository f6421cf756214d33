package scenegraph

// Handle is an opaque 64-bit reference to a node: an index packed with a
// generation counter. Bits [63:16] are the index, bits [15:0] are the
// generation.
//
// Two handles are equal iff both components are equal. Handles are cheap
// to copy, compare, and use as map keys.
type Handle uint64

const (
	genBits = 16
	genMask = 1<<genBits - 1
)

// MakeHandle packs an index and generation into a Handle.
func MakeHandle(index uint64, generation uint16) Handle {
	return Handle(index<<genBits | uint64(generation))
}

// Index returns the dense slot number encoded in h.
func (h Handle) Index() uint64 {
	return uint64(h) >> genBits
}

// Generation returns the reuse counter encoded in h.
func (h Handle) Generation() uint16 {
	return uint16(uint64(h) & genMask)
}

// Allocator mints handles with generation tagging and recycles freed
// indices through a LIFO free list.
//
// An Allocator is not safe for concurrent use. The expected usage is: the
// update thread calls Allocate, and the update thread (or whatever runs
// Sync) calls Free from inside the sync engine's critical section. See
// the "Locking architecture" comment in sync.go.
type Allocator struct {
	nextIndex   uint64
	generations []uint16
	freeIndices []uint64
	live        []bool // live[i] iff index i is currently allocated, not sitting on the free list
}

// Allocate mints a new handle. It reuses a freed index (LIFO) when one is
// available, otherwise it takes the next never-used index. The returned
// handle always carries the current generation for its index.
func (a *Allocator) Allocate() Handle {
	var index uint64

	if n := len(a.freeIndices); n > 0 {
		index = a.freeIndices[n-1]
		a.freeIndices = a.freeIndices[:n-1]
	} else {
		index = a.nextIndex
		a.nextIndex++
	}

	if index >= uint64(len(a.generations)) {
		grown := make([]uint16, index+1)
		copy(grown, a.generations)
		a.generations = grown

		grownLive := make([]bool, index+1)
		copy(grownLive, a.live)
		a.live = grownLive
	}

	a.live[index] = true

	return MakeHandle(index, a.generations[index])
}

// Free invalidates h. If h is stale or out of range, Free is a silent
// no-op (idempotent double-free and stale-free protection per spec §4.1).
// Otherwise the index's generation is bumped (wrapping at 2^16) and the
// index returns to the free list for reuse.
func (a *Allocator) Free(h Handle) {
	index := h.Index()
	if index >= uint64(len(a.generations)) {
		return
	}

	if a.generations[index] != h.Generation() {
		return
	}

	a.generations[index] = (a.generations[index] + 1) & genMask
	a.live[index] = false
	a.freeIndices = append(a.freeIndices, index)
}

// Generation returns the current generation for index, or 0 if index has
// never been allocated.
func (a *Allocator) Generation(index uint64) uint16 {
	if index >= uint64(len(a.generations)) {
		return 0
	}

	return a.generations[index]
}

// IsCurrent reports whether h's generation matches the allocator's
// generation for h's index — i.e. whether h is not stale.
func (a *Allocator) IsCurrent(h Handle) bool {
	return a.Generation(h.Index()) == h.Generation()
}

// Live reports whether index currently refers to an allocated handle, as
// opposed to one sitting on the free list awaiting reuse. Unlike
// IsCurrent, which only compares generations and so cannot distinguish a
// freed-but-not-yet-reallocated index from a live one at the same
// generation, Live answers that question directly.
func (a *Allocator) Live(index uint64) bool {
	if index >= uint64(len(a.live)) {
		return false
	}

	return a.live[index]
}

// Len returns the number of indices ever minted, including ones
// currently sitting on the free list awaiting reuse.
func (a *Allocator) Len() int { return int(a.nextIndex) }

// FreeCount returns the number of indices currently on the free list.
func (a *Allocator) FreeCount() int { return len(a.freeIndices) }
