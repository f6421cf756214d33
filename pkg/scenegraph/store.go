package scenegraph

// readPayload is the constraint every per-kind render-side payload must
// satisfy. Like writePayload, it is expressed over a pointer-to-struct
// type parameter so ensure/tryGet can hand back a live pointer into the
// backing slice.
type readPayload[T any] interface {
	*T
}

// renderStore holds the stable render-side projection for one kind: a
// dense slice keyed by index, with a parallel generation shadow used as
// a liveness tag (spec §4.3, §3 invariant S1/S2).
//
// renderStore is mutated only by the sync engine, while holding
// renderLock, and read only by the render thread, also while holding
// renderLock (spec §5 "Shared-state policy"). Outside of that lock it
// must not be touched by any goroutine.
type renderStore[T any, PT readPayload[T]] struct {
	items   []T
	gen     []uint16
	present []bool // true iff items[i]/gen[i] were written by ensure or clear, not just grown
}

// ensure returns a pointer to the render slot for h, materializing or
// resetting it as needed: if the store has never seen this index, or the
// index's stored generation is stale relative to h, the slot is reset to
// its zero value and stamped with h's generation. This is how flush both
// creates a render node for a new entity and revives an index for a
// reused entity (spec §4.3 "Key decisions").
func (s *renderStore[T, PT]) ensure(h Handle) PT {
	index := h.Index()
	s.grow(index)

	if s.gen[index] != h.Generation() || !s.present[index] {
		var zero T
		s.items[index] = zero
		s.gen[index] = h.Generation()
	}

	s.present[index] = true

	return &s.items[index]
}

// tryGet returns a pointer to h's render slot and true iff the slot has
// been explicitly written by ensure or clear (not merely grown by a
// higher-index flush) and its generation matches h's generation. A
// stale or never-written handle returns (nil, false) — the
// "fail-closed" behavior of spec §7. The present flag is what makes
// generation 0 unambiguous: a slot the store has only ever grown past
// has gen==0 by zero value but present==false, so it cannot be mistaken
// for a genuinely live handle at generation 0.
func (s *renderStore[T, PT]) tryGet(h Handle) (PT, bool) {
	index := h.Index()
	if index >= uint64(len(s.items)) {
		return nil, false
	}

	if !s.present[index] || s.gen[index] != h.Generation() {
		return nil, false
	}

	return &s.items[index], true
}

// clear invalidates index's render slot and stamps it with newGeneration.
// Called only by the sync engine after a deletion has been committed to
// the allocator (spec §4.4).
func (s *renderStore[T, PT]) clear(index uint64, newGeneration uint16) {
	s.grow(index)

	var zero T
	s.items[index] = zero
	s.gen[index] = newGeneration
	s.present[index] = true
}

// forEach calls fn, in index order, for every handle the store currently
// considers present — every render slot an ensure or clear has
// explicitly touched, as opposed to one only ever grown past. A cleared
// (deleted) slot is still present at its bumped generation, with a
// zero-valued item, matching tryGet's read of the same handle. Grounded
// on the original's RenderContainers()/RenderTexts() enumeration
// (_examples/original_source/src/RenderContext.h) and the teacher's
// sloty "scan" command, which likewise walks every live cache entry.
// Callers must hold the owning Graph's RenderLock for the duration of
// the call, same as tryGet.
func (s *renderStore[T, PT]) forEach(fn func(h Handle, item PT)) {
	for i := range s.items {
		if !s.present[i] {
			continue
		}

		fn(MakeHandle(uint64(i), s.gen[i]), &s.items[i])
	}
}

func (s *renderStore[T, PT]) grow(index uint64) {
	if index < uint64(len(s.items)) {
		return
	}

	grownItems := make([]T, index+1)
	copy(grownItems, s.items)
	s.items = grownItems

	grownGen := make([]uint16, index+1)
	copy(grownGen, s.gen)
	s.gen = grownGen

	grownPresent := make([]bool, index+1)
	copy(grownPresent, s.present)
	s.present = grownPresent
}
