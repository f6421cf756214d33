package scenegraph

// writePayload is the constraint every per-kind write payload must
// satisfy so changeBuffer can stamp ownership and drive deletion
// dominance without knowing the kind's specific fields. It is expressed
// over a pointer-to-struct type parameter (the common Go-generics idiom
// for "T whose methods mutate in place") because access() must hand the
// caller a live pointer into the backing slice, not a detached value.
type writePayload[T any] interface {
	*T

	reset(h Handle)
	isDeleted() bool
	handle() Handle
}

// changeBuffer accumulates write-side mutations for one kind across the
// current epoch, coalescing repeated writes to the same handle.
//
// It is a dense, index-keyed store (spec §4.2): indices come from a
// monotone allocator and are dense in practice, so a slice with a dirty
// bitmask beats a hash map on the hot write path. A changeBuffer is owned
// exclusively by the update thread; it is never touched by the render
// thread or by Sync's lock (spec §5 "Shared-state policy").
type changeBuffer[T any, PT writePayload[T]] struct {
	items   []T
	dirty   []bool
	touched []uint64 // indices touched this epoch, in first-access order
}

// access returns a mutable pointer to the write payload for h's index,
// growing storage and resetting the slot to its default value on first
// touch this epoch (spec invariant B3). Repeated calls within the same
// epoch return the same slot, so field-by-field writes coalesce
// (last-write-wins per field, spec §4.2 "Key decisions").
func (b *changeBuffer[T, PT]) access(h Handle) PT {
	index := h.Index()

	if index >= uint64(len(b.items)) {
		grownItems := make([]T, index+1)
		copy(grownItems, b.items)
		b.items = grownItems

		grownDirty := make([]bool, index+1)
		copy(grownDirty, b.dirty)
		b.dirty = grownDirty
	}

	if !b.dirty[index] {
		b.dirty[index] = true
		b.touched = append(b.touched, index)
		PT(&b.items[index]).reset(h)
	}

	return &b.items[index]
}

// snapshot drains every touched slot into a freshly returned slice, in
// first-touch order (spec invariant B2, I5), and resets the buffer to
// logically empty (spec §4.2 "Snapshot is destructive on purpose").
func (b *changeBuffer[T, PT]) snapshot() []T {
	if len(b.touched) == 0 {
		return nil
	}

	out := make([]T, len(b.touched))

	for i, index := range b.touched {
		out[i] = b.items[index]

		var zero T
		b.items[index] = zero
		b.dirty[index] = false
	}

	b.touched = b.touched[:0]

	return out
}

// empty reports whether this kind has no pending changes this epoch.
func (b *changeBuffer[T, PT]) empty() bool {
	return len(b.touched) == 0
}

// pending returns the number of distinct handles with uncommitted writes
// this epoch, for diagnostics (e.g. cmd/scenedemo's stats verb).
func (b *changeBuffer[T, PT]) pending() int {
	return len(b.touched)
}
