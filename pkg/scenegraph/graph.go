package scenegraph

import (
	"sync"

	"github.com/google/uuid"
)

// Graph is the node handle surface (spec §4.5): the single entry point
// higher layers use to allocate handles, mutate node data, read the
// render-side projection, and drive the sync hand-off.
//
// A Graph owns one Allocator, one changeBuffer and one renderStore per
// kind, and the renderLock mutex. The kind set is the closed,
// compile-time set named in spec §3 (Container, Text, Shape, ShapeRect);
// extending it means adding fields here, not a runtime registry, per the
// "closed sum type of kinds with a fixed array of per-kind stores"
// strategy in spec §9.
//
// Graph.ID is a session identifier (not part of the base spec) used to
// correlate log lines when a process hosts more than one Graph; see
// SPEC_FULL.md §11 and DESIGN.md.
type Graph struct {
	ID uuid.UUID

	allocator Allocator
	mu        sync.Mutex

	containerBuf   changeBuffer[WriteContainer, *WriteContainer]
	textBuf        changeBuffer[WriteText, *WriteText]
	shapeBuf       changeBuffer[WriteShape, *WriteShape]
	shapeRectBuf   changeBuffer[WriteShapeRect, *WriteShapeRect]

	containerStore renderStore[ReadContainer, *ReadContainer]
	textStore      renderStore[ReadText, *ReadText]
	shapeStore     renderStore[ReadShape, *ReadShape]
	shapeRectStore renderStore[ReadShapeRect, *ReadShapeRect]
}

// NewGraph returns a ready-to-use Graph with a fresh session ID.
func NewGraph() *Graph {
	return &Graph{ID: uuid.Must(uuid.NewV7())}
}

// AllocateHandle mints a new node handle. Safe to call only from the
// update thread (spec §5).
func (g *Graph) AllocateHandle() Handle {
	return g.allocator.Allocate()
}

// AccessContainer returns the mutable write payload for h's Container
// data in the current epoch, creating or continuing the coalesced slot
// as needed (spec §4.2). Must be called only from the update thread.
func (g *Graph) AccessContainer(h Handle) *WriteContainer {
	g.debugAssertFresh(h)

	return g.containerBuf.access(h)
}

// AccessText returns the mutable write payload for h's Text data in the
// current epoch. Must be called only from the update thread.
func (g *Graph) AccessText(h Handle) *WriteText {
	g.debugAssertFresh(h)

	return g.textBuf.access(h)
}

// AccessShape returns the mutable write payload for h's Shape data in
// the current epoch. Must be called only from the update thread.
func (g *Graph) AccessShape(h Handle) *WriteShape {
	g.debugAssertFresh(h)

	return g.shapeBuf.access(h)
}

// AccessShapeRect returns the mutable write payload for h's ShapeRect
// data in the current epoch. Must be called only from the update thread.
func (g *Graph) AccessShapeRect(h Handle) *WriteShapeRect {
	g.debugAssertFresh(h)

	return g.shapeRectBuf.access(h)
}

// TryGetContainer resolves h against the render-side Container store.
// Callers must hold RenderLock for the duration of the read (spec §5).
// It returns (nil, false) for a stale, unknown, or kind-mismatched
// handle — the fail-closed behavior of spec §7.
func (g *Graph) TryGetContainer(h Handle) (*ReadContainer, bool) { return g.containerStore.tryGet(h) }

// TryGetText resolves h against the render-side Text store. Callers must
// hold RenderLock for the duration of the read.
func (g *Graph) TryGetText(h Handle) (*ReadText, bool) { return g.textStore.tryGet(h) }

// TryGetShape resolves h against the render-side Shape store. Callers
// must hold RenderLock for the duration of the read.
func (g *Graph) TryGetShape(h Handle) (*ReadShape, bool) { return g.shapeStore.tryGet(h) }

// TryGetShapeRect resolves h against the render-side ShapeRect store.
// Callers must hold RenderLock for the duration of the read.
func (g *Graph) TryGetShapeRect(h Handle) (*ReadShapeRect, bool) {
	return g.shapeRectStore.tryGet(h)
}

// EnsureRenderContainer materializes or reuses h's Container render
// slot. Exposed for kind implementations with custom flush logic built
// on top of this core; the built-in flush paths call the same store
// ensure directly (spec §6 "typically internal").
func (g *Graph) EnsureRenderContainer(h Handle) *ReadContainer { return g.containerStore.ensure(h) }

// EnsureRenderText materializes or reuses h's Text render slot.
func (g *Graph) EnsureRenderText(h Handle) *ReadText { return g.textStore.ensure(h) }

// EnsureRenderShape materializes or reuses h's Shape render slot.
func (g *Graph) EnsureRenderShape(h Handle) *ReadShape { return g.shapeStore.ensure(h) }

// EnsureRenderShapeRect materializes or reuses h's ShapeRect render
// slot.
func (g *Graph) EnsureRenderShapeRect(h Handle) *ReadShapeRect {
	return g.shapeRectStore.ensure(h)
}

// RangeContainers calls fn, in index order, for every handle that is
// both present in the Container render store and currently allocated.
// The allocator check is what keeps a deleted-but-not-yet-reallocated
// index (present in the store as a cleared, zero-valued slot, per
// renderStore.clear) out of the enumeration, since forEach alone cannot
// tell that slot apart from a live one at the same generation. Callers
// must hold RenderLock for the duration of the call, same as
// TryGetContainer. Grounded on the original's RenderContainers()
// enumeration and the teacher's sloty "scan" command.
func (g *Graph) RangeContainers(fn func(h Handle, r *ReadContainer)) {
	g.containerStore.forEach(func(h Handle, r *ReadContainer) {
		if g.allocator.Live(h.Index()) {
			fn(h, r)
		}
	})
}

// RangeTexts calls fn, in index order, for every handle that is both
// present in the Text render store and currently allocated. Callers
// must hold RenderLock.
func (g *Graph) RangeTexts(fn func(h Handle, r *ReadText)) {
	g.textStore.forEach(func(h Handle, r *ReadText) {
		if g.allocator.Live(h.Index()) {
			fn(h, r)
		}
	})
}

// RangeShapes calls fn, in index order, for every handle that is both
// present in the Shape render store and currently allocated. Callers
// must hold RenderLock.
func (g *Graph) RangeShapes(fn func(h Handle, r *ReadShape)) {
	g.shapeStore.forEach(func(h Handle, r *ReadShape) {
		if g.allocator.Live(h.Index()) {
			fn(h, r)
		}
	})
}

// RangeShapeRects calls fn, in index order, for every handle that is
// both present in the ShapeRect render store and currently allocated.
// Callers must hold RenderLock.
func (g *Graph) RangeShapeRects(fn func(h Handle, r *ReadShapeRect)) {
	g.shapeRectStore.forEach(func(h Handle, r *ReadShapeRect) {
		if g.allocator.Live(h.Index()) {
			fn(h, r)
		}
	})
}

// Stats summarizes allocator and per-kind change-buffer occupancy, for
// diagnostics (e.g. cmd/scenedemo's stats verb).
type Stats struct {
	AllocatedIndices  int
	FreeIndices       int
	PendingContainers int
	PendingTexts      int
	PendingShapes     int
	PendingShapeRects int
}

// Stats reports a snapshot of allocator and buffer occupancy. It touches
// neither the render store nor RenderLock, so it is safe to call from
// the update thread between Sync calls.
func (g *Graph) Stats() Stats {
	return Stats{
		AllocatedIndices:  g.allocator.Len(),
		FreeIndices:       g.allocator.FreeCount(),
		PendingContainers: g.containerBuf.pending(),
		PendingTexts:      g.textBuf.pending(),
		PendingShapes:     g.shapeBuf.pending(),
		PendingShapeRects: g.shapeRectBuf.pending(),
	}
}

// RenderLock returns the mutex the render thread must hold for the
// entire duration of a traversal/collection pass, and that Sync holds
// for its entire body (spec §5). See the "Locking architecture" comment
// in sync.go.
func (g *Graph) RenderLock() sync.Locker { return &g.mu }

// Generation returns the allocator's current generation for index. It is
// a thin pass-through exposed for diagnostics and tests; ordinary callers
// resolve handles through TryGet* instead.
func (g *Graph) Generation(index uint64) uint16 { return g.allocator.Generation(index) }
