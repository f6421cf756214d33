package scenegraph

// Locking architecture
//
// This core has exactly one lock: Graph.mu, exposed publicly as
// RenderLock(). Unlike pkg/slotcache's four-layer scheme (per-handle
// state mutex, per-file in-process RWMutex, an interprocess advisory
// lock file, and a seqlock generation for lock-free mmap reads), nothing
// here is durable, shared across processes, or read without holding a
// lock — spec §1 explicitly places cross-process/persistent storage out
// of scope, and spec §5 mandates readers always take renderLock, so
// there is no lock-free read path that needs a seqlock-style retry.
//
//  1. Graph.mu ("renderLock") — guards every renderStore and the
//     allocator's free/generation state during Sync.
//     - The render thread holds it for an entire traversal pass.
//     - Sync holds it for its entire body.
//     - The update thread never holds it while mutating a changeBuffer
//       (changeBuffers are single-writer and need no lock at all).
//
// Lock ordering is trivial because there is only one lock to order.

// Sync is the atomic hand-off from the write epoch to the read epoch
// (spec §4.4). While holding renderLock, it processes each kind in a
// fixed registration order (Container, Text, Shape, ShapeRect — the
// reference order; no kind's flush reads another kind's store, so this
// order is merely deterministic, not load-bearing), draining that kind's
// changeBuffer in first-touch order and, per change:
//   - if the change is marked deleted, frees the handle in the
//     allocator and clears the corresponding render slot, bumping its
//     generation so stale reads fail closed (spec invariant I2, I8);
//   - otherwise flushes the change into the render store, creating or
//     refreshing the slot (spec §4.3 "ensure").
//
// Sync must be called from the update thread (spec §9 open question:
// the canonical direction is update-thread-initiated; calling it from
// another thread requires the caller to also guard the allocator with
// renderLock, which this implementation does not do on your behalf).
//
// An empty Sync (no pending changes in any kind) still acquires and
// releases renderLock, and is otherwise a no-op (spec invariant: sync();
// sync() is equivalent to sync()).
func (g *Graph) Sync() {
	g.mu.Lock()
	defer g.mu.Unlock()

	syncKind(g, &g.containerBuf, func(w *WriteContainer) { w.flush(g) }, g.containerStore.clear)
	syncKind(g, &g.textBuf, func(w *WriteText) { w.flush(g) }, g.textStore.clear)
	syncKind(g, &g.shapeBuf, func(w *WriteShape) { w.flush(g) }, g.shapeStore.clear)
	syncKind(g, &g.shapeRectBuf, func(w *WriteShapeRect) { w.flush(g) }, g.shapeRectStore.clear)
}

// syncKind drains one kind's changeBuffer and applies each change,
// deletion or flush, in snapshot order. It is generic over the write
// payload type so the deletion half of the contract (free + clear) is
// written once instead of once per kind; clear is the kind's own
// renderStore.clear, bound by the caller, so a deletion touches only the
// store it belongs to (spec §4.4 never asks a deletion to touch another
// kind's store).
func syncKind[T any, PT writePayload[T]](g *Graph, buf *changeBuffer[T, PT], flush func(PT), clear func(index uint64, newGeneration uint16)) {
	changes := buf.snapshot()

	for i := range changes {
		change := PT(&changes[i])

		if change.isDeleted() {
			h := change.handle()
			g.allocator.Free(h)
			newGen := g.allocator.Generation(h.Index())
			clear(h.Index(), newGen)

			continue
		}

		flush(change)
	}
}
