// Package scenegraph is the synchronization core of a retained-mode UI
// scene graph split across an update thread and a render thread.
//
// It provides a handle allocator with generation tagging, a
// type-partitioned change buffer that coalesces per-epoch mutations, a
// type-partitioned render store holding the stable render-side view, and
// a sync engine that is the only point at which the render view changes.
//
// # Basic Usage
//
//	g := scenegraph.NewGraph()
//
//	// Update thread.
//	h := g.AllocateHandle()
//	g.AccessContainer(h).X = 10
//	g.AccessContainer(h).Y = 20
//	g.Sync()
//
//	// Render thread.
//	g.RenderLock().Lock()
//	defer g.RenderLock().Unlock()
//	node, ok := g.TryGetContainer(h)
//	if ok {
//	    // emit draw commands for node
//	}
//
// # Concurrency
//
// scenegraph uses a two-thread model: a single update thread and a
// single render thread.
//   - AccessData-style methods (AccessContainer, AccessText, ...) are
//     owned exclusively by the update thread and never block.
//   - Sync acquires RenderLock for its entire body; call it from the
//     update thread at the end of an epoch.
//   - TryGet-style methods are safe to call from the render thread only
//     while holding RenderLock for the whole traversal.
//
// # Error Handling
//
// There are no returned errors. Stale, unknown, or kind-mismatched
// handles resolve to an absent render node (TryGet* returns false);
// double-free and stale-free are silent no-ops. This mirrors the
// reference design's fail-closed policy — see each method's doc comment
// for the specific behavior.
package scenegraph
