//go:build scenegraph_debug

package scenegraph

import "fmt"

// debugAssertFresh panics if h is stale relative to the allocator's
// current generation for h's index. It exists only under the
// scenegraph_debug build tag, per spec §9's "Open questions" decision:
// access_data on a stale handle has no guard in the normative path, but
// implementers MAY add a debug-only assertion. It is wired into each
// Access* method in graph.go via a build-tag-selected no-op/checked pair so
// the hot path carries zero overhead in non-debug builds.
func (g *Graph) debugAssertFresh(h Handle) {
	if !g.allocator.IsCurrent(h) {
		panic(fmt.Sprintf("scenegraph: access on stale handle %#x (index %d, generation %d, current %d)",
			uint64(h), h.Index(), h.Generation(), g.allocator.Generation(h.Index())))
	}
}
