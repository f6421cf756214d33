//go:build !scenegraph_debug

package scenegraph

// debugAssertFresh is a no-op outside the scenegraph_debug build tag; see
// debug.go.
func (g *Graph) debugAssertFresh(_ Handle) {}
