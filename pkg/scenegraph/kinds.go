package scenegraph

// Kind names a family of nodes sharing a write payload type and a read
// payload type. The kind set is closed at compile time for the core
// (spec §3); extension means adding a new Write/Read pair, a Kind
// constant with its String case, fields on Graph and a syncKind call in
// Sync, not registering anything at run time.
type Kind int

const (
	KindContainer Kind = iota
	KindText
	KindShape
	KindShapeRect
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "Container"
	case KindText:
		return "Text"
	case KindShape:
		return "Shape"
	case KindShapeRect:
		return "ShapeRect"
	default:
		return "Unknown"
	}
}

// common carries the fields every write payload has regardless of kind:
// the owning handle and the deletion flag. Per spec §9 "Back-pointers
// and caches", this repository takes the "drop it entirely" strategy for
// the reference design's render_ptr cache: flush always resolves the
// render slot through the store's O(1) ensure() rather than trusting a
// cached pointer, since the store's backing slice can be reallocated by
// growth between epochs and a cached pointer would dangle. No field
// stands in for render_ptr at all, since one that is never read is dead
// state.
type common struct {
	id Handle

	// Deleted marks this handle for deletion. Per spec §6 "Frontend
	// contract", a caller expresses deletion by setting
	// AccessX(handle).Deleted = true; the core does not expose a
	// separate Delete method because the reference design treats
	// deletion as just another field write that coalesces with any
	// other writes in the epoch (spec invariant I8, "delete dominance").
	Deleted bool
}

func (c *common) resetCommon(h Handle) {
	c.id = h
	c.Deleted = false
}

func (c *common) handle() Handle  { return c.id }
func (c *common) isDeleted() bool { return c.Deleted }

// WriteContainer is the update-side payload for a Container node.
type WriteContainer struct {
	common

	X, Y     float64
	Visible  bool
	Children []Handle
}

func (w *WriteContainer) reset(h Handle) {
	w.resetCommon(h)
	w.X, w.Y = 0, 0
	w.Visible = true
	w.Children = nil
}

// ReadContainer is the render-side projection of a Container node.
type ReadContainer struct {
	X, Y    float64
	Visible bool
	// Children holds child handles by value (spec §4 flush contract:
	// "no deduplication, order-preserving"). Traversal resolves each
	// child by handle through the appropriate kind's store; a missing
	// or stale child is simply absent (spec §7 "User-visible behavior").
	Children []Handle
	// CommandsCacheValid is a supplemented field (SPEC_FULL.md §12,
	// grounded on original_source/src/NodeData.cpp's
	// r->isCommandsCacheValid) consumed by the out-of-scope render
	// backend's command cache. It is cleared on every flush of this
	// container and never walked upward to ancestors, since the core
	// keeps no parent back-references.
	CommandsCacheValid bool
}

func (w *WriteContainer) flush(g *Graph) {
	r := g.containerStore.ensure(w.id)
	r.X, r.Y = w.X, w.Y
	r.Visible = w.Visible
	r.Children = append([]Handle(nil), w.Children...)
	r.CommandsCacheValid = false
}

// WriteText is the update-side payload for a Text node.
type WriteText struct {
	common

	X, Y    float64
	Visible bool
	Text    string
}

func (w *WriteText) reset(h Handle) {
	w.resetCommon(h)
	w.X, w.Y = 0, 0
	w.Visible = true
	w.Text = ""
}

// ReadText is the render-side projection of a Text node.
type ReadText struct {
	X, Y    float64
	Visible bool
	Text    string
}

func (w *WriteText) flush(g *Graph) {
	r := g.textStore.ensure(w.id)
	r.X, r.Y = w.X, w.Y
	r.Visible = w.Visible
	r.Text = w.Text
}

// WriteShape is the update-side payload for an opaque Shape node. Beyond
// position and visibility it carries no kind-specific fields — per
// spec.md §1, concrete node-kind business logic is an out-of-scope
// external concern; this core only moves the opaque payload.
type WriteShape struct {
	common

	X, Y    float64
	Visible bool
}

func (w *WriteShape) reset(h Handle) {
	w.resetCommon(h)
	w.X, w.Y = 0, 0
	w.Visible = true
}

// ReadShape is the render-side projection of a Shape node.
type ReadShape struct {
	X, Y    float64
	Visible bool
}

func (w *WriteShape) flush(g *Graph) {
	r := g.shapeStore.ensure(w.id)
	r.X, r.Y = w.X, w.Y
	r.Visible = w.Visible
}

// WriteShapeRect is the update-side payload for a rectangle shape node.
type WriteShapeRect struct {
	common

	X, Y          float64
	Visible       bool
	Width, Height float64
}

func (w *WriteShapeRect) reset(h Handle) {
	w.resetCommon(h)
	w.X, w.Y = 0, 0
	w.Visible = true
	w.Width, w.Height = 0, 0
}

// ReadShapeRect is the render-side projection of a ShapeRect node.
type ReadShapeRect struct {
	X, Y          float64
	Visible       bool
	Width, Height float64
}

func (w *WriteShapeRect) flush(g *Graph) {
	r := g.shapeRectStore.ensure(w.id)
	r.X, r.Y = w.X, w.Y
	r.Visible = w.Visible
	r.Width, r.Height = w.Width, w.Height
}
