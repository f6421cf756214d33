package scenegraph

// This package has no sentinel errors of its own: per spec §7, every
// misuse case (stale handle, unknown handle, double free, kind mismatch)
// is a soft failure — an absent result or a silent no-op — never a
// returned error. The error taxonomy named in spec §7 is documented on
// the relevant methods (TryGet*, Allocator.Free) rather than surfaced as
// Go error values, matching the reference design's "propagation policy"
// exactly rather than translating it into a Go idiom it does not call
// for. See pkg/scenegraph/doc.go "Error Handling".
