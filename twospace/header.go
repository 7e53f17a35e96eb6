package twospace

// Header is the per-object metadata every managed type carries via an
// embedded Base. There is no segment back-pointer here, only the owning
// allocator directly — the two-space backend has no concept of a segment,
// so "self" vs "foreign" is decided by comparing owner against the
// collector currently tracing.
type Header struct {
	owner   *Allocator
	forward Object
	copied  bool
}

// Base is embedded by every type managed by an Allocator.
type Base struct {
	hdr Header
}

func (b *Base) GCHeader() *Header {
	return &b.hdr
}
