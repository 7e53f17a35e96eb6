package segmented

// Segment is a unit of allocation accounting. It never holds the objects'
// memory directly — those live on the ordinary Go heap, where Go's own
// collector can see every pointer inside them — it only tracks which
// allocator owns a batch of objects and whether that batch must survive a
// cycle intact (pinned) or was sized for exactly one oversized object
// (large).
type Segment struct {
	owner  *Allocator
	next   *Segment
	pinned bool
	large  bool
}

// segmentPool is the free/used bookkeeping a Allocator delegates to. It
// mirrors the source's used-list/free-list split: standard segments are
// recycled across cycles, large segments never are.
type segmentPool struct {
	free *Segment
	used *Segment
}

func (p *segmentPool) obtainStandard(owner *Allocator) *Segment {
	var seg *Segment
	if p.free != nil {
		seg = p.free
		p.free = seg.next
	} else {
		seg = &Segment{owner: owner}
	}
	seg.pinned = false
	seg.large = false
	seg.next = p.used
	p.used = seg
	return seg
}

func (p *segmentPool) obtainLarge(owner *Allocator) *Segment {
	seg := &Segment{owner: owner, large: true}
	seg.next = p.used
	p.used = seg
	return seg
}

// reset detaches the used list so a new collection cycle can build a fresh
// one, returning the old list for releaseUnused to walk once tracing is
// done.
func (p *segmentPool) reset() *Segment {
	old := p.used
	p.used = nil
	return old
}

// releaseUnused walks a used list collected before a cycle started,
// promoting pinned segments whole into the new used list, dropping large
// segments (their one object is either already reachable through some
// other still-live segment or is garbage, and either way there is nothing
// left to recycle), and returning ordinary segments to the free list.
func (p *segmentPool) releaseUnused(old *Segment) {
	for old != nil {
		next := old.next
		switch {
		case old.pinned:
			old.next = p.used
			p.used = old
		case old.large:
			// Nothing to recycle; let the Go runtime reclaim the objects
			// that lived in it once nothing still references them.
		default:
			old.next = p.free
			p.free = old
		}
		old = next
	}
}
