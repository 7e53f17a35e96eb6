package segmented

import (
	"runtime"

	"precisegc/internal/tlocal"
)

const maxThreshold = ^uintptr(0)

// Config controls the budgets an Allocator enforces. The zero Config is
// usable: every field falls back to a default sized for small unit tests.
type Config struct {
	// SegmentSize is the accounting capacity of one standard segment. An
	// object whose Size exceeds it is placed in its own large segment
	// instead of competing for space in the pool.
	SegmentSize uintptr

	// TriggerThreshold is the allocated-bytes watermark AllowCollect
	// checks against before deciding to run a cycle.
	TriggerThreshold uintptr

	// AutoThreshold is the watermark Allocate checks unconditionally,
	// regardless of whether the caller ever calls AllowCollect. Leave it
	// at zero (meaning "never") for callers that drive collection
	// entirely through AllowCollect or Collect.
	AutoThreshold uintptr
}

func (c Config) withDefaults() Config {
	if c.SegmentSize == 0 {
		c.SegmentSize = 1 << 20
	}
	if c.TriggerThreshold == 0 {
		c.TriggerThreshold = 4 * c.SegmentSize
	}
	if c.AutoThreshold == 0 {
		c.AutoThreshold = maxThreshold
	}
	return c
}

// Allocator owns one segmented heap: its live segments, its root and pin
// registries, and the budgets that decide when a collection runs. It is
// bound to exactly one OS thread at a time via Current; nothing about it
// is safe for concurrent use from two threads at once.
type Allocator struct {
	segmentSize      uintptr
	triggerThreshold uintptr
	autoThreshold    uintptr

	pool    segmentPool
	curSeg  *Segment
	curUsed uintptr

	allocated uintptr

	roots *rootNode
	pins  *pinNode

	weakSweeps []func()
}

var boundSlot = tlocal.NewSlot()

// New creates an Allocator and binds it to the calling OS thread, locking
// the current goroutine to that thread for the lifetime of the binding
// (see runtime.LockOSThread). A later call to New on the same thread, or
// to Close, replaces or clears the binding.
func New(cfg Config) *Allocator {
	cfg = cfg.withDefaults()
	a := &Allocator{
		segmentSize:      cfg.SegmentSize,
		triggerThreshold: cfg.TriggerThreshold,
		autoThreshold:    cfg.AutoThreshold,
	}
	runtime.LockOSThread()
	boundSlot.Bind(a)
	return a
}

// Close unbinds a from the calling thread. It does not release
// LockOSThread, since unlocking is only safe if the caller knows no other
// thread-sensitive state is still active on this goroutine.
func (a *Allocator) Close() {
	boundSlot.Unbind()
}

// Current returns the Allocator bound to the calling OS thread, or nil if
// none has been bound (or it has been Close'd).
func Current() *Allocator {
	v := boundSlot.Current()
	if v == nil {
		return nil
	}
	return v.(*Allocator)
}

// MustCurrent is Current, panicking with ErrNoCollectorBound instead of
// returning nil.
func MustCurrent() *Allocator {
	a := Current()
	if a == nil {
		panic(ErrNoCollectorBound)
	}
	return a
}

// TotalAllocated reports the number of bytes accounted since the start of
// the current cycle (or since New, if no cycle has run yet).
func (a *Allocator) TotalAllocated() uintptr {
	return a.allocated
}

// Allocate allocates a fresh obj of type T against a: it stamps obj's
// header with the segment it was accounted to and returns obj. It may
// trigger a collection first if AutoThreshold has been crossed.
func Allocate[T Object](a *Allocator, obj T) T {
	seg := a.allocate(obj.Size())
	obj.GCHeader().segment = seg
	return obj
}

func roundUp8(n uintptr) uintptr {
	return (n + 7) &^ 7
}

func (a *Allocator) allocate(size uintptr) *Segment {
	if a.allocated >= a.autoThreshold {
		a.Collect()
	}
	size = roundUp8(size)
	a.allocated += size

	if size > a.segmentSize {
		return a.pool.obtainLarge(a)
	}
	if a.curSeg == nil || a.curUsed+size > a.segmentSize {
		a.curSeg = a.pool.obtainStandard(a)
		a.curUsed = 0
	}
	a.curUsed += size
	return a.curSeg
}

// AllowCollect runs a collection if TotalAllocated has crossed
// TriggerThreshold, and is a no-op otherwise. Long-running code that
// allocates in a loop (tree-building benchmarks, servers between
// requests) calls this at safe points instead of waiting for AutoThreshold.
func (a *Allocator) AllowCollect() {
	if a.allocated >= a.triggerThreshold {
		a.Collect()
	}
}

// Collect runs one full collection cycle: flip, pin pre-pass, pin trace,
// root trace, weak sweep, reclaim. It is idempotent to call back-to-back
// with no intervening allocation: the second call relocates every live
// object again, but leaves the same set of live objects and the same
// TotalAllocated (zero) as the first.
func (a *Allocator) Collect() {
	savedAuto := a.autoThreshold
	a.autoThreshold = maxThreshold
	defer func() { a.autoThreshold = savedAuto }()

	oldUsed := a.pool.reset()
	a.curSeg = nil
	a.curUsed = 0
	a.allocated = 0

	for s := oldUsed; s != nil; s = s.next {
		s.pinned = false
	}
	for n := a.pins; n != nil; n = n.next {
		hdr := n.obj.GCHeader()
		if hdr.segment != nil {
			hdr.segment.pinned = true
		}
		hdr.forward = n.obj
		hdr.copied = false
	}
	for n := a.pins; n != nil; n = n.next {
		Copy(a, n.obj)
	}

	for n := a.roots; n != nil; n = n.next {
		n.root.trace(a)
	}

	for _, sweep := range a.weakSweeps {
		sweep()
	}
	a.weakSweeps = a.weakSweeps[:0]

	a.pool.releaseUnused(oldUsed)

	// The trace above re-accounted every survivor's copy through allocate;
	// discard that cost, the same as the final allocated = 0 in _gc().
	a.allocated = 0
}
