package marksweep

import (
	"runtime"

	"precisegc/internal/tlocal"
)

const maxThreshold = ^uintptr(0)

// Config controls the collection thresholds of one Allocator.
type Config struct {
	TriggerThreshold uintptr
	AutoThreshold    uintptr
}

func (c Config) withDefaults() Config {
	if c.TriggerThreshold == 0 {
		c.TriggerThreshold = 1 << 20
	}
	if c.AutoThreshold == 0 {
		c.AutoThreshold = maxThreshold
	}
	return c
}

// Allocator owns one mark-and-sweep heap: the global list of everything
// it has allocated, its root registry, and the thresholds that decide
// when a sweep runs.
type Allocator struct {
	triggerThreshold uintptr
	autoThreshold    uintptr

	allocated uintptr
	head      Object

	roots *rootNode

	weakSweeps []func()
}

var boundSlot = tlocal.NewSlot()

// New creates an Allocator and binds it to the calling OS thread.
func New(cfg Config) *Allocator {
	cfg = cfg.withDefaults()
	a := &Allocator{
		triggerThreshold: cfg.TriggerThreshold,
		autoThreshold:    cfg.AutoThreshold,
	}
	runtime.LockOSThread()
	boundSlot.Bind(a)
	return a
}

// Close unbinds a from the calling thread.
func (a *Allocator) Close() {
	boundSlot.Unbind()
}

// Current returns the Allocator bound to the calling OS thread, or nil.
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

// TotalAllocated reports the number of bytes allocated since the most
// recent sweep (or since New, if none has run yet). A sweep resets it to
// zero; the bytes of the objects that survived it are not counted.
func (a *Allocator) TotalAllocated() uintptr {
	return a.allocated
}

func roundUp8(n uintptr) uintptr {
	return (n + 7) &^ 7
}

// Allocate links obj into a's global object list and accounts its size.
// It may trigger a collection first if AutoThreshold has been crossed.
func Allocate[T Object](a *Allocator, obj T) T {
	if a.allocated >= a.autoThreshold {
		a.Collect()
	}
	hdr := obj.GCHeader()
	hdr.owner = a
	hdr.next = a.head
	a.head = obj
	a.allocated += roundUp8(obj.Size())
	return obj
}

// AllowCollect runs a sweep if TotalAllocated has crossed
// TriggerThreshold.
func (a *Allocator) AllowCollect() {
	if a.allocated >= a.triggerThreshold {
		a.Collect()
	}
}

// Collect marks every object reachable from a root, resolves weak
// references against the marks left by that trace, then sweeps the
// global object list: survivors have their mark bit cleared and are
// threaded into the new list, everything else is unlinked and destroyed.
func (a *Allocator) Collect() {
	savedAuto := a.autoThreshold
	a.autoThreshold = maxThreshold
	defer func() { a.autoThreshold = savedAuto }()

	for n := a.roots; n != nil; n = n.next {
		n.root.trace(a)
	}

	for _, sweep := range a.weakSweeps {
		sweep()
	}
	a.weakSweeps = a.weakSweeps[:0]

	var kept Object
	for obj := a.head; obj != nil; {
		hdr := obj.GCHeader()
		next := hdr.next
		if hdr.mark {
			hdr.mark = false
			hdr.next = kept
			kept = obj
		} else {
			obj.Destroy()
		}
		obj = next
	}
	a.head = kept

	// sweepPhase resets allocated = 0 unconditionally as its last
	// statement, regardless of how many objects survived.
	a.allocated = 0
}
