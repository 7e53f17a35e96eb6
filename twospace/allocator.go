package twospace

import (
	"runtime"

	"precisegc/internal/tlocal"
)

const maxThreshold = ^uintptr(0)

// Config controls one Allocator's semi-space capacity and collection
// thresholds.
type Config struct {
	// Capacity is the byte budget of one semi-space. Allocate fails (per
	// RaiseOnOOM) once a space holding this many bytes of live objects
	// has no room for the next allocation.
	Capacity uintptr

	// TriggerThreshold is the watermark AllowCollect checks.
	TriggerThreshold uintptr

	// AutoThreshold is the watermark Allocate checks unconditionally. Zero
	// means "never".
	AutoThreshold uintptr

	// RaiseOnOOM selects whether Allocate panics with ErrOutOfMemory or
	// returns the zero value of T when the space is exhausted even after
	// a forced collection.
	RaiseOnOOM bool
}

func (c Config) withDefaults() Config {
	if c.Capacity == 0 {
		c.Capacity = 1 << 20
	}
	if c.TriggerThreshold == 0 {
		c.TriggerThreshold = c.Capacity / 2
	}
	if c.AutoThreshold == 0 {
		c.AutoThreshold = maxThreshold
	}
	return c
}

// Allocator owns one two-space heap: its current semi-space's used budget,
// its root registry, and the thresholds that decide when a flip runs.
type Allocator struct {
	capacity         uintptr
	triggerThreshold uintptr
	autoThreshold    uintptr
	raiseOnOOM       bool

	used      uintptr
	allocated uintptr

	roots *rootNode
}

var boundSlot = tlocal.NewSlot()

// New creates an Allocator and binds it to the calling OS thread.
func New(cfg Config) *Allocator {
	cfg = cfg.withDefaults()
	a := &Allocator{
		capacity:         cfg.Capacity,
		triggerThreshold: cfg.TriggerThreshold,
		autoThreshold:    cfg.AutoThreshold,
		raiseOnOOM:       cfg.RaiseOnOOM,
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

// TotalAllocated reports the number of bytes accounted since the start of
// the current semi-space.
func (a *Allocator) TotalAllocated() uintptr {
	return a.allocated
}

func roundUp8(n uintptr) uintptr {
	return (n + 7) &^ 7
}

// Allocate allocates a fresh obj against a, forcing a collection first if
// AutoThreshold has been crossed, and again if the semi-space turns out
// not to have room. If it is still full after that and a is not
// configured to RaiseOnOOM, Allocate returns the zero value of T instead
// of obj.
func Allocate[T Object](a *Allocator, obj T) T {
	if a.allocated >= a.autoThreshold {
		a.Collect()
	}
	size := roundUp8(obj.Size())
	if a.used+size > a.capacity {
		a.Collect()
		if a.used+size > a.capacity {
			if a.raiseOnOOM {
				panic(ErrOutOfMemory)
			}
			var zero T
			return zero
		}
	}
	a.used += size
	a.allocated += size
	obj.GCHeader().owner = a
	return obj
}

// AllowCollect runs a flip if TotalAllocated has crossed TriggerThreshold.
func (a *Allocator) AllowCollect() {
	if a.allocated >= a.triggerThreshold {
		a.Collect()
	}
}

// Collect performs the flip: trace every root into a fresh semi-space,
// discarding anything not reachable from a root. There is no pin list or
// weak list to consult in this backend.
func (a *Allocator) Collect() {
	savedAuto := a.autoThreshold
	a.autoThreshold = maxThreshold
	defer func() { a.autoThreshold = savedAuto }()

	a.used = 0
	a.allocated = 0

	for n := a.roots; n != nil; n = n.next {
		n.root.trace(a)
	}

	// The trace above re-accounted every survivor's copy through Allocate;
	// discard that cost so allocated reports zero once the flip completes.
	a.allocated = 0
}
