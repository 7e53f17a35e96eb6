// Package segmented implements a copying garbage collector over a segmented
// heap: fixed-size segments pooled on a free list, a separate class of large
// segments for oversized objects, object pinning, and weak references. It is
// the core of this module — the other two backends (twospace, marksweep)
// trade away pieces of this contract for simpler or more predictable
// behavior.
//
// A managed object is any type that embeds Base and implements Object. User
// code passes every new object through Allocate, which stamps the object's
// header and accounts its size against the current segment and the
// allocator's thresholds.
//
// Objects only ever move during a collection, and only a Root, Pin, or the
// Field/Copy self-update discipline described on Copy is allowed
// to observe and rewrite a moved reference. Holding a bare Go pointer to a
// managed object across a call that can trigger a collection (Allocate,
// Collect, AllowCollect) is the same mistake as holding a bare C++ pointer across a
// GC::MemoryAllocator::allocate call in the source this package is ported
// from: the pointer may now address stale memory.
package segmented
