// Package tlocal implements a thread-local slot: a value bound to the
// current OS thread rather than to the current goroutine. A collector
// instance binds itself into a slot on construction so that each backend's
// package-level Current and MustCurrent can find "the current collector"
// for the calling thread, the same role the source's
// platform TLS shim plays for GC::MemoryAllocator::getCurrent().
//
// Binding only means something for a goroutine that owns its OS thread for
// the lifetime of the binding; callers are expected to call
// runtime.LockOSThread before Bind, which every backend's constructor does.
package tlocal

import "sync"

// Slot holds at most one value per OS thread.
type Slot struct {
	mu    sync.RWMutex
	bound map[int64]any
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	return &Slot{bound: make(map[int64]any)}
}

// Bind associates v with the calling thread, replacing any prior binding.
func (s *Slot) Bind(v any) {
	tid := currentThreadID()
	s.mu.Lock()
	s.bound[tid] = v
	s.mu.Unlock()
}

// Unbind removes the calling thread's binding, if any.
func (s *Slot) Unbind() {
	tid := currentThreadID()
	s.mu.Lock()
	delete(s.bound, tid)
	s.mu.Unlock()
}

// Current returns the calling thread's bound value, or nil if none.
func (s *Slot) Current() any {
	tid := currentThreadID()
	s.mu.RLock()
	v := s.bound[tid]
	s.mu.RUnlock()
	return v
}
