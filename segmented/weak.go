package segmented

// Weak holds a reference that does not keep its target alive and that the
// collector is free to null out. Weak references are not kept in any
// permanent list — unlike roots and pins, an allocator has no way to find
// every live Weak — so a Weak only gets resolved for a given cycle if
// something visits it during that cycle's root trace, via VisitWeak or a
// WeakVar root.
type Weak[T Object] struct {
	target T
}

// NewWeak wraps target in a Weak. target is not required to be reachable
// from any root; if it is garbage by the next cycle and this Weak is never
// visited again, it simply keeps reporting the stale value forever, the
// same as never looking at a weak pointer again in the source this is
// ported from.
func NewWeak[T Object](target T) *Weak[T] {
	return &Weak[T]{target: target}
}

func (w *Weak[T]) Get() T { return w.target }

// VisitWeak registers w to be resolved at the end of the collection cycle
// currently in progress: if its target survived, w is updated to point at
// the surviving copy; if the target was garbage, w is cleared to the zero
// value of T. A Clone implementation holding a *Weak[T] field must call
// this instead of Field, since a weak reference is never itself traced as
// a strong one.
func VisitWeak[T Object](a *Allocator, w *Weak[T]) {
	if IsNil(Object(w.target)) {
		return
	}
	hdr := Object(w.target).GCHeader()
	a.weakSweeps = append(a.weakSweeps, func() {
		if hdr.copied {
			w.target = hdr.forward.(T)
			return
		}
		if hdr.segment != nil && hdr.segment.owner == a {
			var zero T
			w.target = zero
		}
	})
}

// WeakVar is a root that holds only a weak reference: registering one is
// how code expresses "trace this every cycle so it gets resolved, but
// don't keep the target alive on my account."
type WeakVar[T Object] struct {
	a    *Allocator
	node *rootNode
	w    *Weak[T]
}

// NewWeakVar creates a WeakVar over target and registers it as a root of a.
func NewWeakVar[T Object](a *Allocator, target T) *WeakVar[T] {
	wv := &WeakVar[T]{a: a, w: NewWeak(target)}
	wv.node = a.registerRoot(wv)
	return wv
}

func (wv *WeakVar[T]) Get() T   { return wv.w.Get() }
func (wv *WeakVar[T]) Release() { wv.a.unregisterRoot(wv.node) }

func (wv *WeakVar[T]) trace(a *Allocator) {
	VisitWeak(a, wv.w)
}
