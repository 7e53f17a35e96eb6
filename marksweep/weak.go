package marksweep

// Weak holds a reference that does not keep its target alive. Addresses
// never move in this backend, so resolving a Weak never rewrites it to a
// new value the way the copying backends do — it only ever clears it to
// the zero value once its target fails to survive a cycle.
type Weak[T Object] struct {
	target T
}

// NewWeak wraps target in a Weak.
func NewWeak[T Object](target T) *Weak[T] {
	return &Weak[T]{target: target}
}

func (w *Weak[T]) Get() T { return w.target }

// VisitWeak registers w to be resolved at the end of the collection cycle
// currently in progress.
func VisitWeak[T Object](a *Allocator, w *Weak[T]) {
	if IsNil(Object(w.target)) {
		return
	}
	hdr := Object(w.target).GCHeader()
	a.weakSweeps = append(a.weakSweeps, func() {
		if hdr.owner != a {
			return
		}
		if hdr.mark {
			return
		}
		var zero T
		w.target = zero
	})
}

// WeakVar is a root that holds only a weak reference.
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
