package segmented

// pinNode is the intrusive list entry backing the pin registry. Unlike
// roots, pins are tracked by Object rather than by a tracer interface: the
// pin pre-pass needs the raw object to tag its segment and install the
// self-forwarding sentinel before anything is traced.
type pinNode struct {
	obj  Object
	next *pinNode
}

func (a *Allocator) registerPin(obj Object) *pinNode {
	n := &pinNode{obj: obj, next: a.pins}
	a.pins = n
	return n
}

func (a *Allocator) unregisterPin(n *pinNode) {
	pp := &a.pins
	for *pp != nil {
		if *pp == n {
			*pp = n.next
			return
		}
		pp = &(*pp).next
	}
	panic(errDanglingNode)
}

// Pin holds a managed object at a fixed address across collections: the
// segment it lives in is promoted whole rather than having the object
// relocated. Unlike Var, a Pin's Get never changes value across a cycle —
// that is the entire point of pinning — so there is no trace method to
// call back into.
type Pin[T Object] struct {
	a    *Allocator
	node *pinNode
	val  T
}

// NewPin pins v for the lifetime of the Pin and registers it with a.
func NewPin[T Object](a *Allocator, v T) *Pin[T] {
	p := &Pin[T]{a: a, val: v}
	p.node = a.registerPin(Object(v))
	return p
}

func (p *Pin[T]) Get() T   { return p.val }
func (p *Pin[T]) Release() { p.a.unregisterPin(p.node) }
