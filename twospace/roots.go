package twospace

// rootTracer is implemented by every root kind this backend offers.
type rootTracer interface {
	trace(a *Allocator)
}

type rootNode struct {
	root rootTracer
	next *rootNode
}

func (a *Allocator) registerRoot(r rootTracer) *rootNode {
	n := &rootNode{root: r, next: a.roots}
	a.roots = n
	return n
}

func (a *Allocator) unregisterRoot(n *rootNode) {
	pp := &a.roots
	for *pp != nil {
		if *pp == n {
			*pp = n.next
			return
		}
		pp = &(*pp).next
	}
	panic(errDanglingNode)
}

// Var is a single-slot root.
type Var[T Object] struct {
	a    *Allocator
	node *rootNode
	val  T
}

// NewVar creates a Var holding v and registers it as a root of a.
func NewVar[T Object](a *Allocator, v T) *Var[T] {
	vr := &Var[T]{a: a, val: v}
	vr.node = a.registerRoot(vr)
	return vr
}

func (v *Var[T]) Get() T   { return v.val }
func (v *Var[T]) Set(x T)  { v.val = x }
func (v *Var[T]) Release() { v.a.unregisterRoot(v.node) }

func (v *Var[T]) trace(a *Allocator) {
	v.val = copyTyped(a, v.val)
}

// ArrayVar is a fixed-length root holding Object references.
type ArrayVar[T Object] struct {
	a     *Allocator
	node  *rootNode
	items []T
}

// NewArrayVar creates an ArrayVar of the given length and registers it as
// a root of a.
func NewArrayVar[T Object](a *Allocator, length int) *ArrayVar[T] {
	v := &ArrayVar[T]{a: a, items: make([]T, length)}
	v.node = a.registerRoot(v)
	return v
}

func (v *ArrayVar[T]) Len() int       { return len(v.items) }
func (v *ArrayVar[T]) Get(i int) T    { return v.items[i] }
func (v *ArrayVar[T]) Set(i int, x T) { v.items[i] = x }
func (v *ArrayVar[T]) Release()       { v.a.unregisterRoot(v.node) }

func (v *ArrayVar[T]) trace(a *Allocator) {
	for i := range v.items {
		v.items[i] = copyTyped(a, v.items[i])
	}
}

// VectorVar is a growable root holding Object references.
type VectorVar[T Object] struct {
	a     *Allocator
	node  *rootNode
	items []T
}

// NewVectorVar creates an empty VectorVar and registers it as a root of a.
func NewVectorVar[T Object](a *Allocator) *VectorVar[T] {
	v := &VectorVar[T]{a: a}
	v.node = a.registerRoot(v)
	return v
}

func (v *VectorVar[T]) Len() int    { return len(v.items) }
func (v *VectorVar[T]) Get(i int) T { return v.items[i] }
func (v *VectorVar[T]) Push(x T)    { v.items = append(v.items, x) }

func (v *VectorVar[T]) Pop() T {
	n := len(v.items) - 1
	x := v.items[n]
	var zero T
	v.items[n] = zero
	v.items = v.items[:n]
	return x
}

func (v *VectorVar[T]) Release() { v.a.unregisterRoot(v.node) }

func (v *VectorVar[T]) trace(a *Allocator) {
	for i := range v.items {
		v.items[i] = copyTyped(a, v.items[i])
	}
}
