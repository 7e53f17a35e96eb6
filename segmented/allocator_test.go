package segmented

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// node is the fixture type used across this package's tests: two
// reference fields and a label, standing in for the source's Tree sample.
type node struct {
	Base
	Label string
	Left  *node
	Right *node
}

func newNode(a *Allocator, label string) *node {
	return Allocate(a, &node{Label: label})
}

func (n *node) Size() uintptr { return unsafe.Sizeof(*n) }

func (n *node) Clone(a *Allocator) Object {
	shell := Allocate(a, &node{Label: n.Label})
	a.InstallForward(n, shell)
	shell.Left = Field(a, &n.Left)
	shell.Right = Field(a, &n.Right)
	return shell
}

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	a := New(Config{SegmentSize: 256})
	t.Cleanup(a.Close)
	return a
}

func TestCollectRelocatesReachableObjects(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = newNode(a, "left")
	root.Get().Right = newNode(a, "right")

	before := root.Get()
	a.Collect()
	after := root.Get()

	require.NotSame(t, before, after)
	require.Equal(t, "root", after.Label)
	require.Equal(t, "left", after.Left.Label)
	require.Equal(t, "right", after.Right.Label)
}

func TestCollectDropsUnreachableObjects(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "kept"))
	_ = newNode(a, "garbage")

	a.Collect()

	require.Equal(t, "kept", root.Get().Label)
	require.Equal(t, uintptr(0), a.TotalAllocated())
}

func TestCollectIsIdempotentWithNoIntermediateAllocation(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "alone"))
	root.Get().Left = newNode(a, "child")

	a.Collect()
	firstTotal := a.TotalAllocated()
	firstLabel := root.Get().Label

	a.Collect()
	secondTotal := a.TotalAllocated()

	require.Equal(t, firstTotal, secondTotal)
	require.Equal(t, firstLabel, root.Get().Label)
	require.Equal(t, "child", root.Get().Left.Label)
}

func TestReleasedRootIsNotTracedAnymore(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "solo"))
	root.Release()

	require.NotPanics(t, func() { a.Collect() })
	require.Equal(t, uintptr(0), a.TotalAllocated())
}

func TestReleaseOfUnknownRootPanics(t *testing.T) {
	a := newTestAllocator(t)
	b := newTestAllocator(t)

	v := NewVar(a, newNode(a, "x"))
	require.Panics(t, func() {
		b.unregisterRoot(v.node)
	})
}

func TestAllowCollectRespectsTriggerThreshold(t *testing.T) {
	a := New(Config{SegmentSize: 4096, TriggerThreshold: 200})
	defer a.Close()

	root := NewVar(a, newNode(a, "root"))
	before := root.Get()

	a.AllowCollect()
	require.Same(t, before, root.Get(), "collection should not have run yet")

	for i := 0; i < 64; i++ {
		root.Get().Left = newNode(a, "filler")
	}
	a.AllowCollect()
	require.NotSame(t, before, root.Get(), "collection should have run once the threshold was crossed")
}

func TestForeignObjectsAreNotRelocatedByAnotherAllocator(t *testing.T) {
	a := newTestAllocator(t)
	b := newTestAllocator(t)

	foreign := newNode(b, "foreign")
	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = foreign

	a.Collect()

	require.Same(t, foreign, root.Get().Left, "an object owned by another allocator must never be relocated")
}

func TestOversizedObjectGetsItsOwnLargeSegment(t *testing.T) {
	a := New(Config{SegmentSize: 8})
	defer a.Close()

	root := NewVar(a, newNode(a, "big"))
	require.True(t, root.Get().GCHeader().segment.large)

	before := root.Get()
	a.Collect()
	require.NotSame(t, before, root.Get())
	require.True(t, root.Get().GCHeader().segment.large)
}

func TestArrayVarTracesEveryElement(t *testing.T) {
	a := newTestAllocator(t)

	arr := NewArrayVar[*node](a, 3)
	arr.Set(0, newNode(a, "a"))
	arr.Set(1, newNode(a, "b"))
	arr.Set(2, newNode(a, "c"))

	a.Collect()

	require.Equal(t, "a", arr.Get(0).Label)
	require.Equal(t, "b", arr.Get(1).Label)
	require.Equal(t, "c", arr.Get(2).Label)
}

func TestVectorVarPushPopAndTrace(t *testing.T) {
	a := newTestAllocator(t)

	vec := NewVectorVar[*node](a)
	vec.Push(newNode(a, "one"))
	vec.Push(newNode(a, "two"))

	a.Collect()
	require.Equal(t, 2, vec.Len())
	require.Equal(t, "two", vec.Top().Label)

	popped := vec.Pop()
	require.Equal(t, "two", popped.Label)
	require.Equal(t, 1, vec.Len())
	require.Equal(t, "one", vec.Get(0).Label)
}

func TestMustCurrentPanicsWithNoBinding(t *testing.T) {
	a := New(Config{})
	a.Close()
	require.Panics(t, func() { MustCurrent() })
}

func TestCurrentReflectsMostRecentBind(t *testing.T) {
	a := New(Config{})
	defer a.Close()
	require.Same(t, a, Current())
}
