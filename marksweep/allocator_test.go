package marksweep

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type node struct {
	Base
	Label     string
	Left      *node
	Right     *node
	destroyed *bool
}

func newNode(a *Allocator, label string) *node {
	return Allocate(a, &node{Label: label})
}

func (n *node) Size() uintptr { return unsafe.Sizeof(*n) }

func (n *node) Mark(a *Allocator) {
	Field(a, &n.Left)
	Field(a, &n.Right)
}

func (n *node) Destroy() {
	if n.destroyed != nil {
		*n.destroyed = true
	}
}

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	a := New(Config{})
	t.Cleanup(a.Close)
	return a
}

func TestCollectKeepsReachableObjectsAtTheSameAddress(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = newNode(a, "left")

	before := root.Get()
	beforeLeft := root.Get().Left
	a.Collect()

	require.Same(t, before, root.Get())
	require.Same(t, beforeLeft, root.Get().Left)
}

func TestSweepDestroysUnreachableObjects(t *testing.T) {
	a := newTestAllocator(t)

	destroyed := false
	garbage := newNode(a, "garbage")
	garbage.destroyed = &destroyed

	_ = NewVar(a, newNode(a, "root"))

	a.Collect()
	require.True(t, destroyed)
}

func TestSweepDoesNotDestroySurvivors(t *testing.T) {
	a := newTestAllocator(t)

	destroyed := false
	kept := newNode(a, "kept")
	kept.destroyed = &destroyed
	root := NewVar(a, kept)

	a.Collect()
	require.False(t, destroyed)
	require.Same(t, kept, root.Get())
}

func TestForeignObjectsAreNeverMarkedOrDestroyed(t *testing.T) {
	a := newTestAllocator(t)
	b := newTestAllocator(t)

	destroyed := false
	foreign := newNode(b, "foreign")
	foreign.destroyed = &destroyed

	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = foreign

	a.Collect()
	require.False(t, destroyed)
	require.Same(t, foreign, root.Get().Left)
}

func TestAllowCollectRespectsTriggerThreshold(t *testing.T) {
	a := New(Config{TriggerThreshold: 200})
	defer a.Close()

	destroyed := false
	garbage := newNode(a, "garbage")
	garbage.destroyed = &destroyed

	a.AllowCollect()
	require.False(t, destroyed, "collection should not have run yet")

	for i := 0; i < 64; i++ {
		newNode(a, "filler")
	}
	a.AllowCollect()
	require.True(t, destroyed)
}

func TestMustCurrentPanicsWithNoBinding(t *testing.T) {
	a := New(Config{})
	a.Close()
	require.Panics(t, func() { MustCurrent() })
}
