package twospace

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

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
	a := New(Config{Capacity: 4096})
	t.Cleanup(a.Close)
	return a
}

func TestFlipRelocatesReachableObjects(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = newNode(a, "left")

	before := root.Get()
	a.Collect()

	require.NotSame(t, before, root.Get())
	require.Equal(t, "root", root.Get().Label)
	require.Equal(t, "left", root.Get().Left.Label)
}

func TestFlipDropsUnreachableObjects(t *testing.T) {
	a := newTestAllocator(t)

	root := NewVar(a, newNode(a, "kept"))
	_ = newNode(a, "garbage")

	a.Collect()
	require.Equal(t, "kept", root.Get().Label)
	require.Equal(t, uintptr(0), a.TotalAllocated())
}

func TestOutOfMemoryReturnsZeroValueByDefault(t *testing.T) {
	a := New(Config{Capacity: 300})
	defer a.Close()

	var roots []*Var[*node]
	for i := 0; i < 16; i++ {
		n := Allocate(a, &node{Label: "filler"})
		if n == nil {
			require.NotEmpty(t, roots, "at least one allocation should have succeeded before the space filled up")
			return
		}
		roots = append(roots, NewVar(a, n))
	}
	t.Fatal("expected allocation to fail once the semi-space filled up")
}

func TestOutOfMemoryPanicsWhenConfiguredToRaise(t *testing.T) {
	a := New(Config{Capacity: 300, RaiseOnOOM: true})
	defer a.Close()

	require.Panics(t, func() {
		for i := 0; i < 16; i++ {
			n := Allocate(a, &node{Label: "filler"})
			NewVar(a, n)
		}
	})
}

func TestForeignObjectsAreLeftUntouched(t *testing.T) {
	a := newTestAllocator(t)
	b := newTestAllocator(t)

	foreign := newNode(b, "foreign")
	root := NewVar(a, newNode(a, "root"))
	root.Get().Left = foreign

	a.Collect()
	require.Same(t, foreign, root.Get().Left)
}

func TestAllowCollectRespectsTriggerThreshold(t *testing.T) {
	a := New(Config{Capacity: 4096, TriggerThreshold: 200})
	defer a.Close()

	root := NewVar(a, newNode(a, "root"))
	before := root.Get()

	a.AllowCollect()
	require.Same(t, before, root.Get())

	// 8 fillers of 64 bytes cross the 200-byte threshold while staying well
	// inside the 4096-byte capacity, so only AllowCollect can run a flip.
	for i := 0; i < 8; i++ {
		root.Get().Left = newNode(a, "filler")
	}
	a.AllowCollect()
	require.NotSame(t, before, root.Get())
}
