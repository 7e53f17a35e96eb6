// Command gcbench repeatedly builds binary trees of one fixed height using
// the segmented collector, interleaving allow_collect calls between rebuilds,
// the same workload the core package's own testable properties are
// checked against.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"precisegc/segmented"
)

type tree struct {
	segmented.Base
	Label string
	Left  *tree
	Right *tree
}

func newTree(a *segmented.Allocator, label string) *tree {
	return segmented.Allocate(a, &tree{Label: label})
}

func (t *tree) Size() uintptr { return 64 }

func (t *tree) Clone(a *segmented.Allocator) segmented.Object {
	shell := segmented.Allocate(a, &tree{Label: t.Label})
	a.InstallForward(t, shell)
	shell.Left = segmented.Field(a, &t.Left)
	shell.Right = segmented.Field(a, &t.Right)
	return shell
}

// build constructs a complete binary tree with exactly 2^height - 1
// nodes: height 1 is a single leaf, height h > 1 is a node with two
// height-(h-1) subtrees. Nodes are labeled with a pre-order sequence
// number starting fresh at 0 for each call, so check can re-derive the
// same sequence and confirm every label is distinct.
func build(a *segmented.Allocator, height int) *tree {
	n := 0
	return buildNode(a, height, &n)
}

func buildNode(a *segmented.Allocator, height int, n *int) *tree {
	t := newTree(a, strconv.Itoa(*n))
	*n++
	if height > 1 {
		t.Left = buildNode(a, height-1, n)
		t.Right = buildNode(a, height-1, n)
	}
	return t
}

func count(t *tree) int {
	if t == nil {
		return 0
	}
	return 1 + count(t.Left) + count(t.Right)
}

// check walks t in the same pre-order build walks it, verifying that
// every label still parses back to the sequence number its position
// would have been assigned. It reports the number of nodes visited and
// whether every label matched.
func check(t *tree) (int, bool) {
	n := 0
	ok := checkNode(t, &n)
	return n, ok
}

func checkNode(t *tree, n *int) bool {
	if t == nil {
		return true
	}
	want := strconv.Itoa(*n)
	*n++
	if t.Label != want {
		return false
	}
	return checkNode(t.Left, n) && checkNode(t.Right, n)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: gcbench <tree-count> <max-height>\n")
	fmt.Fprintf(os.Stderr, "  builds <tree-count> binary trees of height <max-height>,\n")
	fmt.Fprintf(os.Stderr, "  interleaving allow_collect() calls between rebuilds.\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(1)
	}

	treeCount, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcbench: invalid tree count %q: %v\n", args[0], err)
		os.Exit(1)
	}
	maxHeight, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcbench: invalid max height %q: %v\n", args[1], err)
		os.Exit(1)
	}

	a := segmented.New(segmented.Config{
		SegmentSize:      1 << 20,
		TriggerThreshold: 16 << 20,
	})
	defer a.Close()

	start := time.Now()

	wanted := (1 << maxHeight) - 1
	for i := 0; i < treeCount; i++ {
		root := segmented.NewVar(a, build(a, maxHeight))
		got, ok := check(root.Get())
		if got != wanted {
			fmt.Fprintf(os.Stderr, "gcbench: tree %d has %d nodes, want %d\n", i, got, wanted)
			os.Exit(1)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "gcbench: tree %d has a mislabeled node\n", i)
			os.Exit(1)
		}
		root.Release()
		a.AllowCollect()
	}

	fmt.Printf("%.3fs\n", time.Since(start).Seconds())
}
