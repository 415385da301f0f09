package layout

import (
	"slices"
	"testing"
)

func iterTree() Layout {
	return NewVertical("root", []Layout{
		NewHorizontal("row", []Layout{NewEmpty("a"), NewEmpty("b")}),
		NewBlock("block", NewEmpty("c")),
		NewEmpty("d"),
	})
}

func TestIteratorPreOrder(t *testing.T) {
	want := []ID{"root", "row", "a", "b", "block", "c", "d"}

	var got []ID
	it := iterTree().Iter()
	for {
		node, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, node.ID())
	}
	if !slices.Equal(got, want) {
		t.Errorf("Next order = %v, want %v", got, want)
	}

	got = got[:0]
	for node := range All(iterTree()) {
		got = append(got, node.ID())
	}
	if !slices.Equal(got, want) {
		t.Errorf("All order = %v, want %v", got, want)
	}
}

func TestAllStopsEarly(t *testing.T) {
	n := 0
	for range All(iterTree()) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("visited %d nodes, want 3", n)
	}
}

func TestGet(t *testing.T) {
	root := iterTree()
	Solve(root, Size{100, 100})

	node, ok := Get(root, "c")
	if !ok {
		t.Fatal("Get(c) not found")
	}
	if _, isEmpty := node.(*EmptyLayout); !isEmpty {
		t.Errorf("Get(c) = %T, want *EmptyLayout", node)
	}
	if _, ok := Get(root, "missing"); ok {
		t.Error("Get(missing) should not be found")
	}
}

func TestCountAndWalk(t *testing.T) {
	root := iterTree()
	if got := Count(root); got != 7 {
		t.Errorf("Count = %d, want 7", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}

	depths := map[ID]int{}
	Walk(root, func(node Layout, depth int) {
		depths[node.ID()] = depth
	})
	want := map[ID]int{"root": 0, "row": 1, "a": 2, "b": 2, "block": 1, "c": 2, "d": 1}
	for id, d := range want {
		if depths[id] != d {
			t.Errorf("depth(%s) = %d, want %d", id, depths[id], d)
		}
	}
}
