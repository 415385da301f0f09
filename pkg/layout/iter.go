package layout

import "iter"

// Iterator walks a layout tree depth-first in pre-order: a node is yielded
// before its children, and children in declaration order.
type Iterator struct {
	stack []Layout
}

// NewIterator returns an iterator starting at root.
func NewIterator(root Layout) *Iterator {
	if root == nil {
		return &Iterator{}
	}
	return &Iterator{stack: []Layout{root}}
}

// Next returns the next node, or false once the tree is exhausted.
func (it *Iterator) Next() (Layout, bool) {
	n := len(it.stack)
	if n == 0 {
		return nil, false
	}
	node := it.stack[n-1]
	it.stack = it.stack[:n-1]

	children := node.Children()
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, children[i])
	}
	return node, true
}

// All returns a pre-order sequence over root and its descendants.
func All(root Layout) iter.Seq[Layout] {
	return func(yield func(Layout) bool) {
		it := NewIterator(root)
		for {
			node, ok := it.Next()
			if !ok || !yield(node) {
				return
			}
		}
	}
}

// Get returns the node with the given id.
func Get(root Layout, id ID) (Layout, bool) {
	for node := range All(root) {
		if node.ID() == id {
			return node, true
		}
	}
	return nil, false
}

// Count returns the number of nodes in the tree.
func Count(root Layout) int {
	n := 0
	for range All(root) {
		n++
	}
	return n
}

// Walk calls fn for every node in pre-order with its depth, the root being
// at depth 0.
func Walk(root Layout, fn func(node Layout, depth int)) {
	if root == nil {
		return
	}
	var visit func(Layout, int)
	visit = func(node Layout, depth int) {
		fn(node, depth)
		for _, child := range node.Children() {
			visit(child, depth+1)
		}
	}
	visit(root, 0)
}
