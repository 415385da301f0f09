package layout

import (
	"fmt"
	"slices"
)

// OverflowAxis names the axis, relative to a node, on which content overflowed.
type OverflowAxis uint8

const (
	MainAxis OverflowAxis = iota
	CrossAxis
)

// String returns "main" or "cross".
func (a OverflowAxis) String() string {
	if a == CrossAxis {
		return "cross"
	}
	return "main"
}

// ErrorKind discriminates LayoutError values.
type ErrorKind uint8

const (
	KindOverflow    ErrorKind = iota // Children exceed the node's size on an axis
	KindOutOfBounds                  // A child was placed outside its parent's box
)

// String returns "overflow" or "out_of_bounds".
func (k ErrorKind) String() string {
	if k == KindOutOfBounds {
		return "out_of_bounds"
	}
	return "overflow"
}

// LayoutError is a non-fatal diagnostic produced while positioning.
// Values are comparable, which is what deduplication relies on.
type LayoutError struct {
	Kind ErrorKind
	// Node is the overflowing node, or the parent for KindOutOfBounds.
	Node ID
	// Axis is set for KindOverflow.
	Axis OverflowAxis
	// Child is set for KindOutOfBounds.
	Child ID
}

// Overflow returns a diagnostic for node overflowing on axis.
func Overflow(node ID, axis OverflowAxis) LayoutError {
	return LayoutError{Kind: KindOverflow, Node: node, Axis: axis}
}

// OutOfBounds returns a diagnostic for child placed outside parent.
func OutOfBounds(parent, child ID) LayoutError {
	return LayoutError{Kind: KindOutOfBounds, Node: parent, Child: child}
}

// Error implements the error interface.
func (e LayoutError) Error() string {
	if e.Kind == KindOutOfBounds {
		return fmt.Sprintf("child %q is out of bounds of %q", e.Child, e.Node)
	}
	return fmt.Sprintf("%q overflows on the %s axis", e.Node, e.Axis)
}

// diagnostics is the per-node error list. Pushes are deduplicated so that
// repeated solves of an unchanged tree never grow the list.
type diagnostics []LayoutError

func (d *diagnostics) report(err LayoutError) {
	if slices.Contains(*d, err) {
		return
	}
	*d = append(*d, err)
}

func (d *diagnostics) reset() {
	*d = (*d)[:0]
}

// drain returns the recorded errors and empties the list.
func (d *diagnostics) drain() []LayoutError {
	if len(*d) == 0 {
		return nil
	}
	out := slices.Clone(*d)
	d.reset()
	return out
}

// collect drains errors from node and, recursively, from children,
// deduplicating across the whole subtree.
func collect(own *diagnostics, children []Layout) []LayoutError {
	out := own.drain()
	for _, child := range children {
		for _, err := range child.CollectErrors() {
			if !slices.Contains(out, err) {
				out = append(out, err)
			}
		}
	}
	return out
}
