// Package layout implements a constraint-based box layout solver.
//
// A layout tree is built from four node variants: [EmptyLayout] (a leaf),
// [BlockLayout] (one child with padding and per-axis alignment),
// [HorizontalLayout] and [VerticalLayout] (N children along a main axis with
// spacing, padding and alignment). Every node declares an [IntrinsicSize],
// one [BoxSizing] per axis:
//
//   - Fixed(v): the node is exactly v units long on that axis
//   - Flex(n): the node takes n shares of the space its parent has left
//   - Shrink: the node is as small as its children plus padding allow
//
// # Algorithm
//
// [Solve] runs four passes over the tree:
//
//  1. Min constraints bubble up: each node reports the smallest size that
//     fits its children, spacing and padding.
//  2. Max constraints push down: each node splits the space it was granted
//     among its children according to their sizing.
//  3. Sizes are resolved from the intrinsic sizing and the constraints.
//  4. Children are positioned using alignment, padding and spacing. Overflow
//     and out-of-bounds children are recorded as [LayoutError] diagnostics.
//
// The window never squeezes a Shrink node below its content. A root larger
// than the window keeps its size and carries an overflow diagnostic for each
// axis that does not fit.
//
// The solve never fails. Diagnostics are drained with [Layout.CollectErrors].
//
// # Usage
//
//	ids := layout.NewSequence("node")
//	root := layout.NewVertical(ids.NewID(), []layout.Layout{
//	    layout.NewEmpty(ids.NewID(), layout.WithIntrinsicSize(layout.FixedSize(200, 40))),
//	    layout.NewEmpty(ids.NewID(), layout.WithIntrinsicSize(layout.FlexSize(1))),
//	}, layout.WithPadding(layout.PaddingAll(16)), layout.WithSpacing(8))
//
//	layout.Solve(root, layout.Size{Width: 800, Height: 600})
//	for node := range layout.All(root) {
//	    fmt.Println(node.ID(), node.Position(), node.Size())
//	}
package layout
