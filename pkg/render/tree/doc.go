// Package tree renders the node hierarchy of a solved frame as a diagram.
//
// # Usage
//
// Convert a frame to DOT format, then render to SVG:
//
//	dot := tree.ToDOT(frame, tree.Options{Detailed: true})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := tree.RenderPDF(ctx, dot)
//	png, err := tree.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels carry the kind, solved geometry and sizing
//     in addition to the label or id.
//
// Nodes reported as overflowing are drawn with a red outline and fill;
// children reported out of bounds get a dashed orange outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package tree
