// Package render draws solved frames.
//
// Every renderer consumes a [scene.Frame], so a frame read back from a
// cache or a JSON file renders exactly like a fresh solve.
//
//   - [svg]: nested boxes as an SVG document
//   - [tree]: the node hierarchy as a Graphviz diagram
//   - [text]: a character-grid preview for terminals
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(frame, svg.WithLabels())
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)  // 2x scale
//
// [scene.Frame]: github.com/matzehuels/crystal/pkg/scene.Frame
// [svg]: github.com/matzehuels/crystal/pkg/render/svg
// [tree]: github.com/matzehuels/crystal/pkg/render/tree
// [text]: github.com/matzehuels/crystal/pkg/render/text
package render
