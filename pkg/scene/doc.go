// Package scene reads and writes layout trees as documents and captures
// solved layouts as frames.
//
// # Scene Documents
//
// A [Scene] describes a layout tree declaratively. Documents are TOML or
// JSON:
//
//	name = "sidebar"
//
//	[window]
//	width = 800
//	height = 600
//
//	[root]
//	kind = "horizontal"
//	size = "flex"
//	spacing = 8
//	padding = "16"
//
//	[[root.children]]
//	id = "nav"
//	kind = "vertical"
//	width = 200
//	height = "flex"
//
//	[[root.children]]
//	id = "content"
//	kind = "empty"
//	size = "flex(3)"
//
// Sizing values are "shrink", "flex", "flex(n)", "fixed(v)" or a bare
// number. Padding follows CSS shorthand: "24", "8 16", "8 16 4" or
// "1 2 3 4" (top, right, bottom, left).
//
// [Build] turns a validated scene into a [layout.Layout] tree. Nodes without
// an id get one from the configured [layout.IDGenerator].
//
// # Frames
//
// A [Frame] is the serialized result of a solve: one [Box] per node in
// pre-order, plus the diagnostics the solver reported. Frames are what the
// pipeline caches and what renderers consume.
package scene
