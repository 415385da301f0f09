package svg

import (
	"maps"
	"slices"

	"github.com/matzehuels/crystal/pkg/scene"
)

// Palette holds the colors used by the renderer. Values are any SVG color.
type Palette struct {
	Background  string
	Stroke      string
	Text        string
	Window      string
	Overflow    string
	OutOfBounds string
	// Fills maps a node kind to its fill color. Kinds without an entry are
	// drawn unfilled.
	Fills map[scene.Kind]string
}

func (p Palette) fill(k scene.Kind) string {
	if c, ok := p.Fills[k]; ok {
		return c
	}
	return "none"
}

// Built-in palettes.
var (
	Light = Palette{
		Background:  "#ffffff",
		Stroke:      "#4a4a4a",
		Text:        "#1a1a1a",
		Window:      "#888888",
		Overflow:    "#d62728",
		OutOfBounds: "#ff7f0e",
		Fills: map[scene.Kind]string{
			scene.KindEmpty:      "#e8eef7",
			scene.KindBlock:      "#f4ecdf",
			scene.KindHorizontal: "#e6f2e6",
			scene.KindVertical:   "#f1e6f2",
		},
	}
	Dark = Palette{
		Background:  "#1e1e1e",
		Stroke:      "#c8c8c8",
		Text:        "#f0f0f0",
		Window:      "#777777",
		Overflow:    "#ff5555",
		OutOfBounds: "#ffb86c",
		Fills: map[scene.Kind]string{
			scene.KindEmpty:      "#2b3a55",
			scene.KindBlock:      "#4a3b2a",
			scene.KindHorizontal: "#2a4a34",
			scene.KindVertical:   "#45304a",
		},
	}
	Outline = Palette{
		Background:  "none",
		Stroke:      "#000000",
		Text:        "#000000",
		Window:      "#999999",
		Overflow:    "#ff0000",
		OutOfBounds: "#ff8800",
	}
)

var palettes = map[string]Palette{
	"light":   Light,
	"dark":    Dark,
	"outline": Outline,
}

// PaletteByName returns a built-in palette.
func PaletteByName(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteNames lists the built-in palettes in sorted order.
func PaletteNames() []string {
	return slices.Sorted(maps.Keys(palettes))
}
