package scene

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/crystal/pkg/layout"
)

// Kind names a layout node variant.
type Kind string

// Node kinds.
const (
	KindEmpty      Kind = "empty"
	KindBlock      Kind = "block"
	KindHorizontal Kind = "horizontal"
	KindVertical   Kind = "vertical"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindEmpty, KindBlock, KindHorizontal, KindVertical}

// Scene is a layout document.
type Scene struct {
	Name string `toml:"name,omitempty" json:"name,omitempty"`
	// Window is the default window the scene is solved in. Callers may
	// override it.
	Window *Window `toml:"window,omitempty" json:"window,omitempty"`
	Root   Node    `toml:"root" json:"root"`
}

// Window is a window size in layout units.
type Window struct {
	Width  float64 `toml:"width" json:"width" bson:"width"`
	Height float64 `toml:"height" json:"height" bson:"height"`
}

// Size converts w to a layout.Size.
func (w Window) Size() layout.Size {
	return layout.Size{Width: float32(w.Width), Height: float32(w.Height)}
}

// Node is one node of a scene document.
type Node struct {
	ID   string `toml:"id,omitempty" json:"id,omitempty"`
	Kind Kind   `toml:"kind" json:"kind"`

	// Size sets both axes. Width and Height override it per axis.
	Size   *Sizing `toml:"size,omitempty" json:"size,omitempty"`
	Width  *Sizing `toml:"width,omitempty" json:"width,omitempty"`
	Height *Sizing `toml:"height,omitempty" json:"height,omitempty"`

	Padding    Padding `toml:"padding,omitempty" json:"padding,omitzero"`
	Spacing    uint32  `toml:"spacing,omitempty" json:"spacing,omitempty"`
	MainAlign  string  `toml:"main_align,omitempty" json:"main_align,omitempty"`
	CrossAlign string  `toml:"cross_align,omitempty" json:"cross_align,omitempty"`

	// Scroll is the initial scroll offset of a vertical node.
	Scroll float64 `toml:"scroll,omitempty" json:"scroll,omitempty"`

	// Label is carried into frames for renderers; it does not affect layout.
	Label string `toml:"label,omitempty" json:"label,omitempty"`

	Children []Node `toml:"children,omitempty" json:"children,omitempty"`
}

// Intrinsic returns the node's declared sizing with Width/Height taking
// precedence over Size.
func (n *Node) Intrinsic() layout.IntrinsicSize {
	var i layout.IntrinsicSize
	if n.Size != nil {
		i.Width, i.Height = n.Size.BoxSizing, n.Size.BoxSizing
	}
	if n.Width != nil {
		i.Width = n.Width.BoxSizing
	}
	if n.Height != nil {
		i.Height = n.Height.BoxSizing
	}
	return i
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	c := 1
	for i := range n.Children {
		c += n.Children[i].Count()
	}
	return c
}

// Find returns the node with the given id.
func (s *Scene) Find(id string) (*Node, bool) {
	return s.Root.find(id)
}

func (n *Node) find(id string) (*Node, bool) {
	if n.ID == id {
		return n, true
	}
	for i := range n.Children {
		if found, ok := n.Children[i].find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// Sizing is a layout.BoxSizing that decodes from its text form or from a
// bare number, which means fixed.
type Sizing struct {
	layout.BoxSizing
}

// NewSizing wraps s.
func NewSizing(s layout.BoxSizing) *Sizing {
	return &Sizing{BoxSizing: s}
}

// MarshalText encodes the canonical text form.
func (s Sizing) MarshalText() ([]byte, error) {
	return []byte(s.BoxSizing.String()), nil
}

// UnmarshalText decodes "shrink", "flex", "flex(n)", "fixed(v)" or a number.
func (s *Sizing) UnmarshalText(text []byte) error {
	v, err := layout.ParseBoxSizing(string(text))
	if err != nil {
		return err
	}
	s.BoxSizing = v
	return nil
}

// UnmarshalJSON accepts a string or a number.
func (s *Sizing) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return s.UnmarshalText([]byte(text))
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sizing must be a string or a number, got %s", data)
	}
	return s.UnmarshalText([]byte(strconv.FormatFloat(n, 'f', -1, 64)))
}

// UnmarshalTOML accepts a string, an integer or a float.
func (s *Sizing) UnmarshalTOML(v any) error {
	text, err := scalarText(v)
	if err != nil {
		return fmt.Errorf("sizing: %w", err)
	}
	return s.UnmarshalText([]byte(text))
}

// Padding is a layout.Padding that decodes from CSS shorthand or a number.
type Padding struct {
	layout.Padding
}

// MarshalText encodes the shortest CSS shorthand.
func (p Padding) MarshalText() ([]byte, error) {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
	t, r, b, l := p.Top, p.Right, p.Bottom, p.Left
	switch {
	case t == r && r == b && b == l:
		return []byte(f(t)), nil
	case t == b && r == l:
		return []byte(f(t) + " " + f(r)), nil
	case r == l:
		return []byte(f(t) + " " + f(r) + " " + f(b)), nil
	default:
		return []byte(f(t) + " " + f(r) + " " + f(b) + " " + f(l)), nil
	}
}

// UnmarshalText decodes one to four space-separated non-negative numbers.
func (p *Padding) UnmarshalText(text []byte) error {
	v, err := ParsePadding(string(text))
	if err != nil {
		return err
	}
	p.Padding = v
	return nil
}

// UnmarshalJSON accepts a string or a number.
func (p *Padding) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return p.UnmarshalText([]byte(text))
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("padding must be a string or a number, got %s", data)
	}
	return p.UnmarshalText([]byte(strconv.FormatFloat(n, 'f', -1, 64)))
}

// UnmarshalTOML accepts a string, an integer or a float.
func (p *Padding) UnmarshalTOML(v any) error {
	text, err := scalarText(v)
	if err != nil {
		return fmt.Errorf("padding: %w", err)
	}
	return p.UnmarshalText([]byte(text))
}

// ParsePadding parses CSS-style padding shorthand.
func ParsePadding(text string) (layout.Padding, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return layout.Padding{}, nil
	}
	if len(fields) > 4 {
		return layout.Padding{}, fmt.Errorf("invalid padding %q: at most 4 values", text)
	}
	vals := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return layout.Padding{}, fmt.Errorf("invalid padding %q: %q is not a number", text, f)
		}
		if v < 0 {
			return layout.Padding{}, fmt.Errorf("invalid padding %q: values must not be negative", text)
		}
		vals[i] = float32(v)
	}
	switch len(vals) {
	case 1:
		return layout.PaddingAll(vals[0]), nil
	case 2:
		return layout.PaddingSymmetric(vals[0], vals[1]), nil
	case 3:
		return layout.PaddingTRBL(vals[0], vals[1], vals[2], vals[1]), nil
	default:
		return layout.PaddingTRBL(vals[0], vals[1], vals[2], vals[3]), nil
	}
}

func scalarText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
