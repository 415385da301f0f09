package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/crystal/pkg/layout"
)

// =============================================================================
// Frame - Serialized Solve Result
// =============================================================================

// Frame is the serialized result of solving a layout tree in a window.
// Used for CLI output, API responses, caching and rendering.
type Frame struct {
	Window      Window       `json:"window" bson:"window"`
	SceneHash   string       `json:"scene_hash,omitempty" bson:"scene_hash,omitempty"`
	Boxes       []Box        `json:"boxes" bson:"boxes"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Box is the solved geometry of one node. Boxes appear in pre-order, so a
// parent always precedes its children.
type Box struct {
	ID        string  `json:"id" bson:"id"`
	Parent    string  `json:"parent,omitempty" bson:"parent,omitempty"`
	Kind      Kind    `json:"kind" bson:"kind"`
	Depth     int     `json:"depth" bson:"depth"`
	Label     string  `json:"label,omitempty" bson:"label,omitempty"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	Sizing    string  `json:"sizing" bson:"sizing"` // "<width> <height>", e.g. "flex(1) fixed(40)"
	Scrolling bool    `json:"scrolling,omitempty" bson:"scrolling,omitempty"`
}

// Right returns the x coordinate of the box's right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the box's bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// DisplayLabel returns the label if set, otherwise the ID.
func (b Box) DisplayLabel() string {
	if b.Label != "" {
		return b.Label
	}
	return b.ID
}

// Diagnostic is a serialized layout.LayoutError.
type Diagnostic struct {
	Kind    string `json:"kind" bson:"kind"` // "overflow" or "out_of_bounds"
	Node    string `json:"node" bson:"node"`
	Axis    string `json:"axis,omitempty" bson:"axis,omitempty"`   // Overflow only
	Child   string `json:"child,omitempty" bson:"child,omitempty"` // OutOfBounds only
	Message string `json:"message" bson:"message"`
}

// Box returns the box with the given id.
func (f *Frame) Box(id string) (Box, bool) {
	for _, b := range f.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// Overflowing returns the ids of nodes with an overflow diagnostic.
func (f *Frame) Overflowing() map[string]bool {
	out := make(map[string]bool)
	for _, d := range f.Diagnostics {
		if d.Kind == layout.KindOverflow.String() {
			out[d.Node] = true
		}
	}
	return out
}

// Misplaced returns the ids of children reported out of bounds.
func (f *Frame) Misplaced() map[string]bool {
	out := make(map[string]bool)
	for _, d := range f.Diagnostics {
		if d.Kind == layout.KindOutOfBounds.String() {
			out[d.Child] = true
		}
	}
	return out
}

// Bounds returns the smallest area, anchored at the origin, that contains
// the window and every box.
func (f *Frame) Bounds() (width, height float64) {
	width, height = f.Window.Width, f.Window.Height
	for _, b := range f.Boxes {
		width = max(width, b.Right())
		height = max(height, b.Bottom())
	}
	return width, height
}

// =============================================================================
// Capture
// =============================================================================

// Capture records the solved geometry of the tree rooted at root.
// diags are the diagnostics drained from the tree after the solve.
func Capture(root layout.Layout, window layout.Size, labels map[layout.ID]string, diags []layout.LayoutError) *Frame {
	f := &Frame{
		Window: Window{Width: float64(window.Width), Height: float64(window.Height)},
	}
	if root != nil {
		f.Boxes = make([]Box, 0, layout.Count(root))
		capture(f, root, "", 0, labels)
	}
	for _, d := range diags {
		out := Diagnostic{Kind: d.Kind.String(), Node: string(d.Node), Message: d.Error()}
		if d.Kind == layout.KindOverflow {
			out.Axis = d.Axis.String()
		} else {
			out.Child = string(d.Child)
		}
		f.Diagnostics = append(f.Diagnostics, out)
	}
	return f
}

func capture(f *Frame, n layout.Layout, parent string, depth int, labels map[layout.ID]string) {
	pos, size, in := n.Position(), n.Size(), n.IntrinsicSize()
	b := Box{
		ID:     string(n.ID()),
		Parent: parent,
		Kind:   KindOf(n),
		Depth:  depth,
		Label:  labels[n.ID()],
		X:      float64(pos.X),
		Y:      float64(pos.Y),
		Width:  float64(size.Width),
		Height: float64(size.Height),
		Sizing: in.Width.String() + " " + in.Height.String(),
	}
	if v, ok := n.(*layout.VerticalLayout); ok {
		b.Scrolling = v.Scrolling()
	}
	f.Boxes = append(f.Boxes, b)
	for _, child := range n.Children() {
		capture(f, child, b.ID, depth+1, labels)
	}
}

// KindOf returns the scene kind of a layout node.
func KindOf(n layout.Layout) Kind {
	switch n.(type) {
	case *layout.BlockLayout:
		return KindBlock
	case *layout.HorizontalLayout:
		return KindHorizontal
	case *layout.VerticalLayout:
		return KindVertical
	default:
		return KindEmpty
	}
}

// =============================================================================
// Frame Serialization API
// =============================================================================

// MarshalFrame encodes a frame as indented JSON.
func MarshalFrame(f *Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFrame(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalFrame decodes a JSON frame.
func UnmarshalFrame(data []byte) (*Frame, error) {
	return ReadFrame(bytes.NewReader(data))
}

// WriteFrame writes a frame as JSON to w.
func WriteFrame(f *Frame, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFrame decodes a JSON frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	var f Frame
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// WriteFrameFile writes a frame to a JSON file.
// The file is created with 0644 permissions.
func WriteFrameFile(f *Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteFrame(f, file)
}

// ReadFrameFile reads a JSON frame file.
func ReadFrameFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadFrame(file)
}
