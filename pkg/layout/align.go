package layout

import (
	"fmt"
	"strings"
)

// AxisAlignment positions children along one axis of their parent.
type AxisAlignment uint8

const (
	AlignStart  AxisAlignment = iota // Flush with the leading padding edge
	AlignCenter                      // Centered in the available space
	AlignEnd                         // Flush with the trailing padding edge
)

// String returns "start", "center" or "end".
func (a AxisAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseAxisAlignment parses "start", "center" or "end". Empty means start.
func ParseAxisAlignment(s string) (AxisAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "end":
		return AlignEnd, nil
	}
	return AlignStart, fmt.Errorf("invalid alignment %q (must be one of: start, center, end)", s)
}

// offset returns the leading offset of an item of length size placed in
// space. End is the mirror image of Start measured from the trailing edge.
func (a AxisAlignment) offset(space, size float32) float32 {
	switch a {
	case AlignCenter:
		return (space - size) / 2
	case AlignEnd:
		return space - size
	default:
		return 0
	}
}

// axis selects one dimension of the geometry types so that the horizontal
// and vertical algorithms can share a single implementation.
type axis uint8

const (
	axisX axis = iota
	axisY
)

func (a axis) cross() axis {
	if a == axisX {
		return axisY
	}
	return axisX
}

func (a axis) length(s Size) float32 {
	if a == axisX {
		return s.Width
	}
	return s.Height
}

func (a axis) coord(p Position) float32 {
	if a == axisX {
		return p.X
	}
	return p.Y
}

func (a axis) sizing(i IntrinsicSize) BoxSizing {
	if a == axisX {
		return i.Width
	}
	return i.Height
}

// leading returns the padding before content on this axis (left or top).
func (a axis) leading(p Padding) float32 {
	if a == axisX {
		return p.Left
	}
	return p.Top
}

// padding returns the total padding consumed on this axis.
func (a axis) padding(p Padding) float32 {
	if a == axisX {
		return p.Horizontal()
	}
	return p.Vertical()
}

func (a axis) min(c BoxConstraints) float32 {
	if a == axisX {
		return c.MinWidth
	}
	return c.MinHeight
}

func (a axis) max(c BoxConstraints) float32 {
	if a == axisX {
		return c.MaxWidth
	}
	return c.MaxHeight
}

func (a axis) setCoord(l Layout, v float32) {
	if a == axisX {
		l.SetX(v)
		return
	}
	l.SetY(v)
}

// size builds a Size from lengths given along a (main) and its cross axis.
func (a axis) size(main, cross float32) Size {
	if a == axisX {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}
