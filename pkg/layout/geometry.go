package layout

import "fmt"

// Position is the absolute top-left corner of a node's box in window space.
type Position struct {
	X, Y float32
}

// Add returns p offset by other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p with other subtracted.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size holds the resolved dimensions of a box.
type Size struct {
	Width, Height float32
}

// Uniform returns a Size with both dimensions set to v.
func Uniform(v float32) Size {
	return Size{Width: v, Height: v}
}

// Add returns the elementwise sum of s and other.
func (s Size) Add(other Size) Size {
	return Size{Width: s.Width + other.Width, Height: s.Height + other.Height}
}

// Sub returns the elementwise difference of s and other.
func (s Size) Sub(other Size) Size {
	return Size{Width: s.Width - other.Width, Height: s.Height - other.Height}
}

// Mul returns the elementwise product of s and other.
func (s Size) Mul(other Size) Size {
	return Size{Width: s.Width * other.Width, Height: s.Height * other.Height}
}

// Div returns the elementwise quotient of s and other.
// A zero divisor yields 0 on that component.
func (s Size) Div(other Size) Size {
	return Size{Width: safeDiv(s.Width, other.Width), Height: safeDiv(s.Height, other.Height)}
}

// AddScalar adds v to both dimensions.
func (s Size) AddScalar(v float32) Size {
	return Size{Width: s.Width + v, Height: s.Height + v}
}

// SubScalar subtracts v from both dimensions.
func (s Size) SubScalar(v float32) Size {
	return Size{Width: s.Width - v, Height: s.Height - v}
}

// Scale multiplies both dimensions by v.
func (s Size) Scale(v float32) Size {
	return Size{Width: s.Width * v, Height: s.Height * v}
}

// DivScalar divides both dimensions by v. A zero divisor yields a zero Size.
func (s Size) DivScalar(v float32) Size {
	return Size{Width: safeDiv(s.Width, v), Height: safeDiv(s.Height, v)}
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}
