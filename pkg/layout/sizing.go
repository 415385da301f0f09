package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// SizingKind discriminates the variants of BoxSizing.
type SizingKind uint8

const (
	SizingShrink SizingKind = iota // Fit children plus padding
	SizingFixed                    // Exactly Value units
	SizingFlex                     // A share of the parent's remaining space
)

// BoxSizing declares how a node is sized along one axis.
// The zero value is Shrink.
type BoxSizing struct {
	Kind   SizingKind
	Value  float32 // Fixed only
	Factor uint8   // Flex only
}

// Fixed returns a sizing of exactly v units.
func Fixed(v float32) BoxSizing {
	return BoxSizing{Kind: SizingFixed, Value: v}
}

// Flex returns a sizing that grows by factor shares of the free space.
func Flex(factor uint8) BoxSizing {
	return BoxSizing{Kind: SizingFlex, Factor: factor}
}

// Shrink returns a sizing that fits the node's content.
func Shrink() BoxSizing {
	return BoxSizing{Kind: SizingShrink}
}

// IsFixed reports whether s is Fixed.
func (s BoxSizing) IsFixed() bool { return s.Kind == SizingFixed }

// IsFlex reports whether s is Flex.
func (s BoxSizing) IsFlex() bool { return s.Kind == SizingFlex }

// IsShrink reports whether s is Shrink.
func (s BoxSizing) IsShrink() bool { return s.Kind == SizingShrink }

// String returns the canonical text form: "shrink", "flex(n)" or "fixed(v)".
func (s BoxSizing) String() string {
	switch s.Kind {
	case SizingFixed:
		return "fixed(" + strconv.FormatFloat(float64(s.Value), 'f', -1, 32) + ")"
	case SizingFlex:
		return fmt.Sprintf("flex(%d)", s.Factor)
	default:
		return "shrink"
	}
}

// ParseBoxSizing parses the text form of a BoxSizing.
//
// Accepted forms are "shrink", "flex" (factor 1), "flex(n)", "fixed(v)" and
// a bare number, which is read as fixed.
func ParseBoxSizing(text string) (BoxSizing, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	switch {
	case s == "" || s == "shrink":
		return Shrink(), nil
	case s == "flex":
		return Flex(1), nil
	case strings.HasPrefix(s, "flex(") && strings.HasSuffix(s, ")"):
		arg := strings.TrimSpace(s[len("flex(") : len(s)-1])
		n, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return BoxSizing{}, fmt.Errorf("invalid flex factor %q: must be an integer in 0..255", arg)
		}
		return Flex(uint8(n)), nil
	case strings.HasPrefix(s, "fixed(") && strings.HasSuffix(s, ")"):
		return parseFixed(strings.TrimSpace(s[len("fixed(") : len(s)-1]))
	default:
		return parseFixed(s)
	}
}

func parseFixed(arg string) (BoxSizing, error) {
	v, err := strconv.ParseFloat(arg, 32)
	if err != nil {
		return BoxSizing{}, fmt.Errorf("invalid sizing %q: want shrink, flex, flex(n), fixed(v) or a number", arg)
	}
	if v < 0 {
		return BoxSizing{}, fmt.Errorf("invalid fixed size %v: must not be negative", v)
	}
	return Fixed(float32(v)), nil
}

// IntrinsicSize is a node's declared sizing, independently per axis.
type IntrinsicSize struct {
	Width, Height BoxSizing
}

// FixedSize returns an IntrinsicSize fixed on both axes.
func FixedSize(w, h float32) IntrinsicSize {
	return IntrinsicSize{Width: Fixed(w), Height: Fixed(h)}
}

// FlexSize returns an IntrinsicSize that flexes on both axes with the same factor.
func FlexSize(factor uint8) IntrinsicSize {
	return IntrinsicSize{Width: Flex(factor), Height: Flex(factor)}
}

// ShrinkSize returns an IntrinsicSize that fits content on both axes.
func ShrinkSize() IntrinsicSize {
	return IntrinsicSize{}
}

// BoxConstraints are the bounds resolved for a node during a solve.
// Min values come from the bottom-up pass, max values from the top-down pass.
type BoxConstraints struct {
	MinWidth, MinHeight float32
	MaxWidth, MaxHeight float32
}

// Padding insets a node's children on each side.
type Padding struct {
	Top, Right, Bottom, Left float32
}

// PaddingAll returns Padding with the same value on every side.
func PaddingAll(v float32) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// PaddingSymmetric returns Padding with vertical (top/bottom) and
// horizontal (left/right) values.
func PaddingSymmetric(v, h float32) Padding {
	return Padding{Top: v, Right: h, Bottom: v, Left: h}
}

// PaddingTRBL returns Padding in CSS order: top, right, bottom, left.
func PaddingTRBL(t, r, b, l float32) Padding {
	return Padding{Top: t, Right: r, Bottom: b, Left: l}
}

// Horizontal returns the sum of Left and Right.
func (p Padding) Horizontal() float32 {
	return p.Left + p.Right
}

// Vertical returns the sum of Top and Bottom.
func (p Padding) Vertical() float32 {
	return p.Top + p.Bottom
}

// Total returns the padding consumed on each axis.
func (p Padding) Total() Size {
	return Size{Width: p.Horizontal(), Height: p.Vertical()}
}

// IsZero reports whether every side is zero.
func (p Padding) IsZero() bool {
	return p.Top == 0 && p.Right == 0 && p.Bottom == 0 && p.Left == 0
}
