package layout

// Layout is the capability shared by every node variant.
//
// Nodes own their children exclusively; the tree has no back references.
// Size and Position are meaningful only after [Solve] has completed.
type Layout interface {
	// ID returns the identity assigned by the owning widget.
	ID() ID

	Size() Size
	Position() Position

	// SetPosition, SetX and SetY are used by a parent while positioning
	// its children, and by the caller for the root.
	SetPosition(Position)
	SetX(x float32)
	SetY(y float32)

	IntrinsicSize() IntrinsicSize
	Constraints() BoxConstraints

	SetMinWidth(v float32)
	SetMinHeight(v float32)
	SetMaxWidth(v float32)
	SetMaxHeight(v float32)

	// Children returns the owned child nodes (empty for leaves).
	Children() []Layout

	// SolveMinConstraints resolves the minimum size of every descendant and
	// returns this node's own (min width, min height).
	SolveMinConstraints() (float32, float32)

	// SolveMaxConstraints distributes the space granted by the parent
	// among the children and recurses.
	SolveMaxConstraints(available Size)

	// UpdateSize resolves the final size of this node, then its children.
	UpdateSize()

	// PositionChildren places the children inside this node's final box,
	// records diagnostics and recurses.
	PositionChildren()

	// CollectErrors drains the diagnostics of this node and its subtree.
	CollectErrors() []LayoutError

	// Iter returns a pre-order iterator over this node and its descendants.
	Iter() *Iterator
}

// overflowEpsilon absorbs float32 rounding in overflow comparisons.
const overflowEpsilon = 1e-3

// box holds the state common to all variants.
type box struct {
	id          ID
	size        Size
	position    Position
	intrinsic   IntrinsicSize
	constraints BoxConstraints
	errors      diagnostics
}

func (b *box) ID() ID { return b.id }
func (b *box) Size() Size { return b.size }
func (b *box) Position() Position { return b.position }
func (b *box) SetPosition(p Position) { b.position = p }
func (b *box) SetX(x float32) { b.position.X = x }
func (b *box) SetY(y float32) { b.position.Y = y }
func (b *box) IntrinsicSize() IntrinsicSize { return b.intrinsic }
func (b *box) Constraints() BoxConstraints { return b.constraints }
func (b *box) SetMinWidth(v float32) { b.constraints.MinWidth = v }
func (b *box) SetMinHeight(v float32) { b.constraints.MinHeight = v }
func (b *box) SetMaxWidth(v float32) { b.constraints.MaxWidth = v }
func (b *box) SetMaxHeight(v float32) { b.constraints.MaxHeight = v }

// setMin stores the min constraint on axis a.
func (b *box) setMin(a axis, v float32) {
	if a == axisX {
		b.constraints.MinWidth = v
		return
	}
	b.constraints.MinHeight = v
}

// declaredMin returns the min length on axis a given the content length:
// the fixed value for Fixed, the content otherwise.
func (b *box) declaredMin(a axis, content float32) float32 {
	if s := a.sizing(b.intrinsic); s.IsFixed() {
		return s.Value
	}
	return content
}

// resolve returns the length of this node on axis a given the max
// constraint available: Fixed is literal, Flex takes max and Shrink takes
// min. A Shrink node is never squeezed below its content.
func (b *box) resolve(a axis, available float32) float32 {
	s := a.sizing(b.intrinsic)
	switch s.Kind {
	case SizingFixed:
		return s.Value
	case SizingFlex:
		return available
	default:
		return a.min(b.constraints)
	}
}

// fitWindow reports an overflow on each axis where the node is larger than
// window. Blocks and leaves treat x as their main axis.
func (b *box) fitWindow(window Size) {
	b.reportWindow(axisX, window)
}

func (b *box) reportWindow(main axis, window Size) {
	for _, a := range []axis{main, main.cross()} {
		if a.length(b.size) <= a.length(window)+overflowEpsilon {
			continue
		}
		if a == main {
			b.errors.report(Overflow(b.id, MainAxis))
		} else {
			b.errors.report(Overflow(b.id, CrossAxis))
		}
	}
}

// resolveSize resolves both axes against the current max constraints.
func (b *box) resolveSize() Size {
	return Size{
		Width:  b.resolve(axisX, b.constraints.MaxWidth),
		Height: b.resolve(axisY, b.constraints.MaxHeight),
	}
}

// allocation returns the max length a parent grants to child on axis a
// when the parent has inner length available on that axis.
func allocation(a axis, child Layout, available float32) float32 {
	s := a.sizing(child.IntrinsicSize())
	switch s.Kind {
	case SizingFixed:
		return s.Value
	case SizingFlex:
		return max(available, 0)
	default:
		return a.min(child.Constraints())
	}
}

// grant sets child's max constraints to space and recurses into it.
func grant(child Layout, space Size) {
	child.SetMaxWidth(space.Width)
	child.SetMaxHeight(space.Height)
	child.SolveMaxConstraints(space)
}

// outside reports whether child's top-left corner lies outside the box at
// origin with size s.
func outside(origin Position, s Size, child Position) bool {
	return child.X < origin.X-overflowEpsilon ||
		child.Y < origin.Y-overflowEpsilon ||
		child.X > origin.X+s.Width+overflowEpsilon ||
		child.Y > origin.Y+s.Height+overflowEpsilon
}

// Option configures a node at construction time. Options that do not apply
// to a variant (spacing on a block, scroll on a horizontal layout) are ignored.
type Option func(*config)

type config struct {
	intrinsic  IntrinsicSize
	padding    Padding
	spacing    uint32
	mainAlign  AxisAlignment
	crossAlign AxisAlignment
	scroll     float32
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithIntrinsicSize sets the declared sizing on both axes.
func WithIntrinsicSize(i IntrinsicSize) Option {
	return func(c *config) { c.intrinsic = i }
}

// WithWidth sets the declared sizing on the x axis.
func WithWidth(s BoxSizing) Option {
	return func(c *config) { c.intrinsic.Width = s }
}

// WithHeight sets the declared sizing on the y axis.
func WithHeight(s BoxSizing) Option {
	return func(c *config) { c.intrinsic.Height = s }
}

// WithPadding sets the padding of a block, horizontal or vertical layout.
func WithPadding(p Padding) Option {
	return func(c *config) { c.padding = p }
}

// WithSpacing sets the gap between adjacent children of a horizontal or
// vertical layout.
func WithSpacing(n uint32) Option {
	return func(c *config) { c.spacing = n }
}

// WithMainAxisAlignment sets the alignment along the main axis
// (x for blocks and horizontal layouts, y for vertical layouts).
func WithMainAxisAlignment(a AxisAlignment) Option {
	return func(c *config) { c.mainAlign = a }
}

// WithCrossAxisAlignment sets the alignment along the cross axis.
func WithCrossAxisAlignment(a AxisAlignment) Option {
	return func(c *config) { c.crossAlign = a }
}

// WithScrollOffset sets the initial scroll offset of a vertical layout.
func WithScrollOffset(v float32) Option {
	return func(c *config) { c.scroll = v }
}
