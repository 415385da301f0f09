package layout

// BlockLayout wraps exactly one child with padding and positions it
// independently on each axis. MainAxisAlignment controls x and
// CrossAxisAlignment controls y, which makes it the usual way to center
// content inside a larger box.
type BlockLayout struct {
	box
	child      Layout
	padding    Padding
	mainAlign  AxisAlignment
	crossAlign AxisAlignment
}

// NewBlock returns a block wrapping child. It panics if child is nil.
func NewBlock(id ID, child Layout, opts ...Option) *BlockLayout {
	if child == nil {
		panic("layout: NewBlock called with nil child")
	}
	c := newConfig(opts)
	return &BlockLayout{
		box:        box{id: id, intrinsic: c.intrinsic},
		child:      child,
		padding:    c.padding,
		mainAlign:  c.mainAlign,
		crossAlign: c.crossAlign,
	}
}

// Child returns the wrapped node.
func (l *BlockLayout) Child() Layout { return l.child }

func (l *BlockLayout) Padding() Padding { return l.padding }
func (l *BlockLayout) MainAxisAlignment() AxisAlignment { return l.mainAlign }
func (l *BlockLayout) CrossAxisAlignment() AxisAlignment { return l.crossAlign }

func (l *BlockLayout) Children() []Layout { return []Layout{l.child} }

func (l *BlockLayout) SolveMinConstraints() (float32, float32) {
	cw, ch := l.child.SolveMinConstraints()
	w := l.declaredMin(axisX, cw+l.padding.Horizontal())
	h := l.declaredMin(axisY, ch+l.padding.Vertical())
	l.constraints.MinWidth, l.constraints.MinHeight = w, h
	return w, h
}

func (l *BlockLayout) SolveMaxConstraints(available Size) {
	inner := l.inner(Size{
		Width:  l.resolve(axisX, available.Width),
		Height: l.resolve(axisY, available.Height),
	})
	grant(l.child, Size{
		Width:  allocation(axisX, l.child, inner.Width),
		Height: allocation(axisY, l.child, inner.Height),
	})
}

func (l *BlockLayout) UpdateSize() {
	l.size = l.resolveSize()
	l.child.UpdateSize()
}

func (l *BlockLayout) PositionChildren() {
	l.errors.reset()

	inner := l.inner(l.size)
	cs := l.child.Size()
	l.child.SetPosition(Position{
		X: l.position.X + l.padding.Left + l.mainAlign.offset(inner.Width, cs.Width),
		Y: l.position.Y + l.padding.Top + l.crossAlign.offset(inner.Height, cs.Height),
	})

	if cs.Width > inner.Width+overflowEpsilon {
		l.errors.report(Overflow(l.id, MainAxis))
	}
	if cs.Height > inner.Height+overflowEpsilon {
		l.errors.report(Overflow(l.id, CrossAxis))
	}
	if outside(l.position, l.size, l.child.Position()) {
		l.errors.report(OutOfBounds(l.id, l.child.ID()))
	}

	l.child.PositionChildren()
}

func (l *BlockLayout) CollectErrors() []LayoutError {
	return collect(&l.errors, l.Children())
}

func (l *BlockLayout) Iter() *Iterator { return NewIterator(l) }

// inner returns s minus padding, never negative.
func (l *BlockLayout) inner(s Size) Size {
	return Size{
		Width:  max(s.Width-l.padding.Horizontal(), 0),
		Height: max(s.Height-l.padding.Vertical(), 0),
	}
}
