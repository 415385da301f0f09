package layout

// EmptyLayout is a leaf node. It is used for widgets that draw content of
// their own (text, images, spacers) and have no layout children.
type EmptyLayout struct {
	box
}

// NewEmpty returns a leaf node. Only [WithIntrinsicSize], [WithWidth] and
// [WithHeight] apply.
func NewEmpty(id ID, opts ...Option) *EmptyLayout {
	c := newConfig(opts)
	return &EmptyLayout{box: box{id: id, intrinsic: c.intrinsic}}
}

func (l *EmptyLayout) Children() []Layout { return nil }

func (l *EmptyLayout) SolveMinConstraints() (float32, float32) {
	w := l.declaredMin(axisX, 0)
	h := l.declaredMin(axisY, 0)
	l.constraints.MinWidth, l.constraints.MinHeight = w, h
	return w, h
}

func (l *EmptyLayout) SolveMaxConstraints(Size) {}

func (l *EmptyLayout) UpdateSize() {
	l.size = l.resolveSize()
}

func (l *EmptyLayout) PositionChildren() {
	l.errors.reset()
}

func (l *EmptyLayout) CollectErrors() []LayoutError {
	return collect(&l.errors, nil)
}

func (l *EmptyLayout) Iter() *Iterator { return NewIterator(l) }
