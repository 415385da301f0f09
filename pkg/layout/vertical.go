package layout

// VerticalLayout places its children top to bottom. Its main axis is y.
//
// A vertical layout can scroll: the scroll offset translates the children
// along y, but only while their combined height overflows the layout.
// The applied offset is clamped so content never moves past either edge.
type VerticalLayout struct {
	linear
}

// NewVertical returns a vertical layout owning children.
func NewVertical(id ID, children []Layout, opts ...Option) *VerticalLayout {
	c := newConfig(opts)
	l := &VerticalLayout{linear: newLinear(axisY, id, children, c)}
	l.scrollable = true
	l.scroll = c.scroll
	return l
}

// Scroll adds delta to the scroll offset. Negative deltas move content up.
func (l *VerticalLayout) Scroll(delta float32) {
	l.scroll += delta
}

// ScrollOffset returns the accumulated scroll offset.
func (l *VerticalLayout) ScrollOffset() float32 { return l.scroll }

// Scrolling reports whether the last positioning pass applied the scroll
// offset, i.e. whether the children overflowed on y.
func (l *VerticalLayout) Scrolling() bool { return l.scrolling }

func (l *VerticalLayout) Iter() *Iterator { return NewIterator(l) }
