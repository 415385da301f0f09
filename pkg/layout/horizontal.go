package layout

// HorizontalLayout places its children left to right. Its main axis is x.
type HorizontalLayout struct {
	linear
}

// NewHorizontal returns a horizontal layout owning children.
// [WithScrollOffset] does not apply.
func NewHorizontal(id ID, children []Layout, opts ...Option) *HorizontalLayout {
	return &HorizontalLayout{linear: newLinear(axisX, id, children, newConfig(opts))}
}

func (l *HorizontalLayout) Iter() *Iterator { return NewIterator(l) }
