package layout

// linear is the algorithm shared by HorizontalLayout and VerticalLayout.
// Everything is expressed in terms of the main axis and its cross axis so
// that both variants run the same code.
type linear struct {
	box
	main       axis
	children   []Layout
	padding    Padding
	spacing    uint32
	mainAlign  AxisAlignment
	crossAlign AxisAlignment

	// scrollable is set for vertical layouts only.
	scrollable bool
	scroll     float32
	scrolling  bool
}

func newLinear(main axis, id ID, children []Layout, c config) linear {
	return linear{
		box:        box{id: id, intrinsic: c.intrinsic},
		main:       main,
		children:   children,
		padding:    c.padding,
		spacing:    c.spacing,
		mainAlign:  c.mainAlign,
		crossAlign: c.crossAlign,
	}
}

func (l *linear) Children() []Layout { return l.children }

// Padding returns the padding applied inside the node's box.
func (l *linear) Padding() Padding { return l.padding }

// Spacing returns the gap inserted between adjacent children.
func (l *linear) Spacing() uint32 { return l.spacing }

func (l *linear) MainAxisAlignment() AxisAlignment { return l.mainAlign }

func (l *linear) CrossAxisAlignment() AxisAlignment { return l.crossAlign }

// gaps returns the total spacing between children. Spacing never
// materializes for zero or one child.
func (l *linear) gaps() float32 {
	if len(l.children) < 2 {
		return 0
	}
	return float32(l.spacing) * float32(len(l.children)-1)
}

func (l *linear) SolveMinConstraints() (float32, float32) {
	cross := l.main.cross()
	var mainSum, crossMax float32
	for _, child := range l.children {
		w, h := child.SolveMinConstraints()
		s := Size{Width: w, Height: h}
		mainSum += l.main.length(s)
		crossMax = max(crossMax, cross.length(s))
	}
	mainMin := l.declaredMin(l.main, mainSum+l.gaps()+l.main.padding(l.padding))
	crossMin := l.declaredMin(cross, crossMax+cross.padding(l.padding))
	l.setMin(l.main, mainMin)
	l.setMin(cross, crossMin)
	s := l.main.size(mainMin, crossMin)
	return s.Width, s.Height
}

func (l *linear) SolveMaxConstraints(available Size) {
	cross := l.main.cross()
	innerMain := max(l.resolve(l.main, l.main.length(available))-l.main.padding(l.padding), 0)
	innerCross := max(l.resolve(cross, cross.length(available))-cross.padding(l.padding), 0)

	remainder := innerMain - l.gaps()
	var factors float32
	for _, child := range l.children {
		s := l.main.sizing(child.IntrinsicSize())
		switch s.Kind {
		case SizingFixed:
			remainder -= s.Value
		case SizingFlex:
			factors += float32(s.Factor)
		default:
			remainder -= l.main.min(child.Constraints())
		}
	}
	remainder = max(remainder, 0)

	for _, child := range l.children {
		var mainLen float32
		if s := l.main.sizing(child.IntrinsicSize()); s.IsFlex() {
			if factors > 0 {
				mainLen = remainder * float32(s.Factor) / factors
			}
		} else {
			mainLen = allocation(l.main, child, innerMain)
		}
		grant(child, l.main.size(mainLen, allocation(cross, child, innerCross)))
	}
}

func (l *linear) UpdateSize() {
	l.size = l.resolveSize()
	for _, child := range l.children {
		child.UpdateSize()
	}
}

func (l *linear) PositionChildren() {
	l.errors.reset()
	l.scrolling = false

	cross := l.main.cross()
	innerMain := max(l.main.length(l.size)-l.main.padding(l.padding), 0)
	innerCross := max(cross.length(l.size)-cross.padding(l.padding), 0)

	run := l.gaps()
	for _, child := range l.children {
		run += l.main.length(child.Size())
	}

	var lead float32
	if run > innerMain+overflowEpsilon {
		l.errors.report(Overflow(l.id, MainAxis))
		if l.scrollable {
			l.scrolling = true
			lead = clamp(l.scroll, innerMain-run, 0)
		}
	} else {
		lead = l.mainAlign.offset(innerMain, run)
	}

	cursor := l.main.coord(l.position) + l.main.leading(l.padding) + lead
	crossStart := cross.coord(l.position) + cross.leading(l.padding)
	for _, child := range l.children {
		cs := child.Size()
		l.main.setCoord(child, cursor)
		cross.setCoord(child, crossStart+l.crossAlign.offset(innerCross, cross.length(cs)))
		cursor += l.main.length(cs) + float32(l.spacing)

		if cross.length(cs) > innerCross+overflowEpsilon {
			l.errors.report(Overflow(l.id, CrossAxis))
		}
		if !l.scrolling && outside(l.position, l.size, child.Position()) {
			l.errors.report(OutOfBounds(l.id, child.ID()))
		}
	}

	for _, child := range l.children {
		child.PositionChildren()
	}
}

func (l *linear) fitWindow(window Size) {
	l.reportWindow(l.main, window)
}

func (l *linear) CollectErrors() []LayoutError {
	return collect(&l.errors, l.children)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
