package scene

import (
	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/layout"
)

// Tree is a layout tree built from a scene, together with the per-node data
// that layout itself does not carry.
type Tree struct {
	Root   layout.Layout
	Labels map[layout.ID]string
}

// BuildOption configures Build.
type BuildOption func(*builder)

// WithIDGenerator sets the generator used for nodes without an id.
// The default is layout.NewSequence("node").
func WithIDGenerator(g layout.IDGenerator) BuildOption {
	return func(b *builder) {
		if g != nil {
			b.ids = g
		}
	}
}

// WithScroll adds scroll deltas to vertical nodes by id, on top of the
// offsets declared in the document. Every id must name a vertical node.
func WithScroll(deltas map[string]float32) BuildOption {
	return func(b *builder) { b.scroll = deltas }
}

// maxIDAttempts bounds how many generated ids may clash before Build gives
// up on the generator.
const maxIDAttempts = 1000

type builder struct {
	ids       layout.IDGenerator
	scroll    map[string]float32
	declared  map[string]bool
	generated map[layout.ID]bool
	labels    map[layout.ID]string
	applied   map[string]bool
}

// Build validates s and constructs its layout tree.
func Build(s *Scene, opts ...BuildOption) (*Tree, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		ids:      layout.NewSequence("node"),
		declared:  make(map[string]bool),
		generated: make(map[layout.ID]bool),
		labels:    make(map[layout.ID]string),
		applied:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	collectIDs(&s.Root, b.declared)

	root, err := b.node(&s.Root)
	if err != nil {
		return nil, err
	}
	for id := range b.scroll {
		if !b.applied[id] {
			if b.declared[id] {
				return nil, errors.New(errors.ErrCodeInvalidInput, "cannot scroll %q: not a vertical node", id)
			}
			return nil, errors.New(errors.ErrCodeNotFound, "cannot scroll %q: no such node", id)
		}
	}
	return &Tree{Root: root, Labels: b.labels}, nil
}

func collectIDs(n *Node, into map[string]bool) {
	if n.ID != "" {
		into[n.ID] = true
	}
	for i := range n.Children {
		collectIDs(&n.Children[i], into)
	}
}

// id returns the node's declared id or a generated one that clashes with
// neither a declared id nor an id generated earlier in this build.
func (b *builder) id(n *Node) (layout.ID, error) {
	if n.ID != "" {
		return layout.ID(n.ID), nil
	}
	for range maxIDAttempts {
		id := b.ids.NewID()
		if id != "" && !b.declared[string(id)] && !b.generated[id] {
			b.generated[id] = true
			return id, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"id generator produced no unused id in %d attempts", maxIDAttempts)
}

func (b *builder) node(n *Node) (layout.Layout, error) {
	id, err := b.id(n)
	if err != nil {
		return nil, err
	}
	if n.Label != "" {
		b.labels[id] = n.Label
	}

	// Validate has already rejected malformed alignments.
	main, _ := layout.ParseAxisAlignment(n.MainAlign)
	cross, _ := layout.ParseAxisAlignment(n.CrossAlign)
	opts := []layout.Option{
		layout.WithIntrinsicSize(n.Intrinsic()),
		layout.WithPadding(n.Padding.Padding),
		layout.WithSpacing(n.Spacing),
		layout.WithMainAxisAlignment(main),
		layout.WithCrossAxisAlignment(cross),
	}

	children := make([]layout.Layout, len(n.Children))
	for i := range n.Children {
		if children[i], err = b.node(&n.Children[i]); err != nil {
			return nil, err
		}
	}

	switch n.Kind {
	case KindBlock:
		return layout.NewBlock(id, children[0], opts...), nil
	case KindHorizontal:
		return layout.NewHorizontal(id, children, opts...), nil
	case KindVertical:
		scroll := float32(n.Scroll)
		if delta, ok := b.scroll[string(id)]; ok {
			scroll += delta
			b.applied[string(id)] = true
		}
		return layout.NewVertical(id, children, append(opts, layout.WithScrollOffset(scroll))...), nil
	default:
		return layout.NewEmpty(id, opts...), nil
	}
}
