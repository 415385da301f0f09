package scene

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/layout"
)

// Limits enforced by Validate.
const (
	MaxDepth = 64
	MaxNodes = 10000
)

// Validate checks the scene's structure:
//   - kinds are known and child counts match them (empty: none, block: one)
//   - ids are valid and unique
//   - flex factors are between 1 and 255
//   - alignments are start, center or end
//   - spacing and scroll appear only on nodes that use them
//   - the default window, if any, is valid
func (s *Scene) Validate() error {
	if s.Window != nil {
		if err := errors.ValidateWindow(s.Window.Width, s.Window.Height); err != nil {
			return err
		}
	}
	v := validator{seen: make(map[string]string)}
	return v.node(&s.Root, "root", 0)
}

type validator struct {
	seen  map[string]string // id -> path
	count int
}

func (v *validator) node(n *Node, path string, depth int) error {
	if depth > MaxDepth {
		return errors.New(errors.ErrCodeInvalidScene, "%s: nesting deeper than %d", path, MaxDepth)
	}
	if v.count++; v.count > MaxNodes {
		return errors.New(errors.ErrCodeInvalidScene, "scene has more than %d nodes", MaxNodes)
	}

	if n.ID != "" {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s", path)
		}
		if prev, dup := v.seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidScene, "%s: duplicate id %q (first used at %s)", path, n.ID, prev)
		}
		v.seen[n.ID] = path
		path = strconv.Quote(n.ID)
	}

	if !slices.Contains(Kinds, n.Kind) {
		return errors.New(errors.ErrCodeInvalidScene, "%s: unknown kind %q (must be one of: empty, block, horizontal, vertical)", path, n.Kind)
	}
	switch n.Kind {
	case KindEmpty:
		if len(n.Children) > 0 {
			return errors.New(errors.ErrCodeInvalidScene, "%s: empty node cannot have children", path)
		}
	case KindBlock:
		if len(n.Children) != 1 {
			return errors.New(errors.ErrCodeInvalidScene, "%s: block needs exactly one child, got %d", path, len(n.Children))
		}
	}

	sizings := []struct {
		name string
		s    *Sizing
	}{{"size", n.Size}, {"width", n.Width}, {"height", n.Height}}
	for _, f := range sizings {
		if f.s != nil && f.s.IsFlex() && f.s.Factor == 0 {
			return errors.New(errors.ErrCodeInvalidSizing, "%s: %s flex factor must be between 1 and 255", path, f.name)
		}
	}

	if _, err := layout.ParseAxisAlignment(n.MainAlign); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s: main_align", path)
	}
	if _, err := layout.ParseAxisAlignment(n.CrossAlign); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s: cross_align", path)
	}
	if n.MainAlign != "" || n.CrossAlign != "" || !n.Padding.IsZero() {
		if n.Kind == KindEmpty {
			return errors.New(errors.ErrCodeInvalidScene, "%s: empty node does not take padding or alignment", path)
		}
	}
	if n.Spacing != 0 && n.Kind != KindHorizontal && n.Kind != KindVertical {
		return errors.New(errors.ErrCodeInvalidScene, "%s: spacing only applies to horizontal and vertical nodes", path)
	}
	if n.Scroll != 0 && n.Kind != KindVertical {
		return errors.New(errors.ErrCodeInvalidScene, "%s: scroll only applies to vertical nodes", path)
	}

	for i := range n.Children {
		if err := v.node(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}
