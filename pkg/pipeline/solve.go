package pipeline

import (
	"github.com/matzehuels/crystal/pkg/layout"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Solve builds the scene's layout tree, solves it in the options' window
// and captures the result. It does not touch any cache.
func Solve(s *scene.Scene, opts Options) (*scene.Frame, error) {
	buildOpts := []scene.BuildOption{scene.WithScroll(opts.ScrollDeltas())}
	if opts.IDs != nil {
		buildOpts = append(buildOpts, scene.WithIDGenerator(opts.IDs))
	}
	tree, err := scene.Build(s, buildOpts...)
	if err != nil {
		return nil, err
	}

	window := opts.Window()
	solver := layout.NewSolver(layout.WithLogger(opts.Logger))
	diags := solver.Solve(tree.Root, window)

	f := scene.Capture(tree.Root, window, tree.Labels, diags)
	f.SceneHash = scene.Hash(s)
	return f, nil
}
