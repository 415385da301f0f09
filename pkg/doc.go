// Package pkg provides the core libraries for Crystal box layouts.
//
// # Overview
//
// Crystal solves trees of nested boxes for a window size: fixed, flexible
// and shrink-to-fit boxes are stacked horizontally or vertically, padded,
// spaced and aligned, and vertical stacks can scroll. The pkg directory is
// organized into four main areas:
//
//  1. [layout] - The solver (sizing, constraints, positioning, diagnostics)
//  2. [scene] - Scene documents (TOML/JSON) and solved frames
//  3. [render] - Frame output (SVG, PDF, PNG, DOT, terminal text)
//  4. [pipeline] - Orchestration (solve → render) with caching
//
// Supporting packages: [cache] (file, memory, Redis and MongoDB backends),
// [session] (scroll and resize state kept between requests), [errors]
// (error codes and input validation) and [observability] (hooks for
// metrics and tracing).
//
// # Architecture
//
// The typical data flow through Crystal:
//
//	Scene document (.toml / .json)
//	         ↓
//	    [scene] package (parse, validate, build layout tree)
//	         ↓
//	    [layout] package (solve in a window)
//	         ↓
//	    [scene.Frame] (boxes + diagnostics)
//	         ↓
//	    [render] packages
//	         ↓
//	    SVG/PDF/PNG/DOT/TXT output
//
// # Quick Start
//
// Solve a scene file and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/crystal/pkg/cache"
//	    "github.com/matzehuels/crystal/pkg/pipeline"
//	    "github.com/matzehuels/crystal/pkg/scene"
//	)
//
//	s, _ := scene.ReadFile("sidebar.toml")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	res, _ := runner.Execute(context.Background(), s, pipeline.Options{
//	    Width:   1024,
//	    Height:  768,
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
//
// Or drive the solver directly:
//
//	ids := layout.NewSequence("node")
//	root := layout.NewHorizontal(ids.NewID(), []layout.Layout{
//	    layout.NewEmpty(ids.NewID(), layout.WithIntrinsicSize(layout.IntrinsicSize{
//	        Width: layout.Fixed(200), Height: layout.Flex(1),
//	    })),
//	    layout.NewEmpty(ids.NewID(), layout.WithIntrinsicSize(layout.FlexSize(1))),
//	})
//	layout.Solve(root, layout.Size{Width: 800, Height: 600})
//	diags := root.CollectErrors()
//
// [layout]: github.com/matzehuels/crystal/pkg/layout
// [scene]: github.com/matzehuels/crystal/pkg/scene
// [scene.Frame]: github.com/matzehuels/crystal/pkg/scene.Frame
// [render]: github.com/matzehuels/crystal/pkg/render
// [pipeline]: github.com/matzehuels/crystal/pkg/pipeline
// [cache]: github.com/matzehuels/crystal/pkg/cache
// [session]: github.com/matzehuels/crystal/pkg/session
// [errors]: github.com/matzehuels/crystal/pkg/errors
// [observability]: github.com/matzehuels/crystal/pkg/observability
package pkg
