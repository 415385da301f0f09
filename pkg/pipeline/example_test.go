package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/scene"
)

func ExampleRunner_Solve() {
	s, err := scene.ReadFile("../scene/testdata/sidebar.toml")
	if err != nil {
		panic(err)
	}

	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, log.New(io.Discard))
	defer runner.Close()

	f, err := runner.Solve(context.Background(), s, pipeline.Options{})
	if err != nil {
		panic(err)
	}
	b, _ := f.Box("content")
	fmt.Printf("%s at (%g,%g) %g×%g\n", b.ID, b.X, b.Y, b.Width, b.Height)
	// Output: content at (224,16) 560×568
}

func ExampleRunner_Solve_scroll() {
	s, err := scene.ReadFile("../scene/testdata/list.toml")
	if err != nil {
		panic(err)
	}

	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	f, err := runner.Solve(context.Background(), s, pipeline.Options{
		Scroll: map[string]float64{"list": -30},
	})
	if err != nil {
		panic(err)
	}
	b, _ := f.Box("row-1")
	fmt.Println(b.ID, b.Y)
	// Output: row-1 -22
}

// The scenes shipped under examples/ must stay solvable.
func TestExampleScenes(t *testing.T) {
	paths, err := filepath.Glob("../../examples/*")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example scenes")
	}

	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			in, err := pipeline.Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			res, err := runner.Execute(context.Background(), in.Scene, pipeline.Options{
				Formats: []string{pipeline.FormatSVG, pipeline.FormatTXT},
			})
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if len(res.Frame.Diagnostics) > 0 {
				t.Errorf("diagnostics: %+v", res.Frame.Diagnostics)
			}
		})
	}
}
