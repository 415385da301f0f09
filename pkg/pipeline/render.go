package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/crystal/pkg/render"
	"github.com/matzehuels/crystal/pkg/render/svg"
	"github.com/matzehuels/crystal/pkg/render/text"
	"github.com/matzehuels/crystal/pkg/render/tree"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Render generates output artifacts in the requested formats.
// PNG and PDF are converted from the SVG rendering, which is produced at
// most once per call.
func Render(ctx context.Context, f *scene.Frame, opts Options) (map[string][]byte, error) {
	var doc []byte
	svgDoc := func() []byte {
		if doc == nil {
			doc = svg.Render(f, buildSVGOptions(opts)...)
		}
		return doc
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgDoc()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgDoc(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgDoc())
		case FormatJSON:
			data, err = scene.MarshalFrame(f)
		case FormatDOT:
			data = []byte(tree.ToDOT(f, tree.Options{Detailed: opts.Detailed}))
		case FormatTXT:
			data = []byte(text.Render(f, buildTextOptions(opts)...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option
	if opts.Labels {
		svgOpts = append(svgOpts, svg.WithLabels())
	}
	if opts.Diagnostics {
		svgOpts = append(svgOpts, svg.WithDiagnostics())
	}
	if p, ok := svg.PaletteByName(opts.Palette); ok {
		svgOpts = append(svgOpts, svg.WithPalette(p))
	}
	return svgOpts
}

func buildTextOptions(opts Options) []text.Option {
	textOpts := []text.Option{text.WithSize(opts.Columns, opts.Rows)}
	if !opts.Labels {
		textOpts = append(textOpts, text.WithoutLabels())
	}
	return textOpts
}
