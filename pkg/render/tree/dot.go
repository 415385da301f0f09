package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/crystal/pkg/render"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes kind, geometry and sizing in node labels.
	// When false, only the label (or id) is shown.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT format with one node per box and
// an edge from each parent to its children, in child order.
func ToDOT(f *scene.Frame, opts Options) string {
	overflowing, misplaced := f.Overflowing(), f.Misplaced()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, b := range f.Boxes {
		attrs := fmtAttrs(b, fmtLabel(b, opts.Detailed), overflowing[b.ID], misplaced[b.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, b := range f.Boxes {
		if b.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", b.Parent, b.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b scene.Box, detailed bool) string {
	if !detailed {
		return b.DisplayLabel()
	}
	return strings.Join([]string{
		b.DisplayLabel(),
		string(b.Kind),
		fmt.Sprintf("%g,%g  %gx%g", b.X, b.Y, b.Width, b.Height),
		b.Sizing,
	}, "\n")
}

func fmtAttrs(b scene.Box, label string, overflow, misplaced bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case overflow:
		attrs = append(attrs, "color=\"#d62728\"", "fillcolor=\"#fde0e0\"", "penwidth=2")
	case misplaced:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=\"#ff7f0e\"")
	}
	if b.Kind == scene.KindEmpty {
		attrs = append(attrs, "shape=note")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in user units so the diagram scales like the box renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
