// Package svg renders solved frames as SVG documents.
//
// Each box becomes a rect drawn in pre-order, so children paint over their
// parents. The window is outlined with a dashed line; anything drawn
// outside it overflowed the window.
//
//	doc := svg.Render(frame, svg.WithLabels(), svg.WithDiagnostics())
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/crystal/pkg/scene"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 18.0
)

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	labels      bool
	diagnostics bool
	palette     Palette
}

// WithLabels draws each box's label, or its id when it has none.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithDiagnostics outlines overflowing boxes and out-of-bounds children.
func WithDiagnostics() Option { return func(r *renderer) { r.diagnostics = true } }

// WithPalette sets the colors. The default is [Light].
func WithPalette(p Palette) Option { return func(r *renderer) { r.palette = p } }

// Render draws the frame. The canvas covers the window and every box.
func Render(f *scene.Frame, opts ...Option) []byte {
	r := renderer{palette: Light}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.Bounds()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		w, h, r.palette.Background)

	var overflowing, misplaced map[string]bool
	if r.diagnostics {
		overflowing, misplaced = f.Overflowing(), f.Misplaced()
	}
	for _, b := range f.Boxes {
		r.renderBox(&buf, b, overflowing[b.ID], misplaced[b.ID])
	}
	if r.labels {
		for _, b := range f.Boxes {
			r.renderLabel(&buf, b)
		}
	}

	fmt.Fprintf(&buf, `  <rect class="window" x="0" y="0" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1" stroke-dasharray="6 4"/>`+"\n",
		f.Window.Width, f.Window.Height, r.palette.Window)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderBox(buf *bytes.Buffer, b scene.Box, overflow, misplaced bool) {
	stroke, width, dash := r.palette.Stroke, 1.0, ""
	switch {
	case overflow:
		stroke, width = r.palette.Overflow, 2.5
	case misplaced:
		stroke, width, dash = r.palette.OutOfBounds, 2, ` stroke-dasharray="4 2"`
	}
	class := "box " + string(b.Kind)
	if overflow {
		class += " overflow"
	}
	fmt.Fprintf(buf, `  <rect id="box-%s" class="%s" data-depth="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		escape(b.ID), class, b.Depth, b.X, b.Y, b.Width, b.Height, r.palette.fill(b.Kind), stroke, width, dash)
}

func (r *renderer) renderLabel(buf *bytes.Buffer, b scene.Box) {
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	label := b.DisplayLabel()
	size := fontSize(b.Width, b.Height, len(label))
	label = truncate(label, b.Width, size)
	fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" fill="%s" dominant-baseline="hanging">%s</text>`+"\n",
		b.X+2, b.Y+2, size, r.palette.Text, escape(label))
}

func fontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func truncate(label string, width, size float64) string {
	maxChars := max(int(width*fontWidthRatio/(size*fontCharWidth)), 3)
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
