// Package text draws solved frames on a character grid for terminal
// previews.
//
// The window is scaled to the grid; boxes are drawn as line-art outlines
// in pre-order, so children overwrite their parents' interiors. Overflowing
// boxes are colored when color output is enabled.
package text

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/crystal/pkg/scene"
)

// Default grid size.
const (
	DefaultColumns = 80
	DefaultRows    = 24
)

const (
	cornerTL   = '┌'
	cornerTR   = '┐'
	cornerBL   = '└'
	cornerBR   = '┘'
	horizontal = '─'
	vertical   = '│'
)

type ink uint8

const (
	inkNone ink = iota
	inkBox
	inkLabel
	inkOverflow
	inkMisplaced
)

var (
	styleBox       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleLabel     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleOverflow  = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)
	styleMisplaced = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func (i ink) style() (lipgloss.Style, bool) {
	switch i {
	case inkBox:
		return styleBox, true
	case inkLabel:
		return styleLabel, true
	case inkOverflow:
		return styleOverflow, true
	case inkMisplaced:
		return styleMisplaced, true
	}
	return lipgloss.Style{}, false
}

// Option configures text rendering.
type Option func(*renderer)

type renderer struct {
	cols, rows int
	color      bool
	labels     bool
}

// WithSize sets the grid size in cells.
func WithSize(cols, rows int) Option {
	return func(r *renderer) {
		if cols > 0 && rows > 0 {
			r.cols, r.rows = cols, rows
		}
	}
}

// WithColor styles outlines with lipgloss. Overflowing boxes are red and
// out-of-bounds children amber.
func WithColor() Option { return func(r *renderer) { r.color = true } }

// WithoutLabels leaves box interiors blank.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

type grid struct {
	cols, rows int
	cells      []rune
	inks       []ink
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([]rune, cols*rows), inks: make([]ink, cols*rows)}
	for i := range g.cells {
		g.cells[i] = ' '
	}
	return g
}

func (g *grid) set(x, y int, r rune, i ink) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = r
	g.inks[y*g.cols+x] = i
}

// Render draws the frame's window on a grid. Boxes outside the window are
// clipped.
func Render(f *scene.Frame, opts ...Option) string {
	r := renderer{cols: DefaultColumns, rows: DefaultRows, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	g := newGrid(r.cols, r.rows)
	sx := cellScale(f.Window.Width, r.cols)
	sy := cellScale(f.Window.Height, r.rows)
	overflowing, misplaced := f.Overflowing(), f.Misplaced()

	for _, b := range f.Boxes {
		x0 := int(math.Round(b.X / sx))
		y0 := int(math.Round(b.Y / sy))
		x1 := max(int(math.Round(b.Right()/sx))-1, x0)
		y1 := max(int(math.Round(b.Bottom()/sy))-1, y0)

		i := inkBox
		switch {
		case overflowing[b.ID]:
			i = inkOverflow
		case misplaced[b.ID]:
			i = inkMisplaced
		}
		g.clear(x0+1, y0+1, x1-1, y1-1)
		g.outline(x0, y0, x1, y1, i)
		if r.labels && x1-x0 >= 3 && y1-y0 >= 2 {
			g.label(x0+1, y0+1, x1-x0-1, b.DisplayLabel())
		}
	}
	return g.String(r.color)
}

func cellScale(length float64, cells int) float64 {
	if length <= 0 || cells <= 0 {
		return 1
	}
	return length / float64(cells)
}

func (g *grid) clear(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, ' ', inkNone)
		}
	}
}

func (g *grid) outline(x0, y0, x1, y1 int, i ink) {
	if x0 == x1 || y0 == y1 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				g.set(x, y, '▪', i)
			}
		}
		return
	}
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, horizontal, i)
		g.set(x, y1, horizontal, i)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, vertical, i)
		g.set(x1, y, vertical, i)
	}
	g.set(x0, y0, cornerTL, i)
	g.set(x1, y0, cornerTR, i)
	g.set(x0, y1, cornerBL, i)
	g.set(x1, y1, cornerBR, i)
}

func (g *grid) label(x, y, width int, s string) {
	runes := []rune(s)
	if len(runes) > width {
		if width < 2 {
			return
		}
		runes = append(runes[:width-1], '…')
	}
	for i, r := range runes {
		g.set(x+i, y, r, inkLabel)
	}
}

// String returns the grid one line per row, without trailing spaces.
func (g *grid) String(color bool) string {
	var sb strings.Builder
	for y := range g.rows {
		row := g.cells[y*g.cols : (y+1)*g.cols]
		inks := g.inks[y*g.cols : (y+1)*g.cols]
		end := len(row)
		for end > 0 && row[end-1] == ' ' {
			end--
		}
		if !color {
			sb.WriteString(string(row[:end]))
		} else {
			writeRuns(&sb, row[:end], inks[:end])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// writeRuns renders consecutive cells with the same ink as one styled span.
func writeRuns(sb *strings.Builder, row []rune, inks []ink) {
	for start := 0; start < len(row); {
		end := start + 1
		for end < len(row) && inks[end] == inks[start] {
			end++
		}
		span := string(row[start:end])
		if st, ok := inks[start].style(); ok {
			span = st.Render(span)
		}
		sb.WriteString(span)
		start = end
	}
}
