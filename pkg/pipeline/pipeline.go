// Package pipeline provides the solve → render pipeline for crystal.
//
// This package implements the complete pipeline that is used by the CLI
// and the HTTP server. By centralizing this logic, every entry point
// applies the same defaults, cache keys and observability hooks.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Solve: build the layout tree of a scene and solve it in a window,
//     producing a [scene.Frame]
//  2. Render: draw the frame in one or more formats (SVG, PNG, PDF, JSON,
//     DOT, TXT)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage is cached separately.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Width:   1024,
//	    Height:  768,
//	    Formats: []string{"svg", "txt"},
//	    Labels:  true,
//	}
//	result, err := runner.Execute(ctx, s, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	frame, err := runner.Solve(ctx, s, opts)
//	artifacts, err := runner.Render(ctx, frame, opts)
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/layout"
	"github.com/matzehuels/crystal/pkg/render/svg"
	"github.com/matzehuels/crystal/pkg/render/text"
	"github.com/matzehuels/crystal/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the window width used when neither the options nor
	// the scene set one.
	DefaultWidth = 800.0

	// DefaultHeight is the window height used when neither the options nor
	// the scene set one.
	DefaultHeight = 600.0

	// DefaultPalette is the SVG palette.
	DefaultPalette = "light"

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTXT:  true,
}

// FormatNames lists the supported formats in sorted order.
func FormatNames() []string {
	return slices.Sorted(maps.Keys(ValidFormats))
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	Width   float64            `json:"width,omitempty"`
	Height  float64            `json:"height,omitempty"`
	Scroll  map[string]float64 `json:"scroll,omitempty"` // Extra scroll per vertical node id
	Refresh bool               `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Diagnostics bool     `json:"diagnostics,omitempty"`
	Palette     string   `json:"palette,omitempty"`
	Scale       float64  `json:"scale,omitempty"`    // PNG only
	Detailed    bool     `json:"detailed,omitempty"` // DOT only
	Columns     int      `json:"columns,omitempty"`  // TXT only
	Rows        int      `json:"rows,omitempty"`     // TXT only

	// Runtime options (not serialized)
	Logger *log.Logger        `json:"-"`
	IDs    layout.IDGenerator `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SceneHash is the content hash of the scene's layout tree.
	SceneHash string

	// Frame is the solved layout.
	Frame *scene.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	DiagnosticCount int
	SolveTime       time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, FormatNames()...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePalette checks that a palette is one of the built-in ones.
func ValidatePalette(name string) error {
	if _, ok := svg.PaletteByName(name); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid palette: %q (must be one of: %s)",
			name, strings.Join(svg.PaletteNames(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// InheritWindow fills a missing width or height from the scene's default
// window. Explicit options win.
func (o *Options) InheritWindow(s *scene.Scene) {
	if s == nil || s.Window == nil {
		return
	}
	if o.Width == 0 {
		o.Width = s.Window.Width
	}
	if o.Height == 0 {
		o.Height = s.Window.Height
	}
}

// SetSolveDefaults sets default values for solving.
func (o *Options) SetSolveDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve validates and sets defaults for solving.
func (o *Options) ValidateForSolve() error {
	o.SetSolveDefaults()
	return errors.ValidateWindow(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Columns == 0 {
		o.Columns = text.DefaultColumns
	}
	if o.Rows == 0 {
		o.Rows = text.DefaultRows
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Columns < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale, columns and rows must not be negative")
	}
	return ValidatePalette(o.Palette)
}

// Window returns the solve window.
func (o *Options) Window() layout.Size {
	return layout.Size{Width: float32(o.Width), Height: float32(o.Height)}
}

// ScrollDeltas returns the scroll map in layout units.
func (o *Options) ScrollDeltas() map[string]float32 {
	if len(o.Scroll) == 0 {
		return nil
	}
	out := make(map[string]float32, len(o.Scroll))
	for id, d := range o.Scroll {
		out[id] = float32(d)
	}
	return out
}

// FrameKeyOpts returns cache key options for solving.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Scroll: o.Scroll,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect format are left out so that, for example,
// changing the palette does not invalidate cached JSON.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Labels, k.Diagnostics, k.Palette = o.Labels, o.Diagnostics, o.Palette
		if format == FormatPNG {
			k.Scale = o.Scale
		}
	case FormatDOT:
		k.Detailed = o.Detailed
	case FormatTXT:
		k.Labels, k.Columns, k.Rows = o.Labels, o.Columns, o.Rows
	}
	return k
}
