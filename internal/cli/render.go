package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crystal/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path (multiple)
	formats     []string // svg, png, pdf, json, dot, txt
	width       float64
	height      float64
	scroll      []string
	labels      bool
	diagnostics bool
	palette     string
	scale       float64
	detailed    bool
	columns     int
	rows        int
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{labels: true, diagnostics: true}

	cmd := &cobra.Command{
		Use:   "render [scene|frame]",
		Short: "Render a scene or a solved frame",
		Long: `Render a scene document or a frame written by "crystal solve".

Scenes are solved first. Frames are drawn as they are, so window and scroll
flags do not apply to them.`,
		Example: `  crystal render sidebar.toml
  crystal render sidebar.toml -f svg,png -o out/sidebar
  crystal render frame.json -f txt --columns 100 --rows 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default: svg)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "window width (default: scene window or 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "window height (default: scene window or 600)")
	cmd.Flags().StringArrayVar(&opts.scroll, "scroll", nil, "scroll a vertical node: <node-id>=<delta> (repeatable)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw node labels")
	cmd.Flags().BoolVar(&opts.diagnostics, "diagnostics", opts.diagnostics, "highlight overflowing and misplaced boxes")
	cmd.Flags().StringVar(&opts.palette, "palette", "", "SVG palette (default from config, else light)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config, else 2)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include geometry in DOT output")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "text output columns")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "text output rows")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached frames")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	scroll, err := parseScroll(opts.scroll)
	if err != nil {
		return err
	}
	in, err := pipeline.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Width:       opts.width,
		Height:      opts.height,
		Scroll:      scroll,
		Refresh:     opts.refresh,
		Formats:     opts.formats,
		Labels:      opts.labels,
		Diagnostics: opts.diagnostics,
		Palette:     opts.palette,
		Scale:       opts.scale,
		Detailed:    opts.detailed,
		Columns:     opts.columns,
		Rows:        opts.rows,
		Logger:      c.Logger,
	}
	c.applyRenderConfig(&popts)

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Rendering "+input+"...")
	spinner.Start()
	var res *pipeline.Result
	if in.Frame != nil {
		if opts.width != 0 || opts.height != 0 || len(scroll) > 0 {
			c.Logger.Warn("window and scroll flags are ignored for frames")
		}
		res = &pipeline.Result{SceneHash: in.Frame.SceneHash, Frame: in.Frame}
		res.Artifacts, res.CacheInfo.RenderHit, err = runner.RenderWithCacheInfo(ctx, in.Frame, popts)
		res.CacheInfo.SolveHit = true
	} else {
		res, err = runner.Execute(ctx, in.Scene, popts)
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return context.Canceled
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.formats, ", ")))

	paths, err := writeArtifacts(res.Artifacts, opts.formats, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printStats(len(res.Frame.Boxes), len(res.Frame.Diagnostics), res.CacheInfo.SolveHit && res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	printDiagnostics(res.Frame)
	return nil
}

// writeArtifacts writes one file per format and returns the paths written.
// A single format goes to output as given; several formats share a base
// path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := output
		if path == "" || len(formats) > 1 {
			path = basePath(output, input) + "." + format
		}
		if path == input {
			return paths, fmt.Errorf("refusing to overwrite input %s", input)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return paths, err
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.FormatNames(), strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
