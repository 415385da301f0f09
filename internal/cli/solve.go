package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/scene"
)

// solveOpts holds the flags of the solve command.
type solveOpts struct {
	output  string
	width   float64
	height  float64
	scroll  []string
	noCache bool
	refresh bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [scene]",
		Short: "Solve a scene and write the frame as JSON",
		Long: `Solve a scene document (TOML or JSON) for a window size.

The frame is written to stdout unless --output is set. Window flags override
the scene's [window] table; scroll offsets add to the scene's own.`,
		Example: `  crystal solve sidebar.toml
  crystal solve sidebar.toml --width 1280 --height 720 -o frame.json
  crystal solve list.toml --scroll list=-120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "window width (default: scene window or 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "window height (default: scene window or 600)")
	cmd.Flags().StringArrayVar(&opts.scroll, "scroll", nil, "scroll a vertical node: <node-id>=<delta> (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached frames")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, input string, opts solveOpts) error {
	scroll, err := parseScroll(opts.scroll)
	if err != nil {
		return err
	}
	s, err := scene.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Status lines must not mix with the frame on stdout.
	if opts.output == "" {
		defer redirectStatus(stderr)()
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Solving "+input+"...")
	spinner.Start()
	f, hit, err := runner.SolveWithCacheInfo(ctx, s, pipeline.Options{
		Width:   opts.width,
		Height:  opts.height,
		Scroll:  scroll,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	spinner.Stop()
	if spinner.Cancelled() {
		return context.Canceled
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved %d nodes", len(f.Boxes)))

	if err := writeFrame(f, opts.output); err != nil {
		return err
	}

	printSuccess("Solved %s in %s", StyleHighlight.Render(input),
		StyleNumber.Render(fmt.Sprintf("%g×%g", f.Window.Width, f.Window.Height)))
	printStats(len(f.Boxes), len(f.Diagnostics), hit)
	if opts.output != "" {
		printFile(opts.output)
	}
	printDiagnostics(f)
	if opts.output != "" {
		printNewline()
		printNextStep("Render it", appName+" render "+opts.output)
	}
	return nil
}

// writeFrame writes f as indented JSON to path, or to standard output
// when path is empty.
func writeFrame(f *scene.Frame, path string) error {
	if path == "" {
		return scene.WriteFrame(f, os.Stdout)
	}
	return scene.WriteFrameFile(f, path)
}

// redirectStatus points status output at w and returns a function that
// restores it.
func redirectStatus(w io.Writer) func() {
	old := stdout
	stdout = w
	return func() { stdout = old }
}
