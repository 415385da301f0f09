package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/render/text"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Terminal cells are about twice as tall as they are wide, so one cell
// stands for cellWidth × cellHeight layout units when the window follows
// the terminal.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// previewChrome is the number of lines taken by the header and footer.
	previewChrome = 3

	defaultScrollStep = 40.0
)

var (
	previewFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	previewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// previewOpts holds the flags of the preview command.
type previewOpts struct {
	width  float64 // fixed window width; 0 follows the terminal
	height float64
	step   float64
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{step: defaultScrollStep}

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Preview a scene in the terminal",
		Long: `Solve a scene and draw it in the terminal.

The window follows the terminal size unless --width and --height are set.
Scroll vertical nodes with j/k, cycle between them with tab, reload the
file with r and quit with q.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.width, "width", 0, "fixed window width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "fixed window height")
	cmd.Flags().Float64Var(&opts.step, "step", opts.step, "scroll step in layout units")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts previewOpts) error {
	if opts.step <= 0 {
		return fmt.Errorf("--step must be positive")
	}
	s, err := scene.ReadFile(input)
	if err != nil {
		return err
	}

	// Logging would tear the full-screen view, so the runner stays quiet.
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, log.New(io.Discard))
	defer runner.Close()

	m := newPreviewModel(ctx, runner, s, input, opts)
	m.load = func() (*scene.Scene, error) { return scene.ReadFile(input) }

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if pm, ok := final.(previewModel); ok && pm.err != nil {
		return pm.err
	}
	return nil
}

// =============================================================================
// previewModel - Interactive scene preview
// =============================================================================

// previewModel is the bubbletea model of the preview command. It re-solves
// the scene whenever the window or a scroll offset changes.
type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	scene  *scene.Scene
	name   string
	opts   previewOpts
	load   func() (*scene.Scene, error)

	verticals []string
	focus     int
	scroll    map[string]float64

	cols, rows int
	frame      *scene.Frame
	err        error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, s *scene.Scene, name string, opts previewOpts) previewModel {
	if opts.step <= 0 {
		opts.step = defaultScrollStep
	}
	return previewModel{
		ctx:       ctx,
		runner:    runner,
		scene:     s,
		name:      name,
		opts:      opts,
		verticals: verticalIDs(&s.Root, nil),
		scroll:    make(map[string]float64),
	}
}

// verticalIDs lists the ids of scrollable nodes in document order.
func verticalIDs(n *scene.Node, ids []string) []string {
	if n.Kind == scene.KindVertical && n.ID != "" {
		ids = append(ids, n.ID)
	}
	for i := range n.Children {
		ids = verticalIDs(&n.Children[i], ids)
	}
	return ids
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-previewChrome, 1)
		m.solve()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.scrollFocused(-m.opts.step)
		case "up", "k":
			m.scrollFocused(m.opts.step)
		case "pgdown", " ":
			m.scrollFocused(-m.page())
		case "pgup":
			m.scrollFocused(m.page())
		case "tab":
			if len(m.verticals) > 0 {
				m.focus = (m.focus + 1) % len(m.verticals)
			}
		case "shift+tab":
			if len(m.verticals) > 0 {
				m.focus = (m.focus + len(m.verticals) - 1) % len(m.verticals)
			}
		case "r":
			m.reload()
		}
	}
	return m, nil
}

// window returns the solve window for the current terminal size.
func (m previewModel) window() (float64, float64) {
	w, h := m.opts.width, m.opts.height
	if w == 0 {
		w = float64(m.cols) * cellWidth
	}
	if h == 0 {
		h = float64(m.rows) * cellHeight
	}
	return w, h
}

func (m previewModel) page() float64 {
	_, h := m.window()
	return max(h-m.opts.step, m.opts.step)
}

func (m *previewModel) solve() {
	if m.cols == 0 {
		return
	}
	w, h := m.window()
	f, err := m.runner.Solve(m.ctx, m.scene, pipeline.Options{Width: w, Height: h, Scroll: m.scroll})
	if err != nil {
		m.err = err
		return
	}
	m.frame, m.err = f, nil
}

// scrollFocused scrolls the focused vertical node by delta. Scrolling past
// either end is a no-op: the stored offset only moves by what the solver
// actually applied.
func (m *previewModel) scrollFocused(delta float64) {
	if len(m.verticals) == 0 || m.frame == nil {
		return
	}
	id := m.verticals[m.focus]
	before, ok := firstChild(m.frame, id)
	if !ok {
		return
	}
	prev, prevFrame := m.scroll[id], m.frame

	m.scroll[id] = prev + delta
	m.solve()
	after, ok := firstChild(m.frame, id)
	if m.err != nil || !ok || after.Y == before.Y {
		m.scroll[id] = prev
		m.frame = prevFrame
		return
	}
	m.scroll[id] = prev + (after.Y - before.Y)
}

func (m *previewModel) reload() {
	if m.load == nil {
		return
	}
	s, err := m.load()
	if err != nil {
		m.err = err
		return
	}
	m.scene = s
	m.verticals = verticalIDs(&s.Root, nil)
	m.focus = 0
	clear(m.scroll)
	m.solve()
}

// firstChild returns the first box whose parent is id.
func firstChild(f *scene.Frame, id string) (scene.Box, bool) {
	for _, b := range f.Boxes {
		if b.Parent == id {
			return b, true
		}
	}
	return scene.Box{}, false
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	if m.frame != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %g×%g", m.frame.Window.Width, m.frame.Window.Height)))
	}
	if len(m.verticals) > 0 {
		id := m.verticals[m.focus]
		b.WriteString("  " + previewFocusStyle.Render(id))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" scroll %g", m.scroll[id])))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	case m.frame != nil:
		b.WriteString(text.Render(m.frame, text.WithSize(m.cols, m.rows), text.WithColor()))
		b.WriteString("\n")
	}

	if m.frame != nil && len(m.frame.Diagnostics) > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d diagnostics", len(m.frame.Diagnostics))) + "  ")
	}
	b.WriteString(previewHelpStyle.Render("j/k scroll  pgup/pgdn page  tab focus  r reload  q quit"))
	return b.String()
}
