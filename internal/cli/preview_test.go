package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/scene"
)

func newTestPreview(t *testing.T, file string, opts previewOpts) previewModel {
	t.Helper()
	s, err := scene.ReadFile(filepath.Join(testdata, file))
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, log.New(io.Discard))
	t.Cleanup(func() { runner.Close() })
	return newPreviewModel(context.Background(), runner, s, file, opts)
}

func update(t *testing.T, m previewModel, msg tea.Msg) previewModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(previewModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPreviewFollowsTerminal(t *testing.T) {
	m := newTestPreview(t, "sidebar.toml", previewOpts{})
	if m.frame != nil {
		t.Fatal("frame solved before the first window size")
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.err != nil {
		t.Fatalf("solve: %v", m.err)
	}
	wantW, wantH := 100*cellWidth, (40-previewChrome)*cellHeight
	if m.frame.Window.Width != wantW || m.frame.Window.Height != wantH {
		t.Errorf("window = %+v, want %g×%g", m.frame.Window, wantW, wantH)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.frame.Window.Width != 60*cellWidth {
		t.Errorf("window width = %v after resize, want %v", m.frame.Window.Width, 60*cellWidth)
	}
}

func TestPreviewFixedWindow(t *testing.T) {
	m := newTestPreview(t, "list.toml", previewOpts{width: 320, height: 200})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	if m.frame.Window.Width != 320 || m.frame.Window.Height != 200 {
		t.Errorf("window = %+v, want 320×200", m.frame.Window)
	}
}

func TestPreviewScroll(t *testing.T) {
	m := newTestPreview(t, "list.toml", previewOpts{width: 320, height: 200, step: 40})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	if len(m.verticals) != 1 || m.verticals[0] != "list" {
		t.Fatalf("verticals = %v, want [list]", m.verticals)
	}

	steps := []struct {
		msg    tea.Msg
		scroll float64
		rowY   float64
	}{
		{keyRune('j'), -40, -32},
		// Clamped at the end of the content: 184 inner height, 252 run.
		{tea.KeyMsg{Type: tea.KeyDown}, -68, -60},
		{keyRune('j'), -68, -60},
		{keyRune('k'), -28, -20},
		{tea.KeyMsg{Type: tea.KeyUp}, 0, 8},
		{keyRune('k'), 0, 8},
	}
	for i, st := range steps {
		m = update(t, m, st.msg)
		if got := m.scroll["list"]; got != st.scroll {
			t.Errorf("step %d: scroll = %v, want %v", i, got, st.scroll)
		}
		if row, _ := m.frame.Box("row-1"); row.Y != st.rowY {
			t.Errorf("step %d: row-1 y = %v, want %v", i, row.Y, st.rowY)
		}
	}
}

func TestPreviewFocusCycles(t *testing.T) {
	s := &scene.Scene{Root: scene.Node{
		ID:   "app",
		Kind: scene.KindHorizontal,
		Children: []scene.Node{
			{ID: "left", Kind: scene.KindVertical},
			{ID: "right", Kind: scene.KindVertical},
		},
	}}
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, log.New(io.Discard))
	defer runner.Close()
	m := newPreviewModel(context.Background(), runner, s, "inline", previewOpts{})

	if len(m.verticals) != 2 {
		t.Fatalf("verticals = %v", m.verticals)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 1 {
		t.Errorf("focus = %d after tab, want 1", m.focus)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 0 {
		t.Errorf("focus = %d after second tab, want 0", m.focus)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != 1 {
		t.Errorf("focus = %d after shift+tab, want 1", m.focus)
	}
}

func TestPreviewReload(t *testing.T) {
	m := newTestPreview(t, "list.toml", previewOpts{width: 320, height: 200})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(t, m, keyRune('j'))

	m.load = func() (*scene.Scene, error) {
		return scene.ReadFile(filepath.Join(testdata, "sidebar.toml"))
	}
	m = update(t, m, keyRune('r'))
	if m.err != nil {
		t.Fatalf("reload: %v", m.err)
	}
	if _, ok := m.frame.Box("nav"); !ok {
		t.Error("reloaded frame has no nav box")
	}
	if len(m.scroll) != 0 {
		t.Errorf("scroll = %v after reload, want empty", m.scroll)
	}
}

func TestPreviewView(t *testing.T) {
	m := newTestPreview(t, "list.toml", previewOpts{width: 320, height: 200})
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	view := m.View()
	for _, want := range []string{"list.toml", "320×200", "list", "1 diagnostics", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreviewQuit(t *testing.T) {
	m := newTestPreview(t, "list.toml", previewOpts{})
	for _, msg := range []tea.KeyMsg{keyRune('q'), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("%q: no command", msg.String())
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: command is not quit", msg.String())
		}
	}
}
