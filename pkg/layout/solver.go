package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// windowed is implemented by the node variants of this package.
type windowed interface {
	fitWindow(window Size)
}

// Solve lays out the tree rooted at root inside window.
//
// The root's max constraints are set to the window, then the four passes
// run in order. A root that ends up larger than the window, such as a
// Shrink root around oversized content, keeps its size and carries an
// overflow diagnostic for each axis that does not fit. The root's position
// is left untouched, so callers that want an offset root set it before
// solving. A nil root is a no-op.
func Solve(root Layout, window Size) {
	if root == nil {
		return
	}
	root.SetMaxWidth(window.Width)
	root.SetMaxHeight(window.Height)
	root.SolveMinConstraints()
	root.SolveMaxConstraints(window)
	root.UpdateSize()
	root.PositionChildren()
	if w, ok := root.(windowed); ok {
		w.fitWindow(window)
	}
}

// Solver runs [Solve] and drains the resulting diagnostics.
type Solver struct {
	logger *log.Logger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(logger *log.Logger) SolverOption {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSolver returns a Solver. Without [WithLogger] nothing is logged.
func NewSolver(opts ...SolverOption) *Solver {
	s := &Solver{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve lays out root inside window and returns every diagnostic recorded
// in the tree. Each diagnostic is also logged at debug level.
func (s *Solver) Solve(root Layout, window Size) []LayoutError {
	if root == nil {
		return nil
	}
	start := time.Now()
	Solve(root, window)
	errs := root.CollectErrors()

	s.logger.Debug("layout solved",
		"root", root.ID(),
		"window", window,
		"size", root.Size(),
		"diagnostics", len(errs),
		"elapsed", time.Since(start))
	for _, err := range errs {
		s.logger.Debug("layout diagnostic", "kind", err.Kind, "node", err.Node, "detail", err.Error())
	}
	return errs
}
