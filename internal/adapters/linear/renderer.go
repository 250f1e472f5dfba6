// Package linear provides a synchronous, line-oriented renderer for build progress.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/ui/output"
	"go.trai.ch/nob/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with chronological lines prefixed by
// the target output.
type Renderer struct {
	w      io.Writer
	output *termenv.Output
	quiet  bool

	mu      sync.Mutex
	targets map[string]*targetState // spanID -> target state
	stopped bool
}

type targetState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w (stderr when nil).
// A quiet renderer only reports failures.
func NewRenderer(w io.Writer, quiet bool) *Renderer {
	if w == nil {
		w = os.Stderr
	}

	return &Renderer{
		w:       w,
		output:  output.NewWithProfile(w, output.ColorProfileANSI),
		quiet:   quiet,
		targets: make(map[string]*targetState),
	}
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop drops targets that never completed and ignores later events.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	clear(r.targets)
	return nil
}

// OnPlanEmit prints the planned targets.
func (r *Renderer) OnPlanEmit(targets []string, _ map[string][]string, root string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet || r.stopped {
		return
	}
	_, _ = fmt.Fprintf(r.w, "Planning %d target(s) for %s\n", len(targets), root)
}

// OnTargetStart records the start of a target.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.targets[spanID] = &targetState{
		name:      name,
		startTime: startTime,
	}

	if r.quiet {
		return
	}
	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.w, "%s Checking...\n", prefix)
}

// OnTargetComplete prints the completion status of a target.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, outcome string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.targets[spanID]
	if !ok {
		return
	}
	delete(r.targets, spanID)

	duration := endTime.Sub(t.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", t.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.w, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	if r.quiet {
		return
	}

	o := domain.Outcome(outcome)
	switch o {
	case domain.OutcomeUpToDate:
		symbol := r.output.String(style.OutcomeIcon(o)).Faint().String()
		_, _ = fmt.Fprintf(r.w, "%s %s Up to date\n", prefix, symbol)
	default:
		symbol := r.output.String(style.OutcomeIcon(domain.OutcomeBuilt)).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.w, "%s %s Built in %v\n", prefix, symbol, duration)
	}
}
