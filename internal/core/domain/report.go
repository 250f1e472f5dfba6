package domain

import "time"

// Outcome is the terminal result of one target within a build.
type Outcome string

const (
	// OutcomeBuilt indicates the target's command ran and succeeded.
	OutcomeBuilt Outcome = "built"
	// OutcomeUpToDate indicates the output was newer than every input.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeSource indicates a source leaf present on disk.
	OutcomeSource Outcome = "source"
	// OutcomeFailed indicates the target's own command or check failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped indicates the target was not attempted because a
	// dependency failed or the build was halted.
	OutcomeSkipped Outcome = "skipped"
)

// Succeeded reports whether the outcome leaves a usable output behind.
func (o Outcome) Succeeded() bool {
	switch o {
	case OutcomeBuilt, OutcomeUpToDate, OutcomeSource:
		return true
	default:
		return false
	}
}

// Report summarizes one build invocation.
type Report struct {
	// SessionID identifies the build invocation.
	SessionID string
	// Root is the output of the requested target.
	Root string
	// Outcomes maps every output in the closure to its outcome.
	Outcomes map[string]Outcome
	// Executed lists the outputs whose commands ran, in completion order.
	Executed []string
	// DryRun is set when commands were reported instead of run.
	DryRun bool
	// Duration is the wall time of the build.
	Duration time.Duration
}

// NewReport creates an empty report for the given session.
func NewReport(sessionID, root string) *Report {
	return &Report{
		SessionID: sessionID,
		Root:      root,
		Outcomes:  make(map[string]Outcome),
	}
}

// Outcome returns the outcome recorded for output.
func (r *Report) Outcome(output string) (Outcome, bool) {
	o, ok := r.Outcomes[output]
	return o, ok
}

// Count returns how many targets ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, got := range r.Outcomes {
		if got == o {
			n++
		}
	}
	return n
}

// Success reports whether every target of the closure succeeded.
func (r *Report) Success() bool {
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			return false
		}
	}
	return true
}
