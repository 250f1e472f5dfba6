// Package style provides shared UI styling primitives: brand colors and icons.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/nob/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// OutcomeIcon returns the icon shown next to a finished target.
func OutcomeIcon(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeBuilt:
		return Check
	case domain.OutcomeUpToDate, domain.OutcomeSource:
		return Tilde
	case domain.OutcomeSkipped:
		return Circle
	default:
		return Cross
	}
}
