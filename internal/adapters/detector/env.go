// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeLinear reports every target as it starts and finishes.
	ModeLinear
	// ModeQuiet reports failures only.
	ModeQuiet
)

// String returns the flag value naming the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeQuiet:
		return "quiet"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode based on the environment.
// Terminals and CI logs get linear output; other pipes stay quiet.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if isTTY || isCI {
		return ModeLinear
	}
	return ModeQuiet
}

// ResolveMode applies user override flag to auto-detection.
// userFlag should be one of: "auto", "linear", "ci", "quiet", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "linear", "ci":
		return ModeLinear
	case "quiet":
		return ModeQuiet
	default:
		return autoDetected
	}
}
