// Package detector selects how installation progress is rendered.
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
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode for the current
// environment. Container and CI runs get the linear renderer; an
// interactive terminal gets the TUI.
func DetectEnvironment() OutputMode {
	if os.Getenv("TERM") == "dumb" {
		return ModeLinear
	}

	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModeLinear
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the user's output flag to the detected mode.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
