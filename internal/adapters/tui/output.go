package tui

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/dynplug/internal/ui/output"
)

// ColorProfile returns the color profile to use for the TUI.
// It checks if NO_COLOR is set, returning Ascii if so.
// Otherwise, it returns TrueColor, forcing full color support.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.TrueColor
}

// NewOutput creates a new termenv.Output with the TUI profile logic.
func NewOutput(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return output.NewWithProfile(w, ColorProfile, opts...)
}
