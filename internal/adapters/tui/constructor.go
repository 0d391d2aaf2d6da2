// Package tui provides a terminal user interface for the plugins installer.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const defaultTickInterval = 100

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := NewOutput(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Steps:        make([]*StepNode, 0),
		StepMap:      make(map[string]*StepNode),
		SpanMap:      make(map[string]*StepNode),
		AutoScroll:   true,
		FollowMode:   true,
		TickInterval: defaultTickInterval * time.Millisecond,
	}
}

// WithDisableTick returns a copy of the model with periodic redraws disabled.
// Useful for deterministic tests.
//
//nolint:gocritic // hugeParam ignored
func (m Model) WithDisableTick() Model {
	m.DisableTick = true
	return m
}
