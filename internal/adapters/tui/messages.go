package tui

import (
	"time"
)

// MsgInitSteps serves as a signal to initialize or reset the step list in the UI.
type MsgInitSteps struct {
	Packages []string
}

// MsgStepStart indicates a new installation step (span) has started.
type MsgStepStart struct {
	SpanID    string
	ParentID  string // May be empty if root
	Name      string
	StartTime time.Time
}

// MsgStepLog carries a chunk of log output for a specific step.
type MsgStepLog struct {
	SpanID string
	Data   []byte
}

// MsgStepComplete indicates an installation step (span) has finished.
type MsgStepComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
