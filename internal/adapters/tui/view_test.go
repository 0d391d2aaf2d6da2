package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dynplug/internal/adapters/tui"
)

func TestView_Initialization(t *testing.T) {
	m := tui.Model{
		ListHeight: 0,
	}
	assert.Contains(t, m.View(), "Initializing...")
}

func TestView_StepList(t *testing.T) {
	steps := []*tui.StepNode{
		{Name: "plugin-search", Status: tui.StatusRunning, Term: tui.NewVterm()},
		{Name: "plugin-kubernetes", Status: tui.StatusDone, Term: tui.NewVterm()},
		{Name: "plugin-jenkins", Status: tui.StatusError, Term: tui.NewVterm()},
		{Name: "plugin-sonarqube", Status: tui.StatusPending, Term: tui.NewVterm()},
	}

	m := tui.Model{
		Steps:       steps,
		ListHeight:  20,
		SelectedIdx: 0,
		StepMap:     make(map[string]*tui.StepNode),
	}
	for i := range steps {
		m.StepMap[steps[i].Name] = steps[i]
	}

	output := m.View()

	// Check for step names
	assert.Contains(t, output, "plugin-search")
	assert.Contains(t, output, "plugin-kubernetes")
	assert.Contains(t, output, "plugin-jenkins")
	assert.Contains(t, output, "plugin-sonarqube")

	// Check for icons. Lipgloss may add escape codes, so distinct
	// characters are better targets than styled substrings.
	assert.Contains(t, output, "●") // Running
	assert.Contains(t, output, "✓") // Done
	assert.Contains(t, output, "✗") // Error
	assert.Contains(t, output, "○") // Pending

	// Check selection indicator
	assert.Contains(t, output, ">")

	// Check list title
	assert.Contains(t, output, "PLUGINS")
}

func TestView_StepListWindow(t *testing.T) {
	steps := []*tui.StepNode{
		{Name: "visible-one", Status: tui.StatusDone, Term: tui.NewVterm()},
		{Name: "visible-two", Status: tui.StatusDone, Term: tui.NewVterm()},
		{Name: "hidden-below", Status: tui.StatusPending, Term: tui.NewVterm()},
	}

	m := tui.Model{
		Steps:      steps,
		ListHeight: 2,
		ListOffset: 0,
		StepMap:    make(map[string]*tui.StepNode),
	}
	for i := range steps {
		m.StepMap[steps[i].Name] = steps[i]
	}

	output := m.View()

	assert.Contains(t, output, "visible-one")
	assert.Contains(t, output, "visible-two")
	assert.NotContains(t, output, "hidden-below")
}

func TestView_LogPane(t *testing.T) {
	step := &tui.StepNode{Name: "plugin-a", Term: tui.NewVterm(), Status: tui.StatusRunning}
	m := tui.Model{
		Steps:      []*tui.StepNode{step},
		ListHeight: 20,
		StepMap:    map[string]*tui.StepNode{"plugin-a": step},
	}

	// Case 1: No active step
	output := m.View()
	assert.Contains(t, output, "LOGS (Waiting...)")

	// Case 2: Active step in follow mode
	m.ActiveStepName = "plugin-a"
	m.FollowMode = true
	output = m.View()
	assert.Contains(t, output, "LOGS: plugin-a")
	assert.Contains(t, output, "(Following)")

	// Case 3: Active step in manual mode
	m.FollowMode = false
	output = m.View()
	assert.Contains(t, output, "LOGS: plugin-a")
	assert.Contains(t, output, "(Manual)")
}

func TestView_LogPaneContent(t *testing.T) {
	step := &tui.StepNode{Name: "plugin-a", Term: tui.NewVterm(), Status: tui.StatusRunning}
	step.Term.SetHeight(5)
	_, _ = step.Term.Write([]byte("extracting layer sha256:abc\n"))

	m := tui.Model{
		Steps:          []*tui.StepNode{step},
		ListHeight:     20,
		ActiveStepName: "plugin-a",
		StepMap:        map[string]*tui.StepNode{"plugin-a": step},
	}

	output := m.View()
	assert.Contains(t, output, "extracting layer sha256:abc")
}

func TestView_EmptyStepList(t *testing.T) {
	m := tui.Model{
		Steps:      []*tui.StepNode{},
		ListHeight: 10,
	}

	output := m.View()
	assert.Contains(t, output, "PLUGINS")
	assert.NotEmpty(t, output)
	assert.Contains(t, output, "\n")
}
