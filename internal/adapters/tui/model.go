package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	stepListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// StepStatus represents the current state of an installation step.
type StepStatus string

const (
	// StatusPending indicates the step is waiting to start.
	StatusPending StepStatus = "Pending"
	// StatusRunning indicates the step is currently executing.
	StatusRunning StepStatus = "Running"
	// StatusDone indicates the step completed successfully.
	StatusDone StepStatus = "Done"
	// StatusError indicates the step failed.
	StatusError StepStatus = "Error"
)

// StepNode represents a single installation step in the UI list.
type StepNode struct {
	Name   string
	Status StepStatus
	Term   *Vterm
}

// tickMsg drives periodic redraws for elapsed-time display.
type tickMsg time.Time

// Model represents the main TUI state.
type Model struct {
	Steps          []*StepNode
	StepMap        map[string]*StepNode
	SpanMap        map[string]*StepNode
	AutoScroll     bool
	ActiveStepName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool
	TickInterval   time.Duration
	DisableTick    bool
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) Init() tea.Cmd {
	if m.DisableTick {
		return nil
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) getSelectedStep() *StepNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Steps) {
		return m.Steps[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	if node := m.getSelectedStep(); node != nil {
		m.ActiveStepName = node.Name

		// Jump the log view to the bottom when follow mode is on
		if m.FollowMode && m.AutoScroll {
			node.Term.Offset = node.Term.MaxOffset()
		}
	}
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop,gocritic // hugeParam ignored, cyclop ignored
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Steps)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "esc":
			m.FollowMode = true
			// Jump to the currently running step if any.
			for i, s := range m.Steps {
				if s.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.updateActiveView()

		default:
			// Forward keys to the active step's terminal if applicable
			if m.ActiveStepName != "" {
				if node, ok := m.StepMap[m.ActiveStepName]; ok {
					node.Term.Update(msg)
				}
			}
		}

	case tea.WindowSizeMsg:
		// Split screen: 30% for step list, 70% for logs
		listWidth := int(float64(msg.Width) * stepListWidthRatio)
		logWidth := msg.Width - listWidth - logPaneBorderWidth // minus margins/borders

		headerHeight := lipgloss.Height(titleStyle.Render("TEST"))
		logHeight := msg.Height - headerHeight

		// Store calculated dimensions for future steps
		m.LogWidth = logWidth
		m.LogHeight = logHeight

		// Calculate ListHeight with full header including newlines
		fullHeader := titleStyle.Render("PLUGINS") + "\n\n"
		listInfoHeight := lipgloss.Height(fullHeader)
		m.ListHeight = msg.Height - listInfoHeight
		m.ensureVisible()

		// Update all terminals
		for _, node := range m.Steps {
			node.Term.SetWidth(logWidth)
			node.Term.SetHeight(logHeight)
		}

	case tickMsg:
		if !m.DisableTick {
			cmd = m.tick()
		}

	case MsgInitSteps:
		m.Steps = make([]*StepNode, len(msg.Packages))
		m.StepMap = make(map[string]*StepNode, len(msg.Packages))
		m.SpanMap = make(map[string]*StepNode)
		for i, name := range msg.Packages {
			term := NewVterm()
			// If we know the dimensions, set them immediately
			if m.LogWidth > 0 && m.LogHeight > 0 {
				term.SetWidth(m.LogWidth)
				term.SetHeight(m.LogHeight)
			}

			m.Steps[i] = &StepNode{
				Name:   name,
				Status: StatusPending,
				Term:   term,
			}
			m.StepMap[name] = m.Steps[i]
		}

	case MsgStepStart:
		node, ok := m.StepMap[msg.Name]
		if !ok {
			// Steps outside the emitted plan (catalog extraction, cleanup)
			// are appended on first sight.
			node = &StepNode{
				Name:   msg.Name,
				Status: StatusPending,
				Term:   NewVterm(),
			}
			if m.LogWidth > 0 && m.LogHeight > 0 {
				node.Term.SetWidth(m.LogWidth)
				node.Term.SetHeight(m.LogHeight)
			}
			m.Steps = append(m.Steps, node)
			if m.StepMap == nil {
				m.StepMap = make(map[string]*StepNode)
			}
			if m.SpanMap == nil {
				m.SpanMap = make(map[string]*StepNode)
			}
			m.StepMap[msg.Name] = node
		}

		node.Status = StatusRunning
		m.SpanMap[msg.SpanID] = node

		// Focus follows activity ONLY if FollowMode is true
		if m.FollowMode {
			m.ActiveStepName = msg.Name
			for i, s := range m.Steps {
				if s.Name == msg.Name {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.updateActiveView()
		}

	case MsgStepLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgStepComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, cmd
}
