package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// stubRenderer is a simple test double for ports.Renderer.
type stubRenderer struct {
	mu            sync.Mutex
	planCalls     int
	planPackages  []string
	startCalls    int
	logCalls      int
	completeCalls int
	logs          [][]byte
}

func (m *stubRenderer) Start(_ context.Context) error { return nil }
func (m *stubRenderer) Stop() error                   { return nil }
func (m *stubRenderer) Wait() error                   { return nil }

func (m *stubRenderer) OnPlanEmit(packages []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planCalls++
	m.planPackages = packages
}

func (m *stubRenderer) OnStepStart(_, _, _ string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
}

func (m *stubRenderer) OnStepLog(_ string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls++
	m.logs = append(m.logs, data)
}

func (m *stubRenderer) OnStepComplete(_ string, _ time.Time, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
}

func (m *stubRenderer) snapshotLogs() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, chunk := range m.logs {
		out = append(out, chunk...)
	}
	return out
}

func (m *stubRenderer) planCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planCalls
}
