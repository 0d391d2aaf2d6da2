// Package ports defines the core interfaces for the application.
package ports

import "context"

// Executor defines the interface for running external tools.
//
// The registry and image adapters build on it so that tests can
// substitute tool invocations without spawning processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// LookPath reports the absolute path of an executable, searching PATH.
	LookPath(name string) (string, error)

	// Run executes name with args in dir and returns its stdout.
	// dir may be empty to inherit the working directory. On a non-zero
	// exit the error carries the captured stderr.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}
