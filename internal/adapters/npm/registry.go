// Package npm fetches package archives through the npm command line.
package npm

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry implements ports.PackageRegistry on top of `npm pack`.
type Registry struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewRegistry creates a new Registry.
func NewRegistry(executor ports.Executor, logger ports.Logger) *Registry {
	return &Registry{executor: executor, logger: logger}
}

// Pack downloads spec into destDir and returns the tarball path.
//
// npm prints the produced archive name as the last line of stdout, after
// any notices. The name is joined with destDir since npm runs there.
func (r *Registry) Pack(ctx context.Context, destDir, spec string) (string, error) {
	r.logger.Info(fmt.Sprintf("grabbing package archive through `npm pack` for %s", spec))

	out, err := r.executor.Run(ctx, destDir, "npm", "pack", spec)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "package", spec)
	}

	name := lastLine(string(out))
	if name == "" {
		return "", zerr.With(domain.ErrPackFailed, "package", spec)
	}

	return filepath.Join(destDir, name), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
