package npm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/adapters/logger"
	"go.trai.ch/dynplug/internal/adapters/shell"
	"go.trai.ch/dynplug/internal/core/ports"
)

// NodeID is the unique identifier for the package registry Graft node.
const NodeID graft.ID = "adapter.package_registry"

func init() {
	graft.Register(graft.Node[ports.PackageRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageRegistry, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(executor, log), nil
		},
	})
}
