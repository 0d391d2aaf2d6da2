package oci

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/adapters/logger"
	"go.trai.ch/dynplug/internal/adapters/shell"
	"go.trai.ch/dynplug/internal/core/ports"
)

// NodeID is the unique identifier for the image client Graft node.
const NodeID graft.ID = "adapter.image_client"

func init() {
	graft.Register(graft.Node[ports.ImageClient]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ImageClient, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(executor, log), nil
		},
	})
}
