package lock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/adapters/logger"
	"go.trai.ch/dynplug/internal/core/ports"
)

// NodeID is the unique identifier for the run lock Graft node.
const NodeID graft.ID = "adapter.run_lock"

func init() {
	graft.Register(graft.Node[ports.RunLock]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RunLock, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFileLock(log), nil
		},
	})
}
