package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/core/ports"
)

// NodeID is the unique identifier for the package inspector Graft node.
const NodeID graft.ID = "adapter.package_inspector"

func init() {
	graft.Register(graft.Node[ports.PackageInspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackageInspector, error) {
			return NewInspector(), nil
		},
	})
}
