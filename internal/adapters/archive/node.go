package archive

import (
	"context"
	"os"
	"strconv"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/adapters/logger"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
)

// NodeID is the unique identifier for the archive extractor Graft node.
const NodeID graft.ID = "adapter.archive_extractor"

func init() {
	graft.Register(graft.Node[ports.ArchiveExtractor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ArchiveExtractor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExtractor(log, maxEntrySize()), nil
		},
	})
}

// maxEntrySize reads the per-entry size ceiling from the environment.
func maxEntrySize() int64 {
	if v := os.Getenv("MAX_ENTRY_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return domain.DefaultMaxEntrySize
}
