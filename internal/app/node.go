package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dynplug/internal/adapters/archive"
	"go.trai.ch/dynplug/internal/adapters/config"
	"go.trai.ch/dynplug/internal/adapters/fs"
	"go.trai.ch/dynplug/internal/adapters/lock"
	"go.trai.ch/dynplug/internal/adapters/logger"
	"go.trai.ch/dynplug/internal/adapters/npm"
	"go.trai.ch/dynplug/internal/adapters/oci"
	"go.trai.ch/dynplug/internal/adapters/state"
	"go.trai.ch/dynplug/internal/adapters/watcher"
	"go.trai.ch/dynplug/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			npm.NodeID,
			oci.NodeID,
			archive.NodeID,
			fs.NodeID,
			state.NodeID,
			lock.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[ports.PackageRegistry](ctx)
	if err != nil {
		return nil, err
	}

	images, err := graft.Dep[ports.ImageClient](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
	if err != nil {
		return nil, err
	}

	inspector, err := graft.Dep[ports.PackageInspector](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	runLock, err := graft.Dep[ports.RunLock](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, registry, images, extractor, inspector, store, runLock, fileWatcher, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
