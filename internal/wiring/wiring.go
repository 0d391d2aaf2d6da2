// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dynplug/internal/adapters/archive"
	_ "go.trai.ch/dynplug/internal/adapters/config"
	_ "go.trai.ch/dynplug/internal/adapters/fs"
	_ "go.trai.ch/dynplug/internal/adapters/lock"
	_ "go.trai.ch/dynplug/internal/adapters/logger"
	_ "go.trai.ch/dynplug/internal/adapters/npm"
	_ "go.trai.ch/dynplug/internal/adapters/oci"
	_ "go.trai.ch/dynplug/internal/adapters/shell"
	_ "go.trai.ch/dynplug/internal/adapters/state"
	_ "go.trai.ch/dynplug/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/dynplug/internal/app"
)
