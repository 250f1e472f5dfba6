// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/nob/internal/adapters/config"
	_ "go.trai.ch/nob/internal/adapters/fs"
	_ "go.trai.ch/nob/internal/adapters/logger"
	_ "go.trai.ch/nob/internal/adapters/process"
	_ "go.trai.ch/nob/internal/adapters/shell"
	_ "go.trai.ch/nob/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/nob/internal/app"
	_ "go.trai.ch/nob/internal/engine/rebuild"
)
