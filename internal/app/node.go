package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/nob/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/nob/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/nob/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/nob/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/engine/rebuild"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			fs.StaterNodeID,
			fs.ResolverNodeID,
			logger.NodeID,
			rebuild.NodeID,
			watcher.FactoryNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	stater, err := graft.Dep[ports.FileStater](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	bootstrapper, err := graft.Dep[*rebuild.Bootstrapper](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, stater, resolver, log, bootstrapper, watchers), nil
}
