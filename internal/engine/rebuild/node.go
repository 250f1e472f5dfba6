package rebuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nob/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nob/internal/adapters/process" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nob/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nob/internal/core/ports"
)

// NodeID is the unique identifier for the bootstrapper Graft node.
const NodeID graft.ID = "engine.rebuild"

func init() {
	graft.Register(graft.Node[*Bootstrapper]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.StaterNodeID,
			process.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Bootstrapper, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			stater, err := graft.Dep[ports.FileStater](ctx)
			if err != nil {
				return nil, err
			}

			replacer, err := graft.Dep[ports.ProcessReplacer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewBootstrapper(executor, stater, replacer, log), nil
		},
	})
}
