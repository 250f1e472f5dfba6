package shell

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/adapters/logger"
	"go.trai.ch/nob/internal/core/ports"
)

// NodeID is the unique identifier for the executor Graft node.
const NodeID graft.ID = "adapter.executor"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			// JSON logs stay parseable only if compiler output goes through them.
			jsonLogs := strings.EqualFold(strings.TrimSpace(os.Getenv(logger.FormatEnv)), "json")
			return NewExecutor(log).WithLogStreaming(jsonLogs), nil
		},
	})
}
