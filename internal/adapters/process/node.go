package process

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/core/ports"
)

// NodeID is the unique identifier for the process replacer Graft node.
const NodeID graft.ID = "adapter.process"

func init() {
	graft.Register(graft.Node[ports.ProcessReplacer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProcessReplacer, error) {
			return NewReplacer(), nil
		},
	})
}
