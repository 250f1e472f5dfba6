package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/adapters/logger"
	"go.trai.ch/nob/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the file watcher factory Graft node.
const FactoryNodeID graft.ID = "adapter.watcher"

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Factory creates a watcher ignoring the given directories. Watchers hold
// operating system resources, so they are only created by commands that watch.
type Factory func(skip ...string) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(skip ...string) (ports.Watcher, error) {
				w, err := NewWatcher(log, skip...)
				if err != nil {
					return nil, err
				}
				return w, nil
			}, nil
		},
	})
}
