package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build progress output.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output and stops accepting events.
	Stop() error

	// OnPlanEmit is called when the scheduler has planned the build.
	// targets: outputs in execution order
	// deps: output -> direct dependency outputs
	// root: the requested output
	OnPlanEmit(targets []string, deps map[string][]string, root string)

	// OnTargetStart is called when a target is picked up by a worker.
	OnTargetStart(spanID, name string, startTime time.Time)

	// OnTargetComplete is called when a target reaches a terminal state.
	// outcome is empty when the worker did not report one.
	OnTargetComplete(spanID string, endTime time.Time, outcome string, err error)
}
