package app

import (
	"context"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/engine/rebuild"
)

// LoadConfig reads the build section of the configuration at path.
func (a *App) LoadConfig(path string) (domain.Config, error) {
	manifest, err := a.configLoader.Load(path)
	if err != nil {
		return domain.Config{}, err
	}
	return manifest.Build, nil
}

// Glob expands patterns relative to root.
func (a *App) Glob(root string, patterns ...string) ([]string, error) {
	return a.resolver.ResolveInputs(patterns, root)
}

// RebuildSelf recompiles and restarts an embedding build program when stale.
func (a *App) RebuildSelf(ctx context.Context, opts rebuild.Options) error {
	return a.bootstrapper.Run(ctx, opts)
}
