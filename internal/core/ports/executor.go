// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/nob/internal/core/domain"
)

// Executor defines the interface for running commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run spawns the command, inheriting the environment and standard streams,
	// and blocks until it exits.
	//
	// It returns domain.ErrEmptyCommand for an empty command, domain.ErrCommandFailed
	// for a non-zero exit or a spawn failure and domain.ErrCommandSignaled when the
	// process was terminated by a signal.
	Run(ctx context.Context, cmd *domain.Command) error
}
