// Package rebuild recompiles the running build program when its sources
// changed and restarts it.
package rebuild

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// Options describes the running build program.
type Options struct {
	// Binary is the path of the running executable.
	Binary string
	// Sources are the program's source files.
	Sources []string
	// Config is the optional companion configuration file.
	Config string
	// Package is handed to the self compiler. It defaults to the first source.
	Package string
	// Args are the original arguments, args[0] included.
	Args []string
	// Compiler is the self compiler argv, e.g. "go build".
	Compiler []string
}

// Bootstrapper checks the build program's freshness before any graph exists.
type Bootstrapper struct {
	executor ports.Executor
	stater   ports.FileStater
	replacer ports.ProcessReplacer
	logger   ports.Logger
}

// NewBootstrapper creates a new Bootstrapper.
func NewBootstrapper(
	executor ports.Executor,
	stater ports.FileStater,
	replacer ports.ProcessReplacer,
	logger ports.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		executor: executor,
		stater:   stater,
		replacer: replacer,
		logger:   logger,
	}
}

// NeedsRebuild reports whether any source or the configuration is strictly
// newer than the binary. A missing binary cannot be replaced and is never stale.
func (b *Bootstrapper) NeedsRebuild(opts Options) (bool, error) {
	if len(opts.Sources) == 0 {
		return false, nil
	}

	binTime, err := b.stater.ModTime(opts.Binary)
	if err != nil {
		return false, err
	}
	if binTime.IsZero() {
		return false, nil
	}

	inputs := opts.Sources
	if opts.Config != "" {
		inputs = append(inputs[:len(inputs):len(inputs)], opts.Config)
	}
	newest, err := staleness.NewestModTime(b.stater, inputs)
	if err != nil {
		return false, err
	}
	return newest.After(binTime), nil
}

// Run rebuilds and restarts the program when it is stale.
//
// It returns nil when the binary is up to date or when the rebuild failed and
// the previous binary was restored. On success it does not return unless the
// process could not be replaced.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) error {
	stale, err := b.NeedsRebuild(opts)
	if err != nil || !stale {
		return err
	}

	backup := domain.BackupPath(opts.Binary)
	if err := os.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrBackupFailed, err.Error()), "backup", backup)
	}
	if err := os.Rename(opts.Binary, backup); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrBackupFailed, err.Error()), "binary", opts.Binary)
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = opts.Sources[0]
	}
	cmd := domain.NewCommand(opts.Compiler...)
	cmd.Append("-o", opts.Binary, pkg)

	if err := b.executor.Run(ctx, cmd); err != nil {
		return b.restore(opts.Binary, backup, err)
	}

	if err := os.Remove(backup); err != nil {
		b.logger.Warn(fmt.Sprintf("could not remove %s: %v", backup, err))
	}

	b.logger.Info(fmt.Sprintf("Restarting %s...", opts.Binary))
	return b.replacer.Replace(opts.Binary, opts.Args)
}

// restore moves the backup back after a failed rebuild.
func (b *Bootstrapper) restore(binary, backup string, cause error) error {
	// A partially written binary must not survive.
	_ = os.Remove(binary)

	if err := os.Rename(backup, binary); err != nil {
		return errors.Join(
			zerr.With(zerr.Wrap(domain.ErrRestoreFailed, err.Error()), "backup", backup),
			cause,
		)
	}

	b.logger.Warn(zerr.Wrap(cause, domain.ErrRebuildFailed.Error()).Error() +
		"; continuing with the previous build")
	return nil
}
