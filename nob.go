// Package nob lets a Go program describe its build as a graph of targets and
// bring the stale part of it up to date.
//
// A build program typically starts with
//
//	cfg := nob.MustLoadConfig()
//	nob.MustRebuildSelf(cfg)
//
// so that editing the program itself, or its companion configuration, takes
// effect on the next run. Targets are then declared bottom-up:
//
//	lib := nob.NewTarget("build/lib.o", nob.NewCmd("cc", "-c", "lib.c", "-o", "build/lib.o"), nob.Source("lib.c"))
//	app := nob.NewTarget("build/app", nob.NewCmd("cc", "build/lib.o", "-o", "build/app"), lib)
//	nob.MustBuild(app, cfg)
package nob

import (
	"context"
	"errors"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/grindlemire/graft"
	"go.trai.ch/nob/internal/app"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/engine/rebuild"
	_ "go.trai.ch/nob/internal/wiring"
)

type (
	// Command is the argument vector of one process invocation.
	Command = domain.Command
	// Target is an output path, the command producing it and its dependencies.
	Target = domain.Target
	// Config holds compilers, flags and scheduling options.
	Config = domain.Config
	// Report summarizes one build.
	Report = domain.Report
	// Outcome is the terminal state of a target in a build.
	Outcome = domain.Outcome
)

// Outcomes a target can end a build with.
const (
	OutcomeBuilt    = domain.OutcomeBuilt
	OutcomeUpToDate = domain.OutcomeUpToDate
	OutcomeSource   = domain.OutcomeSource
	OutcomeFailed   = domain.OutcomeFailed
	OutcomeSkipped  = domain.OutcomeSkipped
)

// ErrBuildFailed is returned by Build when at least one command failed.
var ErrBuildFailed = domain.ErrBuildFailed

var errCallerUnknown = errors.New("cannot locate the calling source file")

var (
	componentsOnce sync.Once
	components     *app.Components
	componentsErr  error

	exit = os.Exit
)

func load() (*app.Components, error) {
	componentsOnce.Do(func() {
		components, _, componentsErr = graft.ExecuteFor[*app.Components](context.Background())
	})
	return components, componentsErr
}

// NewCmd returns a command running args[0] with the remaining arguments.
func NewCmd(args ...string) *Command {
	return domain.NewCommand(args...)
}

// NewTarget returns a target built by cmd once deps are up to date.
func NewTarget(output string, cmd *Command, deps ...*Target) *Target {
	return domain.NewTarget(output, cmd, deps...)
}

// Source returns a leaf target for a file that must already exist.
func Source(path string) *Target {
	return domain.Source(path)
}

// DefaultConfig returns the configuration used without a companion file.
func DefaultConfig() Config {
	return domain.DefaultConfig()
}

// IsFatal reports whether err must stop the build program.
func IsFatal(err error) bool {
	return domain.IsFatal(err)
}

// LoadConfig reads the configuration at path. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	c, err := load()
	if err != nil {
		return Config{}, err
	}
	return c.App.LoadConfig(path)
}

// MustLoadConfig reads the companion configuration of the calling source
// file, e.g. build.config.yaml for build.go, and exits on error. The calling
// file is added to cfg.SelfSources, so outputs older than the build program
// are rebuilt.
func MustLoadConfig() Config {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		check(errCallerUnknown)
		return Config{}
	}
	cfg, err := LoadConfig(domain.CompanionConfigPath(file))
	check(err)
	if !slices.Contains(cfg.SelfSources, file) {
		cfg.SelfSources = append([]string{file}, cfg.SelfSources...)
	}
	return cfg
}

// Glob expands patterns relative to the working directory into a sorted list
// of existing files.
func Glob(patterns ...string) ([]string, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return c.App.Glob(".", patterns...)
}

// Build brings root up to date and reports the outcome of every target.
// Failed commands yield an error matching ErrBuildFailed; fatal conditions
// are reported by IsFatal.
func Build(ctx context.Context, root *Target, cfg Config) (*Report, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return c.App.BuildTarget(ctx, root, cfg, "")
}

// MustBuild is like Build but exits with status 1 when the build fails.
func MustBuild(root *Target, cfg Config) *Report {
	report, err := Build(context.Background(), root, cfg)
	if app.ErrorIsBuildFailure(err) {
		// Failed targets were already reported while building.
		exit(1)
		return report
	}
	check(err)
	return report
}

// RebuildSelf recompiles the running program from sources with
// cfg.SelfCompiler when any source, or the companion configuration of the
// first one, is newer than the binary. On success the process is replaced by
// the new binary with the same arguments and RebuildSelf does not return. A
// failed compilation keeps the current binary and returns nil.
func RebuildSelf(ctx context.Context, cfg Config, sources ...string) error {
	c, err := load()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	binary, err := os.Executable()
	if err != nil {
		return err
	}

	return c.App.RebuildSelf(ctx, rebuild.Options{
		Binary:   binary,
		Sources:  sources,
		Config:   domain.CompanionConfigPath(sources[0]),
		Args:     os.Args,
		Compiler: cfg.SelfCompiler,
	})
}

// MustRebuildSelf rebuilds the program from the calling source file and exits
// on fatal errors.
func MustRebuildSelf(cfg Config) {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	sources := []string{file}
	for _, src := range cfg.SelfSources {
		if src != file {
			sources = append(sources, src)
		}
	}
	check(RebuildSelf(context.Background(), cfg, sources...))
}

// check logs err and exits with status 1.
func check(err error) {
	if err == nil {
		return
	}
	if c, lerr := load(); lerr == nil {
		c.Logger.Error(err)
	} else {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	exit(1)
}
