// Package app implements the application layer for nob.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/nob/internal/adapters/detector"
	"go.trai.ch/nob/internal/adapters/linear"
	"go.trai.ch/nob/internal/adapters/telemetry"
	"go.trai.ch/nob/internal/adapters/watcher"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/engine/rebuild"
	"go.trai.ch/nob/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	stater       ports.FileStater
	resolver     ports.InputResolver
	logger       ports.Logger
	bootstrapper *rebuild.Bootstrapper
	watchers     watcher.Factory
	output       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	stater ports.FileStater,
	resolver ports.InputResolver,
	log ports.Logger,
	bootstrapper *rebuild.Bootstrapper,
	watchers watcher.Factory,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		stater:       stater,
		resolver:     resolver,
		logger:       log,
		bootstrapper: bootstrapper,
		watchers:     watchers,
		output:       os.Stderr,
	}
}

// WithOutput sets where build progress is rendered.
func (a *App) WithOutput(w io.Writer) *App {
	a.output = w
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// ConfigPath is the companion configuration. Empty selects nob.config.yaml.
	ConfigPath string
	// Target is the output to build. Empty selects the project binary.
	Target string
	// Jobs overrides the configured parallelism when positive.
	Jobs int
	// KeepGoing and DryRun enable the corresponding behavior when set.
	KeepGoing bool
	DryRun    bool
	// OutputMode is one of auto, linear, ci or quiet.
	OutputMode string
	// Binary is the running executable. Empty selects os.Executable.
	Binary string
	// Args are the process arguments used to restart after a self-rebuild.
	Args []string
}

func (o BuildOptions) configPath() string {
	if o.ConfigPath == "" {
		return domain.DefaultConfigFile
	}
	return o.ConfigPath
}

// apply layers the command line flags over the loaded configuration.
func (o BuildOptions) apply(cfg domain.Config) domain.Config {
	if o.Jobs > 0 {
		cfg.Jobs = o.Jobs
	}
	cfg.KeepGoing = cfg.KeepGoing || o.KeepGoing
	cfg.DryRun = cfg.DryRun || o.DryRun
	return cfg
}

// Build rebuilds the program itself when stale, then builds the project.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	manifest, err := a.configLoader.Load(opts.configPath())
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	cfg := opts.apply(manifest.Build)

	// Self sources are patterns below the project root; the scheduler stats
	// the resolved paths so an edited build program invalidates outputs.
	selfSources, err := a.resolver.ResolveInputs(manifest.Build.SelfSources, manifest.Project.Root)
	if err != nil {
		return err
	}
	cfg.SelfSources = selfSources

	if !cfg.DryRun {
		if err := a.rebuildSelf(ctx, manifest, selfSources, opts); err != nil {
			return err
		}
	}

	plan, err := planProject(manifest.Project, cfg, a.resolver)
	if err != nil {
		return err
	}
	root, err := plan.find(opts.Target)
	if err != nil {
		return err
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(plan.buildDir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", plan.buildDir)
		}
	}

	report, err := a.BuildTarget(ctx, root, cfg, opts.OutputMode)
	if report != nil {
		a.logSummary(report)
	}
	return err
}

// BuildTarget runs the scheduler on root with progress rendered to the
// application output.
func (a *App) BuildTarget(
	ctx context.Context,
	root *domain.Target,
	cfg domain.Config,
	outputMode string,
) (*domain.Report, error) {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)
	renderer := linear.NewRenderer(a.output, mode == detector.ModeQuiet)

	// Every span started by the tracer reaches the renderer through the bridge.
	setupOTel(telemetry.NewBridge(renderer))
	tracer := telemetry.NewOTelTracer("nob").WithRenderer(renderer)

	sched := scheduler.NewScheduler(a.executor, a.stater, tracer, a.logger)

	var report *domain.Report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return renderer.Start(gctx)
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("scheduler panic: %v", r)
			}
			_ = renderer.Stop()
		}()

		report, err = sched.Run(ctx, root, cfg)
		return err
	})

	return report, g.Wait()
}

// rebuildSelf recompiles and restarts the running program when its sources
// are newer than the binary.
func (a *App) rebuildSelf(ctx context.Context, manifest *domain.Manifest, sources []string, opts BuildOptions) error {
	if len(sources) == 0 {
		return nil
	}

	binary := opts.Binary
	if binary == "" {
		var err error
		if binary, err = os.Executable(); err != nil {
			return zerr.Wrap(err, "failed to locate running executable")
		}
	}

	args := opts.Args
	if len(args) == 0 {
		args = os.Args
	}

	return a.bootstrapper.Run(ctx, rebuild.Options{
		Binary:   binary,
		Sources:  sources,
		Config:   manifest.Path,
		Args:     args,
		Compiler: manifest.Build.SelfCompiler,
	})
}

func (a *App) logSummary(report *domain.Report) {
	verb := "built"
	if report.DryRun {
		verb = "would build"
	}
	a.logger.Info(fmt.Sprintf("%s: %d %s, %d up to date, %d failed, %d skipped in %s",
		report.Root,
		report.Count(domain.OutcomeBuilt), verb,
		report.Count(domain.OutcomeUpToDate),
		report.Count(domain.OutcomeFailed),
		report.Count(domain.OutcomeSkipped),
		report.Duration.Round(time.Millisecond),
	))
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
}

// Clean removes the build directory.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	manifest, err := a.configLoader.Load(BuildOptions{ConfigPath: options.ConfigPath}.configPath())
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	path := filepath.Join(manifest.Project.Root, manifest.Project.BuildDir)
	a.logger.Info(fmt.Sprintf("removing %s...", path))
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "path", path)
	}
	a.logger.Info(fmt.Sprintf("removed %s", path))
	return nil
}

// Watch builds once, then rebuilds whenever a file below the project root
// changes, until ctx is canceled. Build failures are logged, not returned.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	manifest, err := a.configLoader.Load(opts.configPath())
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	buildDir := filepath.Clean(manifest.Project.BuildDir)

	w, err := a.watchers(buildDir)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(ctx, manifest.Project.Root); err != nil {
		return err
	}

	builds := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case builds <- paths:
		default:
			// A build is already queued and will see these changes too.
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range w.Events() {
			if !inside(event.Path, filepath.Join(manifest.Project.Root, buildDir)) {
				debouncer.Add(event.Path)
			}
		}
	}()

	a.watchBuild(ctx, opts)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-builds:
			a.logger.Info(fmt.Sprintf("changed: %s", strings.Join(paths, ", ")))
			a.watchBuild(ctx, opts)
		}
	}
}

func (a *App) watchBuild(ctx context.Context, opts BuildOptions) {
	if err := a.Build(ctx, opts); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
	if ctx.Err() == nil {
		a.logger.Info("watching for changes...")
	}
}

// inside reports whether path is dir or below it.
func inside(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

// ErrorIsBuildFailure reports whether err only says that targets failed. Those
// failures were already rendered and need no further report.
func ErrorIsBuildFailure(err error) bool {
	return errors.Is(err, domain.ErrBuildFailed) && !domain.IsFatal(err)
}
