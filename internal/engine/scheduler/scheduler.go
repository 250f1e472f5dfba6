// Package scheduler builds a target closure on a bounded pool of workers.
package scheduler

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// Scheduler manages the execution of targets in a dependency graph.
type Scheduler struct {
	executor ports.Executor
	stater   ports.FileStater
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	stater ports.FileStater,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		stater:   stater,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run builds root and everything it depends on.
//
// Configuration errors (nil root, cycles, duplicate outputs) are returned
// before any command runs, with a nil report. Otherwise the report is always
// returned; a failed build additionally yields an error wrapping
// domain.ErrBuildFailed and every cause.
func (s *Scheduler) Run(ctx context.Context, root *domain.Target, cfg domain.Config) (*domain.Report, error) {
	start := time.Now()

	graph, err := domain.NewGraphFrom(root)
	if err != nil {
		return nil, err
	}

	state := s.newRunState(ctx, graph, cfg)
	state.emitPlan()
	state.runExecutionLoop()

	for t := range graph.Walk() {
		if _, ok := state.report.Outcomes[t.Output()]; !ok {
			state.report.Outcomes[t.Output()] = domain.OutcomeSkipped
		}
	}
	state.report.Duration = time.Since(start)

	if ctx.Err() != nil {
		state.errs = errors.Join(state.errs, ctx.Err())
	}
	if state.errs != nil {
		return state.report, errors.Join(domain.ErrBuildFailed, state.errs)
	}
	return state.report, nil
}

type result struct {
	target   domain.InternedString
	outcome  domain.Outcome
	executed bool
	err      error
}

type schedulerRunState struct {
	s           *Scheduler
	ctx         context.Context
	cfg         domain.Config
	graph       *domain.Graph
	session     *session
	oracle      *staleness.Oracle
	report      *domain.Report
	inDegree    map[domain.InternedString]int
	ready       []domain.InternedString
	active      int
	halted      bool
	resultsCh   chan result
	errs        error
	parallelism int
}

func (s *Scheduler) newRunState(ctx context.Context, graph *domain.Graph, cfg domain.Config) *schedulerRunState {
	parallelism := cfg.Parallelism()
	inDegree := make(map[domain.InternedString]int, graph.TargetCount())

	var ready []domain.InternedString
	for t := range graph.Walk() {
		// A dependency listed twice is still waited on once.
		distinct := make(map[domain.InternedString]struct{}, t.DepCount())
		for dep := range t.Deps() {
			distinct[dep.Key()] = struct{}{}
		}
		degree := len(distinct)
		inDegree[t.Key()] = degree
		if degree == 0 {
			ready = append(ready, t.Key())
		}
	}

	report := domain.NewReport(uuid.NewString(), graph.Root().String())
	report.DryRun = cfg.DryRun

	return &schedulerRunState{
		s:           s,
		ctx:         ctx,
		cfg:         cfg,
		graph:       graph,
		session:     newSession(graph),
		oracle:      staleness.New(s.stater, cfg.SelfSources),
		report:      report,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		parallelism: parallelism,
	}
}

// emitPlan announces the closure in execution order before anything starts.
func (state *schedulerRunState) emitPlan() {
	planned := make([]string, 0, state.graph.TargetCount())
	depMap := make(map[string][]string, state.graph.TargetCount())

	for t := range state.graph.Walk() {
		planned = append(planned, t.Output())
		deps := make([]string, 0, t.DepCount())
		for dep := range t.Deps() {
			if !slices.Contains(deps, dep.Output()) {
				deps = append(deps, dep.Output())
			}
		}
		depMap[t.Output()] = deps
	}

	state.s.tracer.EmitPlan(state.ctx, planned, depMap, state.graph.Root().String())
}

func (state *schedulerRunState) runExecutionLoop() {
	done := state.ctx.Done()
	for {
		state.schedule()

		if state.active == 0 {
			return
		}

		select {
		case res := <-state.resultsCh:
			state.active--
			state.handleResult(res)
		case <-done:
			// Stop scheduling; in-flight work drains through resultsCh.
			done = nil
		}
	}
}

func (state *schedulerRunState) canSchedule() bool {
	return !state.halted && state.ctx.Err() == nil
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.canSchedule() {
		name := state.ready[0]
		state.ready = state.ready[1:]

		if !state.session.claim(name) {
			continue
		}

		t, _ := state.graph.GetTarget(name)

		// Source leaves only need a stat; they never occupy a worker.
		if t.IsSource() {
			state.handleResult(state.checkSource(t))
			continue
		}

		state.active++
		go state.executeTarget(t)
	}
}

func (state *schedulerRunState) checkSource(t *domain.Target) result {
	if _, err := state.oracle.Check(t); err != nil {
		return result{target: t.Key(), outcome: domain.OutcomeFailed, err: err}
	}
	return result{target: t.Key(), outcome: domain.OutcomeSource}
}

func (state *schedulerRunState) executeTarget(t *domain.Target) {
	// The span ends before the result is sent so that observers see it
	// before the build returns.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, t.Output(), ports.WithAttribute(ports.AttrOutput, t.Output()))
		defer span.End()

		res := state.buildTarget(ctx, span, t)
		if res.err != nil {
			span.RecordError(res.err)
		}
		span.SetAttribute(ports.AttrOutcome, string(res.outcome))
		return res
	}()

	state.resultsCh <- res
}

func (state *schedulerRunState) buildTarget(ctx context.Context, span ports.Span, t *domain.Target) result {
	decision, err := state.oracle.Check(t)
	if err != nil {
		return result{target: t.Key(), outcome: domain.OutcomeFailed, err: err}
	}
	if state.cfg.DryRun && !decision.Rebuild {
		decision = state.plannedDependency(t, decision)
	}
	span.SetAttribute(ports.AttrReason, decision.Reason)

	if !decision.Rebuild {
		return result{target: t.Key(), outcome: domain.OutcomeUpToDate}
	}

	if state.cfg.DryRun {
		state.s.logger.Info("[DRY] " + t.Command().String())
		state.session.plan(t.Key())
		return result{target: t.Key(), outcome: domain.OutcomeBuilt, executed: true}
	}

	if err := state.s.executor.Run(ctx, t.Command()); err != nil {
		return result{target: t.Key(), outcome: domain.OutcomeFailed, executed: true, err: err}
	}
	return result{target: t.Key(), outcome: domain.OutcomeBuilt, executed: true}
}

// plannedDependency turns an up-to-date decision into a rebuild when a dry
// run would have built one of t's dependencies.
func (state *schedulerRunState) plannedDependency(t *domain.Target, decision staleness.Decision) staleness.Decision {
	for dep := range t.Deps() {
		if state.session.isPlanned(dep.Key()) {
			return staleness.Decision{Rebuild: true, Reason: staleness.ReasonNewerDependency + dep.Output()}
		}
	}
	return decision
}

func (state *schedulerRunState) handleResult(res result) {
	state.report.Outcomes[res.target.String()] = res.outcome
	if res.executed {
		state.report.Executed = append(state.report.Executed, res.target.String())
	}

	if res.err != nil {
		state.handleFailure(res)
		return
	}

	state.session.finish(res.target, stateBuilt)
	for _, dep := range state.graph.Dependents(res.target) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

func (state *schedulerRunState) handleFailure(res result) {
	enhancedErr := zerr.With(zerr.Wrap(res.err, domain.ErrTargetFailed.Error()), "target", res.target.String())
	state.errs = errors.Join(state.errs, enhancedErr)
	state.session.finish(res.target, stateFailed)

	if domain.IsFatal(res.err) || !state.cfg.KeepGoing {
		state.halted = true
	}

	// Transitive dependents can never run.
	queue := state.graph.Dependents(res.target)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if !state.session.skip(name) {
			continue
		}
		state.report.Outcomes[name.String()] = domain.OutcomeSkipped
		queue = append(queue, state.graph.Dependents(name)...)
	}
}
