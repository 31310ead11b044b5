package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
	"github.com/hawkeye-rf/emflow/pkg/session"
)

// Pipeline runs a Plan as ordered stages and persists a RunRecord after each one.
type Pipeline struct {
	sessions *session.Manager
	store    ports.RunStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers stage hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(p *Pipeline) {
		p.newID = gen
	}
}

// NewPipeline creates a pipeline that opens sessions through sessions and records runs in store.
func NewPipeline(sessions *session.Manager, store ports.RunStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		sessions: sessions,
		store:    store,
		logger:   logging.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type stage struct {
	name domain.StageName
	run  func(context.Context, *runState) error
}

// runState is the mutable state of one run.
type runState struct {
	plan    Plan
	rec     *domain.RunRecord
	session *session.Session
}

func (s *runState) design() ports.Design {
	return s.session.Design
}

// Run executes the plan. The returned record is also persisted; it is non-nil whenever
// the plan was valid, even if a stage failed.
func (p *Pipeline) Run(ctx context.Context, plan Plan) (*domain.RunRecord, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	rec := domain.NewRunRecord(p.newID(), plan.Project, p.now().UTC())
	if plan.Topology != nil {
		rec.Topology = plan.Topology.Kind()
	}
	p.save(ctx, rec)
	p.logger.Info("run started", "run_id", rec.ID, "project", plan.Project.Path)

	var runErr error
	lockErr := p.sessions.WithLock(ctx, session.Key(plan.Session), func(ctx context.Context) error {
		runErr = p.runStages(ctx, &runState{plan: plan, rec: rec})
		return nil
	})
	if lockErr != nil {
		runErr = lockErr
		for i := range rec.Stages {
			rec.Stages[i].Status = domain.StageSkipped
		}
	}

	rec.FinishedAt = p.now().UTC()
	rec.Status = domain.RunSucceeded
	if runErr != nil {
		rec.Status = domain.RunFailed
		rec.Error = runErr.Error()
	}
	p.save(context.WithoutCancel(ctx), rec)
	p.logger.Info("run finished", "run_id", rec.ID, "status", rec.Status, "warnings", len(rec.Warnings))
	return rec, runErr
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{domain.StageBootstrap, p.bootstrap},
		{domain.StageVariables, p.variables},
		{domain.StageGeometry, p.geometry},
		{domain.StageTopology, p.topology},
		{domain.StageSetup, p.setup},
		{domain.StageSweep, p.sweep},
		{domain.StageSolve, p.solve},
		{domain.StageExport, p.export},
		{domain.StageDocument, p.document},
		{domain.StageTeardown, p.teardown},
	}
}

func (p *Pipeline) runStages(ctx context.Context, st *runState) error {
	var errs []error
	failed := false
	for _, s := range p.stages() {
		sr := st.rec.Stage(s.name)
		switch {
		case s.name == domain.StageTeardown && st.session == nil,
			s.name != domain.StageTeardown && failed,
			!st.plan.Enabled(s.name):
			sr.Status = domain.StageSkipped
			continue
		}

		if err := p.runStage(ctx, st, s, sr); err != nil {
			failed = true
			errs = append(errs, fmt.Errorf("stage %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) runStage(ctx context.Context, st *runState, s stage, sr *domain.StageRecord) error {
	sr.Status = domain.StageRunning
	sr.StartedAt = p.now().UTC()
	p.save(ctx, st.rec)
	if p.hooks.OnStageEnter != nil {
		p.hooks.OnStageEnter(ctx, &domain.StageEvent{
			Timestamp: sr.StartedAt, RunID: st.rec.ID, Stage: s.name, Status: domain.StageRunning,
		})
	}
	p.logger.Debug("stage started", "run_id", st.rec.ID, "stage", s.name)

	// Teardown must run even when the run was cancelled.
	stageCtx := ctx
	if s.name == domain.StageTeardown {
		stageCtx = context.WithoutCancel(ctx)
	}
	err := s.run(stageCtx, st)

	sr.FinishedAt = p.now().UTC()
	sr.Status = domain.StageDone
	if err != nil {
		sr.Status = domain.StageFailed
		sr.Error = err.Error()
		p.logger.Error("stage failed", "run_id", st.rec.ID, "stage", s.name, "err", err)
	} else {
		p.logger.Info("stage done", "run_id", st.rec.ID, "stage", s.name, "duration", sr.Duration())
	}
	p.save(stageCtx, st.rec)
	if p.hooks.OnStageLeave != nil {
		p.hooks.OnStageLeave(ctx, &domain.StageEvent{
			Timestamp: sr.FinishedAt, RunID: st.rec.ID, Stage: s.name, Status: sr.Status,
			Duration: sr.Duration(), Err: err,
		})
	}
	return err
}

// save persists the record; store failures are logged, never fatal to the run.
func (p *Pipeline) save(ctx context.Context, rec *domain.RunRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(ctx, rec); err != nil {
		p.logger.Warn("failed to save run record", "run_id", rec.ID, "err", err)
	}
}

func (p *Pipeline) warn(st *runState, msg string) {
	st.rec.Warn(msg)
	p.logger.Warn(msg, "run_id", st.rec.ID)
}

func (p *Pipeline) bootstrap(ctx context.Context, st *runState) error {
	s, err := p.sessions.Open(ctx, st.plan.Session, st.plan.Project)
	if err != nil {
		return err
	}
	st.session = s
	st.rec.Design = s.Design.DesignName()
	return nil
}

func (p *Pipeline) variables(ctx context.Context, st *runState) error {
	return SetVariables(ctx, st.design(), st.plan.Geometry.Variables)
}

func (p *Pipeline) geometry(ctx context.Context, st *runState) error {
	out, err := BuildGeometry(ctx, st.design(), *st.plan.Geometry)
	if len(out.Skipped) > 0 {
		p.logger.Info("geometry already present", "skipped", out.Skipped)
	}
	return err
}

func (p *Pipeline) topology(ctx context.Context, st *runState) error {
	out, err := ApplyTopology(ctx, st.design(), st.plan.Topology, st.plan.Anchor)
	if err != nil {
		return err
	}
	p.logger.Info("topology applied", "kind", st.plan.Topology.Kind(), "created", out.Created, "skipped", out.Skipped)
	return nil
}

func (p *Pipeline) setup(ctx context.Context, st *runState) error {
	out, err := EnsureSetup(ctx, st.design(), *st.plan.Setup, SetupOptions{UpdateExisting: st.plan.UpdateExistingSetup})
	if err != nil {
		return err
	}
	switch {
	case out.Created:
		p.logger.Info("setup created", "setup", st.plan.Setup.Name)
	case out.Updated:
		p.logger.Info("setup updated", "setup", st.plan.Setup.Name, "keys", out.Drift)
	case len(out.Drift) > 0:
		p.warn(st, fmt.Sprintf("setup %s exists and differs from the requested properties (%s); reused as-is",
			st.plan.Setup.Name, strings.Join(out.Drift, ", ")))
	default:
		p.logger.Info("setup reused", "setup", st.plan.Setup.Name)
	}
	return nil
}

func (p *Pipeline) sweep(ctx context.Context, st *runState) error {
	created, err := EnsureSweep(ctx, st.design(), *st.plan.Sweep, st.plan.Requirements())
	if err != nil {
		return err
	}
	p.logger.Info("sweep ready", "solution", st.plan.Sweep.Solution(), "created", created)
	return nil
}

func (p *Pipeline) solve(ctx context.Context, st *runState) error {
	setup, sweep := st.plan.SolveTarget()
	return Execute(ctx, st.design(), setup, sweep)
}

func (p *Pipeline) export(ctx context.Context, st *runState) error {
	for _, r := range st.plan.Reports {
		if r.Solution == "" {
			continue
		}
		setup, sweep := ParseSolution(r.Solution)
		if err := checkSolution(ctx, st.design(), setup, sweep); err != nil {
			return fmt.Errorf("report %s: %w", r.Name, err)
		}
	}
	res, err := Export(ctx, st.design(), st.plan.Reports, st.plan.Export)
	if res != nil {
		st.rec.Artifacts = append(st.rec.Artifacts, res.Artifacts...)
		for _, w := range res.Warnings {
			p.warn(st, w)
		}
	}
	return err
}

func (p *Pipeline) document(ctx context.Context, st *runState) error {
	spec := *st.plan.Document
	res, err := BuildDocument(spec, RunMeta(st.rec, st.plan.Session.Version, spec), st.rec.Artifacts, p.logger)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		st.rec.Warn(w)
	}
	st.rec.AddArtifact(domain.ArtifactPDF, res.Path, "")
	return nil
}

func (p *Pipeline) teardown(ctx context.Context, st *runState) error {
	return p.sessions.Close(ctx, st.session)
}
