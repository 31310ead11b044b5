package emflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
	"github.com/hawkeye-rf/emflow/pkg/session"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
)

// Engine is the high-level entry point for the emflow library.
// It owns the desktop session manager, the run store and the provisioning pipeline.
type Engine struct {
	launcher ports.Launcher
	store    ports.RunStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	session     domain.SessionOptions
	inspectOpts workflow.InspectOptions

	sessions *session.Manager
	pipeline *workflow.Pipeline
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets where run records are persisted (default: in memory).
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes desktop access across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL sets the expiry of the distributed desktop lock. The lock is renewed
// while held, so this only bounds how long a crashed process blocks others.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithSessionOptions sets the desktop options used by Inspect.
func WithSessionOptions(opts domain.SessionOptions) Option {
	return func(e *Engine) {
		e.session = opts
	}
}

// WithInspectOptions tunes Inspect.
func WithInspectOptions(opts workflow.InspectOptions) Option {
	return func(e *Engine) {
		e.inspectOpts = opts
	}
}

// New initializes an Engine that drives the desktop started by launcher.
func New(launcher ports.Launcher, opts ...Option) (*Engine, error) {
	if launcher == nil {
		return nil, errors.New("emflow: launcher is required")
	}
	eng := &Engine{launcher: launcher}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	smOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		smOpts = append(smOpts, session.WithLocker(eng.locker))
	}
	if eng.lockTTL > 0 {
		smOpts = append(smOpts, session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(launcher, smOpts...)
	eng.pipeline = workflow.NewPipeline(eng.sessions, eng.store,
		workflow.WithLogger(eng.logger),
		workflow.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// Inspect opens the project read-only and summarizes its design.
// The session is always released; the desktop exits only with CloseOnExit.
func (e *Engine) Inspect(ctx context.Context, ref domain.ProjectRef) (*domain.InspectionReport, error) {
	var rep *domain.InspectionReport
	err := e.sessions.WithSession(ctx, e.session, ref, func(ctx context.Context, s *session.Session) error {
		var err error
		rep, err = workflow.Inspect(ctx, s.Design, ref.Path, e.inspectOpts)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, w := range rep.Warnings {
		e.logger.Warn("inspection degraded", "project", ref.Path, "warning", w)
	}
	return rep, nil
}

// Run executes a provisioning plan and returns its record.
func (e *Engine) Run(ctx context.Context, plan workflow.Plan) (*domain.RunRecord, error) {
	return e.pipeline.Run(ctx, plan)
}

// GetRun loads one run record.
func (e *Engine) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	return e.store.Load(ctx, id)
}

// Runs loads every stored run, newest first.
func (e *Engine) Runs(ctx context.Context) ([]*domain.RunRecord, error) {
	ids, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]*domain.RunRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := e.store.Load(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			// Expired between List and Load.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load run %s: %w", id, err)
		}
		runs = append(runs, rec)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// Store returns the run store.
func (e *Engine) Store() ports.RunStore {
	return e.store
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
