package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hawkeye-rf/emflow"
	"github.com/hawkeye-rf/emflow/internal/metrics"
	"github.com/hawkeye-rf/emflow/pkg/adapters/bridge"
	"github.com/hawkeye-rf/emflow/pkg/adapters/file"
	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/adapters/redis"
	"github.com/hawkeye-rf/emflow/pkg/config"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// dryRunDesign names the fake design used by --dry-run when the config names none.
const dryRunDesign = "HFSSDesign1"

// Stack is an engine together with the resources it owns.
type Stack struct {
	Engine  *emflow.Engine
	Metrics *metrics.Metrics

	// Desktop is the fake desktop in dry-run mode, nil otherwise.
	Desktop *memory.Desktop

	closers []func() error
}

// Close releases the store connections.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// NewStack assembles the engine described by cfg.
func NewStack(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*Stack, error) {
	st := &Stack{Metrics: metrics.New()}
	hooks := st.Metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(debugHooks(logger))
	}

	store, locker, err := st.newStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	var launcher ports.Launcher
	if opts.DryRun {
		name := cfg.Project.Design
		if name == "" {
			name = dryRunDesign
		}
		ml := memory.NewLauncher(map[string]*memory.Design{
			cfg.Project.Path: memory.NewDesign(memory.Fixture{Name: name}),
		})
		st.Desktop = ml.Desktop()
		launcher = ml
		logger.Info("dry run: using the in-memory solver", "project", cfg.Project.Path)
	} else {
		// The bridge endpoint is validated on first launch so that commands
		// reading only the run store work without one.
		launcher = bridge.NewLauncher(cfg.Bridge,
			bridge.WithLogger(logger),
			bridge.WithLifecycleHooks(hooks),
		)
	}

	engineOpts := []emflow.Option{
		emflow.WithLogger(logger),
		emflow.WithLifecycleHooks(hooks),
		emflow.WithStore(store),
		emflow.WithSessionOptions(cfg.Session),
		emflow.WithInspectOptions(cfg.InspectOptions()),
	}
	if locker != nil {
		engineOpts = append(engineOpts,
			emflow.WithLocker(locker),
			emflow.WithLockTTL(cfg.Store.Redis.LockTTL),
		)
	}
	st.Engine, err = emflow.New(launcher, engineOpts...)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return st, nil
}

func (st *Stack) newStore(ctx context.Context, cfg config.StoreConfig) (ports.RunStore, ports.DistributedLocker, error) {
	switch cfg.Kind {
	case config.StoreMemory:
		return memory.NewStore(), nil, nil
	case config.StoreRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		st.closers = append(st.closers, rs.Close)
		return rs, redis.NewLocker(rs.Client(), prefix), nil
	}
	return file.New(cfg.Path), nil, nil
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("Enter Stage", "run_id", e.RunID, "stage", e.Stage)
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("Leave Stage", "run_id", e.RunID, "stage", e.Stage, "status", e.Status, "duration", e.Duration)
		},
		OnSolverCall: func(ctx context.Context, e *domain.CallEvent) {
			if e.Err != nil {
				logger.Debug("Solver Call (Error)", "method", e.Method, "err", e.Err)
				return
			}
			logger.Debug("Solver Call", "method", e.Method, "duration", e.Duration)
		},
	}
}
