package domain

import (
	"context"
	"time"
)

// StageEvent is emitted when a pipeline stage starts or ends.
type StageEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Stage     StageName     `json:"stage"`
	Status    StageStatus   `json:"status"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// CallEvent is emitted after every call into the solver API.
type CallEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for observability of runs and solver traffic.
type LifecycleHooks struct {
	OnStageEnter func(context.Context, *StageEvent)
	OnStageLeave func(context.Context, *StageEvent)
	OnSolverCall func(context.Context, *CallEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStageEnter: chainStage(h.OnStageEnter, other.OnStageEnter),
		OnStageLeave: chainStage(h.OnStageLeave, other.OnStageLeave),
		OnSolverCall: chainCall(h.OnSolverCall, other.OnSolverCall),
	}
}

func chainStage(a, b func(context.Context, *StageEvent)) func(context.Context, *StageEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StageEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainCall(a, b func(context.Context, *CallEvent)) func(context.Context, *CallEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CallEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
