package metrics_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hawkeye-rf/emflow/internal/metrics"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series counts the label sets gathered for one metric family.
func series(t *testing.T, m *metrics.Metrics, name string) int {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	return 0
}

func scrape(m *metrics.Metrics) string {
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestHooksRecordStages(t *testing.T) {
	m := metrics.New()
	h := m.Hooks()
	ctx := context.Background()

	h.OnStageEnter(ctx, &domain.StageEvent{Stage: domain.StageBootstrap, Status: domain.StageRunning})
	assert.Contains(t, scrape(m), "emflow_runs_active 1")

	h.OnStageLeave(ctx, &domain.StageEvent{Stage: domain.StageBootstrap, Status: domain.StageDone, Duration: time.Second})
	h.OnStageLeave(ctx, &domain.StageEvent{Stage: domain.StageSolve, Status: domain.StageFailed, Duration: 2 * time.Second})
	h.OnStageLeave(ctx, &domain.StageEvent{Stage: domain.StageTeardown, Status: domain.StageDone})

	assert.Equal(t, 3, series(t, m, "emflow_stage_total"))
	assert.Equal(t, 3, series(t, m, "emflow_stage_duration_seconds"))

	body := scrape(m)
	assert.Contains(t, body, `emflow_stage_total{stage="solve",status="failed"} 1`)
	assert.Contains(t, body, "emflow_runs_active 0")
}

func TestHooksRecordSolverCalls(t *testing.T) {
	m := metrics.New()
	h := m.Hooks()
	ctx := context.Background()

	h.OnSolverCall(ctx, &domain.CallEvent{Method: "design.analyze", Duration: time.Minute})
	h.OnSolverCall(ctx, &domain.CallEvent{Method: "design.analyze", Err: errors.New("boom")})
	h.OnSolverCall(ctx, &domain.CallEvent{Method: "design.setup_names"})

	assert.Equal(t, 3, series(t, m, "emflow_solver_calls_total"), "one series per method and result")
	assert.Contains(t, scrape(m), `emflow_solver_calls_total{method="design.analyze",result="error"} 1`)
}

func TestHandlerIncludesRuntimeCollectors(t *testing.T) {
	m := metrics.New()
	assert.Contains(t, scrape(m), "go_goroutines")
}
