// Package metrics exposes pipeline and solver-call metrics for Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the emflow collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageOutcomes *prometheus.CounterVec
	solverCalls   *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	runsActive    prometheus.Gauge
}

// New creates and registers the collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emflow_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"stage"},
		),
		stageOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emflow_stage_total",
				Help: "Finished pipeline stages by outcome",
			},
			[]string{"stage", "status"},
		),
		solverCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emflow_solver_calls_total",
				Help: "Calls into the solver bridge",
			},
			[]string{"method", "result"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "emflow_solver_call_duration_seconds",
				Help: "Duration of calls into the solver bridge",
			},
			[]string{"method"},
		),
		runsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "emflow_runs_active",
			Help: "Pipeline runs currently executing",
		}),
	}
	m.registry.MustRegister(
		m.stageDuration, m.stageOutcomes, m.solverCalls, m.callDuration, m.runsActive,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
			if e.Stage == domain.StageBootstrap {
				m.runsActive.Inc()
			}
		},
		OnStageLeave: func(_ context.Context, e *domain.StageEvent) {
			m.stageDuration.WithLabelValues(string(e.Stage)).Observe(e.Duration.Seconds())
			m.stageOutcomes.WithLabelValues(string(e.Stage), string(e.Status)).Inc()
			// A run ends in teardown, or in bootstrap when the session never opened.
			if e.Stage == domain.StageTeardown || (e.Stage == domain.StageBootstrap && e.Status == domain.StageFailed) {
				m.runsActive.Dec()
			}
		},
		OnSolverCall: func(_ context.Context, e *domain.CallEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.solverCalls.WithLabelValues(e.Method, result).Inc()
			m.callDuration.WithLabelValues(e.Method).Observe(e.Duration.Seconds())
		},
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
