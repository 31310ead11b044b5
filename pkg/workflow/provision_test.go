package workflow_test

import (
	"context"
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup24G() domain.SetupSpec {
	return domain.SetupSpec{Name: "Setup_24G", Frequency: "24GHz", MaximumPasses: 10, DeltaS: 0.01}
}

func sweep22to26() domain.SweepSpec {
	return domain.SweepSpec{
		Name: "Sweep_22_26G", Setup: "Setup_24G", Units: "GHz",
		Start: 22, Stop: 26, Count: 51, Kind: domain.SweepDiscrete, SaveFields: true,
	}
}

func TestEnsureSetup_CreatesWhenAbsent(t *testing.T) {
	d := memory.NewDesign(memory.Fixture{Name: "D"})

	out, err := workflow.EnsureSetup(context.Background(), d, setup24G(), workflow.SetupOptions{})
	require.NoError(t, err)
	assert.True(t, out.Created)

	calls := d.CallsTo("CreateSetup")
	require.Len(t, calls, 1)
	assert.Equal(t, "Setup_24G", calls[0].Args[0])
	assert.Equal(t, domain.PropertyBag{"Frequency": "24GHz", "MaximumPasses": 10, "DeltaS": 0.01}, calls[0].Args[1])
}

func TestEnsureSetup_ReusesExisting(t *testing.T) {
	existing := func() *memory.Design {
		return memory.NewDesign(memory.Fixture{Name: "D", Setups: []memory.SetupFixture{{
			Name:  "Setup_24G",
			Props: domain.PropertyBag{"Frequency": "24GHz", "MaximumPasses": 10, "DeltaS": 0.02},
		}}})
	}

	t.Run("drift is reported, setup untouched", func(t *testing.T) {
		d := existing()
		out, err := workflow.EnsureSetup(context.Background(), d, setup24G(), workflow.SetupOptions{})
		require.NoError(t, err)
		assert.False(t, out.Created)
		assert.False(t, out.Updated)
		assert.Equal(t, []string{"DeltaS"}, out.Drift)
		assert.Empty(t, d.MutatingCalls())
	})

	t.Run("update existing pushes only drifted keys", func(t *testing.T) {
		d := existing()
		out, err := workflow.EnsureSetup(context.Background(), d, setup24G(), workflow.SetupOptions{UpdateExisting: true})
		require.NoError(t, err)
		assert.True(t, out.Updated)
		assert.Empty(t, d.CallsTo("CreateSetup"))
		calls := d.CallsTo("EditSetup")
		require.Len(t, calls, 1)
		assert.Equal(t, domain.PropertyBag{"DeltaS": 0.01}, calls[0].Args[1])
	})

	t.Run("matching setup is a no-op", func(t *testing.T) {
		d := existing()
		spec := setup24G()
		spec.DeltaS = 0.02
		out, err := workflow.EnsureSetup(context.Background(), d, spec, workflow.SetupOptions{UpdateExisting: true})
		require.NoError(t, err)
		assert.Empty(t, out.Drift)
		assert.Empty(t, d.MutatingCalls())
	})
}

func TestEnsureSweep_CreatesOnce(t *testing.T) {
	d := memory.NewDesign(memory.Fixture{Name: "D", Setups: []memory.SetupFixture{{Name: "Setup_24G"}}})
	spec := sweep22to26()
	req := domain.SweepRequirements{Portless: true}

	created, err := workflow.EnsureSweep(context.Background(), d, spec, req)
	require.NoError(t, err)
	assert.True(t, created)

	calls := d.CallsTo("CreateSweep")
	require.Len(t, calls, 1)
	got := calls[0].Args[0].(domain.SweepSpec)
	assert.Equal(t, "Setup_24G", got.Setup)
	assert.Equal(t, 22.0, got.Start)
	assert.Equal(t, 26.0, got.Stop)
	assert.Equal(t, 51, got.Count)
	assert.Equal(t, domain.SweepDiscrete, got.Kind)
	assert.True(t, got.SaveFields)

	created, err = workflow.EnsureSweep(context.Background(), d, spec, req)
	require.NoError(t, err)
	assert.False(t, created, "second call finds the sweep")
	assert.Len(t, d.CallsTo("CreateSweep"), 1)
}

func TestEnsureSweep_RejectsBeforeAnySolverCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SweepSpec)
		req    domain.SweepRequirements
	}{
		{"interpolating with plane wave", func(s *domain.SweepSpec) { s.Kind = domain.SweepInterpolating }, domain.SweepRequirements{Portless: true}},
		{"interpolating with far field", func(s *domain.SweepSpec) { s.Kind = domain.SweepInterpolating }, domain.SweepRequirements{FarField: true}},
		{"fields not saved", func(s *domain.SweepSpec) { s.SaveFields = false }, domain.SweepRequirements{Portless: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := memory.NewDesign(memory.Fixture{Name: "D", Setups: []memory.SetupFixture{{Name: "Setup_24G"}}})
			spec := sweep22to26()
			tt.mutate(&spec)

			_, err := workflow.EnsureSweep(context.Background(), d, spec, tt.req)
			assert.ErrorIs(t, err, domain.ErrIncompatibleSweep)
			assert.Empty(t, d.Calls())
		})
	}
}

func TestEnsureSweep_InterpolatingAllowedForPortedRuns(t *testing.T) {
	d := memory.NewDesign(memory.Fixture{Name: "D", Setups: []memory.SetupFixture{{Name: "Setup_24G"}}})
	spec := sweep22to26()
	spec.Kind = domain.SweepInterpolating
	spec.SaveFields = false

	created, err := workflow.EnsureSweep(context.Background(), d, spec, domain.SweepRequirements{})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEnsureSweep_MissingSetup(t *testing.T) {
	d := memory.NewDesign(memory.Fixture{Name: "D"})
	_, err := workflow.EnsureSweep(context.Background(), d, sweep22to26(), domain.SweepRequirements{})
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Empty(t, d.MutatingCalls())
}
