package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvableDesign() *memory.Design {
	return memory.NewDesign(memory.Fixture{
		Name: "D",
		Setups: []memory.SetupFixture{{
			Name:   "Setup_24G",
			Sweeps: []memory.SweepFixture{{Name: "Sweep_22_26G"}},
		}},
		Boundaries: []domain.Boundary{{Name: "IncPWave1", Type: domain.BoundaryPlaneWave}},
	})
}

func TestExecute(t *testing.T) {
	d := solvableDesign()

	require.NoError(t, workflow.Execute(context.Background(), d, "Setup_24G", "Sweep_22_26G"))
	assert.Equal(t, []string{"Save", "Analyze"}, methods(d.MutatingCalls()))
	assert.Equal(t, []string{"Setup_24G"}, d.Analyzed())
}

func TestExecute_AdaptivePassNeedsNoSweep(t *testing.T) {
	d := solvableDesign()
	require.NoError(t, workflow.Execute(context.Background(), d, "Setup_24G", "LastAdaptive"))
	assert.Empty(t, d.CallsTo("SweepNames"))
}

func TestExecute_Preconditions(t *testing.T) {
	tests := []struct {
		name  string
		d     *memory.Design
		setup string
		sweep string
	}{
		{"missing setup", solvableDesign(), "Setup_10G", ""},
		{"missing sweep", solvableDesign(), "Setup_24G", "Sweep_X"},
		{"no excitation", memory.NewDesign(memory.Fixture{
			Name:       "D",
			Setups:     []memory.SetupFixture{{Name: "Setup_24G"}},
			Boundaries: []domain.Boundary{{Name: "Rad1", Type: domain.BoundaryRadiation}},
		}), "Setup_24G", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := workflow.Execute(context.Background(), tt.d, tt.setup, tt.sweep)
			assert.ErrorIs(t, err, domain.ErrPrecondition)
			assert.Empty(t, tt.d.MutatingCalls(), "nothing is saved or solved")
		})
	}
}

func TestExecute_SolverFailure(t *testing.T) {
	d := solvableDesign()
	boom := errors.New("mesh failed")
	d.FailOn("Analyze", boom)

	err := workflow.Execute(context.Background(), d, "Setup_24G", "")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, d.CallsTo("Analyze"), 1, "no retry")
}
