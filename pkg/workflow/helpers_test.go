package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/adapters/memory"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/require"
)

// scenarioDesign is the inspection scenario: one setup with one sweep, a radiation
// boundary, a Floquet port and two lattice variables.
func scenarioDesign() *memory.Design {
	return memory.NewDesign(memory.Fixture{
		Name:         "HFSSDesign1",
		SolutionType: "Modal",
		Setups: []memory.SetupFixture{{
			Name: "Setup1",
			Props: domain.PropertyBag{
				"Frequency":     "24GHz",
				"MaximumPasses": 10,
				"Enabled":       true,
			},
			Sweeps: []memory.SweepFixture{{
				Name:  "SweepA",
				Props: domain.PropertyBag{"RangeStart": "22GHz", "RangeEnd": "26GHz", "Type": "Discrete", "Internal": 1},
			}},
		}},
		Boundaries: []domain.Boundary{
			{Name: "Rad1", Type: domain.BoundaryRadiation},
			{Name: "Port1", Type: domain.BoundaryFloquetPort},
		},
		Variables: map[string]string{"px": "6mm", "py": "6mm"},
		Traces:    []string{"dB(S(1,1))", "dB(S(2,1))", "GainTotal"},
	})
}

// cellDesign is an empty design with the variables needed by cellGeometry.
func cellDesign() *memory.Design {
	return memory.NewDesign(memory.Fixture{
		Name:      "UnitCell",
		Materials: []string{"vacuum", "pec", "copper"},
	})
}

func cellGeometry() domain.CellGeometry {
	return domain.CellGeometry{
		Variables: []domain.Variable{
			{Name: "px", Expression: "6mm"},
			{Name: "py", Expression: "6mm"},
			{Name: "h", Expression: "0.5mm"},
		},
		Materials: []domain.Material{{Name: "Rogers", Permittivity: 3.0, LossTangent: 0.0013}},
		Substrate: &domain.Box{
			Name:     "Substrate",
			Origin:   domain.Vec("-px/2", "-py/2", "0mm"),
			Sizes:    domain.Vec("px", "py", "h"),
			Material: "Rogers",
		},
		Ground: &domain.Rectangle{
			Name: "Ground", Plane: domain.PlaneXY,
			Origin: domain.Vec("-px/2", "-py/2", "0mm"), Sizes: [2]string{"px", "py"},
		},
		Patch: &domain.Rectangle{
			Name: "Patch", Plane: domain.PlaneXY,
			Origin: domain.Vec("-1mm", "-1mm", "h"), Sizes: [2]string{"2mm", "2mm"},
		},
		PatchThickness: "35um",
		PatchMaterial:  "copper",
	}
}

func projectFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cell.aedt")
	require.NoError(t, os.WriteFile(path, []byte("project"), 0644))
	return path
}

func methods(calls []memory.Call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Method)
	}
	return out
}
