package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hawkeye-rf/emflow/internal/presentation/graph"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	setup := domain.SetupSpec{Name: "Setup_24G"}
	sweep := domain.SweepSpec{Name: "Sweep_22_26G", Setup: "Setup_24G", Start: 22, Stop: 26, Units: "GHz"}

	tests := []struct {
		name     string
		plan     workflow.Plan
		contains []string
		excludes []string
	}{
		{
			name: "Stage Shapes",
			plan: workflow.Plan{Project: domain.ProjectRef{Path: "cell.aedt"}, Solve: true, Setup: &setup},
			contains: []string{
				`bootstrap(("bootstrap <br/> cell.aedt"))`,
				`teardown(("teardown"))`,
				`solve[["solve"]]`,
				`export[/"export"/]`,
				`setup["setup <br/> Setup_24G"]`,
			},
		},
		{
			name: "Sweep Label",
			plan: workflow.Plan{Project: domain.ProjectRef{Path: "p"}, Setup: &setup, Sweep: &sweep},
			contains: []string{
				`sweep["sweep <br/> Sweep_22_26G 22-26GHz"]`,
				"setup --> sweep",
			},
		},
		{
			name: "Disabled Stages",
			plan: workflow.Plan{Project: domain.ProjectRef{Path: "p"}},
			contains: []string{
				"bootstrap -.-> variables",
				"class geometry disabled;",
				"class document disabled;",
			},
			excludes: []string{
				"class bootstrap disabled;",
				"class teardown disabled;",
			},
		},
		{
			name: "Topology Label",
			plan: workflow.Plan{Project: domain.ProjectRef{Path: "p"}, Topology: domain.Periodic{}, Anchor: "Substrate"},
			contains: []string{
				`topology["topology <br/> periodic around Substrate"]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.plan, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
			assert.NotContains(t, got, "Run overlay")
		})
	}
}

func TestGenerateMermaid_RunOverlay(t *testing.T) {
	rec := domain.NewRunRecord("r1", domain.ProjectRef{Path: "p"}, time.Time{})
	rec.Stage(domain.StageBootstrap).Status = domain.StageDone
	rec.Stage(domain.StageSolve).Status = domain.StageFailed
	rec.Stage(domain.StageExport).Status = domain.StageSkipped

	got := graph.GenerateMermaid(workflow.Plan{Project: domain.ProjectRef{Path: "p"}, Solve: true}, rec)
	assert.Contains(t, got, "class bootstrap done;")
	assert.Contains(t, got, "class solve failed;")
	assert.NotContains(t, got, "class export skipped;")
}
