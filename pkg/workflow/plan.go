package workflow

import (
	"fmt"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Plan is everything one pipeline run should do. Nil or empty parts disable their stage.
type Plan struct {
	Session domain.SessionOptions
	Project domain.ProjectRef

	Geometry *domain.CellGeometry
	Topology domain.Topology
	// Anchor is the object the air region is built around.
	Anchor string

	Setup               *domain.SetupSpec
	UpdateExistingSetup bool
	Sweep               *domain.SweepSpec
	Solve               bool

	Reports []domain.ReportSpec
	Export  ExportOptions

	Document *domain.DocumentSpec
}

// Requirements derives what the sweep must support from the topology and reports.
func (p Plan) Requirements() domain.SweepRequirements {
	req := domain.SweepRequirements{}
	if p.Topology != nil {
		req.Portless = p.Topology.Portless()
	}
	for _, r := range p.Reports {
		if r.Type.IsFarField() {
			req.FarField = true
		}
	}
	return req
}

// Validate checks the plan as a whole before any solver call is made.
func (p Plan) Validate() error {
	if p.Project.Path == "" {
		return fmt.Errorf("plan: project path is required")
	}
	if p.Topology != nil {
		if _, err := domain.Resolve(p.Topology); err != nil {
			return err
		}
	}
	if p.Topology != nil && p.Anchor == "" {
		return fmt.Errorf("%w: topology needs an anchor object", domain.ErrInvalidTopology)
	}
	if p.Sweep != nil {
		if p.Sweep.Setup == "" {
			return fmt.Errorf("plan: sweep %s has no setup", p.Sweep.Name)
		}
		if err := domain.ValidateSweep(*p.Sweep, p.Requirements()); err != nil {
			return err
		}
	}
	if p.Solve && p.Setup == nil {
		return fmt.Errorf("plan: solve requires a setup")
	}
	return nil
}

// Enabled reports whether the plan asks for the stage. Bootstrap and teardown always run.
func (p Plan) Enabled(stage domain.StageName) bool {
	switch stage {
	case domain.StageVariables:
		return p.Geometry != nil && len(p.Geometry.Variables) > 0
	case domain.StageGeometry:
		return p.Geometry != nil && !p.Geometry.Empty()
	case domain.StageTopology:
		return p.Topology != nil
	case domain.StageSetup:
		return p.Setup != nil
	case domain.StageSweep:
		return p.Sweep != nil
	case domain.StageSolve:
		return p.Solve
	case domain.StageExport:
		return len(p.Reports) > 0
	case domain.StageDocument:
		return p.Document != nil
	}
	return true
}

// SolveTarget returns the setup and sweep the solve stage runs.
func (p Plan) SolveTarget() (setup, sweep string) {
	if p.Setup != nil {
		setup = p.Setup.Name
	}
	if p.Sweep != nil && p.Sweep.Setup == setup {
		sweep = p.Sweep.Name
	}
	return setup, sweep
}

// ParseSolution splits a "<setup> : <sweep>" identifier.
func ParseSolution(s string) (setup, sweep string) {
	setup, sweep, _ = strings.Cut(s, ":")
	return strings.TrimSpace(setup), strings.TrimSpace(sweep)
}
