package graph

import (
	"fmt"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
)

// GenerateMermaid produces a Mermaid flowchart of the stages a plan will run.
// Shapes follow the stage role:
// - bootstrap/teardown: ((Circle))
// - solve: [[Subroutine]]
// - export/document: [/Parallelogram/] (files out)
// - default: [Rectangle]
// Stages the plan disables are drawn with a dotted edge and the "disabled" class.
// When rec is non-nil, each stage is styled by its recorded status.
func GenerateMermaid(plan workflow.Plan, rec *domain.RunRecord) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var prev string
	prevEnabled := true
	for _, name := range domain.PipelineOrder {
		id := sanitizeMermaidID(string(name))
		opener, closer := "[", "]"
		switch name {
		case domain.StageBootstrap, domain.StageTeardown:
			opener, closer = "((", "))"
		case domain.StageSolve:
			opener, closer = "[[", "]]"
		case domain.StageExport, domain.StageDocument:
			opener, closer = "[/", "/]"
		}

		label := string(name)
		if detail := stageDetail(plan, name); detail != "" {
			label = fmt.Sprintf("%s <br/> %s", name, strings.ReplaceAll(detail, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		enabled := plan.Enabled(name)
		if prev != "" {
			arrow := "-->"
			if !enabled || !prevEnabled {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", prev, arrow, id)
		}
		prev, prevEnabled = id, enabled
	}

	sb.WriteString("\n    classDef disabled fill:#f5f5f5,stroke:#9e9e9e,stroke-dasharray:4,color:#757575;\n")
	for _, name := range domain.PipelineOrder {
		if !plan.Enabled(name) {
			fmt.Fprintf(&sb, "    class %s disabled;\n", sanitizeMermaidID(string(name)))
		}
	}

	if rec != nil {
		sb.WriteString("\n    %% Run overlay\n")
		// Force black text (color:#000) for contrast on both themes.
		sb.WriteString("    classDef done fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, s := range rec.Stages {
			switch s.Status {
			case domain.StageDone, domain.StageFailed, domain.StageRunning:
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(string(s.Name)), s.Status)
			}
		}
	}
	return sb.String()
}

// stageDetail names what a stage acts on, for the node label.
func stageDetail(plan workflow.Plan, name domain.StageName) string {
	switch name {
	case domain.StageBootstrap:
		return plan.Project.Path
	case domain.StageTopology:
		if plan.Topology != nil {
			return fmt.Sprintf("%s around %s", plan.Topology.Kind(), plan.Anchor)
		}
	case domain.StageSetup:
		if plan.Setup != nil {
			return plan.Setup.Name
		}
	case domain.StageSweep:
		if plan.Sweep != nil {
			return fmt.Sprintf("%s %g-%g%s", plan.Sweep.Name, plan.Sweep.Start, plan.Sweep.Stop, plan.Sweep.Units)
		}
	case domain.StageExport:
		if n := len(plan.Reports); n > 0 {
			return fmt.Sprintf("%d report(s)", n)
		}
	case domain.StageDocument:
		if plan.Document != nil {
			return plan.Document.Path
		}
	}
	return ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
