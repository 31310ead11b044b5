package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// InspectionMarkdown renders an inspection report as markdown.
func InspectionMarkdown(rep *domain.InspectionReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", rep.Design)
	fmt.Fprintf(&sb, "Project `%s`", rep.Project)
	if rep.SolutionType != "" {
		fmt.Fprintf(&sb, ", solution type **%s**", rep.SolutionType)
	}
	sb.WriteString("\n\n## Setups\n\n")
	if len(rep.Setups) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, s := range rep.Setups {
		fmt.Fprintf(&sb, "### %s\n\n", s.Name)
		writeProps(&sb, s.Props)
		for _, sw := range s.Sweeps {
			fmt.Fprintf(&sb, "- sweep **%s**", sw.Name)
			if len(sw.Props) > 0 {
				fmt.Fprintf(&sb, ": %s", inline(sw.Props))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Boundaries\n\n")
	if len(rep.Boundaries) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Name | Type |\n|---|---|\n")
		for _, b := range rep.Boundaries {
			fmt.Fprintf(&sb, "| %s | %s |\n", b.Name, b.Type)
		}
	}

	sb.WriteString("\n## Variables\n\n")
	if len(rep.Variables) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Name | Value |\n|---|---|\n")
		names := make([]string, 0, len(rep.Variables))
		for k := range rep.Variables {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, rep.Variables[k])
		}
	}

	sb.WriteString("\n## Traces\n\n")
	if len(rep.Traces) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, t := range rep.Traces {
		fmt.Fprintf(&sb, "- `%s`\n", t)
	}

	if len(rep.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

// RunMarkdown renders a run record as markdown.
func RunMarkdown(rec *domain.RunRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", rec.ID)
	fmt.Fprintf(&sb, "**%s** · `%s`", rec.Status, rec.Project)
	if rec.Design != "" {
		fmt.Fprintf(&sb, " · %s", rec.Design)
	}
	if rec.Topology != "" {
		fmt.Fprintf(&sb, " · %s", rec.Topology)
	}
	sb.WriteString("\n\n| Stage | Status | Duration | Error |\n|---|---|---|---|\n")
	for _, s := range rec.Stages {
		dur := ""
		if d := s.Duration(); d > 0 {
			dur = d.Round(time.Millisecond).String()
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", s.Name, s.Status, dur, s.Error)
	}
	if len(rec.Artifacts) > 0 {
		sb.WriteString("\n## Artifacts\n\n")
		for _, a := range rec.Artifacts {
			fmt.Fprintf(&sb, "- %s `%s`\n", a.Kind, a.Path)
		}
	}
	if len(rec.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range rec.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

func writeProps(sb *strings.Builder, props domain.PropertyBag) {
	if len(props) == 0 {
		return
	}
	sb.WriteString("| Property | Value |\n|---|---|\n")
	for _, k := range props.Keys() {
		fmt.Fprintf(sb, "| %s | %v |\n", k, props[k])
	}
	sb.WriteString("\n")
}

func inline(props domain.PropertyBag) string {
	parts := make([]string, 0, len(props))
	for _, k := range props.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, ", ")
}
