package tui_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/hawkeye-rf/emflow/internal/presentation/tui"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestInspectionMarkdown(t *testing.T) {
	rep := &domain.InspectionReport{
		Project:      "cell.aedt",
		Design:       "HFSSDesign1",
		SolutionType: "Modal",
		Setups: []domain.SetupSummary{{
			Name:   "Setup1",
			Props:  domain.PropertyBag{"Frequency": "24GHz"},
			Sweeps: []domain.SweepSummary{{Name: "SweepA", Props: domain.PropertyBag{"RangeCount": 51}}},
		}},
		Boundaries: []domain.Boundary{{Name: "Port1", Type: domain.BoundaryFloquetPort}},
		Variables:  map[string]string{"py": "6mm", "px": "6mm"},
		Warnings:   []string{"trace listing: boom"},
	}

	md := tui.InspectionMarkdown(rep)
	assert.Contains(t, md, "# HFSSDesign1")
	assert.Contains(t, md, "### Setup1")
	assert.Contains(t, md, "| Frequency | 24GHz |")
	assert.Contains(t, md, "- sweep **SweepA**: RangeCount=51")
	assert.Contains(t, md, "| Port1 | Floquet Port |")
	assert.Contains(t, md, "| px | 6mm |\n| py | 6mm |")
	assert.Contains(t, md, "## Traces\n\n_none_")
	assert.Contains(t, md, "- trace listing: boom")
}

func TestRunMarkdown(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := domain.NewRunRecord("run-1", domain.ProjectRef{Path: "cell.aedt"}, start)
	rec.Status = domain.RunFailed
	s := rec.Stage(domain.StageSolve)
	s.Status, s.StartedAt, s.FinishedAt, s.Error = domain.StageFailed, start, start.Add(3*time.Second), "analyze: boom"
	rec.AddArtifact(domain.ArtifactCSV, "out/S11.csv", "S11")

	md := tui.RunMarkdown(rec)
	assert.Contains(t, md, "# Run run-1")
	assert.Contains(t, md, "| solve | failed | 3s | analyze: boom |")
	assert.Contains(t, md, "- csv `out/S11.csv`")
}

func TestStageLineAndBanner(t *testing.T) {
	line := tui.StageLine(domain.StageRecord{Name: domain.StageExport, Status: domain.StageFailed, Error: "disk full"})
	assert.Contains(t, line, "export")
	assert.Contains(t, line, "disk full")

	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
