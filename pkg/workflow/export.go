package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
	"github.com/hawkeye-rf/emflow/pkg/report"
)

// ExportOptions selects where and how reports are exported.
type ExportOptions struct {
	Dir string
	// XLSX converts every exported CSV into a workbook next to it.
	XLSX bool
	// Replot redraws every exported CSV locally as PNG.
	Replot bool
}

// ExportResult collects produced files and non-fatal problems.
type ExportResult struct {
	Artifacts []domain.Artifact
	Warnings  []string
}

func (r *ExportResult) add(kind domain.ArtifactKind, path, rep string) {
	r.Artifacts = append(r.Artifacts, domain.Artifact{Kind: kind, Path: path, Report: rep})
}

func (r *ExportResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Export creates each report and exports it. Exports are best effort: a report that
// fails to create or export becomes a warning and the rest continue. Only a failure
// to prepare the output directory is returned as an error.
func Export(ctx context.Context, d ports.PostProcessor, reports []domain.ReportSpec, opts ExportOptions) (*ExportResult, error) {
	res := &ExportResult{}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("prepare export dir: %w", err)
	}

	for _, spec := range reports {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name, err := d.CreateReport(ctx, spec)
		if err != nil {
			res.warn("report %s: %v", spec.Name, err)
			continue
		}
		if spec.Image {
			if path, err := d.ExportImage(ctx, name, opts.Dir); err != nil {
				res.warn("image export of %s: %v", name, err)
			} else {
				res.Artifacts = append(res.Artifacts, domain.Artifact{
					Kind: domain.ArtifactImage, Path: path, Report: name, Caption: spec.Caption,
				})
			}
		}
		if spec.Data {
			path, err := d.ExportData(ctx, name, opts.Dir, ".csv")
			if err != nil {
				res.warn("data export of %s: %v", name, err)
				continue
			}
			res.add(domain.ArtifactCSV, path, name)
			convertTable(res, path, name, opts)
		}
	}
	return res, nil
}

func convertTable(res *ExportResult, csvPath, name string, opts ExportOptions) {
	if !opts.XLSX && !opts.Replot {
		return
	}
	tbl, err := report.LoadCSV(csvPath)
	if err != nil {
		res.warn("read %s: %v", csvPath, err)
		return
	}
	base := strings.TrimSuffix(csvPath, filepath.Ext(csvPath))
	if opts.XLSX {
		path := base + ".xlsx"
		if err := report.WriteXLSX(tbl, path, sheetName(name)); err != nil {
			res.warn("xlsx for %s: %v", name, err)
		} else {
			res.add(domain.ArtifactXLSX, path, name)
		}
	}
	if opts.Replot {
		path := base + "_plot.png"
		if err := report.Plot(tbl, path, report.PlotOptions{Title: name}); err != nil {
			res.warn("plot for %s: %v", name, err)
		} else {
			res.add(domain.ArtifactImage, path, name)
		}
	}
}

// sheetName trims a report name to Excel's 31 character sheet limit and drops
// characters Excel rejects.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
