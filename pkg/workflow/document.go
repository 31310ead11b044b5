package workflow

import (
	"cmp"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/report"
)

// maxTableRows bounds how much of a CSV export is printed into the PDF.
const maxTableRows = 40

// DocumentResult is the outcome of document assembly.
type DocumentResult struct {
	Path     string
	Warnings []string
}

// BuildDocument assembles the PDF described by spec from the run's artifacts.
// Missing images and unreadable tables are warnings; only rendering errors fail.
func BuildDocument(spec domain.DocumentSpec, meta report.Meta, artifacts []domain.Artifact, logger *slog.Logger) (*DocumentResult, error) {
	if meta.Title == "" {
		meta.Title = spec.Title
	}
	if meta.Template == "" {
		meta.Template = spec.Template
	}
	if meta.Author == "" {
		meta.Author = spec.Author
	}
	doc := report.NewDocument(meta, report.WithDocLogger(logger))
	var warnings []string

	lookup := func(kind domain.ArtifactKind, rep string) (domain.Artifact, bool) {
		for _, a := range artifacts {
			if a.Kind == kind && a.Report == rep {
				return a, true
			}
		}
		return domain.Artifact{}, false
	}

	for _, ch := range spec.Chapters {
		doc.AddChapter(ch.Title)
		if ch.Text != "" {
			doc.AddText(ch.Text)
		}
		for _, sec := range ch.Sections {
			doc.AddSubChapter(sec.Title)
			if sec.Text != "" {
				doc.AddText(sec.Text)
			}
			for _, img := range sec.Images {
				path, caption := img.Path, img.Caption
				if path == "" {
					a, ok := lookup(domain.ArtifactImage, img.Report)
					if !ok {
						warnings = append(warnings, fmt.Sprintf("no exported image for report %s", img.Report))
						logger.Warn("pdf image not exported", "report", img.Report)
						continue
					}
					path = a.Path
					if caption == "" {
						caption = a.Caption
					}
				}
				doc.AddImage(path, img.Width, caption)
			}
			for _, rep := range sec.Tables {
				a, ok := lookup(domain.ArtifactCSV, rep)
				if !ok {
					warnings = append(warnings, fmt.Sprintf("no exported data for report %s", rep))
					continue
				}
				tbl, err := report.LoadCSV(a.Path)
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("table %s: %v", rep, err))
					continue
				}
				rows := tbl.Strings()
				if len(rows) > maxTableRows {
					rows = rows[:maxTableRows]
				}
				doc.AddTable(tbl.Columns, rows)
			}
		}
	}
	if spec.TOC {
		doc.AddTableOfContents()
	}

	if err := doc.Save(spec.Path); err != nil {
		return nil, err
	}
	return &DocumentResult{Path: spec.Path, Warnings: append(warnings, doc.Warnings()...)}, nil
}

// DefaultDocument lays out a far-field report: one chapter with the exported image of
// every report in the run, 400 px wide, and a table of contents. Images are captioned
// with the report caption, or the report name when it has none.
func DefaultDocument(path string, artifacts []domain.Artifact) domain.DocumentSpec {
	sec := domain.SectionSpec{Title: "Radiation Pattern"}
	seen := make(map[string]bool)
	for _, a := range artifacts {
		if a.Kind != domain.ArtifactImage || a.Report == "" || seen[a.Report] {
			continue
		}
		seen[a.Report] = true
		sec.Images = append(sec.Images, domain.ImageSpec{
			Report:  a.Report,
			Width:   400,
			Caption: cmp.Or(a.Caption, a.Report),
		})
	}
	return domain.DocumentSpec{
		Path:     path,
		Title:    "Far Field Report",
		TOC:      true,
		Chapters: []domain.ChapterSpec{{Title: "Far Field Analysis", Sections: []domain.SectionSpec{sec}}},
	}
}

// RunMeta is the title-page metadata of a document built for rec.
func RunMeta(rec *domain.RunRecord, version string, spec domain.DocumentSpec) report.Meta {
	return report.Meta{
		Title:   spec.Title,
		Project: strings.TrimSuffix(filepath.Base(rec.Project), filepath.Ext(rec.Project)),
		Design:  rec.Design,
		Version: version,
	}
}
