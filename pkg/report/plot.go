package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotOptions controls a re-plotted chart.
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// Plot draws every trace column of t against the first column and saves the chart.
// The image format follows the file extension (.png, .jpg, .svg, .pdf).
func Plot(t *Table, path string, opts PlotOptions) error {
	if len(t.Columns) < 2 {
		return fmt.Errorf("plot: need at least two columns, have %d", len(t.Columns))
	}
	if opts.Width == 0 {
		opts.Width = 6 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 4 * vg.Inch
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p.X.Label.Text = t.Columns[0]
	if len(t.Columns) == 2 {
		p.Y.Label.Text = t.Columns[1]
	}
	p.Add(plotter.NewGrid())

	x := t.Column(0)
	for c := 1; c < len(t.Columns); c++ {
		y := t.Column(c)
		pts := make(plotter.XYs, len(x))
		for i := range x {
			pts[i].X = x[i]
			pts[i].Y = y[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot column %q: %w", t.Columns[c], err)
		}
		line.Color = plotutil.Color(c - 1)
		p.Add(line)
		p.Legend.Add(t.Columns[c], line)
	}
	p.Legend.Top = true

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
