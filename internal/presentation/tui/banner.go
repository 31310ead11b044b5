package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the emflow banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{"   ___ _ __ ___  / _| | _____      __", "#38bdf8"},
		{"  / _ \\ '_ ` _ \\| |_| |/ _ \\ \\ /\\ / /", "#22d3ee"},
		{" |  __/ | | | | |  _| | (_) \\ V  V / ", "#2dd4bf"},
		{"  \\___|_| |_| |_|_| |_|\\___/ \\_/\\_/  ", "#34d399"},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// StageLine formats one stage outcome with a status color.
func StageLine(s domain.StageRecord) string {
	p := termenv.ColorProfile()
	status := termenv.String(fmt.Sprintf("%-8s", s.Status))
	switch s.Status {
	case domain.StageDone:
		status = status.Foreground(p.Color("#22c55e"))
	case domain.StageFailed:
		status = status.Foreground(p.Color("#ef4444")).Bold()
	case domain.StageSkipped, domain.StagePending:
		status = status.Faint()
	}
	line := fmt.Sprintf("  %-10s %s", s.Name, status)
	if d := s.Duration(); d > 0 {
		line += fmt.Sprintf(" %s", d.Round(time.Millisecond))
	}
	if s.Error != "" {
		line += "  " + s.Error
	}
	return line
}
