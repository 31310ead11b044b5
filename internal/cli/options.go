// Package cli holds the wiring shared by the emflow commands: flags, config loading,
// logger construction and engine assembly.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/config"
	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "emflow.yaml"

// Options are the global command-line flags.
type Options struct {
	ConfigPath string
	Debug      bool
	DryRun     bool
	LogFormat  string
}

// ErrNoProject is returned by commands that need a project when none was given.
var ErrNoProject = errors.New("no project: pass a project file or --config")

// LoadConfig reads the config named by the flags. When no config file is given or found,
// defaults are used. A non-empty project overrides project.path before the file is
// validated, so a config may leave the project out.
func LoadConfig(opts Options, project string) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path == "" {
		return config.Default(project), nil
	}

	return config.Load(path, config.WithProject(project))
}

// RequireProject fails when cfg names no project file.
func RequireProject(cfg *config.Config) error {
	if cfg.Project.Path == "" {
		return ErrNoProject
	}
	return nil
}

// NewLogger creates the logger for a command. --debug wins over the configured level.
func NewLogger(w io.Writer, opts Options, cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	format := cfg.Format
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}
	return logging.NewWithFormat(w, level, format)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ExitMessage turns a command error into the line printed before exiting.
func ExitMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		return fmt.Sprintf("Project not found: %v", err)
	case errors.Is(err, config.ErrInvalid):
		return fmt.Sprintf("Invalid configuration: %v", err)
	case errors.Is(err, domain.ErrIncompatibleSweep), errors.Is(err, domain.ErrInvalidTopology):
		return fmt.Sprintf("Invalid plan: %v", err)
	case errors.Is(err, domain.ErrPrecondition):
		return fmt.Sprintf("Precondition failed: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
