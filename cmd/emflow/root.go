package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/internal/presentation/tui"
	"github.com/hawkeye-rf/emflow/pkg/config"
	"github.com/spf13/cobra"
)

var globalOpts cli.Options

var rootCmd = &cobra.Command{
	Use:   "emflow",
	Short: "emflow automates HFSS-class electromagnetic simulations",
	Long: `emflow inspects solver projects, provisions setups, sweeps and unit-cell geometry,
runs the solver and exports images, data and PDF reports.

Runs are described by a YAML config (see examples/far-field.yaml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ExitMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.ConfigPath, "config", "c", "", "Path to the emflow YAML config (default ./emflow.yaml when present)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Debug, "debug", false, "Enable debug logging and stage/solver call tracing")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.DryRun, "dry-run", false, "Drive the in-memory solver instead of the bridge")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogFormat, "log-format", "", "Log format: text or json (overrides log.format)")
}

// env is what most commands need: config, logger and an assembled engine.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stack  *cli.Stack
}

func (e *env) Close() {
	if err := e.stack.Close(); err != nil {
		e.logger.Warn("failed to close store", "err", err)
	}
}

func newEnv(ctx context.Context, project string) (*env, error) {
	cfg, err := cli.LoadConfig(globalOpts, project)
	if err != nil {
		return nil, err
	}
	logger := cli.NewLogger(os.Stderr, globalOpts, cfg.Log)
	stack, err := cli.NewStack(ctx, cfg, globalOpts, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, stack: stack}, nil
}

// printMarkdown renders md with glamour on a terminal and prints it raw otherwise.
func printMarkdown(md string) {
	if tui.IsTerminal(os.Stdout) {
		if render, err := tui.NewRenderer(os.Stdout); err == nil {
			if out, err := render(md); err == nil {
				fmt.Print(out)
				return
			}
		}
	}
	fmt.Print(md)
}
