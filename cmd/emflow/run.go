package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [project.aedt]",
	Short: "Provision, solve and export as described by the config",
	Long: `Runs the pipeline described by the config: variables, geometry, topology, setup,
sweep, solve, report export and the PDF document. Sections absent from the config
are skipped. The run record is stored and can be listed with 'emflow runs'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := ""
		if len(args) > 0 {
			project = args[0]
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		e, err := newEnv(ctx, project)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := cli.RequireProject(e.cfg); err != nil {
			return err
		}
		if !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		rec, runErr := e.stack.Engine.Run(ctx, e.cfg.Plan())
		if rec == nil {
			return runErr
		}
		if !quiet {
			fmt.Printf(">>> Run %s (%s)\n", rec.ID, rec.Status)
			for _, s := range rec.Stages {
				fmt.Println(tui.StageLine(s))
			}
			for _, a := range rec.Artifacts {
				fmt.Printf("  %-6s %s\n", a.Kind, a.Path)
			}
			for _, w := range rec.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}

		if sig := ctx.Signal(); sig != nil && errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("run %s interrupted by %v", rec.ID, sig)
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner or the stage summary")
}
