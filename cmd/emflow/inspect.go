package main

import (
	"encoding/json"
	"os"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [project.aedt]",
	Short: "Summarize setups, sweeps, boundaries, variables and traces of a project",
	Long: `Opens the project read-only and lists what it contains. Nothing is created or edited.
Listings that fail are reported as empty with a warning.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := ""
		if len(args) > 0 {
			project = args[0]
		}
		design, _ := cmd.Flags().GetString("design")
		asJSON, _ := cmd.Flags().GetBool("json")

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
		ref := e.cfg.Project
		if design != "" {
			ref.Design = design
		}
		rep, err := e.stack.Engine.Inspect(ctx, ref)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		printMarkdown(tui.InspectionMarkdown(rep))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("design", "", "Design to inspect (default: the project's active design)")
	inspectCmd.Flags().Bool("json", false, "Print the report as JSON")
}
