package main

import (
	"fmt"

	"github.com/hawkeye-rf/emflow/internal/presentation/graph"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the pipeline as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the stages the config enables. With --run, the
diagram is colored by the outcome of a stored run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")

		e, err := newEnv(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer e.Close()

		var rec *domain.RunRecord
		if runID != "" {
			rec, err = e.stack.Engine.GetRun(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("load run %s: %w", runID, err)
			}
		}
		fmt.Print(graph.GenerateMermaid(e.cfg.Plan(), rec))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("run", "", "Overlay the outcome of this run")
}
