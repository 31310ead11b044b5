package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hawkeye-rf/emflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse stored run records",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer e.Close()

		runs, err := e.stack.Engine.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		var b strings.Builder
		b.WriteString("| Run | Started | Design | Status | Warnings |\n|---|---|---|---|---|\n")
		for _, r := range runs {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime), r.Design, r.Status, len(r.Warnings))
		}
		printMarkdown(b.String())
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the stages, artifacts and warnings of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := newEnv(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.stack.Engine.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load run %s: %w", args[0], err)
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		printMarkdown(tui.RunMarkdown(rec))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	runsShowCmd.Flags().Bool("json", false, "Print the record as JSON")
}
