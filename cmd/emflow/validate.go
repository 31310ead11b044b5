package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config without touching the solver",
	Long: `Loads the config, applies defaults and checks it: field constraints, sweep bounds,
topology and sweep compatibility. Prints the stages the config enables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(globalOpts, "")
		if err != nil {
			return err
		}
		plan := cfg.Plan()
		if err := plan.Validate(); err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Project.Path); err != nil {
			fmt.Printf("warning: project %s is not reachable from here: %v\n", cfg.Project.Path, err)
		}

		var stages []string
		for _, s := range domain.PipelineOrder {
			if plan.Enabled(s) {
				stages = append(stages, string(s))
			}
		}
		fmt.Printf("Stages: %s\n", strings.Join(stages, " -> "))
		fmt.Println("Config is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
