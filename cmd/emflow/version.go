package main

import (
	"fmt"
	"strings"

	"github.com/hawkeye-rf/emflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of emflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("emflow version %s\n", strings.TrimSpace(emflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
