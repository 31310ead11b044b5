package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hawkeye-rf/emflow/pkg/report"
	"github.com/spf13/cobra"
)

var plotCmd = &cobra.Command{
	Use:   "plot <export.csv>",
	Short: "Re-plot a solver CSV export locally",
	Long: `Reads a CSV trace export and draws every trace against the swept variable.
The image format follows the output extension (.png, .jpg, .svg, .pdf).
With --xlsx the table is also written as a spreadsheet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		title, _ := cmd.Flags().GetString("title")
		xlsx, _ := cmd.Flags().GetString("xlsx")

		src := args[0]
		base := strings.TrimSuffix(src, filepath.Ext(src))
		if out == "" {
			out = base + "_plot.png"
		}

		tbl, err := report.LoadCSV(src)
		if err != nil {
			return err
		}
		if err := report.Plot(tbl, out, report.PlotOptions{Title: title}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d points, %d traces)\n", out, len(tbl.Rows), len(tbl.Columns)-1)

		if xlsx != "" {
			sheet := filepath.Base(base)
			if err := report.WriteXLSX(tbl, xlsx, sheet); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", xlsx)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringP("output", "o", "", "Output image (default <export>_plot.png)")
	plotCmd.Flags().String("title", "", "Chart title (default: file name)")
	plotCmd.Flags().String("xlsx", "", "Also write the table to this .xlsx file")
}
