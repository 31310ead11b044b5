package main

import (
	"fmt"
	"path/filepath"

	"github.com/hawkeye-rf/emflow/pkg/config"
	"github.com/hawkeye-rf/emflow/pkg/workflow"
	"github.com/spf13/cobra"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <run-id>",
	Short: "Assemble the PDF report of a stored run",
	Long: `Builds the PDF document from the images and data exported by a run. The layout is
the config's document section; without one, every exported image is placed in a
"Far Field Analysis" chapter.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		e, err := newEnv(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.stack.Engine.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load run %s: %w", args[0], err)
		}

		path := filepath.Join(e.cfg.Export.Dir, config.DefaultDocumentName)
		if out != "" {
			path = out
		}
		spec := workflow.DefaultDocument(path, rec.Artifacts)
		if e.cfg.Document != nil {
			spec = *e.cfg.Document
			if out != "" {
				spec.Path = out
			}
		}

		res, err := workflow.BuildDocument(spec, workflow.RunMeta(rec, e.cfg.Session.Version, spec), rec.Artifacts, e.logger)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Printf("Wrote %s\n", res.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringP("output", "o", "", "Output PDF (default <export.dir>/FarFieldReport.pdf)")
}
