package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"uls/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the symbol graph as a SCIP index",
	Long: `Index the workspace and write a SCIP index file that other code
intelligence tooling can consume.

Examples:
  uls export
  uls export --output=.uls/index.scip`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", ".uls/index.scip", "Output path for the SCIP index")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	ws, cfg, logger := mustWorkspace()

	out := exportOutput
	if !filepath.IsAbs(out) {
		out = filepath.Join(cfg.RepoRoot, out)
	}

	exporter := export.NewExporter(ws, logger, cfg.RepoRoot)
	if err := exporter.Export(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
