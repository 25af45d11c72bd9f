package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var indexFormat string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the workspace and report statistics",
	Long: `Index every script file reachable from the manifest's source
directories and print workspace statistics.

Examples:
  uls index
  uls index --root=/path/to/game --format=json`,
	Args: cobra.NoArgs,
	Run:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	ws, _, _ := mustWorkspace()

	stats := ws.Stats()
	if indexFormat == "json" {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Documents: %v\n", stats["documents"])
	fmt.Printf("Symbols:   %v\n", stats["symbols"])
	fmt.Printf("Packages:  %v\n", stats["packages"])
	fmt.Printf("Ref sets:  %v\n", stats["refTargets"])
}
