package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uls/internal/query"
)

var completeLimit int

var completeCmd = &cobra.Command{
	Use:   "complete <file:line:column>",
	Short: "List completion candidates at a position",
	Long: `List the symbols visible at a source position, nearest scope
first. Nearer declarations shadow farther ones of the same name.`,
	Args: cobra.ExactArgs(1),
	Run:  runComplete,
}

func init() {
	completeCmd.Flags().IntVar(&completeLimit, "limit", 50, "Maximum number of candidates")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) {
	uri, pos, err := parseLocation(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ws, _, _ := mustWorkspace()
	svc := query.New(ws)

	items, err := svc.Completions(uri, pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for i, item := range items {
		if completeLimit > 0 && i >= completeLimit {
			break
		}
		fmt.Printf("%-10s %s\n", item.Kind, item.Label)
	}
}
