package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uls/internal/query"
)

var hoverCmd = &cobra.Command{
	Use:   "hover <file:line:column>",
	Short: "Show the tooltip for the symbol at a position",
	Args:  cobra.ExactArgs(1),
	Run:   runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
}

func runHover(cmd *cobra.Command, args []string) {
	uri, pos, err := parseLocation(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ws, _, _ := mustWorkspace()
	svc := query.New(ws)

	info, err := svc.Hover(uri, pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(info.Contents)
}
