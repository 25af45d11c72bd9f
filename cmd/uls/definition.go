package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uls/internal/query"
	"uls/internal/symbols"
)

var definitionCmd = &cobra.Command{
	Use:   "definition <file:line:column>",
	Short: "Find the declaration of the symbol at a position",
	Long: `Resolve the symbol at a source position to its declaration site.

Examples:
  uls definition Src/MyMod/Classes/MyActor.uc:42:13`,
	Args: cobra.ExactArgs(1),
	Run:  runDefinition,
}

func init() {
	rootCmd.AddCommand(definitionCmd)
}

func runDefinition(cmd *cobra.Command, args []string) {
	uri, pos, err := parseLocation(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ws, _, _ := mustWorkspace()
	svc := query.New(ws)

	loc, sym, err := svc.Definition(uri, pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	switch {
	case loc != nil && sym != nil:
		fmt.Printf("%s  %s\n", printLocation(*loc), symbols.QualifiedName(ws.Names(), sym))
	case loc != nil:
		// Label target.
		fmt.Println(printLocation(*loc))
	case sym != nil:
		fmt.Printf("(intrinsic)  %s\n", symbols.QualifiedName(ws.Names(), sym))
	}
}
