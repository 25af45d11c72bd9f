package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uls/internal/query"
)

var refsIncludeDecl bool

var refsCmd = &cobra.Command{
	Use:   "refs <file:line:column>",
	Short: "Find all references to the symbol at a position",
	Long: `List every recorded use of the symbol at a source position across
all indexed documents.

Examples:
  uls refs Src/MyMod/Classes/MyActor.uc:42:13
  uls refs Src/MyMod/Classes/MyActor.uc:42:13 --include-declaration`,
	Args: cobra.ExactArgs(1),
	Run:  runRefs,
}

func init() {
	refsCmd.Flags().BoolVar(&refsIncludeDecl, "include-declaration", false,
		"Include the declaration site in the output")
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) {
	uri, pos, err := parseLocation(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ws, _, _ := mustWorkspace()
	svc := query.New(ws)

	locs, err := svc.References(uri, pos, refsIncludeDecl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, loc := range locs {
		fmt.Println(printLocation(loc))
	}
}
