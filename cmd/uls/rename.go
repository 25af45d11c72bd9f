package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"uls/internal/query"
)

var renameDryRun bool

var renameCmd = &cobra.Command{
	Use:   "rename <file:line:column> <newName>",
	Short: "Rename the symbol at a position across the workspace",
	Long: `Compute and apply the edits that rename the symbol at a source
position, touching its declaration and every recorded reference. Classes,
intrinsic symbols and operator names are rejected.

Examples:
  uls rename Src/MyMod/Classes/MyActor.uc:42:13 NewName
  uls rename Src/MyMod/Classes/MyActor.uc:42:13 NewName --dry-run`,
	Args: cobra.ExactArgs(2),
	Run:  runRename,
}

func init() {
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false,
		"Print the edits without applying them")
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) {
	uri, pos, err := parseLocation(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	newName := args[1]

	ws, _, logger := mustWorkspace()
	svc := query.New(ws)

	edits, err := svc.Rename(uri, pos, newName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files := make([]string, 0, len(edits))
	for f := range edits {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		for _, e := range edits[f] {
			fmt.Printf("%s:%d:%d -> %s\n", f, e.R.Start.Line+1, e.R.Start.Character+1, e.NewText)
		}
	}
	if renameDryRun {
		return
	}

	for _, f := range files {
		if err := applyEdits(f, edits[f]); err != nil {
			logger.Error("applying edits failed", map[string]interface{}{
				"file":  f,
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}
}

// applyEdits rewrites one file, applying edits back to front so earlier
// offsets stay valid.
func applyEdits(path string, edits []query.TextEdit) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := splitLines(string(data))

	ordered := make([]query.TextEdit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[j].R.Start.Before(ordered[i].R.Start)
	})

	for _, e := range ordered {
		if e.R.Start.Line != e.R.End.Line || e.R.Start.Line >= len(lines) {
			continue
		}
		line := lines[e.R.Start.Line]
		if e.R.End.Character > len(line) {
			continue
		}
		lines[e.R.Start.Line] = line[:e.R.Start.Character] + e.NewText + line[e.R.End.Character:]
	}

	return os.WriteFile(path, []byte(joinLines(lines)), 0644)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
