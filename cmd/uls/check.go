package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"uls/internal/query"
	"uls/internal/workspace"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Report diagnostics for documents",
	Long: `Index the workspace and report parse and analysis diagnostics.
Without arguments every indexed document is checked.

Examples:
  uls check
  uls check Src/MyMod/Classes/MyActor.uc
  uls check --format=yaml`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (yaml, human)")
	rootCmd.AddCommand(checkCmd)
}

type checkFinding struct {
	File     string `yaml:"file"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

func runCheck(cmd *cobra.Command, args []string) {
	forceAnalyzeAll = true
	ws, _, _ := mustWorkspace()
	svc := query.New(ws)

	var docs []*workspace.Document
	if len(args) == 0 {
		docs = ws.Documents()
	} else {
		for _, arg := range args {
			doc, err := ws.Document(mustAbs(arg))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	var findings []checkFinding
	for _, doc := range docs {
		diags, err := svc.Diagnostics(doc.URI)
		if err != nil {
			continue
		}
		for _, d := range diags {
			findings = append(findings, checkFinding{
				File:     doc.URI,
				Line:     d.R.Start.Line + 1,
				Column:   d.R.Start.Character + 1,
				Severity: d.Severity.String(),
				Message:  d.Message,
			})
		}
	}

	if checkFormat == "yaml" {
		data, err := yaml.Marshal(findings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	} else {
		for _, f := range findings {
			fmt.Printf("%s:%d:%d: %s: %s\n", f.File, f.Line, f.Column, f.Severity, f.Message)
		}
	}

	if len(findings) > 0 {
		os.Exit(1)
	}
}
