package main

import (
	"github.com/spf13/cobra"

	"uls/internal/version"
)

var (
	// rootFlag is the CLI --root flag value
	rootFlag string
	// logFormatFlag overrides the configured log format
	logFormatFlag string
	// logLevelFlag overrides the configured log level
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "uls",
	Short: "uls - UnrealScript language service",
	Long: `uls is a language intelligence engine for UnrealScript codebases. It
builds a cross-document symbol graph from the project's script packages and
answers editor queries: definitions, references, completion, hover, rename
and diagnostics.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("uls version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Workspace root containing uls.toml")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
}
