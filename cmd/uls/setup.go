package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"uls/internal/config"
	"uls/internal/logging"
	"uls/internal/span"
	"uls/internal/workspace"
)

// loadConfig resolves the workspace root and loads tool config plus the
// project manifest when one exists.
func loadConfig() (*config.Config, *config.Manifest, error) {
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.RepoRoot = root
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var manifest *config.Manifest
	if path, ok := config.FindManifest(root, cfg.Workspace.ManifestName); ok {
		manifest, err = config.LoadManifest(path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading manifest: %w", err)
		}
		manifest.Apply(cfg)
		cfg.RepoRoot = filepath.Dir(path)
	}
	return cfg, manifest, nil
}

// newLogger builds a logger from config with CLI flag overrides.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.LogLevel(level),
	})
}

// forceAnalyzeAll makes mustWorkspace analyze every document regardless of
// the configured mode. Batch commands that report diagnostics set it.
var forceAnalyzeAll bool

// mustWorkspace loads config, assembles the workspace and runs the initial
// indexing pass, exiting the process on failure.
func mustWorkspace() (*workspace.Workspace, *config.Config, *logging.Logger) {
	cfg, manifest, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if forceAnalyzeAll {
		cfg.Analysis.Mode = "all"
	}
	logger := newLogger(cfg)

	ws := workspace.New(cfg, manifest, logger)
	if err := ws.LoadIntrinsics(); err != nil {
		logger.Error("loading intrinsics failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if err := ws.IndexAll(); err != nil {
		logger.Error("workspace indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	return ws, cfg, logger
}

// parseLocation parses a file:line:column argument. Lines and columns are
// 1-based on the command line and 0-based internally.
func parseLocation(arg string) (string, span.Position, error) {
	i := strings.LastIndexByte(arg, ':')
	if i < 0 {
		return "", span.Position{}, fmt.Errorf("expected file:line:column, got %q", arg)
	}
	j := strings.LastIndexByte(arg[:i], ':')
	if j < 0 {
		return "", span.Position{}, fmt.Errorf("expected file:line:column, got %q", arg)
	}

	line, err := strconv.Atoi(arg[j+1 : i])
	if err != nil || line < 1 {
		return "", span.Position{}, fmt.Errorf("bad line number in %q", arg)
	}
	col, err := strconv.Atoi(arg[i+1:])
	if err != nil || col < 1 {
		return "", span.Position{}, fmt.Errorf("bad column number in %q", arg)
	}

	path, err := filepath.Abs(arg[:j])
	if err != nil {
		return "", span.Position{}, err
	}
	return path, span.Position{Line: line - 1, Character: col - 1}, nil
}

// mustAbs resolves a path argument, exiting on failure.
func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return abs
}

// printLocation renders a location in file:line:column form.
func printLocation(loc span.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.URI, loc.Range.Start.Line+1, loc.Range.Start.Character+1)
}
