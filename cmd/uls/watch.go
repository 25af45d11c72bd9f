package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uls/internal/paths"
	"uls/internal/watcher"
	"uls/internal/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index the workspace and re-index files as they change",
	Long: `Run the initial indexing pass, then watch the source directories
and re-index changed script files after a debounce window. Rapid edits to
the same file collapse into one re-index.`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	ws, cfg, logger := mustWorkspace()

	queue := workspace.NewQueue(ws, time.Duration(cfg.Indexing.DebounceMs)*time.Millisecond)
	defer queue.Close()

	wcfg := watcher.DefaultConfig()
	wcfg.DebounceMs = cfg.Indexing.DebounceMs
	wcfg.IgnorePatterns = append(wcfg.IgnorePatterns, cfg.Workspace.Ignore...)

	w, err := watcher.New(wcfg, logger, func(events []watcher.Event) {
		for _, ev := range events {
			if !paths.IsWithinProject(ev.Path, cfg.RepoRoot) {
				continue
			}
			switch ev.Type {
			case watcher.EventDelete, watcher.EventRename:
				ws.RemoveDocument(ev.Path)
			default:
				content, readErr := os.ReadFile(ev.Path)
				if readErr != nil {
					continue
				}
				queue.Submit(ev.Path, string(content), packageForPath(ev.Path))
			}
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	roots := []string{cfg.RepoRoot}
	for _, root := range roots {
		if err := w.Watch(root); err != nil {
			logger.Warn("cannot watch directory", map[string]interface{}{
				"path":  root,
				"error": err.Error(),
			})
		}
	}
	w.Start()
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down", nil)
}

func packageForPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(dir)
	if base == "Classes" || base == "classes" {
		return filepath.Base(filepath.Dir(dir))
	}
	return base
}
