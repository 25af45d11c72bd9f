// Package watcher provides file system watching for script sources.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"uls/internal/logging"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// ChangeHandler is called with a debounced batch of script file events.
type ChangeHandler func(events []Event)

// Config contains watcher configuration
type Config struct {
	DebounceMs     int
	Extensions     []string
	IgnorePatterns []string
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{
		DebounceMs: 300,
		Extensions: []string{".uc"},
		IgnorePatterns: []string{
			".git",
			".uls",
			"Saves",
			"Cache",
		},
	}
}

// Watcher watches source directories for script file changes. Directories
// are registered recursively; newly created subdirectories are added as
// their create events arrive.
type Watcher struct {
	config  Config
	logger  *logging.Logger
	handler ChangeHandler

	fs    *fsnotify.Watcher
	batch *BatchDebouncer

	mu     sync.Mutex
	roots  []string
	doneCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new file system watcher
func New(config Config, logger *logging.Logger, handler ChangeHandler) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
		fs:      fs,
		doneCh:  make(chan struct{}),
	}
	w.batch = NewBatchDebouncer(time.Duration(config.DebounceMs)*time.Millisecond, func(events []Event) {
		if w.handler != nil {
			w.handler(events)
		}
	})
	return w, nil
}

// Watch registers a directory tree.
func (w *Watcher) Watch(root string) error {
	w.mu.Lock()
	w.roots = append(w.roots, root)
	w.mu.Unlock()

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// Start begins dispatching events until Stop is called.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()

	w.logger.Info("file watcher started", map[string]interface{}{
		"debounceMs": w.config.DebounceMs,
	})
}

// Stop stops watching and flushes any pending batch.
func (w *Watcher) Stop() error {
	close(w.doneCh)
	err := w.fs.Close()
	w.wg.Wait()
	w.batch.Flush()
	w.logger.Info("file watcher stopped", nil)
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", map[string]interface{}{
				"error": err.Error(),
			})
		case <-w.doneCh:
			return
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	if w.isIgnored(ev.Name) {
		return
	}

	// New directories must be registered before files land in them.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(ev.Name); err != nil {
				w.logger.Warn("cannot watch new directory", map[string]interface{}{
					"path":  ev.Name,
					"error": err.Error(),
				})
			}
			return
		}
	}

	if !w.matchesExtension(ev.Name) {
		return
	}

	var typ EventType
	switch {
	case ev.Op.Has(fsnotify.Create):
		typ = EventCreate
	case ev.Op.Has(fsnotify.Write):
		typ = EventModify
	case ev.Op.Has(fsnotify.Remove):
		typ = EventDelete
	case ev.Op.Has(fsnotify.Rename):
		typ = EventRename
	default:
		return
	}

	w.batch.Add(Event{Type: typ, Path: ev.Name, Timestamp: time.Now()})
}

func (w *Watcher) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.config.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.config.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Stats returns watcher statistics
func (w *Watcher) Stats() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return map[string]interface{}{
		"roots":        len(w.roots),
		"debounceMs":   w.config.DebounceMs,
		"pendingBatch": w.batch.EventCount(),
	}
}
