package workspace

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"uls/internal/watcher"
)

// PendingChange is one queued re-index request.
type PendingChange struct {
	ID       string
	URI      string
	Content  string
	Package  string
	QueuedAt time.Time
}

// Queue coalesces document changes before indexing. Submissions within the
// debounce window collapse; for a given URI only the newest content is
// kept, so rapid editor keystrokes cost one re-index.
type Queue struct {
	ws        *Workspace
	debouncer *watcher.Debouncer

	mu      sync.Mutex
	pending map[string]PendingChange
}

// NewQueue creates a change queue over the workspace.
func NewQueue(ws *Workspace, delay time.Duration) *Queue {
	return &Queue{
		ws:        ws,
		debouncer: watcher.NewDebouncer(delay),
		pending:   make(map[string]PendingChange),
	}
}

// Submit queues new content for a document, replacing any earlier pending
// change for the same URI, and returns the request id.
func (q *Queue) Submit(uri, content, pkg string) string {
	change := PendingChange{
		ID:       uuid.New().String(),
		URI:      uri,
		Content:  content,
		Package:  pkg,
		QueuedAt: time.Now(),
	}

	q.mu.Lock()
	q.pending[uri] = change
	q.mu.Unlock()

	q.debouncer.Trigger(q.Flush)
	return change.ID
}

// Flush drains the queue and indexes every pending change in queue order.
func (q *Queue) Flush() {
	q.mu.Lock()
	changes := make([]PendingChange, 0, len(q.pending))
	for _, c := range q.pending {
		changes = append(changes, c)
	}
	q.pending = make(map[string]PendingChange)
	q.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].QueuedAt.Before(changes[j].QueuedAt)
	})

	for _, c := range changes {
		if _, err := q.ws.IndexDocument(c.URI, c.Content, c.Package); err != nil {
			q.ws.log.Warn("queued re-index failed", map[string]interface{}{
				"requestId": c.ID,
				"uri":       c.URI,
				"error":     err.Error(),
			})
			continue
		}
		q.ws.log.Debug("re-indexed", map[string]interface{}{
			"requestId": c.ID,
			"uri":       c.URI,
		})
	}
}

// Len reports the number of pending changes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close cancels any scheduled flush without draining.
func (q *Queue) Close() {
	q.debouncer.Cancel()
}
