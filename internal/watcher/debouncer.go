package watcher

import (
	"sync"
	"time"
)

// Debouncer postpones a re-index until edits go quiet. Each Trigger restarts
// the window and replaces the pending function, so a burst of keystroke
// saves costs one run.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet window, replacing any function still
// pending from an earlier trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = fn
	d.stopLocked()
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// Cancel drops the pending function without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.pending = nil
}

// Flush runs the pending function now instead of waiting out the window.
// A second Flush is a no-op until the next Trigger.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	d.stopLocked()
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// BatchDebouncer accumulates filesystem events during the quiet window and
// hands them to the emit callback as one slice, preserving arrival order.
// The watcher uses it so a directory-wide change (branch switch, build
// output) reaches the workspace as a single batch.
type BatchDebouncer struct {
	delay time.Duration
	emit  func([]Event)

	mu     sync.Mutex
	timer  *time.Timer
	events []Event
}

// NewBatchDebouncer creates a batch debouncer delivering to emit.
func NewBatchDebouncer(delay time.Duration, emit func([]Event)) *BatchDebouncer {
	return &BatchDebouncer{delay: delay, emit: emit}
}

// Add appends an event to the open batch and restarts the quiet window.
func (b *BatchDebouncer) Add(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, event)
	b.stopLocked()
	b.timer = time.AfterFunc(b.delay, b.flush)
}

func (b *BatchDebouncer) flush() {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.timer = nil
	b.mu.Unlock()

	if len(events) > 0 && b.emit != nil {
		b.emit(events)
	}
}

// Cancel drops the open batch without emitting.
func (b *BatchDebouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	b.events = nil
}

// Flush emits the open batch now.
func (b *BatchDebouncer) Flush() {
	b.mu.Lock()
	b.stopLocked()
	b.mu.Unlock()

	b.flush()
}

// EventCount reports how many events wait in the open batch.
func (b *BatchDebouncer) EventCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *BatchDebouncer) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
