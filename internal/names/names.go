// Package names provides process-wide interning of identifiers.
//
// UnrealScript identifiers compare case-insensitively but keep their declared
// casing for display. Interning maps every spelling of an identifier to one
// stable handle so symbol lookups are plain map accesses on the handle.
package names

import (
	"strings"
	"sync"
)

// Name is a stable handle to an interned identifier. Two names compare equal
// iff their case-folded text is equal, regardless of declared casing.
// The zero value None is reserved and never returned by Intern.
type Name uint32

// None is the invalid name handle.
const None Name = 0

// IsValid reports whether the handle refers to an interned identifier.
func (n Name) IsValid() bool { return n != None }

// Table interns identifiers for the lifetime of the process. Names are never
// freed. The table is written by the single indexing worker and read by
// concurrent query handlers, so access is guarded.
type Table struct {
	mu      sync.RWMutex
	byLower map[string]Name
	entries []entry // index 0 reserved for None
}

type entry struct {
	display string
	lower   string
}

// NewTable creates an empty intern table.
func NewTable() *Table {
	return &Table{
		byLower: make(map[string]Name, 256),
		entries: make([]entry, 1, 257),
	}
}

// Intern returns the handle for text, creating it on first sight. The first
// spelling seen becomes the display casing; later spellings with different
// case map to the same handle.
func (t *Table) Intern(text string) Name {
	lower := strings.ToLower(text)

	t.mu.RLock()
	id, ok := t.byLower[lower]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byLower[lower]; ok {
		return id
	}
	id = Name(len(t.entries))
	t.entries = append(t.entries, entry{display: text, lower: lower})
	t.byLower[lower] = id
	return id
}

// Lookup returns the handle for text without interning it, or None.
func (t *Table) Lookup(text string) Name {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byLower[strings.ToLower(text)]
}

// Text returns the display casing of a name, or "" for None.
func (t *Table) Text(n Name) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(n) >= len(t.entries) {
		return ""
	}
	return t.entries[n].display
}

// Lower returns the case-folded key of a name, or "" for None.
func (t *Table) Lower(n Name) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(n) >= len(t.entries) {
		return ""
	}
	return t.entries[n].lower
}

// Len reports the number of interned names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - 1
}
