package index

import (
	"sort"
	"sync"

	"uls/internal/span"
	"uls/internal/symbols"
)

// Reference is one recorded use of a symbol: where it appears and which
// symbol's scope it was made from.
type Reference struct {
	Location span.Location
	From     symbols.Symbol
}

// ReferenceIndex maps symbol hashes to the set of references made to them
// across all indexed documents. Hashes are stable across rebuilds of the
// declaring document, so reference sets survive invalidation of the target.
//
// Removal is driven by the per-document reference records kept by the
// workspace: a document retracts exactly the references it added, nothing
// else.
type ReferenceIndex struct {
	mu       sync.RWMutex
	byTarget map[string]map[*Reference]struct{}
}

// NewReferenceIndex creates an empty reference index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{byTarget: make(map[string]map[*Reference]struct{})}
}

// Add records a reference under the target's hash.
func (ri *ReferenceIndex) Add(hash string, ref *Reference) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	set, ok := ri.byTarget[hash]
	if !ok {
		set = make(map[*Reference]struct{})
		ri.byTarget[hash] = set
	}
	set[ref] = struct{}{}
}

// References returns the known references to a hash, ordered by document
// and position so output is deterministic.
func (ri *ReferenceIndex) References(hash string) []*Reference {
	ri.mu.RLock()
	set := ri.byTarget[hash]
	out := make([]*Reference, 0, len(set))
	for ref := range set {
		out = append(out, ref)
	}
	ri.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Location.URI != b.Location.URI {
			return a.Location.URI < b.Location.URI
		}
		return a.Location.Range.Start.Before(b.Location.Range.Start)
	})
	return out
}

// Remove retracts previously added references, pruning empty target sets.
func (ri *ReferenceIndex) Remove(hash string, refs []*Reference) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	set, ok := ri.byTarget[hash]
	if !ok {
		return
	}
	for _, ref := range refs {
		delete(set, ref)
	}
	if len(set) == 0 {
		delete(ri.byTarget, hash)
	}
}

// TargetCount reports the number of hashes with at least one reference.
func (ri *ReferenceIndex) TargetCount() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return len(ri.byTarget)
}
