// Package span provides source positions, ranges and locations used
// throughout the symbol graph.
package span

import "fmt"

// Position is a zero-based line/character position in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p comes before other in document order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open [Start, End) span in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// IsZero reports whether the range is the zero value. Intrinsic symbols
// injected from configuration carry a zero range because they have no
// backing source file.
func (r Range) IsZero() bool {
	return r.Start == Position{} && r.End == Position{}
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// Location pairs a document URI with a range inside it.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}
