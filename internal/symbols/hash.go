package symbols

import (
	"strings"

	"uls/internal/names"
)

// Hash returns the stable key a symbol is filed under in the reference
// index: the case-folded qualified path through its outer chain. The hash
// survives invalidation and rebuild of the declaring document, which is what
// keeps cross-document reference sets addressable.
func Hash(t *names.Table, sym Symbol) string {
	var parts []string
	for s := sym; s != nil; s = s.Outer() {
		if s.Name().IsValid() {
			parts = append(parts, t.Lower(s.Name()))
		}
	}
	// Reverse into outermost-first order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// QualifiedName returns the display-cased qualified name of a symbol.
func QualifiedName(t *names.Table, sym Symbol) string {
	var parts []string
	for s := sym; s != nil; s = s.Outer() {
		if s.Name().IsValid() {
			parts = append(parts, t.Text(s.Name()))
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}
