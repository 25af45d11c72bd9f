package symbols

import (
	"uls/internal/names"
	"uls/internal/span"
)

// TypeHint is the expected type-kind of a reference, computed from its
// declaration context. It steers where resolution looks.
type TypeHint uint8

const (
	// HintNone tries the global table first, then the context chain.
	HintNone TypeHint = iota
	// HintPackage searches only the package table.
	HintPackage
	// HintClass searches the global symbol table with deep search.
	HintClass
	// HintEnum, HintStruct and HintState search the context's
	// inheritance+containment chain only; nested types are not globally
	// visible.
	HintEnum
	HintStruct
	HintState
	// HintType accepts any result that can itself be used as a type.
	HintType
)

func (h TypeHint) String() string {
	switch h {
	case HintPackage:
		return "package"
	case HintClass:
		return "class"
	case HintEnum:
		return "enum"
	case HintStruct:
		return "struct"
	case HintState:
		return "state"
	case HintType:
		return "type"
	default:
		return "symbol"
	}
}

// TypeRef is a placeholder produced during the structural build that names a
// type syntactically. It is resolved during indexing to a concrete symbol,
// or left unresolved for the analyzer to flag.
type TypeRef struct {
	Name     names.Name
	R        span.Range
	Inner    *TypeRef // for parametrized types: class<Actor>, array<Foo>
	Expect   TypeHint
	Resolved Symbol
}

// NewTypeRef creates an unresolved type reference.
func NewTypeRef(name names.Name, r span.Range, expect TypeHint) *TypeRef {
	return &TypeRef{Name: name, R: r, Expect: expect}
}

// IsResolved reports whether indexing bound the reference to a symbol.
func (t *TypeRef) IsResolved() bool { return t != nil && t.Resolved != nil }
