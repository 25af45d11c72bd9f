// Package analysis inspects an indexed symbol tree and reports semantic
// diagnostics. It never mutates the tree, so running it again over the same
// document yields the same results.
package analysis

import (
	"fmt"

	"uls/internal/names"
	"uls/internal/span"
	"uls/internal/symbols"
)

// Severity grades a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one finding in a document.
type Diagnostic struct {
	R        span.Range
	Severity Severity
	Message  string
}

// Mode controls which documents get analyzed after indexing.
type Mode string

const (
	// ModeNone disables analysis entirely.
	ModeNone Mode = "none"
	// ModeActive analyzes only documents the editor has open.
	ModeActive Mode = "active"
	// ModeAll analyzes every indexed document.
	ModeAll Mode = "all"
)

// ParseMode normalizes a configured mode string, defaulting to active.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeNone, ModeActive, ModeAll:
		return Mode(s)
	default:
		return ModeActive
	}
}

// Analyzer walks indexed trees and collects diagnostics.
type Analyzer struct {
	names *names.Table
}

// New creates an analyzer over the workspace's intern table.
func New(nt *names.Table) *Analyzer {
	return &Analyzer{names: nt}
}

// Document checks one indexed class tree. Unresolved type references are
// reported as unrecognized; references that resolved to a symbol of the
// wrong kind are reported against the expected kind.
func (a *Analyzer) Document(class *symbols.Class) []Diagnostic {
	var diags []Diagnostic
	a.checkSymbol(class, &diags)
	return diags
}

func (a *Analyzer) checkSymbol(sym symbols.Symbol, diags *[]Diagnostic) {
	switch s := sym.(type) {
	case *symbols.Class:
		a.checkTypeRef(s.ExtendsRef(), diags)
		a.checkTypeRef(s.WithinRef, diags)
		for _, dep := range s.DependsOnRefs {
			a.checkTypeRef(dep, diags)
		}
		for _, impl := range s.ImplementsRefs {
			a.checkTypeRef(impl, diags)
		}
	case *symbols.ScriptStruct:
		a.checkTypeRef(s.ExtendsRef(), diags)
	case *symbols.State:
		a.checkTypeRef(s.ExtendsRef(), diags)
	case *symbols.Method:
		a.checkTypeRef(s.ReturnRef, diags)
		for _, p := range s.Params {
			a.checkTypeRef(p.TypeRef, diags)
		}
	case *symbols.Property:
		a.checkTypeRef(s.TypeRef, diags)
	case *symbols.Local:
		a.checkTypeRef(s.TypeRef, diags)
	case *symbols.ObjectSymbol:
		a.checkTypeRef(s.ClassRef, diags)
	}

	if c, ok := sym.(symbols.Container); ok {
		for _, child := range c.Children() {
			a.checkSymbol(child, diags)
		}
	}
}

func (a *Analyzer) checkTypeRef(ref *symbols.TypeRef, diags *[]Diagnostic) {
	if ref == nil || !ref.Name.IsValid() {
		return
	}
	if ref.Inner != nil {
		a.checkTypeRef(ref.Inner, diags)
	}
	if ref.Resolved == nil {
		*diags = append(*diags, Diagnostic{
			R:        ref.R,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unrecognized type %q", a.names.Text(ref.Name)),
		})
		return
	}
	if want, strict := expectedKind(ref.Expect); strict && ref.Resolved.Kind() != want {
		*diags = append(*diags, Diagnostic{
			R:        ref.R,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%q: expected a %s", a.names.Text(ref.Name), want),
		})
	}
}

// expectedKind maps a strict hint to the kind its reference must resolve
// to. The unhinted and type-hinted cases accept several kinds and are not
// checked here.
func expectedKind(h symbols.TypeHint) (symbols.Kind, bool) {
	switch h {
	case symbols.HintPackage:
		return symbols.KindPackage, true
	case symbols.HintClass:
		return symbols.KindClass, true
	case symbols.HintEnum:
		return symbols.KindEnum, true
	case symbols.HintStruct:
		return symbols.KindScriptStruct, true
	case symbols.HintState:
		return symbols.KindState, true
	}
	return symbols.KindNone, false
}
