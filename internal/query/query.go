// Package query implements the editor-facing operations over an indexed
// workspace: definition, references, highlights, completion, hover, rename
// and diagnostics. Queries read shared state concurrently with the indexing
// worker and never mutate the symbol graph.
package query

import (
	"sort"
	"unicode"

	"uls/internal/analysis"
	"uls/internal/errors"
	"uls/internal/span"
	"uls/internal/symbols"
	"uls/internal/workspace"
)

// Service answers editor queries against one workspace.
type Service struct {
	ws *workspace.Workspace
}

// New creates a query service.
func New(ws *workspace.Workspace) *Service {
	return &Service{ws: ws}
}

// SymbolAt returns the symbol denoted at a position, definition and
// reference occurrences alike.
func (s *Service) SymbolAt(uri string, pos span.Position) (symbols.Symbol, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, err
	}
	if doc.Result == nil {
		return nil, errors.Newf(errors.SymbolNotFound, "document has no index result: %s", uri)
	}
	occ := doc.Result.OccurrenceAt(pos)
	if occ == nil || occ.Target == nil {
		return nil, errors.Newf(errors.SymbolNotFound, "no symbol at %s", pos)
	}
	return occ.Target, nil
}

// Definition resolves the position to its declaration site. For goto label
// uses the location points at the label; the symbol is nil since labels are
// positions, not symbols. Intrinsic symbols return the symbol without a
// location.
func (s *Service) Definition(uri string, pos span.Position) (*span.Location, symbols.Symbol, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, nil, err
	}
	if doc.Result == nil {
		return nil, nil, errors.Newf(errors.SymbolNotFound, "document has no index result: %s", uri)
	}
	occ := doc.Result.OccurrenceAt(pos)
	if occ == nil {
		return nil, nil, errors.Newf(errors.SymbolNotFound, "no symbol at %s", pos)
	}
	if occ.LabelDef != nil {
		return occ.LabelDef, nil, nil
	}
	if occ.Target == nil {
		return nil, nil, errors.Newf(errors.SymbolNotFound, "no symbol at %s", pos)
	}
	sym := occ.Target
	if sym.IDRange().IsZero() {
		return nil, sym, nil
	}
	return &span.Location{URI: sym.URI(), Range: sym.IDRange()}, sym, nil
}

// References lists every recorded use of the symbol at the position across
// all indexed documents. With includeDecl the declaration site leads.
func (s *Service) References(uri string, pos span.Position, includeDecl bool) ([]span.Location, error) {
	sym, err := s.SymbolAt(uri, pos)
	if err != nil {
		return nil, err
	}
	hash := symbols.Hash(s.ws.Names(), sym)

	var out []span.Location
	if includeDecl && !sym.IDRange().IsZero() {
		out = append(out, span.Location{URI: sym.URI(), Range: sym.IDRange()})
	}
	for _, ref := range s.ws.References().References(hash) {
		out = append(out, ref.Location)
	}
	return out, nil
}

// Highlights returns every occurrence of the position's symbol within the
// same document, definition included.
func (s *Service) Highlights(uri string, pos span.Position) ([]span.Location, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, err
	}
	sym, err := s.SymbolAt(uri, pos)
	if err != nil {
		return nil, err
	}

	var out []span.Location
	for _, occ := range doc.Result.Occurrences {
		if occ.Target == sym {
			out = append(out, span.Location{URI: uri, Range: occ.R})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out, nil
}

// CompletionItem is one completion candidate.
type CompletionItem struct {
	Label  string
	Kind   string
	Detail string
}

// Completions lists the symbols visible at a position, nearest scope first.
// The innermost container is found by position, then its combined
// inheritance and containment chain supplies candidates; nearer entries
// shadow farther ones of the same name.
func (s *Service) Completions(uri string, pos span.Position) ([]CompletionItem, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, err
	}
	if doc.Class == nil {
		return nil, nil
	}
	ctx := symbols.ContainerAt(doc.Class, pos)
	candidates := symbols.CompletionSymbols(ctx, symbols.AnyKind)

	nt := s.ws.Names()
	seen := make(map[string]bool, len(candidates))
	items := make([]CompletionItem, 0, len(candidates))
	for _, sym := range candidates {
		label := nt.Text(sym.Name())
		key := nt.Lower(sym.Name())
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, CompletionItem{
			Label:  label,
			Kind:   sym.Kind().String(),
			Detail: symbols.Tooltip(nt, sym),
		})
	}
	return items, nil
}

// HoverInfo is the tooltip for a position.
type HoverInfo struct {
	Contents string
	R        span.Range
}

// Hover renders the tooltip for the symbol at a position.
func (s *Service) Hover(uri string, pos span.Position) (*HoverInfo, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, err
	}
	if doc.Result == nil {
		return nil, errors.Newf(errors.SymbolNotFound, "document has no index result: %s", uri)
	}
	occ := doc.Result.OccurrenceAt(pos)
	if occ == nil || occ.Target == nil {
		return nil, errors.Newf(errors.SymbolNotFound, "no symbol at %s", pos)
	}
	return &HoverInfo{
		Contents: symbols.Tooltip(s.ws.Names(), occ.Target),
		R:        occ.R,
	}, nil
}

// Diagnostics returns the merged parse and analysis findings for a document.
func (s *Service) Diagnostics(uri string) ([]analysis.Diagnostic, error) {
	doc, err := s.ws.Document(uri)
	if err != nil {
		return nil, err
	}
	return doc.AllDiagnostics(), nil
}

// TextEdit is one replacement in a rename.
type TextEdit struct {
	R       span.Range
	NewText string
}

// WorkspaceEdit groups rename edits by document.
type WorkspaceEdit map[string][]TextEdit

// Rename computes the edits that rename the symbol at the position. Classes
// are rejected because their name is bound to the file name; intrinsic
// symbols have no source to edit; operator names are not identifiers.
func (s *Service) Rename(uri string, pos span.Position, newName string) (WorkspaceEdit, error) {
	sym, err := s.SymbolAt(uri, pos)
	if err != nil {
		return nil, err
	}
	if !validIdentifier(newName) {
		return nil, errors.Newf(errors.RenameInvalid, "%q is not a valid identifier", newName)
	}
	switch {
	case sym.Kind() == symbols.KindClass:
		return nil, errors.New(errors.RenameInvalid, "classes cannot be renamed; the class name is bound to the file name")
	case sym.IDRange().IsZero():
		return nil, errors.New(errors.RenameInvalid, "intrinsic symbols have no source declaration to edit")
	}
	if m, ok := sym.(*symbols.Method); ok && m.IsOperator() {
		return nil, errors.New(errors.RenameInvalid, "operator names cannot be renamed")
	}

	edits := make(WorkspaceEdit)
	edits[sym.URI()] = append(edits[sym.URI()], TextEdit{R: sym.IDRange(), NewText: newName})

	hash := symbols.Hash(s.ws.Names(), sym)
	for _, ref := range s.ws.References().References(hash) {
		edits[ref.Location.URI] = append(edits[ref.Location.URI], TextEdit{
			R:       ref.Location.Range,
			NewText: newName,
		})
	}
	for u := range edits {
		list := edits[u]
		sort.Slice(list, func(i, j int) bool {
			return list[i].R.Start.Before(list[j].R.Start)
		})
		edits[u] = list
	}
	return edits, nil
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
