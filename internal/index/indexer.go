// Package index implements the resolution phase: it walks a built symbol
// tree in declaration order, binds type references and expression
// identifiers to symbols, and records every reference in the shared
// reference index plus a per-document ledger used for invalidation.
package index

import (
	"fmt"

	"uls/internal/logging"
	"uls/internal/parser"
	"uls/internal/span"
	"uls/internal/symbols"
)

// Occurrence ties a source range in one document to the symbol it denotes.
// Definition occurrences cover the declared identifier itself. Goto label
// uses carry the label definition location instead of a symbol.
type Occurrence struct {
	R            span.Range
	Target       symbols.Symbol
	IsDefinition bool
	LabelDef     *span.Location
}

// Result is the per-document output of one indexing pass: the references
// this document made (keyed by target hash, used to retract them on
// invalidation) and all occurrences for position-based queries.
type Result struct {
	Refs        map[string][]*Reference
	Occurrences []Occurrence
}

// OccurrenceAt returns the narrowest occurrence containing pos, or nil.
func (res *Result) OccurrenceAt(pos span.Position) *Occurrence {
	if res == nil {
		return nil
	}
	var best *Occurrence
	for i := range res.Occurrences {
		occ := &res.Occurrences[i]
		if !occ.R.Contains(pos) {
			continue
		}
		if best == nil || narrower(occ.R, best.R) {
			best = occ
		}
	}
	return best
}

func narrower(a, b span.Range) bool {
	al, bl := a.End.Line-a.Start.Line, b.End.Line-b.Start.Line
	if al != bl {
		return al < bl
	}
	return a.End.Character-a.Start.Character < b.End.Character-b.Start.Character
}

// Indexer resolves built symbol trees against the global tables. A single
// worker runs it; the reference index it writes is safe for concurrent
// readers.
type Indexer struct {
	tables *symbols.Tables
	refs   *ReferenceIndex
	log    *logging.Logger
}

// New creates an indexer over the given tables and reference index.
func New(tables *symbols.Tables, refs *ReferenceIndex, log *logging.Logger) *Indexer {
	return &Indexer{tables: tables, refs: refs, log: log}
}

// IndexDocument resolves one document's class tree. Symbols are visited
// pre-order so a container's own references (extends, within, types) bind
// before its children's, which lets a state's methods see the state's super
// chain. A failure inside one child is logged and contained; siblings still
// index.
func (ix *Indexer) IndexDocument(class *symbols.Class) *Result {
	r := &run{
		ix:  ix,
		uri: class.URI(),
		out: &Result{Refs: make(map[string][]*Reference)},
	}
	r.indexSymbol(class)
	return r.out
}

type run struct {
	ix  *Indexer
	uri string
	out *Result
}

// record binds an occurrence to target and files a reference under its hash.
func (r *run) record(target symbols.Symbol, rng span.Range, from symbols.Symbol) {
	if target == nil || rng.IsZero() {
		return
	}
	r.out.Occurrences = append(r.out.Occurrences, Occurrence{R: rng, Target: target})
	if _, isPrimitive := target.(*symbols.Primitive); isPrimitive {
		// Primitives are process-wide fixed symbols; tracking their uses
		// would make every document's ledger retract from the same giant
		// sets for no query benefit.
		return
	}
	hash := symbols.Hash(r.ix.tables.Names(), target)
	ref := &Reference{Location: span.Location{URI: r.uri, Range: rng}, From: from}
	r.ix.refs.Add(hash, ref)
	r.out.Refs[hash] = append(r.out.Refs[hash], ref)
}

func (r *run) defOccurrence(sym symbols.Symbol) {
	if sym.IDRange().IsZero() {
		return
	}
	r.out.Occurrences = append(r.out.Occurrences, Occurrence{
		R: sym.IDRange(), Target: sym, IsDefinition: true,
	})
}

// indexSymbol dispatches on the symbol variant, containing any panic so one
// malformed symbol cannot abort the document.
func (r *run) indexSymbol(sym symbols.Symbol) {
	defer func() {
		if rec := recover(); rec != nil {
			r.ix.log.Error("symbol indexing failed", map[string]interface{}{
				"uri":    r.uri,
				"symbol": r.ix.tables.Names().Text(sym.Name()),
				"error":  fmt.Sprint(rec),
			})
		}
	}()

	r.defOccurrence(sym)

	switch s := sym.(type) {
	case *symbols.Class:
		r.linkClass(s)
	case *symbols.ScriptStruct:
		r.linkStruct(s)
	case *symbols.State:
		r.linkState(s)
	case *symbols.Method:
		r.resolveTypeRef(s, s.ReturnRef)
	case *symbols.Property:
		r.indexProperty(s)
		return
	case *symbols.Local:
		r.resolveTypeRef(leafContext(s), s.TypeRef)
		if s.ArrayDim != nil {
			r.resolveExpr(leafContext(s), s.ArrayDim)
		}
		return
	case *symbols.DefaultsBlock:
		r.indexDefaults(s)
	case *symbols.ObjectSymbol:
		r.indexObject(s)
	case *symbols.ReplicationBlock:
		r.indexReplication(s)
	case *symbols.Parameter:
		r.resolveTypeRef(leafContext(s), s.TypeRef)
		if s.Default != nil {
			r.resolveExpr(leafContext(s), s.Default)
		}
		return
	case *symbols.Const, *symbols.EnumMember:
		return
	}

	c, ok := sym.(symbols.Container)
	if !ok {
		return
	}
	if b := c.Block(); b != nil {
		for _, stmt := range b.Stmts {
			r.resolveStmt(c, stmt)
		}
	}
	for _, child := range c.Children() {
		r.indexSymbol(child)
	}
}

// leafContext finds the container a non-container symbol resolves inside.
func leafContext(sym symbols.Symbol) symbols.Container {
	for s := sym.Outer(); s != nil; s = s.Outer() {
		if c, ok := s.(symbols.Container); ok {
			return c
		}
	}
	return nil
}

func (r *run) linkClass(c *symbols.Class) {
	if ref := c.ExtendsRef(); ref != nil {
		r.resolveTypeRef(c, ref)
		if super, ok := ref.Resolved.(*symbols.Class); ok && super != c {
			c.SetSuper(super)
		}
	}
	r.resolveTypeRef(c, c.WithinRef)
	for _, dep := range c.DependsOnRefs {
		r.resolveTypeRef(c, dep)
	}
	for _, impl := range c.ImplementsRefs {
		r.resolveTypeRef(c, impl)
	}
}

// linkStruct binds a struct's super. Only a struct may serve; a same-named
// symbol of another kind stays on the reference for the analyzer to flag.
func (r *run) linkStruct(s *symbols.ScriptStruct) {
	if ref := s.ExtendsRef(); ref != nil {
		r.resolveTypeRef(s, ref)
		if super, ok := ref.Resolved.(*symbols.ScriptStruct); ok && super != s {
			s.SetSuper(super)
		}
	}
}

// linkState binds a state's super: the explicit extends target when one is
// written, otherwise the same-named state inherited from the class's super
// chain (an implicit override).
func (r *run) linkState(s *symbols.State) {
	if ref := s.ExtendsRef(); ref != nil {
		r.resolveTypeRef(s, ref)
		if super, ok := ref.Resolved.(*symbols.State); ok && super != s {
			s.SetSuper(super)
		}
	} else if cls := symbols.EnclosingClass(s); cls != nil && cls.Super() != nil {
		inherited := symbols.FindMember(cls.Super(), s.Name(), symbols.KindState.Mask())
		if super, ok := inherited.(symbols.Container); ok {
			s.SetSuper(super)
		}
	}

	for _, ig := range s.Ignores {
		if m := symbols.FindInScope(s, ig.Name, symbols.KindMethod.Mask()); m != nil {
			ig.Resolved = m
			r.record(m, ig.R, s)
		}
	}
}

func (r *run) indexProperty(p *symbols.Property) {
	ctx := leafContext(p)
	r.resolveTypeRef(ctx, p.TypeRef)
	if p.ArrayDim == nil {
		return
	}
	sym := r.resolveExpr(ctx, p.ArrayDim)
	if ident, ok := p.ArrayDim.(*parser.IdentExpr); ok && sym != nil {
		n := r.ix.tables.Names().Intern(ident.Name.Text)
		p.ArrayDimRef = &symbols.IdentRef{Name: n, R: ident.Name.R, Resolved: sym}
	}
}

// indexDefaults resolves assignment targets against the context class's
// property chain, never the lexical scope, then resolves the values.
func (r *run) indexDefaults(d *symbols.DefaultsBlock) {
	cls := symbols.EnclosingClass(d)
	if cls == nil {
		return
	}
	r.resolveAssignments(cls, d, d.Assignments)
}

func (r *run) indexObject(o *symbols.ObjectSymbol) {
	ctx := leafContext(o)
	r.resolveTypeRef(ctx, o.ClassRef)

	var target symbols.Container
	if o.ClassRef != nil {
		if c, ok := o.ClassRef.Resolved.(symbols.Container); ok {
			target = c
		}
	}
	if target == nil {
		if cls := symbols.EnclosingClass(o); cls != nil {
			target = cls
		}
	}
	if target != nil {
		r.resolveAssignments(target, o, o.Assignments)
	}
}

func (r *run) resolveAssignments(target, scope symbols.Container, assigns []*symbols.DefaultAssign) {
	propKinds := symbols.KindProperty.Mask() | symbols.KindConst.Mask()
	for _, a := range assigns {
		if a.Ref != nil && a.Ref.Name.IsValid() {
			if sym := symbols.FindMember(target, a.Ref.Name, propKinds); sym != nil {
				a.Ref.Resolved = sym
				r.record(sym, a.Ref.R, scope)
			}
		}
		if a.Value != nil {
			r.resolveExpr(scope, a.Value)
		}
	}
}

// indexReplication resolves each statement's condition in class scope and
// its replicated names against the class's properties and functions.
func (r *run) indexReplication(rb *symbols.ReplicationBlock) {
	cls := symbols.EnclosingClass(rb)
	if cls == nil {
		return
	}
	memberKinds := symbols.KindProperty.Mask() | symbols.KindMethod.Mask()
	for _, stmt := range rb.Statements {
		if stmt.Cond != nil {
			r.resolveExpr(cls, stmt.Cond)
		}
		for _, ref := range stmt.Refs {
			if sym := symbols.FindMember(cls, ref.Name, memberKinds); sym != nil {
				ref.Resolved = sym
				r.record(sym, ref.R, rb)
			}
		}
	}
}

// resolveTypeRef binds one type reference. The hint computed at build time
// steers the lookup: package and class hints go to the global tables, the
// nested type kinds search the context chain only, and the unhinted case
// tries global first, then the chain. Primitive names short-circuit to
// their fixed symbols.
func (r *run) resolveTypeRef(ctx symbols.Container, ref *symbols.TypeRef) {
	if ref == nil || !ref.Name.IsValid() {
		return
	}
	if ref.Inner != nil {
		r.resolveTypeRef(ctx, ref.Inner)
	}

	t := r.ix.tables
	if p := t.Primitive(ref.Name); p != nil {
		ref.Resolved = p
		// The occurrence still lands in the document so hover works on
		// primitive names; record skips the reference ledger for them.
		r.record(p, ref.R, ctx)
		return
	}

	var sym symbols.Symbol
	switch ref.Expect {
	case symbols.HintPackage:
		if pkg := t.FindPackage(ref.Name); pkg != nil {
			sym = pkg
		}
	case symbols.HintClass:
		sym = t.FindSymbol(ref.Name, true)
	case symbols.HintEnum, symbols.HintStruct, symbols.HintState:
		sym = hintedLookup(ctx, ref)
	case symbols.HintType:
		sym = t.FindSymbol(ref.Name, true)
		if sym == nil {
			sym = symbols.FindInScope(ctx, ref.Name, symbols.TypeKinds)
		}
		if sym != nil && !sym.Kind().IsType() {
			sym = nil
		}
	default:
		sym = t.FindSymbol(ref.Name, true)
		if sym == nil {
			sym = symbols.FindInScope(ctx, ref.Name, symbols.AnyKind)
		}
	}
	if sym == nil {
		ref.Resolved = nil
		return
	}
	ref.Resolved = sym
	r.record(sym, ref.R, ctx)
}

// hintedLookup resolves a kind-hinted nested type in the context chain. When
// nothing of the hinted kind matches, a same-named symbol of another kind
// still binds, so the analyzer can report the kind mismatch instead of an
// unrecognized name.
func hintedLookup(ctx symbols.Container, ref *symbols.TypeRef) symbols.Symbol {
	var want symbols.Kind
	switch ref.Expect {
	case symbols.HintEnum:
		want = symbols.KindEnum
	case symbols.HintStruct:
		want = symbols.KindScriptStruct
	default:
		want = symbols.KindState
	}
	if sym := symbols.FindInScope(ctx, ref.Name, want.Mask()); sym != nil {
		return sym
	}
	return symbols.FindInScope(ctx, ref.Name, symbols.AnyKind)
}
