package symbols

import (
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/span"
)

// Container is the struct-like capability: a symbol with its own child
// scope, optional inheritance, an optional statement block, and an optional
// label table.
type Container interface {
	Symbol
	Children() []Symbol
	AddChild(Symbol)
	FindChild(name names.Name, filter KindSet) Symbol
	ExtendsRef() *TypeRef
	SetExtendsRef(*TypeRef)
	Super() Container
	SetSuper(Container)
	Block() *parser.Block
	SetBlock(*parser.Block)
	Labels() map[names.Name]span.Range
	AddLabel(name names.Name, r span.Range)
}

// Scope implements Container and is embedded by every struct-like variant.
// Children keep declaration order; lookups take the first match so nearer
// declarations shadow farther ones.
type Scope struct {
	Base
	children []Symbol
	extends  *TypeRef
	super    Container
	block    *parser.Block
	labels   map[names.Name]span.Range
}

// NewScope constructs the shared struct-like portion of a symbol.
func NewScope(name names.Name, idRange, declRange span.Range, uri string) Scope {
	return Scope{Base: NewBase(name, idRange, declRange, uri)}
}

func (s *Scope) Children() []Symbol { return s.children }

// AddChild appends a child and sets its outer back-reference. The receiver
// is not a complete Symbol (Kind lives on the variant), so the caller-facing
// helper AddChildTo wires outer to the variant itself.
func (s *Scope) AddChild(child Symbol) {
	s.children = append(s.children, child)
}

// AddChildTo registers child under parent, wiring the outer back-reference
// to the full variant rather than the embedded Scope.
func AddChildTo(parent Container, child Symbol) {
	parent.AddChild(child)
	child.SetOuter(parent)
}

// FindChild returns the first child matching name and filter, or nil.
func (s *Scope) FindChild(name names.Name, filter KindSet) Symbol {
	for _, child := range s.children {
		if child.Name() == name && filter.Has(child.Kind()) {
			return child
		}
	}
	return nil
}

func (s *Scope) ExtendsRef() *TypeRef       { return s.extends }
func (s *Scope) SetExtendsRef(ref *TypeRef) { s.extends = ref }
func (s *Scope) Super() Container           { return s.super }
func (s *Scope) SetSuper(c Container)       { s.super = c }
func (s *Scope) Block() *parser.Block       { return s.block }
func (s *Scope) SetBlock(b *parser.Block)   { s.block = b }

func (s *Scope) Labels() map[names.Name]span.Range { return s.labels }

func (s *Scope) AddLabel(name names.Name, r span.Range) {
	if s.labels == nil {
		s.labels = make(map[names.Name]span.Range)
	}
	s.labels[name] = r
}

// lexicalOuter returns the nearest enclosing Container of ctx, skipping
// non-container outers.
func lexicalOuter(ctx Container) Container {
	outer := ctx.Outer()
	for outer != nil {
		if c, ok := outer.(Container); ok {
			return c
		}
		outer = outer.Outer()
	}
	return nil
}

// FindInScope is the name/scope lookup algorithm. It searches ctx's own
// children first (shadowing), then walks the resolved super chain; when a
// level has no super but is lexically nested, the search continues in the
// lexical outer's chain instead. Inheritance takes precedence over
// containment at each level.
func FindInScope(ctx Container, name names.Name, filter KindSet) Symbol {
	seen := make(map[Container]bool)
	for ctx != nil && !seen[ctx] {
		seen[ctx] = true
		if sym := ctx.FindChild(name, filter); sym != nil {
			return sym
		}
		if super := ctx.Super(); super != nil {
			ctx = super
			continue
		}
		ctx = lexicalOuter(ctx)
	}
	return nil
}

// FindMember searches the inheritance chain only: ctx's children, then its
// resolved super's, and so on. Used for member access (a.b) and defaults
// assignments, where lexical containment must not leak in.
func FindMember(ctx Container, name names.Name, filter KindSet) Symbol {
	seen := make(map[Container]bool)
	for ctx != nil && !seen[ctx] {
		seen[ctx] = true
		if sym := ctx.FindChild(name, filter); sym != nil {
			return sym
		}
		ctx = ctx.Super()
	}
	return nil
}

// EnclosingClass walks outward to the class symbol containing ctx.
func EnclosingClass(ctx Symbol) *Class {
	for s := ctx; s != nil; s = s.Outer() {
		if c, ok := s.(*Class); ok {
			return c
		}
	}
	return nil
}

// FindLabel looks a goto label up through the same combined chain.
func FindLabel(ctx Container, name names.Name) (span.Range, bool) {
	seen := make(map[Container]bool)
	for ctx != nil && !seen[ctx] {
		seen[ctx] = true
		if r, ok := ctx.Labels()[name]; ok {
			return r, true
		}
		if super := ctx.Super(); super != nil {
			ctx = super
			continue
		}
		ctx = lexicalOuter(ctx)
	}
	return span.Range{}, false
}

// CompletionSymbols collects child symbols of ctx and of every super/outer
// ancestor in nearest-to-farthest order, filtered by kind. Duplicates by
// name are kept; consumers take the first match, so nearer declarations
// shadow farther ones naturally.
func CompletionSymbols(ctx Container, filter KindSet) []Symbol {
	var out []Symbol
	seen := make(map[Container]bool)
	for ctx != nil && !seen[ctx] {
		seen[ctx] = true
		for _, child := range ctx.Children() {
			if filter.Has(child.Kind()) && completionEligible(child) {
				out = append(out, child)
			}
		}
		if super := ctx.Super(); super != nil {
			ctx = super
			continue
		}
		ctx = lexicalOuter(ctx)
	}
	return out
}

// completionEligible filters symbols that never belong in completion lists.
func completionEligible(sym Symbol) bool {
	switch s := sym.(type) {
	case *DefaultsBlock, *ReplicationBlock:
		return false
	case *Method:
		return !s.IsOperator()
	}
	return true
}

// ContainerAt returns the innermost struct-like descendant of root whose
// declaration range contains pos, or root itself.
func ContainerAt(root Container, pos span.Position) Container {
	for {
		var next Container
		for _, child := range root.Children() {
			c, ok := child.(Container)
			if !ok {
				continue
			}
			if c.DeclRange().Contains(pos) {
				next = c
				break
			}
		}
		if next == nil {
			return root
		}
		root = next
	}
}
