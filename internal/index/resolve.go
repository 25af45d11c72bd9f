package index

import (
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/span"
	"uls/internal/symbols"
)

// resolveStmt walks one statement, resolving every identifier it can reach.
func (r *run) resolveStmt(ctx symbols.Container, stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.Block:
		for _, inner := range s.Stmts {
			r.resolveStmt(ctx, inner)
		}
	case *parser.ExprStmt:
		r.resolveExpr(ctx, s.X)
	case *parser.IfStmt:
		r.resolveExpr(ctx, s.Cond)
		r.resolveStmt(ctx, s.Then)
		if s.Else != nil {
			r.resolveStmt(ctx, s.Else)
		}
	case *parser.WhileStmt:
		r.resolveExpr(ctx, s.Cond)
		r.resolveStmt(ctx, s.Body)
	case *parser.DoUntilStmt:
		r.resolveStmt(ctx, s.Body)
		r.resolveExpr(ctx, s.Cond)
	case *parser.ForStmt:
		r.resolveExpr(ctx, s.Init)
		r.resolveExpr(ctx, s.Cond)
		r.resolveExpr(ctx, s.Post)
		r.resolveStmt(ctx, s.Body)
	case *parser.SwitchStmt:
		r.resolveExpr(ctx, s.Value)
		for _, inner := range s.Body {
			r.resolveStmt(ctx, inner)
		}
	case *parser.CaseStmt:
		r.resolveExpr(ctx, s.Value)
	case *parser.ReturnStmt:
		r.resolveExpr(ctx, s.Value)
	case *parser.GotoStmt:
		r.resolveGoto(ctx, s)
	}
}

// resolveGoto binds a goto to its label through the combined scope chain.
// Labels are positions in a container's label table, not symbols, so the
// occurrence carries the definition location directly.
func (r *run) resolveGoto(ctx symbols.Container, s *parser.GotoStmt) {
	if s.Label == nil || !s.Label.IsValid() {
		return
	}
	n := r.ix.tables.Names().Lookup(s.Label.Text)
	if n == names.None {
		return
	}
	if defRange, ok := symbols.FindLabel(ctx, n); ok {
		loc := &span.Location{URI: r.uri, Range: defRange}
		r.out.Occurrences = append(r.out.Occurrences, Occurrence{R: s.Label.R, LabelDef: loc})
	}
}

// resolveExpr resolves an expression and returns the symbol it denotes, or
// nil. The return value lets member access chain: the left side's resolved
// symbol supplies the container the selector is looked up in.
func (r *run) resolveExpr(ctx symbols.Container, e parser.Expr) symbols.Symbol {
	switch x := e.(type) {
	case nil:
		return nil
	case *parser.IdentExpr:
		return r.resolveIdent(ctx, x.Name)
	case *parser.DotExpr:
		return r.resolveDot(ctx, x)
	case *parser.CallExpr:
		fn := r.resolveExpr(ctx, x.Fun)
		for _, arg := range x.Args {
			r.resolveExpr(ctx, arg)
		}
		return fn
	case *parser.IndexExpr:
		sym := r.resolveExpr(ctx, x.X)
		r.resolveExpr(ctx, x.Index)
		return sym
	case *parser.BinaryExpr:
		r.resolveExpr(ctx, x.X)
		r.resolveExpr(ctx, x.Y)
		return nil
	case *parser.UnaryExpr:
		return r.resolveExpr(ctx, x.X)
	case *parser.ParenExpr:
		return r.resolveExpr(ctx, x.X)
	case *parser.NewExpr:
		return r.resolveExpr(ctx, x.Class)
	case *parser.SelfExpr:
		return symbols.EnclosingClass(ctx)
	case *parser.SuperExpr:
		return r.resolveSuper(ctx, x)
	case *parser.ContextKeywordExpr:
		// default.X, static.X and global.X all resolve members against the
		// enclosing class.
		return symbols.EnclosingClass(ctx)
	}
	return nil
}

// resolveIdent looks a bare identifier up in the combined scope chain, then
// the global tables, then the enum members visible through the chain. A hit
// is recorded as a reference.
func (r *run) resolveIdent(ctx symbols.Container, id *parser.Ident) symbols.Symbol {
	if id == nil || !id.IsValid() {
		return nil
	}
	t := r.ix.tables
	n := t.Names().Intern(id.Text)

	sym := symbols.FindInScope(ctx, n, symbols.AnyKind)
	if sym == nil {
		sym = t.FindSymbol(n, true)
	}
	if sym == nil {
		if pkg := t.FindPackage(n); pkg != nil {
			sym = pkg
		}
	}
	if sym == nil {
		sym = findEnumMember(ctx, n)
	}
	if sym == nil {
		return nil
	}
	r.record(sym, id.R, ctx)
	return sym
}

// resolveDot resolves `X.Sel` by looking Sel up in the members exposed by
// X's resolved symbol. Member lookup follows the inheritance chain only.
func (r *run) resolveDot(ctx symbols.Container, x *parser.DotExpr) symbols.Symbol {
	left := r.resolveExpr(ctx, x.X)
	if left == nil || x.Sel == nil || !x.Sel.IsValid() {
		return nil
	}
	t := r.ix.tables
	n := t.Names().Intern(x.Sel.Text)

	if pkg, ok := left.(*symbols.Package); ok {
		if cls := pkg.FindClass(n); cls != nil {
			r.record(cls, x.Sel.R, ctx)
			return cls
		}
		return nil
	}

	cont := valueContainer(left)
	if cont == nil {
		return nil
	}
	sym := symbols.FindMember(cont, n, symbols.AnyKind)
	if sym == nil {
		sym = findEnumMember(cont, n)
	}
	if sym == nil {
		return nil
	}
	r.record(sym, x.Sel.R, ctx)
	return sym
}

func (r *run) resolveSuper(ctx symbols.Container, x *parser.SuperExpr) symbols.Symbol {
	if x.Class != nil && x.Class.IsValid() {
		n := r.ix.tables.Names().Intern(x.Class.Text)
		if sym := r.ix.tables.FindSymbol(n, true); sym != nil {
			r.record(sym, x.Class.R, ctx)
			return sym
		}
		return nil
	}
	cls := symbols.EnclosingClass(ctx)
	if cls == nil {
		return nil
	}
	return containerSymbol(cls.Super())
}

// valueContainer returns the container whose members a value denoted by sym
// exposes: the resolved type of a variable, the return type of a method, or
// the symbol itself when it is already a container. Parametrized types
// (class<X>, array<X>) expose the inner type's members.
func valueContainer(sym symbols.Symbol) symbols.Container {
	switch s := sym.(type) {
	case *symbols.Property:
		return typeContainer(s.TypeRef)
	case *symbols.Local:
		return typeContainer(s.TypeRef)
	case *symbols.Parameter:
		return typeContainer(s.TypeRef)
	case *symbols.Method:
		return typeContainer(s.ReturnRef)
	case symbols.Container:
		return s
	}
	return nil
}

func typeContainer(ref *symbols.TypeRef) symbols.Container {
	if ref == nil {
		return nil
	}
	if ref.Inner != nil && ref.Inner.Resolved != nil {
		if c, ok := ref.Inner.Resolved.(symbols.Container); ok {
			return c
		}
	}
	if c, ok := ref.Resolved.(symbols.Container); ok {
		return c
	}
	return nil
}

func containerSymbol(c symbols.Container) symbols.Symbol {
	if c == nil {
		return nil
	}
	return c
}

// findEnumMember searches the enums reachable through ctx's combined chain
// for a member named n. Enumerators are referenced bare in source, without
// qualifying them by their enum.
func findEnumMember(ctx symbols.Container, n names.Name) symbols.Symbol {
	seen := make(map[symbols.Container]bool)
	for cur := ctx; cur != nil && !seen[cur]; {
		seen[cur] = true
		for _, child := range cur.Children() {
			enum, ok := child.(*symbols.Enum)
			if !ok {
				continue
			}
			if m := enum.FindChild(n, symbols.KindEnumMember.Mask()); m != nil {
				return m
			}
		}
		if super := cur.Super(); super != nil {
			cur = super
			continue
		}
		cur = lexicalOuterContainer(cur)
	}
	return nil
}

func lexicalOuterContainer(ctx symbols.Container) symbols.Container {
	for outer := ctx.Outer(); outer != nil; outer = outer.Outer() {
		if c, ok := outer.(symbols.Container); ok {
			return c
		}
	}
	return nil
}
