package parser

import "uls/internal/span"

// parseDefaultPropertiesDecl parses the defaultproperties block. The block
// is not semicolon-delimited; each entry is `Name=Value`, `Name(i)=Value`,
// `Name[i]=Value`, or a `Begin Object ... End Object` literal.
func (p *Parser) parseDefaultPropertiesDecl() *DefaultPropertiesDecl {
	defTok := p.next()
	decl := &DefaultPropertiesDecl{R: tokRange(defTok)}
	if _, ok := p.accept(LBRACE); !ok {
		p.errorAt(p.cur(), "expected '{' in defaultproperties")
		p.syncDecl()
		return decl
	}
	decl.Assignments, decl.Objects = p.parseDefaultEntries(false)
	if rb, ok := p.accept(RBRACE); ok {
		decl.R.End = tokRange(rb).End
	}
	return decl
}

// parseDefaultEntries parses assignment/object entries until '}' (or
// `End Object` when inObject is set).
func (p *Parser) parseDefaultEntries(inObject bool) ([]*DefaultAssignment, []*ObjectDecl) {
	var assigns []*DefaultAssignment
	var objects []*ObjectDecl

	for !p.at(RBRACE) && !p.at(EOF) {
		if inObject && p.at(KWEND) {
			break
		}
		switch {
		case p.at(KWBEGIN) && p.peek().Type == KWOBJECT:
			if obj := p.parseObjectDecl(); obj != nil {
				objects = append(objects, obj)
			}
		case p.at(SEMI):
			p.next()
		case p.cur().IsIdentLike():
			if a := p.parseDefaultAssignment(); a != nil {
				assigns = append(assigns, a)
			}
		default:
			p.errorAt(p.cur(), "unexpected token %q in defaults block", p.cur().Lexeme)
			p.next()
		}
	}
	return assigns, objects
}

func (p *Parser) parseDefaultAssignment() *DefaultAssignment {
	name := p.ident()
	entry := &DefaultAssignment{Name: name, R: name.R}

	// Array element index: Name(0)= or Name[0]=
	if _, ok := p.accept(LPAREN); ok {
		entry.Index = p.parseDefaultValue()
		p.accept(RPAREN)
	} else if _, ok := p.accept(LBRACKET); ok {
		entry.Index = p.parseDefaultValue()
		p.accept(RBRACKET)
	}

	if _, ok := p.accept(ASSIGN); !ok {
		p.errorAt(p.cur(), "expected '=' after %q in defaults block", name.Text)
		return nil
	}
	entry.Value = p.parseDefaultValue()
	if entry.Value != nil {
		entry.R.End = entry.Value.Range().End
	}
	return entry
}

// parseDefaultValue parses one defaults-block value atom. The grammar is
// deliberately restricted: without statement separators, the next entry must
// remain distinguishable, so a value is a single literal, identifier chain,
// object literal name, or a parenthesized struct literal kept as raw text.
func (p *Parser) parseDefaultValue() Expr {
	tok := p.cur()
	switch tok.Type {
	case MINUS:
		p.next()
		inner := p.parseDefaultValue()
		if inner == nil {
			return nil
		}
		return &UnaryExpr{Op: MINUS, X: inner,
			R: span.Range{Start: tokRange(tok).Start, End: inner.Range().End}}
	case INT:
		p.next()
		return &LiteralExpr{Kind: LitInt, Text: tok.Lexeme, R: tokRange(tok)}
	case FLOAT:
		p.next()
		return &LiteralExpr{Kind: LitFloat, Text: tok.Lexeme, R: tokRange(tok)}
	case STRING:
		p.next()
		return &LiteralExpr{Kind: LitString, Text: tok.Lexeme, R: tokRange(tok)}
	case NAMELIT:
		p.next()
		return &LiteralExpr{Kind: LitName, Text: tok.Lexeme, R: tokRange(tok)}
	case KWTRUE, KWFALSE:
		p.next()
		return &LiteralExpr{Kind: LitBool, Text: tok.Lexeme, R: tokRange(tok)}
	case KWNONE:
		p.next()
		return &LiteralExpr{Kind: LitNone, Text: tok.Lexeme, R: tokRange(tok)}
	case LPAREN:
		// Struct literal: (X=1,Y=2). Kept as an opaque tuple.
		start := tokRange(p.next())
		depth := 1
		end := start
		for !p.at(EOF) && depth > 0 {
			t := p.next()
			switch t.Type {
			case LPAREN:
				depth++
			case RPAREN:
				depth--
			}
			end = tokRange(t)
		}
		return &LiteralExpr{Kind: LitTuple, R: span.Range{Start: start.Start, End: end.End}}
	}

	if tok.IsIdentLike() {
		p.next()
		// Object reference literal: Texture'Foo.Bar' or Class'Engine.Pickup'.
		if p.at(NAMELIT) {
			lit := p.next()
			r := span.Range{Start: tokRange(tok).Start, End: tokRange(lit).End}
			return &LiteralExpr{Kind: LitName, Text: lit.Lexeme, R: r}
		}
		var expr Expr = &IdentExpr{Name: identFromTok(tok)}
		for p.at(DOT) && p.peek().IsIdentLike() {
			p.next()
			expr = &DotExpr{X: expr, Sel: p.ident()}
		}
		return expr
	}

	p.errorAt(tok, "expected value in defaults block")
	return nil
}

func (p *Parser) parseObjectDecl() *ObjectDecl {
	beginTok := p.next() // Begin
	p.next()             // Object
	obj := &ObjectDecl{R: tokRange(beginTok)}

	assigns, objects := p.parseDefaultEntries(true)
	obj.Objects = objects
	for _, a := range assigns {
		switch {
		case lowerIs(a.Name.Text, "class"):
			if ident, ok := a.Value.(*IdentExpr); ok {
				obj.Class = &TypeRefNode{Name: ident.Name, R: ident.Name.R}
			}
		case lowerIs(a.Name.Text, "name"):
			if ident, ok := a.Value.(*IdentExpr); ok {
				obj.Name = ident.Name
			}
		default:
			obj.Assignments = append(obj.Assignments, a)
		}
	}

	if _, ok := p.accept(KWEND); ok {
		if endObj, ok := p.accept(KWOBJECT); ok {
			obj.R.End = tokRange(endObj).End
		}
	} else {
		p.errorAt(p.cur(), "expected 'End Object'")
	}
	return obj
}
