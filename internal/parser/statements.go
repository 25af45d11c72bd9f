package parser

import "uls/internal/span"

func (p *Parser) parseStmt() Stmt {
	switch p.cur().Type {
	case LBRACE:
		block, _ := p.parseFunctionBody()
		return block
	case KWIF:
		return p.parseIfStmt()
	case KWWHILE:
		return p.parseWhileStmt()
	case KWDO:
		return p.parseDoUntilStmt()
	case KWFOR:
		return p.parseForStmt()
	case KWSWITCH:
		return p.parseSwitchStmt()
	case KWRETURN:
		tok := p.next()
		stmt := &ReturnStmt{R: tokRange(tok)}
		if !p.at(SEMI) && !p.at(RBRACE) {
			stmt.Value = p.parseExpr()
		}
		if semi, ok := p.accept(SEMI); ok {
			stmt.R.End = tokRange(semi).End
		}
		return stmt
	case KWBREAK, KWCONTINUE:
		tok := p.next()
		p.accept(SEMI)
		return &BreakStmt{Continue: tok.Type == KWCONTINUE, R: tokRange(tok)}
	case KWGOTO:
		return p.parseGotoStmt()
	case KWCASE:
		tok := p.next()
		stmt := &CaseStmt{R: tokRange(tok), Value: p.parseExpr()}
		p.accept(COLON)
		return stmt
	case KWDEFAULT:
		// `default:` case label vs `default.Prop` expression.
		if p.peek().Type == COLON {
			tok := p.next()
			p.next()
			return &CaseStmt{R: tokRange(tok)}
		}
	case SEMI:
		p.next()
		return nil
	case EOF, RBRACE:
		return nil
	}

	expr := p.parseExpr()
	if expr == nil {
		p.errorAt(p.cur(), "expected statement")
		p.next()
		return nil
	}
	p.accept(SEMI)
	return &ExprStmt{X: expr}
}

func (p *Parser) parseIfStmt() Stmt {
	tok := p.next()
	stmt := &IfStmt{R: tokRange(tok)}
	if _, ok := p.accept(LPAREN); ok {
		stmt.Cond = p.parseExpr()
		p.accept(RPAREN)
	}
	stmt.Then = p.parseStmt()
	if _, ok := p.accept(KWELSE); ok {
		stmt.Else = p.parseStmt()
	}
	if stmt.Else != nil {
		stmt.R.End = stmt.Else.Range().End
	} else if stmt.Then != nil {
		stmt.R.End = stmt.Then.Range().End
	}
	return stmt
}

func (p *Parser) parseWhileStmt() Stmt {
	tok := p.next()
	stmt := &WhileStmt{R: tokRange(tok)}
	if _, ok := p.accept(LPAREN); ok {
		stmt.Cond = p.parseExpr()
		p.accept(RPAREN)
	}
	stmt.Body = p.parseStmt()
	if stmt.Body != nil {
		stmt.R.End = stmt.Body.Range().End
	}
	return stmt
}

func (p *Parser) parseDoUntilStmt() Stmt {
	tok := p.next()
	stmt := &DoUntilStmt{R: tokRange(tok)}
	stmt.Body = p.parseStmt()
	if _, ok := p.accept(KWUNTIL); ok {
		if _, ok := p.accept(LPAREN); ok {
			stmt.Cond = p.parseExpr()
			if rp, ok := p.accept(RPAREN); ok {
				stmt.R.End = tokRange(rp).End
			}
		}
	}
	p.accept(SEMI)
	return stmt
}

func (p *Parser) parseForStmt() Stmt {
	tok := p.next()
	stmt := &ForStmt{R: tokRange(tok)}
	if _, ok := p.accept(LPAREN); ok {
		if !p.at(SEMI) {
			stmt.Init = p.parseExpr()
		}
		p.accept(SEMI)
		if !p.at(SEMI) {
			stmt.Cond = p.parseExpr()
		}
		p.accept(SEMI)
		if !p.at(RPAREN) {
			stmt.Post = p.parseExpr()
		}
		p.accept(RPAREN)
	}
	stmt.Body = p.parseStmt()
	if stmt.Body != nil {
		stmt.R.End = stmt.Body.Range().End
	}
	return stmt
}

func (p *Parser) parseSwitchStmt() Stmt {
	tok := p.next()
	stmt := &SwitchStmt{R: tokRange(tok)}
	if _, ok := p.accept(LPAREN); ok {
		stmt.Value = p.parseExpr()
		p.accept(RPAREN)
	}
	if _, ok := p.accept(LBRACE); ok {
		for !p.at(RBRACE) && !p.at(EOF) {
			if s := p.parseStmt(); s != nil {
				stmt.Body = append(stmt.Body, s)
			} else if !p.at(RBRACE) {
				p.next()
			}
		}
		if rb, ok := p.accept(RBRACE); ok {
			stmt.R.End = tokRange(rb).End
		}
	}
	return stmt
}

func (p *Parser) parseGotoStmt() Stmt {
	tok := p.next()
	stmt := &GotoStmt{R: tokRange(tok)}
	switch {
	case p.at(NAMELIT):
		lit := p.next()
		text := lit.Lexeme
		if len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		stmt.Label = &Ident{Text: text, R: tokRange(lit)}
		stmt.R.End = tokRange(lit).End
	case p.cur().IsIdentLike():
		stmt.Label = p.ident()
		stmt.R.End = stmt.Label.R.End
	default:
		p.errorAt(p.cur(), "expected label after 'goto'")
	}
	p.accept(SEMI)
	return stmt
}

// Expression parsing: precedence climbing.

var binaryPrecedence = map[TokenType]int{
	ASSIGN: 1, PLUSASSIGN: 1, MINUSASSIGN: 1, STARASSIGN: 1, SLASHASSIGN: 1,
	OROR:   2,
	ANDAND: 3,
	EQ:     4, NEQ: 4, APPROX: 4,
	LT: 5, LE: 5, GT: 5, GE: 5,
	AT: 6, DOLLAR: 6,
	PLUS: 7, MINUS: 7,
	STAR: 8, SLASH: 8, PERCENT: 8,
}

func (p *Parser) parseExpr() Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, ok := binaryPrecedence[p.cur().Type]
		if !ok || prec < minPrec {
			return left
		}
		op := p.next()
		// Assignment is right-associative, everything else left.
		nextMin := prec + 1
		if prec == 1 {
			nextMin = prec
		}
		right := p.parseBinary(nextMin)
		if right == nil {
			p.errorAt(p.cur(), "expected expression after %q", op.Lexeme)
			return left
		}
		left = &BinaryExpr{Op: op.Type, X: left, Y: right}
	}
}

func (p *Parser) parseUnary() Expr {
	switch p.cur().Type {
	case BANG, MINUS, INCREMENT, DECREMENT:
		op := p.next()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &UnaryExpr{Op: op.Type, X: x, R: span.Range{Start: tokRange(op).Start, End: x.Range().End}}
	case KWNEW:
		tok := p.next()
		p.skipParenGroup() // optional outer: new (self) Class
		x := p.parseUnary()
		r := tokRange(tok)
		if x != nil {
			r.End = x.Range().End
		}
		return &NewExpr{Class: x, R: r}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	x := p.parsePrimary()
	if x == nil {
		return nil
	}
	for {
		switch p.cur().Type {
		case DOT:
			if !p.peek().IsIdentLike() {
				p.next()
				return x
			}
			p.next()
			sel := p.ident()
			x = &DotExpr{X: x, Sel: sel}
		case LPAREN:
			lp := p.next()
			call := &CallExpr{Fun: x, R: span.Range{Start: x.Range().Start, End: tokRange(lp).End}}
			for !p.at(RPAREN) && !p.at(EOF) {
				if p.at(COMMA) {
					// Skipped optional argument.
					p.next()
					continue
				}
				arg := p.parseExpr()
				if arg == nil {
					break
				}
				call.Args = append(call.Args, arg)
				if _, ok := p.accept(COMMA); !ok {
					break
				}
			}
			if rp, ok := p.accept(RPAREN); ok {
				call.R.End = tokRange(rp).End
			}
			x = call
		case LBRACKET:
			lb := p.next()
			idx := &IndexExpr{X: x, R: span.Range{Start: x.Range().Start, End: tokRange(lb).End}}
			idx.Index = p.parseExpr()
			if rb, ok := p.accept(RBRACKET); ok {
				idx.R.End = tokRange(rb).End
			}
			x = idx
		case INCREMENT, DECREMENT:
			op := p.next()
			x = &UnaryExpr{Op: op.Type, X: x, Postfix: true,
				R: span.Range{Start: x.Range().Start, End: tokRange(op).End}}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() Expr {
	tok := p.cur()
	switch tok.Type {
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
	case KWSELF:
		p.next()
		return &SelfExpr{R: tokRange(tok)}
	case KWSUPER:
		p.next()
		expr := &SuperExpr{R: tokRange(tok)}
		if _, ok := p.accept(LPAREN); ok {
			expr.Class = p.ident()
			if rp, ok := p.accept(RPAREN); ok {
				expr.R.End = tokRange(rp).End
			}
		}
		return expr
	case KWDEFAULT, KWSTATIC, KWGLOBAL:
		p.next()
		return &ContextKeywordExpr{Keyword: tok.Type, R: tokRange(tok)}
	case LPAREN:
		lp := p.next()
		inner := p.parseExpr()
		expr := &ParenExpr{X: inner, R: tokRange(lp)}
		if rp, ok := p.accept(RPAREN); ok {
			expr.R.End = tokRange(rp).End
		}
		if inner == nil {
			return nil
		}
		return expr
	case KWCLASS:
		// class'Engine.Pickup' literal or class<Actor> cast.
		p.next()
		if p.at(NAMELIT) {
			lit := p.next()
			r := span.Range{Start: tokRange(tok).Start, End: tokRange(lit).End}
			return &LiteralExpr{Kind: LitName, Text: lit.Lexeme, R: r}
		}
		return &IdentExpr{Name: identFromTok(tok)}
	}
	if tok.IsIdentLike() {
		p.next()
		// Object name literal: Texture'Foo.Bar'.
		if p.at(NAMELIT) {
			lit := p.next()
			r := span.Range{Start: tokRange(tok).Start, End: tokRange(lit).End}
			return &LiteralExpr{Kind: LitName, Text: lit.Lexeme, R: r}
		}
		return &IdentExpr{Name: identFromTok(tok)}
	}
	return nil
}
