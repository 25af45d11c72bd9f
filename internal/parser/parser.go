// Package parser provides the UnrealScript front-end: a lexer, a resilient
// recursive-descent parser producing a concrete parse tree, and the Walk
// enter/exit protocol the structural builder consumes.
//
// The parser never aborts on malformed input. A declaration missing required
// tokens is recorded as a diagnostic and skipped, and parsing resumes at the
// next plausible declaration boundary, because it runs on every
// keystroke-driven reparse.
package parser

import (
	"fmt"

	"uls/internal/span"
)

// Parser parses one document.
type Parser struct {
	toks  []Token
	pos   int
	diags []Diagnostic
}

// Parse lexes and parses src, returning the parse tree and any syntax
// diagnostics. The tree is best-effort: it is always non-nil, but Class may
// be nil for include fragments or files with no class header.
func Parse(src string, macros map[string]string) (*File, []Diagnostic) {
	lex := NewLexer(Preprocess(src, macros))
	var toks []Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}

	p := &Parser{toks: toks}
	file := p.parseFile()
	return file, p.diags
}

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) next() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(tt TokenType) bool { return p.cur().Type == tt }

func (p *Parser) accept(tt TokenType) (Token, bool) {
	if p.at(tt) {
		return p.next(), true
	}
	return Token{}, false
}

func tokRange(tok Token) span.Range {
	return span.Range{
		Start: span.Position{Line: tok.Line, Character: tok.Col},
		End:   span.Position{Line: tok.Line, Character: tok.Col + len(tok.Lexeme)},
	}
}

func (p *Parser) errorAt(tok Token, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{R: tokRange(tok), Message: fmt.Sprintf(format, args...)})
}

// ident consumes an identifier-like token. Keywords are accepted because
// UnrealScript allows most of them as plain names outside their context.
func (p *Parser) ident() *Ident {
	if !p.cur().IsIdentLike() {
		return nil
	}
	tok := p.next()
	return &Ident{Text: tok.Lexeme, R: tokRange(tok)}
}

func identFromTok(tok Token) *Ident {
	return &Ident{Text: tok.Lexeme, R: tokRange(tok)}
}

// syncDecl skips tokens until a declaration boundary: a semicolon (consumed)
// or a token that can begin a new member.
func (p *Parser) syncDecl() {
	depth := 0
	for !p.at(EOF) {
		switch p.cur().Type {
		case SEMI:
			if depth == 0 {
				p.next()
				return
			}
			p.next()
		case LBRACE:
			depth++
			p.next()
		case RBRACE:
			if depth == 0 {
				return
			}
			depth--
			p.next()
		case KWVAR, KWCONST, KWENUM, KWSTRUCT, KWSTATE, KWFUNCTION, KWEVENT,
			KWDELEGATE, KWREPLICATION, KWDEFAULTPROPERTIES:
			if depth == 0 {
				return
			}
			p.next()
		default:
			p.next()
		}
	}
}

// skipBalancedBraces consumes a `{ ... }` group, used for cpptext blocks.
func (p *Parser) skipBalancedBraces() {
	if !p.at(LBRACE) {
		return
	}
	depth := 0
	for !p.at(EOF) {
		switch p.next().Type {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) parseFile() *File {
	file := &File{}
	if p.at(EOF) {
		return file
	}
	start := tokRange(p.cur()).Start

	if p.at(KWCLASS) {
		file.Class = p.parseClass()
	} else {
		// Include fragment: no class header. Nothing structural to build,
		// but note it so the document is not silently empty.
		p.errorAt(p.cur(), "expected 'class' declaration")
	}

	end := tokRange(p.toks[len(p.toks)-1]).End
	file.R = span.Range{Start: start, End: end}
	return file
}

func (p *Parser) parseClass() *ClassDecl {
	classTok := p.next() // 'class'
	decl := &ClassDecl{}
	decl.R.Start = tokRange(classTok).Start

	decl.Name = p.ident()
	if decl.Name == nil {
		p.errorAt(p.cur(), "expected class name")
	}

	// Header clauses and modifiers, in any order, until ';'.
	for !p.at(SEMI) && !p.at(EOF) {
		switch p.cur().Type {
		case KWEXTENDS:
			p.next()
			decl.Extends = p.parseTypeRef()
		case KWWITHIN:
			p.next()
			decl.Within = p.parseTypeRef()
		case KWDEPENDSON:
			p.next()
			decl.DependsOn = append(decl.DependsOn, p.parseTypeRefList()...)
		case KWIMPLEMENTS:
			p.next()
			decl.Implements = append(decl.Implements, p.parseTypeRefList()...)
		default:
			if p.cur().IsIdentLike() {
				decl.Modifiers = append(decl.Modifiers, identFromTok(p.next()))
				p.skipParenGroup()
			} else {
				p.errorAt(p.cur(), "unexpected token %q in class header", p.cur().Lexeme)
				p.next()
			}
		}
	}
	p.accept(SEMI)

	for !p.at(EOF) {
		if m := p.parseClassMember(); m != nil {
			decl.Members = append(decl.Members, m)
		}
	}

	decl.R.End = tokRange(p.toks[len(p.toks)-1]).End
	return decl
}

// skipParenGroup consumes a balanced parenthesized group if present, used
// for modifier arguments like config(Game) or native(262).
func (p *Parser) skipParenGroup() {
	if !p.at(LPAREN) {
		return
	}
	depth := 0
	for !p.at(EOF) {
		switch p.next().Type {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) parseTypeRefList() []*TypeRefNode {
	var refs []*TypeRefNode
	if _, ok := p.accept(LPAREN); !ok {
		return refs
	}
	for !p.at(RPAREN) && !p.at(EOF) {
		if ref := p.parseTypeRef(); ref != nil {
			refs = append(refs, ref)
		} else {
			p.next()
		}
		p.accept(COMMA)
	}
	p.accept(RPAREN)
	return refs
}

// parseTypeRef parses a (possibly qualified, possibly parametrized) type
// reference: Pickup, Engine.Pickup, class<Actor>, array<Foo>.
func (p *Parser) parseTypeRef() *TypeRefNode {
	if p.at(KWCLASS) || p.at(KWARRAY) {
		head := p.next()
		ref := &TypeRefNode{Name: identFromTok(head), R: tokRange(head)}
		if _, ok := p.accept(LT); ok {
			ref.Inner = p.parseTypeRef()
			if gt, ok := p.accept(GT); ok {
				ref.R.End = tokRange(gt).End
			} else if ref.Inner != nil {
				ref.R.End = ref.Inner.R.End
			}
		}
		return ref
	}

	if !p.cur().IsIdentLike() {
		return nil
	}
	first := p.next()
	ref := &TypeRefNode{Name: identFromTok(first), R: tokRange(first)}

	// Qualified reference: keep the last segment as the name, the whole
	// extent as the range. Resolution searches both the global table and
	// the context chain, so the qualifier is not needed for lookup.
	for p.at(DOT) && p.peek().IsIdentLike() {
		p.next()
		seg := p.next()
		ref.Name = identFromTok(seg)
		ref.R.End = tokRange(seg).End
	}
	return ref
}

// classMemberStart tokens begin a member declaration after modifiers.
var memberKeywords = map[TokenType]bool{
	KWVAR: true, KWCONST: true, KWENUM: true, KWSTRUCT: true, KWSTATE: true,
	KWFUNCTION: true, KWEVENT: true, KWDELEGATE: true, KWOPERATOR: true,
	KWPREOPERATOR: true, KWPOSTOPERATOR: true, KWREPLICATION: true,
	KWDEFAULTPROPERTIES: true,
}

func (p *Parser) parseClassMember() Node {
	// Leading modifiers: simulated, native(n), static, final, exec, auto...
	var mods []*Ident
	for {
		tok := p.cur()
		if memberKeywords[tok.Type] {
			break
		}
		if tok.Type == IDENT || tok.Type == KWSTATIC {
			// cpptext { ... } is compiler-side; skip it whole.
			if tok.Type == IDENT && p.peek().Type == LBRACE &&
				(lowerIs(tok.Lexeme, "cpptext") || lowerIs(tok.Lexeme, "structcpptext")) {
				p.next()
				p.skipBalancedBraces()
				return nil
			}
			mods = append(mods, identFromTok(p.next()))
			p.skipParenGroup()
			continue
		}
		if tok.Type == SEMI {
			p.next()
			return nil
		}
		p.errorAt(tok, "unexpected token %q at class scope", tok.Lexeme)
		if p.at(RBRACE) {
			p.next()
		} else {
			p.syncDecl()
		}
		return nil
	}

	// The decl helpers return typed pointers and yield nil on malformed
	// input; returning one directly would put a non-nil Node holding a nil
	// pointer into the member list.
	switch p.cur().Type {
	case KWVAR:
		if d := p.parseVarDecl(mods); d != nil {
			return d
		}
	case KWCONST:
		if d := p.parseConstDecl(); d != nil {
			return d
		}
	case KWENUM:
		d := p.parseEnumDecl()
		p.accept(SEMI)
		return d
	case KWSTRUCT:
		d := p.parseStructDecl()
		p.accept(SEMI)
		return d
	case KWSTATE:
		if d := p.parseStateDecl(mods); d != nil {
			return d
		}
	case KWFUNCTION, KWEVENT, KWDELEGATE, KWOPERATOR, KWPREOPERATOR, KWPOSTOPERATOR:
		if d := p.parseFunctionDecl(mods); d != nil {
			return d
		}
	case KWREPLICATION:
		return p.parseReplicationDecl()
	case KWDEFAULTPROPERTIES:
		return p.parseDefaultPropertiesDecl()
	}
	return nil
}

func lowerIs(s, want string) bool {
	if len(s) != len(want) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

func (p *Parser) parseConstDecl() *ConstDecl {
	constTok := p.next()
	decl := &ConstDecl{R: tokRange(constTok)}
	decl.Name = p.ident()
	if decl.Name == nil {
		p.errorAt(p.cur(), "expected constant name")
		p.syncDecl()
		return nil
	}
	if _, ok := p.accept(ASSIGN); ok {
		decl.Value = p.parseExpr()
	}
	if semi, ok := p.accept(SEMI); ok {
		decl.R.End = tokRange(semi).End
	} else if decl.Value != nil {
		decl.R.End = decl.Value.Range().End
	}
	return decl
}

// parseTypeSyntax parses the type position of a var/local declaration,
// including inline enum/struct declarations.
func (p *Parser) parseTypeSyntax() *TypeSyntax {
	switch p.cur().Type {
	case KWENUM:
		return &TypeSyntax{InlineEnum: p.parseEnumDecl()}
	case KWSTRUCT:
		return &TypeSyntax{InlineStruct: p.parseStructDecl()}
	default:
		return &TypeSyntax{Ref: p.parseTypeRef()}
	}
}

func (p *Parser) parseVarDecl(mods []*Ident) *VarDecl {
	varTok := p.next()
	decl := &VarDecl{Modifiers: mods, R: tokRange(varTok)}
	p.skipParenGroup() // editor category: var(Display)

	// Modifier idents precede the type; the last ident-like unit before the
	// declarator list is the type.
	decl.Type = p.parseVarTypeAndModifiers(decl)
	if decl.Type == nil {
		p.errorAt(p.cur(), "expected type in var declaration")
		p.syncDecl()
		return nil
	}

	p.parseVarNames(&decl.Names)
	if len(decl.Names) == 0 {
		p.errorAt(p.cur(), "expected variable name")
		p.syncDecl()
		return nil
	}
	if semi, ok := p.accept(SEMI); ok {
		decl.R.End = tokRange(semi).End
	} else {
		decl.R.End = decl.Names[len(decl.Names)-1].R.End
	}
	return decl
}

// parseVarTypeAndModifiers reads ident units until the unit that must be the
// type: the one directly followed by a declarator name.
func (p *Parser) parseVarTypeAndModifiers(decl *VarDecl) *TypeSyntax {
	if p.at(KWENUM) || p.at(KWSTRUCT) || p.at(KWCLASS) || p.at(KWARRAY) {
		return p.parseTypeSyntax()
	}
	for {
		if !p.cur().IsIdentLike() {
			return nil
		}
		// Lookahead: qualified/plain unit followed by another ident-like
		// token that is itself followed by a declarator terminator means
		// the current unit is a modifier.
		if p.peek().IsIdentLike() && p.isModifierWord(p.cur().Lexeme) {
			decl.Modifiers = append(decl.Modifiers, identFromTok(p.next()))
			continue
		}
		return &TypeSyntax{Ref: p.parseTypeRef()}
	}
}

var varModifiers = map[string]bool{
	"config": true, "globalconfig": true, "localized": true, "transient": true,
	"native": true, "const": true, "editconst": true, "private": true,
	"protected": true, "public": true, "travel": true, "input": true,
	"export": true, "noexport": true, "deprecated": true, "edfindable": true,
}

func (p *Parser) isModifierWord(word string) bool {
	for known := range varModifiers {
		if lowerIs(word, known) {
			return true
		}
	}
	return false
}

func (p *Parser) parseVarNames(out *[]*VarName) {
	for {
		name := p.ident()
		if name == nil {
			return
		}
		vn := &VarName{Name: name, R: name.R}
		if _, ok := p.accept(LBRACKET); ok {
			vn.ArrayDim = p.parseExpr()
			if rb, ok := p.accept(RBRACKET); ok {
				vn.R.End = tokRange(rb).End
			}
		}
		*out = append(*out, vn)
		if _, ok := p.accept(COMMA); !ok {
			return
		}
	}
}

func (p *Parser) parseEnumDecl() *EnumDecl {
	enumTok := p.next()
	decl := &EnumDecl{R: tokRange(enumTok)}
	decl.Name = p.ident()
	if decl.Name == nil {
		p.errorAt(p.cur(), "expected enum name")
	}
	if _, ok := p.accept(LBRACE); !ok {
		p.errorAt(p.cur(), "expected '{' in enum declaration")
		p.syncDecl()
		return decl
	}
	for !p.at(RBRACE) && !p.at(EOF) {
		if member := p.ident(); member != nil {
			decl.Members = append(decl.Members, member)
		} else {
			p.next()
		}
		p.accept(COMMA)
	}
	if rb, ok := p.accept(RBRACE); ok {
		decl.R.End = tokRange(rb).End
	}
	return decl
}

func (p *Parser) parseStructDecl() *StructDecl {
	structTok := p.next()
	decl := &StructDecl{R: tokRange(structTok)}

	// Struct modifiers (native, export) come before the name; the name is
	// the last ident before extends/{. IsIdentLike accepts keywords, so the
	// extends clause must terminate the loop explicitly.
	var last *Ident
	for p.cur().IsIdentLike() && !p.at(KWEXTENDS) {
		last = identFromTok(p.next())
	}
	decl.Name = last
	if decl.Name == nil {
		p.errorAt(p.cur(), "expected struct name")
	}
	if _, ok := p.accept(KWEXTENDS); ok {
		decl.Extends = p.parseTypeRef()
	}
	if _, ok := p.accept(LBRACE); !ok {
		p.errorAt(p.cur(), "expected '{' in struct declaration")
		p.syncDecl()
		return decl
	}
	for !p.at(RBRACE) && !p.at(EOF) {
		switch p.cur().Type {
		case KWVAR:
			if m := p.parseVarDecl(nil); m != nil {
				decl.Members = append(decl.Members, m)
			}
		case KWENUM:
			decl.Members = append(decl.Members, p.parseEnumDecl())
			p.accept(SEMI)
		case KWSTRUCT:
			decl.Members = append(decl.Members, p.parseStructDecl())
			p.accept(SEMI)
		case SEMI:
			p.next()
		default:
			if p.cur().Type == IDENT && p.peek().Type == LBRACE {
				p.next()
				p.skipBalancedBraces()
				continue
			}
			p.errorAt(p.cur(), "unexpected token %q in struct body", p.cur().Lexeme)
			p.syncDecl()
		}
	}
	if rb, ok := p.accept(RBRACE); ok {
		decl.R.End = tokRange(rb).End
	}
	return decl
}

func (p *Parser) parseStateDecl(mods []*Ident) *StateDecl {
	stateTok := p.next()
	decl := &StateDecl{Modifiers: mods, R: tokRange(stateTok)}
	p.skipParenGroup() // editable brackets: state()

	decl.Name = p.ident()
	if decl.Name == nil {
		p.errorAt(p.cur(), "expected state name")
		p.syncDecl()
		return nil
	}
	if _, ok := p.accept(KWEXTENDS); ok {
		decl.Extends = p.parseTypeRef()
	}
	if _, ok := p.accept(LBRACE); !ok {
		p.errorAt(p.cur(), "expected '{' in state declaration")
		p.syncDecl()
		return decl
	}

	var code []Stmt
	for !p.at(RBRACE) && !p.at(EOF) {
		switch p.cur().Type {
		case KWIGNORES:
			p.next()
			for p.cur().IsIdentLike() {
				decl.Ignores = append(decl.Ignores, p.ident())
				if _, ok := p.accept(COMMA); !ok {
					break
				}
			}
			p.accept(SEMI)
		case KWFUNCTION, KWEVENT:
			if fn := p.parseFunctionDecl(nil); fn != nil {
				decl.Functions = append(decl.Functions, fn)
			}
		case KWLOCAL:
			if l := p.parseLocalDecl(); l != nil {
				decl.Locals = append(decl.Locals, l)
			}
		case SEMI:
			p.next()
		default:
			// Function modifiers, or a state-code label, or a statement.
			if p.cur().IsIdentLike() && p.peek().Type == COLON {
				labelTok := p.next()
				colon := p.next()
				label := &LabelStmt{
					Name: identFromTok(labelTok),
					R:    span.Range{Start: tokRange(labelTok).Start, End: tokRange(colon).End},
				}
				decl.Labels = append(decl.Labels, label)
				code = append(code, label)
				continue
			}
			if p.functionFollows() {
				if fn := p.parseFunctionDecl(nil); fn != nil {
					decl.Functions = append(decl.Functions, fn)
				}
				continue
			}
			if stmt := p.parseStmt(); stmt != nil {
				code = append(code, stmt)
			} else {
				p.next()
			}
		}
	}
	if rb, ok := p.accept(RBRACE); ok {
		decl.R.End = tokRange(rb).End
	}
	if len(code) > 0 {
		decl.Body = &Block{Stmts: code, R: decl.R}
	}
	return decl
}

// functionFollows reports whether the upcoming tokens are function modifiers
// followed by a function/event keyword.
func (p *Parser) functionFollows() bool {
	for i := p.pos; i < len(p.toks) && i < p.pos+8; i++ {
		switch p.toks[i].Type {
		case KWFUNCTION, KWEVENT, KWDELEGATE:
			return true
		case IDENT, KWSTATIC:
			continue
		default:
			return false
		}
	}
	return false
}

func (p *Parser) parseFunctionDecl(mods []*Ident) *FunctionDecl {
	// Leading modifiers not yet consumed (state scope path).
	for p.cur().Type == IDENT || p.cur().Type == KWSTATIC {
		mods = append(mods, identFromTok(p.next()))
		p.skipParenGroup()
	}

	kindTok := p.next()
	decl := &FunctionDecl{Modifiers: mods, R: tokRange(kindTok)}
	switch kindTok.Type {
	case KWEVENT:
		decl.Kind = FuncEvent
	case KWDELEGATE:
		decl.Kind = FuncDelegate
	case KWOPERATOR:
		decl.Kind = FuncOperator
	case KWPREOPERATOR:
		decl.Kind = FuncPreOperator
	case KWPOSTOPERATOR:
		decl.Kind = FuncPostOperator
	default:
		decl.Kind = FuncFunction
	}

	if decl.Kind == FuncOperator || decl.Kind == FuncPreOperator || decl.Kind == FuncPostOperator {
		p.skipParenGroup() // precedence: operator(22)
		decl.Return = p.parseTypeRef()
		// The operator symbol is whatever sits before the parameter list.
		opStart := p.cur()
		opText := ""
		for !p.at(LPAREN) && !p.at(EOF) && !p.at(SEMI) {
			opText += p.next().Lexeme
		}
		if opText == "" {
			p.errorAt(opStart, "expected operator symbol")
			p.syncDecl()
			return nil
		}
		decl.Name = &Ident{Text: opText, R: tokRange(opStart)}
	} else {
		// Either `Type Name(...)` or `Name(...)`.
		first := p.parseTypeRef()
		if first == nil {
			p.errorAt(p.cur(), "expected function name")
			p.syncDecl()
			return nil
		}
		if p.at(LPAREN) {
			decl.Name = first.Name
		} else {
			decl.Return = first
			decl.Name = p.ident()
			if decl.Name == nil {
				p.errorAt(p.cur(), "expected function name")
				p.syncDecl()
				return nil
			}
		}
	}

	if _, ok := p.accept(LPAREN); ok {
		for !p.at(RPAREN) && !p.at(EOF) {
			if param := p.parseParamDecl(); param != nil {
				decl.Params = append(decl.Params, param)
			} else {
				p.next()
			}
			p.accept(COMMA)
		}
		if rp, ok := p.accept(RPAREN); ok {
			decl.R.End = tokRange(rp).End
		}
	}

	if p.at(LBRACE) {
		decl.Body, decl.Locals = p.parseFunctionBody()
		decl.R.End = decl.Body.R.End
	} else if semi, ok := p.accept(SEMI); ok {
		decl.R.End = tokRange(semi).End
	}
	return decl
}

var paramModifiers = map[string]bool{
	"out": true, "optional": true, "coerce": true, "skip": true, "const": true,
}

func (p *Parser) parseParamDecl() *ParamDecl {
	decl := &ParamDecl{}
	for p.cur().Type == IDENT {
		word := p.cur().Lexeme
		isMod := false
		for known := range paramModifiers {
			if lowerIs(word, known) {
				isMod = true
				break
			}
		}
		if !isMod || !p.peek().IsIdentLike() {
			break
		}
		decl.Modifiers = append(decl.Modifiers, identFromTok(p.next()))
	}

	decl.Type = p.parseTypeRef()
	if decl.Type == nil {
		return nil
	}
	decl.Name = p.ident()
	if decl.Name == nil {
		return nil
	}
	decl.R = span.Range{Start: decl.Type.R.Start, End: decl.Name.R.End}
	if _, ok := p.accept(LBRACKET); ok {
		p.parseExpr()
		p.accept(RBRACKET)
	}
	if _, ok := p.accept(ASSIGN); ok {
		decl.Default = p.parseExpr()
	}
	return decl
}

func (p *Parser) parseFunctionBody() (*Block, []*LocalDecl) {
	lb := p.next() // '{'
	block := &Block{R: tokRange(lb)}
	var locals []*LocalDecl

	for p.at(KWLOCAL) {
		if l := p.parseLocalDecl(); l != nil {
			locals = append(locals, l)
		}
	}
	for !p.at(RBRACE) && !p.at(EOF) {
		if p.at(KWLOCAL) {
			// Tolerated out-of-order local; still collected.
			if l := p.parseLocalDecl(); l != nil {
				locals = append(locals, l)
			}
			continue
		}
		if stmt := p.parseStmt(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		} else {
			p.next()
		}
	}
	if rb, ok := p.accept(RBRACE); ok {
		block.R.End = tokRange(rb).End
	}
	return block, locals
}

func (p *Parser) parseLocalDecl() *LocalDecl {
	localTok := p.next()
	decl := &LocalDecl{R: tokRange(localTok)}
	decl.Type = p.parseTypeSyntax()
	if decl.Type == nil || (decl.Type.Ref == nil && decl.Type.InlineEnum == nil && decl.Type.InlineStruct == nil) {
		p.errorAt(p.cur(), "expected type in local declaration")
		p.syncDecl()
		return nil
	}
	p.parseVarNames(&decl.Names)
	if len(decl.Names) == 0 {
		p.errorAt(p.cur(), "expected local variable name")
		p.syncDecl()
		return nil
	}
	if semi, ok := p.accept(SEMI); ok {
		decl.R.End = tokRange(semi).End
	}
	return decl
}

func (p *Parser) parseReplicationDecl() *ReplicationDecl {
	repTok := p.next()
	decl := &ReplicationDecl{R: tokRange(repTok)}
	if _, ok := p.accept(LBRACE); !ok {
		p.errorAt(p.cur(), "expected '{' in replication block")
		p.syncDecl()
		return decl
	}
	for !p.at(RBRACE) && !p.at(EOF) {
		// reliable/unreliable modifiers before the condition.
		for p.cur().Type == IDENT {
			p.next()
		}
		if _, ok := p.accept(KWIF); !ok {
			p.errorAt(p.cur(), "expected 'if' in replication statement")
			p.syncDecl()
			continue
		}
		stmt := &ReplicationStmt{R: tokRange(p.cur())}
		if _, ok := p.accept(LPAREN); ok {
			stmt.Cond = p.parseExpr()
			p.accept(RPAREN)
		}
		for p.cur().IsIdentLike() {
			stmt.Names = append(stmt.Names, p.ident())
			if _, ok := p.accept(COMMA); !ok {
				break
			}
		}
		p.accept(SEMI)
		decl.Statements = append(decl.Statements, stmt)
	}
	if rb, ok := p.accept(RBRACE); ok {
		decl.R.End = tokRange(rb).End
	}
	return decl
}
