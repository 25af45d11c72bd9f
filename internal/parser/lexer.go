package parser

import (
	"strings"
)

// Lexer turns UnrealScript source text into a token stream. Macro
// substitutions are expected to have been applied already (see Preprocess).
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekAt(1) == '*':
			// Block comments nest in UnrealScript.
			l.advance()
			l.advance()
			depth := 1
			for l.pos < len(l.src) && depth > 0 {
				if l.peek() == '/' && l.peekAt(1) == '*' {
					l.advance()
					l.advance()
					depth++
				} else if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					depth--
				} else {
					l.advance()
				}
			}
		case ch == '#':
			// #exec directives are compiler-side; skip the whole line.
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token. At end of input it returns EOF forever.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: l.line, Col: l.col}
	}

	startLine, startCol := l.line, l.col
	start := l.pos
	ch := l.advance()

	mk := func(tt TokenType) Token {
		return Token{Type: tt, Lexeme: l.src[start:l.pos], Line: startLine, Col: startCol}
	}

	switch {
	case isLetter(ch):
		for l.pos < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
			l.advance()
		}
		word := l.src[start:l.pos]
		if tt, ok := keywords[strings.ToLower(word)]; ok {
			return Token{Type: tt, Lexeme: word, Line: startLine, Col: startCol}
		}
		return Token{Type: IDENT, Lexeme: word, Line: startLine, Col: startCol}

	case isDigit(ch):
		tt := INT
		if ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
			l.advance()
			for l.pos < len(l.src) && isHexDigit(l.peek()) {
				l.advance()
			}
			return mk(INT)
		}
		for l.pos < len(l.src) && isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == '.' && isDigit(l.peekAt(1)) {
			tt = FLOAT
			l.advance()
			for l.pos < len(l.src) && isDigit(l.peek()) {
				l.advance()
			}
		}
		if l.peek() == 'f' || l.peek() == 'F' {
			tt = FLOAT
			l.advance()
		}
		return mk(tt)

	case ch == '"':
		for l.pos < len(l.src) && l.peek() != '"' && l.peek() != '\n' {
			if l.peek() == '\\' {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
			}
		}
		if l.peek() == '"' {
			l.advance()
		}
		return mk(STRING)

	case ch == '\'':
		for l.pos < len(l.src) && l.peek() != '\'' && l.peek() != '\n' {
			l.advance()
		}
		if l.peek() == '\'' {
			l.advance()
		}
		return mk(NAMELIT)

	case ch == '(':
		return mk(LPAREN)
	case ch == ')':
		return mk(RPAREN)
	case ch == '{':
		return mk(LBRACE)
	case ch == '}':
		return mk(RBRACE)
	case ch == '[':
		return mk(LBRACKET)
	case ch == ']':
		return mk(RBRACKET)
	case ch == ';':
		return mk(SEMI)
	case ch == ',':
		return mk(COMMA)
	case ch == '.':
		return mk(DOT)
	case ch == ':':
		return mk(COLON)
	case ch == '@':
		return mk(AT)
	case ch == '$':
		return mk(DOLLAR)

	case ch == '=':
		if l.peek() == '=' {
			l.advance()
			return mk(EQ)
		}
		return mk(ASSIGN)
	case ch == '!':
		if l.peek() == '=' {
			l.advance()
			return mk(NEQ)
		}
		return mk(BANG)
	case ch == '~':
		if l.peek() == '=' {
			l.advance()
			return mk(APPROX)
		}
		return mk(ILLEGAL)
	case ch == '<':
		if l.peek() == '=' {
			l.advance()
			return mk(LE)
		}
		return mk(LT)
	case ch == '>':
		if l.peek() == '=' {
			l.advance()
			return mk(GE)
		}
		return mk(GT)
	case ch == '&':
		if l.peek() == '&' {
			l.advance()
			return mk(ANDAND)
		}
		return mk(ILLEGAL)
	case ch == '|':
		if l.peek() == '|' {
			l.advance()
			return mk(OROR)
		}
		return mk(ILLEGAL)
	case ch == '+':
		if l.peek() == '+' {
			l.advance()
			return mk(INCREMENT)
		}
		if l.peek() == '=' {
			l.advance()
			return mk(PLUSASSIGN)
		}
		return mk(PLUS)
	case ch == '-':
		if l.peek() == '-' {
			l.advance()
			return mk(DECREMENT)
		}
		if l.peek() == '=' {
			l.advance()
			return mk(MINUSASSIGN)
		}
		return mk(MINUS)
	case ch == '*':
		if l.peek() == '=' {
			l.advance()
			return mk(STARASSIGN)
		}
		return mk(STAR)
	case ch == '/':
		if l.peek() == '=' {
			l.advance()
			return mk(SLASHASSIGN)
		}
		return mk(SLASH)
	case ch == '%':
		return mk(PERCENT)
	}

	return mk(ILLEGAL)
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Preprocess applies configured macro substitutions to src. Occurrences of
// `name are replaced with the configured text; unknown macros are left
// untouched so the lexer reports them in place.
func Preprocess(src string, macros map[string]string) string {
	if len(macros) == 0 || !strings.Contains(src, "`") {
		return src
	}

	var out strings.Builder
	out.Grow(len(src))
	for i := 0; i < len(src); {
		if src[i] != '`' {
			out.WriteByte(src[i])
			i++
			continue
		}
		j := i + 1
		for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
			j++
		}
		name := src[i+1 : j]
		if repl, ok := macros[strings.ToLower(name)]; ok {
			out.WriteString(repl)
		} else {
			out.WriteString(src[i:j])
		}
		i = j
	}
	return out.String()
}
