package parser

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	SEMI     // ";"
	COMMA    // ","
	DOT      // "."
	COLON    // ":"

	// Operators
	ASSIGN     // "="
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	PERCENT    // "%"
	AT         // "@" (string concat)
	DOLLAR     // "$" (string concat)
	EQ         // "=="
	NEQ        // "!="
	APPROX     // "~="
	LT         // "<"
	LE         // "<="
	GT         // ">"
	GE         // ">="
	ANDAND     // "&&"
	OROR       // "||"
	BANG       // "!"
	INCREMENT  // "++"
	DECREMENT  // "--"
	PLUSASSIGN // "+=", also -=, *=, /= collapsed into compound assign
	MINUSASSIGN
	STARASSIGN
	SLASHASSIGN

	// Literals & identifiers
	IDENT
	INT
	FLOAT
	STRING  // "..."
	NAMELIT // '...'

	// Keywords that shape declarations
	KWCLASS
	KWEXTENDS // also "expands"
	KWWITHIN
	KWDEPENDSON
	KWIMPLEMENTS
	KWVAR
	KWLOCAL
	KWCONST
	KWENUM
	KWSTRUCT
	KWSTATE
	KWFUNCTION
	KWEVENT
	KWDELEGATE
	KWOPERATOR
	KWPREOPERATOR
	KWPOSTOPERATOR
	KWIGNORES
	KWREPLICATION
	KWDEFAULTPROPERTIES
	KWBEGIN
	KWEND
	KWOBJECT

	// Statement keywords
	KWIF
	KWELSE
	KWFOR
	KWWHILE
	KWDO
	KWUNTIL
	KWSWITCH
	KWCASE
	KWDEFAULT
	KWBREAK
	KWCONTINUE
	KWRETURN
	KWGOTO
	KWNEW
	KWSELF
	KWSUPER
	KWGLOBAL
	KWSTATIC
	KWNONE
	KWTRUE
	KWFALSE

	// Parametrized type heads
	KWARRAY // array<T>
)

var keywords = map[string]TokenType{
	"class":             KWCLASS,
	"extends":           KWEXTENDS,
	"expands":           KWEXTENDS,
	"within":            KWWITHIN,
	"dependson":         KWDEPENDSON,
	"implements":        KWIMPLEMENTS,
	"var":               KWVAR,
	"local":             KWLOCAL,
	"const":             KWCONST,
	"enum":              KWENUM,
	"struct":            KWSTRUCT,
	"state":             KWSTATE,
	"function":          KWFUNCTION,
	"event":             KWEVENT,
	"delegate":          KWDELEGATE,
	"operator":          KWOPERATOR,
	"preoperator":       KWPREOPERATOR,
	"postoperator":      KWPOSTOPERATOR,
	"ignores":           KWIGNORES,
	"replication":       KWREPLICATION,
	"defaultproperties": KWDEFAULTPROPERTIES,
	"begin":             KWBEGIN,
	"end":               KWEND,
	"object":            KWOBJECT,
	"if":                KWIF,
	"else":              KWELSE,
	"for":               KWFOR,
	"while":             KWWHILE,
	"do":                KWDO,
	"until":             KWUNTIL,
	"switch":            KWSWITCH,
	"case":              KWCASE,
	"default":           KWDEFAULT,
	"break":             KWBREAK,
	"continue":          KWCONTINUE,
	"return":            KWRETURN,
	"goto":              KWGOTO,
	"new":               KWNEW,
	"self":              KWSELF,
	"super":             KWSUPER,
	"global":            KWGLOBAL,
	"static":            KWSTATIC,
	"none":              KWNONE,
	"true":              KWTRUE,
	"false":             KWFALSE,
	"array":             KWARRAY,
}

// Token is a lexical token with its source extent.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int // zero-based
	Col    int // zero-based
}

// IsKeyword reports whether the token is any reserved word.
func (t Token) IsKeyword() bool {
	return t.Type >= KWCLASS && t.Type <= KWARRAY
}

// IsIdentLike reports whether the token can be used where an identifier is
// expected. UnrealScript reserves few words; contextual keywords like
// "object" or "state" frequently appear as plain names.
func (t Token) IsIdentLike() bool {
	return t.Type == IDENT || t.IsKeyword()
}
