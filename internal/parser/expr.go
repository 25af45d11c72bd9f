package parser

import "uls/internal/span"

// Expr is any expression production.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement production.
type Stmt interface {
	Node
	stmtNode()
}

// IdentExpr is a bare identifier reference.
type IdentExpr struct {
	Name *Ident
}

func (e *IdentExpr) Range() span.Range { return e.Name.R }
func (e *IdentExpr) exprNode()         {}

// LiteralKind classifies literal expressions.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitName
	LitBool
	LitNone
	LitTuple // parenthesized struct literal in a defaults block, kept as raw text
)

// LiteralExpr is a literal value.
type LiteralExpr struct {
	Kind LiteralKind
	Text string
	R    span.Range
}

func (e *LiteralExpr) Range() span.Range { return e.R }
func (e *LiteralExpr) exprNode()         {}

// DotExpr is member access `X.Sel`.
type DotExpr struct {
	X   Expr
	Sel *Ident
}

func (e *DotExpr) Range() span.Range {
	return span.Range{Start: e.X.Range().Start, End: e.Sel.R.End}
}
func (e *DotExpr) exprNode() {}

// CallExpr is `Fun(args)`.
type CallExpr struct {
	Fun  Expr
	Args []Expr
	R    span.Range
}

func (e *CallExpr) Range() span.Range { return e.R }
func (e *CallExpr) exprNode()         {}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	X     Expr
	Index Expr
	R     span.Range
}

func (e *IndexExpr) Range() span.Range { return e.R }
func (e *IndexExpr) exprNode()         {}

// BinaryExpr covers binary operators including assignment.
type BinaryExpr struct {
	Op TokenType
	X  Expr
	Y  Expr
}

func (e *BinaryExpr) Range() span.Range {
	return span.Range{Start: e.X.Range().Start, End: e.Y.Range().End}
}
func (e *BinaryExpr) exprNode() {}

// UnaryExpr covers prefix and postfix operators.
type UnaryExpr struct {
	Op      TokenType
	X       Expr
	Postfix bool
	R       span.Range
}

func (e *UnaryExpr) Range() span.Range { return e.R }
func (e *UnaryExpr) exprNode()         {}

// ParenExpr is `(X)`.
type ParenExpr struct {
	X Expr
	R span.Range
}

func (e *ParenExpr) Range() span.Range { return e.R }
func (e *ParenExpr) exprNode()         {}

// NewExpr is `new Class` or `new (outer) Class`.
type NewExpr struct {
	Class Expr
	R     span.Range
}

func (e *NewExpr) Range() span.Range { return e.R }
func (e *NewExpr) exprNode()         {}

// SelfExpr is the `self` keyword.
type SelfExpr struct {
	R span.Range
}

func (e *SelfExpr) Range() span.Range { return e.R }
func (e *SelfExpr) exprNode()         {}

// SuperExpr is `super` or `super(ClassName)`.
type SuperExpr struct {
	Class *Ident // optional explicit class
	R     span.Range
}

func (e *SuperExpr) Range() span.Range { return e.R }
func (e *SuperExpr) exprNode()         {}

// ContextKeywordExpr covers `default`, `static` and `global` used as
// expression context prefixes (default.Prop, static.Fn()).
type ContextKeywordExpr struct {
	Keyword TokenType
	R       span.Range
}

func (e *ContextKeywordExpr) Range() span.Range { return e.R }
func (e *ContextKeywordExpr) exprNode()         {}

// Block is a braced statement list.
type Block struct {
	Stmts []Stmt
	R     span.Range
}

func (b *Block) Range() span.Range { return b.R }
func (b *Block) stmtNode()         {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Range() span.Range { return s.X.Range() }
func (s *ExprStmt) stmtNode()         {}

// IfStmt is `if (cond) then else other`.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	R    span.Range
}

func (s *IfStmt) Range() span.Range { return s.R }
func (s *IfStmt) stmtNode()         {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	R    span.Range
}

func (s *WhileStmt) Range() span.Range { return s.R }
func (s *WhileStmt) stmtNode()         {}

// DoUntilStmt is `do { body } until (cond);`.
type DoUntilStmt struct {
	Body Stmt
	Cond Expr
	R    span.Range
}

func (s *DoUntilStmt) Range() span.Range { return s.R }
func (s *DoUntilStmt) stmtNode()         {}

// ForStmt is `for (init; cond; post) body`.
type ForStmt struct {
	Init Expr
	Cond Expr
	Post Expr
	Body Stmt
	R    span.Range
}

func (s *ForStmt) Range() span.Range { return s.R }
func (s *ForStmt) stmtNode()         {}

// SwitchStmt is `switch (x) { case a: ... default: ... }`. Case bodies are
// flattened into one statement list; CaseStmt nodes mark the labels.
type SwitchStmt struct {
	Value Expr
	Body  []Stmt
	R     span.Range
}

func (s *SwitchStmt) Range() span.Range { return s.R }
func (s *SwitchStmt) stmtNode()         {}

// CaseStmt marks `case X:` or `default:` inside a switch.
type CaseStmt struct {
	Value Expr // nil for default
	R     span.Range
}

func (s *CaseStmt) Range() span.Range { return s.R }
func (s *CaseStmt) stmtNode()         {}

// ReturnStmt is `return expr;`.
type ReturnStmt struct {
	Value Expr // may be nil
	R     span.Range
}

func (s *ReturnStmt) Range() span.Range { return s.R }
func (s *ReturnStmt) stmtNode()         {}

// BreakStmt is `break;` or `continue;`.
type BreakStmt struct {
	Continue bool
	R        span.Range
}

func (s *BreakStmt) Range() span.Range { return s.R }
func (s *BreakStmt) stmtNode()         {}

// GotoStmt is `goto 'Label'` or `goto Label`.
type GotoStmt struct {
	Label *Ident
	R     span.Range
}

func (s *GotoStmt) Range() span.Range { return s.R }
func (s *GotoStmt) stmtNode()         {}

// LabelStmt is `Label:` in state code.
type LabelStmt struct {
	Name *Ident
	R    span.Range
}

func (s *LabelStmt) Range() span.Range { return s.R }
func (s *LabelStmt) stmtNode()         {}
