package parser

import "uls/internal/span"

// Node is any production in the concrete parse tree. The structural builder
// consumes the tree through Walk, which fires an enter event, descends into
// sub-productions, then fires an exit event.
type Node interface {
	Range() span.Range
}

// Ident is an identifier token with its extent.
type Ident struct {
	Text string
	R    span.Range
}

func (i *Ident) Range() span.Range { return i.R }

// IsValid reports whether the identifier was actually present in the source.
// Malformed declarations produce nil or invalid idents and are skipped by the
// builder rather than aborting the walk.
func (i *Ident) IsValid() bool { return i != nil && i.Text != "" }

// TypeRefNode names a type syntactically: `Pickup`, `class<Actor>`,
// `array<Foo>`. Inner is set for parametrized types.
type TypeRefNode struct {
	Name  *Ident
	Inner *TypeRefNode
	R     span.Range
}

func (t *TypeRefNode) Range() span.Range { return t.R }

// File is the root production for one source file.
type File struct {
	Class *ClassDecl
	R     span.Range
}

func (f *File) Range() span.Range { return f.R }

// ClassDecl is the class header plus all member declarations.
type ClassDecl struct {
	Name       *Ident
	Extends    *TypeRefNode
	Within     *TypeRefNode
	DependsOn  []*TypeRefNode
	Implements []*TypeRefNode
	Modifiers  []*Ident
	Members    []Node
	R          span.Range
}

func (c *ClassDecl) Range() span.Range { return c.R }

// ConstDecl is `const Name = literal;`.
type ConstDecl struct {
	Name  *Ident
	Value Expr
	R     span.Range
}

func (c *ConstDecl) Range() span.Range { return c.R }

// VarName is one declarator in a var/local declaration, with an optional
// static array dimension (integer literal or enum-constant reference).
type VarName struct {
	Name     *Ident
	ArrayDim Expr
	R        span.Range
}

func (v *VarName) Range() span.Range { return v.R }

// TypeSyntax is the type position of a var/local/param declaration. Exactly
// one field is set: a plain reference, or an inline enum/struct declaration.
type TypeSyntax struct {
	Ref          *TypeRefNode
	InlineEnum   *EnumDecl
	InlineStruct *StructDecl
}

// Range returns the extent of whichever alternative is present.
func (t *TypeSyntax) Range() span.Range {
	switch {
	case t.Ref != nil:
		return t.Ref.R
	case t.InlineEnum != nil:
		return t.InlineEnum.R
	case t.InlineStruct != nil:
		return t.InlineStruct.R
	}
	return span.Range{}
}

// VarDecl is `var(Category) modifiers Type Name1, Name2;`.
type VarDecl struct {
	Type      *TypeSyntax
	Names     []*VarName
	Modifiers []*Ident
	R         span.Range
}

func (v *VarDecl) Range() span.Range { return v.R }

// LocalDecl is `local Type Name1, Name2;` inside a function body.
type LocalDecl struct {
	Type  *TypeSyntax
	Names []*VarName
	R     span.Range
}

func (l *LocalDecl) Range() span.Range { return l.R }

// EnumDecl is `enum Name { A, B, C };`.
type EnumDecl struct {
	Name    *Ident
	Members []*Ident
	R       span.Range
}

func (e *EnumDecl) Range() span.Range { return e.R }

// StructDecl is `struct Name extends Base { members };`.
type StructDecl struct {
	Name    *Ident
	Extends *TypeRefNode
	Members []Node
	R       span.Range
}

func (s *StructDecl) Range() span.Range { return s.R }

// ParamDecl is one function parameter.
type ParamDecl struct {
	Type      *TypeRefNode
	Name      *Ident
	Modifiers []*Ident // out, optional, coerce, skip
	Default   Expr     // optional parameter default
	R         span.Range
}

func (p *ParamDecl) Range() span.Range { return p.R }

// FuncKind distinguishes the declaration forms that produce a method.
type FuncKind int

const (
	FuncFunction FuncKind = iota
	FuncEvent
	FuncDelegate
	FuncOperator
	FuncPreOperator
	FuncPostOperator
)

// FunctionDecl covers function/event/delegate/operator declarations. Operator
// names are the operator token text (not valid identifiers), which matters
// for rename validation downstream.
type FunctionDecl struct {
	Kind      FuncKind
	Name      *Ident
	Return    *TypeRefNode
	Params    []*ParamDecl
	Locals    []*LocalDecl
	Body      *Block // nil for bodyless declarations
	Modifiers []*Ident
	R         span.Range
}

func (f *FunctionDecl) Range() span.Range { return f.R }

// StateDecl is `state Name extends Other { ignores ...; functions; Label: code }`.
type StateDecl struct {
	Name      *Ident
	Extends   *TypeRefNode
	Ignores   []*Ident
	Functions []*FunctionDecl
	Locals    []*LocalDecl
	Labels    []*LabelStmt
	Body      *Block // state code following the first label
	Modifiers []*Ident
	R         span.Range
}

func (s *StateDecl) Range() span.Range { return s.R }

// ReplicationStmt is one `if (cond) Name1, Name2;` entry.
type ReplicationStmt struct {
	Cond  Expr
	Names []*Ident
	R     span.Range
}

func (r *ReplicationStmt) Range() span.Range { return r.R }

// ReplicationDecl is the replication block.
type ReplicationDecl struct {
	Statements []*ReplicationStmt
	R          span.Range
}

func (r *ReplicationDecl) Range() span.Range { return r.R }

// DefaultAssignment is one `Name=Value` or `Name(i)=Value` entry in a
// defaults block or object literal.
type DefaultAssignment struct {
	Name  *Ident
	Index Expr // optional array element index
	Value Expr // may be nil for malformed entries
	R     span.Range
}

func (d *DefaultAssignment) Range() span.Range { return d.R }

// ObjectDecl is `Begin Object Class=Foo Name=Bar ... End Object`.
type ObjectDecl struct {
	Class       *TypeRefNode
	Name        *Ident
	Assignments []*DefaultAssignment
	Objects     []*ObjectDecl
	R           span.Range
}

func (o *ObjectDecl) Range() span.Range { return o.R }

// DefaultPropertiesDecl is the defaultproperties block.
type DefaultPropertiesDecl struct {
	Assignments []*DefaultAssignment
	Objects     []*ObjectDecl
	R           span.Range
}

func (d *DefaultPropertiesDecl) Range() span.Range { return d.R }

// Diagnostic is a parse problem attached to the document.
type Diagnostic struct {
	R       span.Range
	Message string
}

// Walk drives the enter/exit callback protocol over the tree, visiting
// declaration productions. Expression trees are not walked; the indexer
// traverses those itself during resolution.
func Walk(n Node, enter func(Node) bool, exit func(Node)) {
	if n == nil || !enter(n) {
		return
	}
	switch d := n.(type) {
	case *File:
		if d.Class != nil {
			Walk(d.Class, enter, exit)
		}
	case *ClassDecl:
		for _, m := range d.Members {
			Walk(m, enter, exit)
		}
	case *StructDecl:
		for _, m := range d.Members {
			Walk(m, enter, exit)
		}
	case *StateDecl:
		for _, f := range d.Functions {
			Walk(f, enter, exit)
		}
	case *FunctionDecl:
		for _, p := range d.Params {
			Walk(p, enter, exit)
		}
		for _, l := range d.Locals {
			Walk(l, enter, exit)
		}
	case *VarDecl:
		if d.Type != nil && d.Type.InlineEnum != nil {
			Walk(d.Type.InlineEnum, enter, exit)
		}
		if d.Type != nil && d.Type.InlineStruct != nil {
			Walk(d.Type.InlineStruct, enter, exit)
		}
	case *DefaultPropertiesDecl:
		for _, o := range d.Objects {
			Walk(o, enter, exit)
		}
	case *ObjectDecl:
		for _, o := range d.Objects {
			Walk(o, enter, exit)
		}
	}
	exit(n)
}
