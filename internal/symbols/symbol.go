// Package symbols defines the entity model of the language service: the
// symbol variants, the struct-like scope capability, type references, and
// the global symbol tables.
//
// Symbols form a mutable cross-document graph. Outer and Super are plain
// back-references, never ownership: the owning container is the one whose
// child list holds the symbol. A symbol lives from the structural build of
// its document until that document is invalidated, at which point the whole
// tree is discarded and rebuilt.
package symbols

import (
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/span"
)

// Symbol is the capability shared by every entity in the graph.
type Symbol interface {
	Name() names.Name
	Kind() Kind
	Outer() Symbol
	SetOuter(Symbol)
	// IDRange is the extent of the identifier alone; DeclRange spans the
	// whole declaration. Intrinsic symbols have zero ranges.
	IDRange() span.Range
	DeclRange() span.Range
	// URI is the document that declared the symbol, empty for intrinsics
	// and primitives.
	URI() string
}

// Base carries the fields shared by all symbol variants.
type Base struct {
	name      names.Name
	idRange   span.Range
	declRange span.Range
	uri       string
	outer     Symbol
}

// NewBase constructs the shared portion of a symbol.
func NewBase(name names.Name, idRange, declRange span.Range, uri string) Base {
	return Base{name: name, idRange: idRange, declRange: declRange, uri: uri}
}

func (b *Base) Name() names.Name      { return b.name }
func (b *Base) Outer() Symbol         { return b.outer }
func (b *Base) SetOuter(s Symbol)     { b.outer = s }
func (b *Base) IDRange() span.Range   { return b.idRange }
func (b *Base) DeclRange() span.Range { return b.declRange }
func (b *Base) URI() string           { return b.uri }

// IdentRef is a by-name reference recorded during the structural build and
// resolved during indexing: replication names, state ignores, defaults-block
// assignment targets, goto labels.
type IdentRef struct {
	Name     names.Name
	R        span.Range
	Resolved Symbol
}

// Package is a top-level namespace owning classes by name.
type Package struct {
	Base
	classes map[names.Name]*Class
}

// NewPackage creates an empty package symbol.
func NewPackage(name names.Name) *Package {
	return &Package{Base: NewBase(name, span.Range{}, span.Range{}, ""), classes: make(map[names.Name]*Class)}
}

func (p *Package) Kind() Kind { return KindPackage }

// AddClass registers a class under the package namespace.
func (p *Package) AddClass(c *Class) {
	p.classes[c.Name()] = c
}

// RemoveClass drops a class from the package namespace.
func (p *Package) RemoveClass(name names.Name) {
	delete(p.classes, name)
}

// FindClass looks a class up by interned name.
func (p *Package) FindClass(name names.Name) *Class {
	return p.classes[name]
}

// Classes returns the classes owned by the package, in map order.
func (p *Package) Classes() map[names.Name]*Class {
	return p.classes
}

// Class is the root symbol of one document.
type Class struct {
	Scope
	WithinRef     *TypeRef
	DependsOnRefs []*TypeRef
	ImplementsRefs []*TypeRef
	Modifiers     []names.Name
	// Built is set once the structural build for the declaring document
	// completed; a registered class without it is a forward-declared stub.
	Built bool
}

// NewClass creates a class symbol rooted in the given document.
func NewClass(name names.Name, idRange, declRange span.Range, uri string) *Class {
	return &Class{Scope: NewScope(name, idRange, declRange, uri)}
}

func (c *Class) Kind() Kind { return KindClass }

// NewIntrinsicClass creates an engine-native class with zero ranges and no
// declaring document. Intrinsics count as built; they are never rebuilt.
func NewIntrinsicClass(name names.Name) *Class {
	c := &Class{Scope: NewScope(name, span.Range{}, span.Range{}, "")}
	c.Built = true
	return c
}

// ScriptStruct is a struct declaration, possibly extending another struct.
type ScriptStruct struct {
	Scope
}

// NewScriptStruct creates a struct symbol.
func NewScriptStruct(name names.Name, idRange, declRange span.Range, uri string) *ScriptStruct {
	return &ScriptStruct{Scope: NewScope(name, idRange, declRange, uri)}
}

func (s *ScriptStruct) Kind() Kind { return KindScriptStruct }

// State is a state declaration. A state without an explicit extends clause
// may still override an inherited state of the same name; indexing links
// Super in that case.
type State struct {
	Scope
	Ignores []*IdentRef
}

// NewState creates a state symbol.
func NewState(name names.Name, idRange, declRange span.Range, uri string) *State {
	return &State{Scope: NewScope(name, idRange, declRange, uri)}
}

func (s *State) Kind() Kind { return KindState }

// Enum is an enum declaration; its children are EnumMember symbols, plus a
// synthesized EnumCount member holding the member count.
type Enum struct {
	Scope
}

// NewEnum creates an enum symbol.
func NewEnum(name names.Name, idRange, declRange span.Range, uri string) *Enum {
	return &Enum{Scope: NewScope(name, idRange, declRange, uri)}
}

func (e *Enum) Kind() Kind { return KindEnum }

// EnumMember is one enumerator with its auto-assigned value.
type EnumMember struct {
	Base
	Value int
}

// NewEnumMember creates an enum member symbol.
func NewEnumMember(name names.Name, idRange span.Range, uri string, value int) *EnumMember {
	return &EnumMember{Base: NewBase(name, idRange, idRange, uri), Value: value}
}

func (m *EnumMember) Kind() Kind { return KindEnumMember }

// MethodSpecifier distinguishes the declaration forms of a method.
type MethodSpecifier uint8

const (
	MethodFunction MethodSpecifier = iota
	MethodEvent
	MethodDelegate
	MethodOperator
	MethodPreOperator
	MethodPostOperator
)

// Method is a function/event/delegate/operator declaration.
type Method struct {
	Scope
	Specifier MethodSpecifier
	Params    []*Parameter
	ReturnRef *TypeRef
	Modifiers []names.Name
}

// NewMethod creates a method symbol.
func NewMethod(name names.Name, idRange, declRange span.Range, uri string, spec MethodSpecifier) *Method {
	return &Method{Scope: NewScope(name, idRange, declRange, uri), Specifier: spec}
}

func (m *Method) Kind() Kind { return KindMethod }

// IsOperator reports whether the method name is an operator symbol rather
// than an identifier.
func (m *Method) IsOperator() bool {
	return m.Specifier == MethodOperator || m.Specifier == MethodPreOperator || m.Specifier == MethodPostOperator
}

// Parameter is a typed method parameter.
type Parameter struct {
	Base
	TypeRef   *TypeRef
	Modifiers []names.Name
	Default   parser.Expr
}

// NewParameter creates a parameter symbol.
func NewParameter(name names.Name, idRange span.Range, uri string, typeRef *TypeRef) *Parameter {
	return &Parameter{Base: NewBase(name, idRange, idRange, uri), TypeRef: typeRef}
}

func (p *Parameter) Kind() Kind { return KindParameter }

// Local is a typed local variable in a method or state body.
type Local struct {
	Base
	TypeRef  *TypeRef
	ArrayDim parser.Expr
}

// NewLocal creates a local symbol.
func NewLocal(name names.Name, idRange span.Range, uri string, typeRef *TypeRef) *Local {
	return &Local{Base: NewBase(name, idRange, idRange, uri), TypeRef: typeRef}
}

func (l *Local) Kind() Kind { return KindLocal }

// Property is a typed class/struct field with an optional static array
// dimension (integer literal or const/enum-member reference).
type Property struct {
	Base
	TypeRef  *TypeRef
	ArrayDim parser.Expr
	// ArrayDimRef is filled by the indexer when the dimension is a
	// reference to a constant.
	ArrayDimRef *IdentRef
	Modifiers   []names.Name
}

// NewProperty creates a property symbol.
func NewProperty(name names.Name, idRange, declRange span.Range, uri string, typeRef *TypeRef) *Property {
	return &Property{Base: NewBase(name, idRange, declRange, uri), TypeRef: typeRef}
}

func (p *Property) Kind() Kind { return KindProperty }

// Const is a named literal value at class scope.
type Const struct {
	Base
	Value parser.Expr
}

// NewConst creates a const symbol.
func NewConst(name names.Name, idRange, declRange span.Range, uri string, value parser.Expr) *Const {
	return &Const{Base: NewBase(name, idRange, declRange, uri), Value: value}
}

func (c *Const) Kind() Kind { return KindConst }

// DefaultAssign is one resolved-or-raw assignment in a defaults block.
type DefaultAssign struct {
	Ref   *IdentRef
	Value parser.Expr
}

// DefaultsBlock is the defaultproperties pseudo-struct. Assignment targets
// resolve against the property names of the context class, not lexical
// scope; until indexing they are raw identifier references keyed by name.
type DefaultsBlock struct {
	Scope
	Assignments []*DefaultAssign
	rawRefs     map[names.Name][]*IdentRef
}

// NewDefaultsBlock creates the defaults pseudo-symbol.
func NewDefaultsBlock(name names.Name, declRange span.Range, uri string) *DefaultsBlock {
	return &DefaultsBlock{
		Scope:   NewScope(name, declRange, declRange, uri),
		rawRefs: make(map[names.Name][]*IdentRef),
	}
}

func (d *DefaultsBlock) Kind() Kind { return KindDefaultsBlock }

// AddAssignment records an assignment and indexes its raw reference.
func (d *DefaultsBlock) AddAssignment(a *DefaultAssign) {
	d.Assignments = append(d.Assignments, a)
	d.rawRefs[a.Ref.Name] = append(d.rawRefs[a.Ref.Name], a.Ref)
}

// RawRefs returns the side-table of raw references keyed by interned name.
func (d *DefaultsBlock) RawRefs() map[names.Name][]*IdentRef { return d.rawRefs }

// ReplStatement is one replication condition with its replicated names.
type ReplStatement struct {
	Cond parser.Expr
	Refs []*IdentRef
}

// ReplicationBlock is the replication pseudo-struct.
type ReplicationBlock struct {
	Scope
	Statements []*ReplStatement
}

// NewReplicationBlock creates the replication pseudo-symbol.
func NewReplicationBlock(name names.Name, declRange span.Range, uri string) *ReplicationBlock {
	return &ReplicationBlock{Scope: NewScope(name, declRange, declRange, uri)}
}

func (r *ReplicationBlock) Kind() Kind { return KindReplicationBlock }

// ObjectSymbol is a nested object literal inside a defaults block.
type ObjectSymbol struct {
	Scope
	ClassRef    *TypeRef
	Assignments []*DefaultAssign
}

// NewObjectSymbol creates a nested object symbol.
func NewObjectSymbol(name names.Name, idRange, declRange span.Range, uri string) *ObjectSymbol {
	return &ObjectSymbol{Scope: NewScope(name, idRange, declRange, uri)}
}

func (o *ObjectSymbol) Kind() Kind { return KindObject }

// Primitive is a fixed, process-wide predefined type symbol (byte, int,
// float, bool, name, string, pointer, button).
type Primitive struct {
	Base
}

// NewPrimitive creates a predefined type symbol.
func NewPrimitive(name names.Name) *Primitive {
	return &Primitive{Base: NewBase(name, span.Range{}, span.Range{}, "")}
}

func (p *Primitive) Kind() Kind { return KindPrimitive }
