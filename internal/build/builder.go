// Package build contains the structural builder: the parse-tree listener
// that materializes the symbol model for one document in a single traversal.
//
// The builder maintains a scope stack. Entering a declaration constructs its
// symbol, registers it in the current top-of-stack scope's child list and
// pushes it; exiting pops. Malformed declarations (missing identifier
// tokens) are skipped without aborting the walk, since the builder runs on
// every keystroke-driven reparse.
package build

import (
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/span"
	"uls/internal/symbols"
)

// Builder materializes symbols for one document.
type Builder struct {
	names *names.Table
	uri   string

	class *symbols.Class
	stack []frame
}

type frame struct {
	node  parser.Node
	scope symbols.Container
}

// Document builds the symbol tree for a parsed file. It returns the class
// symbol, or nil for include fragments with no class declaration. A panic
// during the walk is contained at the document level; whatever was built
// before the failure is kept, matching how a parse error leaves a partial
// tree.
func Document(nt *names.Table, uri string, file *parser.File) *symbols.Class {
	b := &Builder{names: nt, uri: uri}
	b.walk(file)
	if b.class != nil {
		b.class.Built = true
	}
	return b.class
}

func (b *Builder) walk(file *parser.File) {
	defer func() {
		_ = recover()
	}()
	parser.Walk(file, b.enter, b.exit)
}

func (b *Builder) top() symbols.Container {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1].scope
}

func (b *Builder) push(n parser.Node, scope symbols.Container) {
	if parent := b.top(); parent != nil {
		symbols.AddChildTo(parent, scope)
	}
	b.stack = append(b.stack, frame{node: n, scope: scope})
}

func (b *Builder) enter(n parser.Node) bool {
	switch d := n.(type) {
	case *parser.File:
		return true
	case *parser.ClassDecl:
		return b.enterClass(d)
	case *parser.StructDecl:
		return b.enterStruct(d)
	case *parser.EnumDecl:
		return b.enterEnum(d)
	case *parser.StateDecl:
		return b.enterState(d)
	case *parser.FunctionDecl:
		return b.enterFunction(d)
	case *parser.ParamDecl:
		b.buildParam(d)
		return false
	case *parser.LocalDecl:
		b.buildLocals(d)
		return false
	case *parser.VarDecl:
		b.buildProperties(d)
		return true // descend into inline enum/struct declarations
	case *parser.ConstDecl:
		b.buildConst(d)
		return false
	case *parser.ReplicationDecl:
		return b.enterReplication(d)
	case *parser.DefaultPropertiesDecl:
		return b.enterDefaults(d)
	case *parser.ObjectDecl:
		return b.enterObject(d)
	}
	return true
}

func (b *Builder) exit(n parser.Node) {
	if len(b.stack) == 0 {
		return
	}
	if b.stack[len(b.stack)-1].node == n {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *Builder) intern(id *parser.Ident) names.Name {
	return b.names.Intern(id.Text)
}

// typeRef converts a syntactic type reference, applying the expected
// type-kind hint from the declaration context.
func (b *Builder) typeRef(node *parser.TypeRefNode, expect symbols.TypeHint) *symbols.TypeRef {
	if node == nil || !node.Name.IsValid() {
		return nil
	}
	ref := symbols.NewTypeRef(b.intern(node.Name), node.Name.R, expect)
	if node.Inner != nil {
		inner := symbols.HintType
		if b.names.Lower(ref.Name) == "class" {
			inner = symbols.HintClass
		}
		ref.Inner = b.typeRef(node.Inner, inner)
	}
	return ref
}

// typeFromSyntax converts a var/local type position. Inline enum/struct
// declarations become plain references to the sibling symbol the walk builds
// from the same node; within-file forward references are legal, so order
// does not matter.
func (b *Builder) typeFromSyntax(ts *parser.TypeSyntax) *symbols.TypeRef {
	if ts == nil {
		return nil
	}
	switch {
	case ts.InlineEnum != nil && ts.InlineEnum.Name.IsValid():
		return symbols.NewTypeRef(b.intern(ts.InlineEnum.Name), ts.InlineEnum.Name.R, symbols.HintEnum)
	case ts.InlineStruct != nil && ts.InlineStruct.Name.IsValid():
		return symbols.NewTypeRef(b.intern(ts.InlineStruct.Name), ts.InlineStruct.Name.R, symbols.HintStruct)
	case ts.Ref != nil:
		return b.typeRef(ts.Ref, symbols.HintType)
	}
	return nil
}

func (b *Builder) enterClass(d *parser.ClassDecl) bool {
	if !d.Name.IsValid() {
		return false
	}
	class := symbols.NewClass(b.intern(d.Name), d.Name.R, d.R, b.uri)
	class.SetExtendsRef(b.typeRef(d.Extends, symbols.HintClass))
	class.WithinRef = b.typeRef(d.Within, symbols.HintClass)
	for _, dep := range d.DependsOn {
		if ref := b.typeRef(dep, symbols.HintClass); ref != nil {
			class.DependsOnRefs = append(class.DependsOnRefs, ref)
		}
	}
	for _, impl := range d.Implements {
		if ref := b.typeRef(impl, symbols.HintClass); ref != nil {
			class.ImplementsRefs = append(class.ImplementsRefs, ref)
		}
	}
	for _, mod := range d.Modifiers {
		class.Modifiers = append(class.Modifiers, b.intern(mod))
	}
	b.class = class
	b.push(d, class)
	return true
}

func (b *Builder) enterStruct(d *parser.StructDecl) bool {
	if !d.Name.IsValid() || b.top() == nil {
		return false
	}
	st := symbols.NewScriptStruct(b.intern(d.Name), d.Name.R, d.R, b.uri)
	st.SetExtendsRef(b.typeRef(d.Extends, symbols.HintStruct))
	b.push(d, st)
	return true
}

func (b *Builder) enterEnum(d *parser.EnumDecl) bool {
	if !d.Name.IsValid() || b.top() == nil {
		return false
	}
	enum := symbols.NewEnum(b.intern(d.Name), d.Name.R, d.R, b.uri)
	b.push(d, enum)

	// Members are numbered sequentially from 0 in declaration order, with
	// an implicit EnumCount member holding the count.
	value := 0
	for _, member := range d.Members {
		if !member.IsValid() {
			continue
		}
		symbols.AddChildTo(enum, symbols.NewEnumMember(b.intern(member), member.R, b.uri, value))
		value++
	}
	symbols.AddChildTo(enum, symbols.NewEnumMember(b.names.Intern("EnumCount"), span.Range{}, b.uri, value))
	return true
}

func (b *Builder) enterState(d *parser.StateDecl) bool {
	if !d.Name.IsValid() || b.top() == nil {
		return false
	}
	state := symbols.NewState(b.intern(d.Name), d.Name.R, d.R, b.uri)
	state.SetExtendsRef(b.typeRef(d.Extends, symbols.HintState))
	for _, ig := range d.Ignores {
		if ig.IsValid() {
			state.Ignores = append(state.Ignores, &symbols.IdentRef{Name: b.intern(ig), R: ig.R})
		}
	}
	for _, label := range d.Labels {
		if label.Name.IsValid() {
			state.AddLabel(b.intern(label.Name), label.Name.R)
		}
	}
	state.SetBlock(d.Body)
	b.push(d, state)

	for _, local := range d.Locals {
		b.buildLocals(local)
	}
	return true
}

func (b *Builder) enterFunction(d *parser.FunctionDecl) bool {
	if !d.Name.IsValid() || b.top() == nil {
		return false
	}
	spec := symbols.MethodFunction
	switch d.Kind {
	case parser.FuncEvent:
		spec = symbols.MethodEvent
	case parser.FuncDelegate:
		spec = symbols.MethodDelegate
	case parser.FuncOperator:
		spec = symbols.MethodOperator
	case parser.FuncPreOperator:
		spec = symbols.MethodPreOperator
	case parser.FuncPostOperator:
		spec = symbols.MethodPostOperator
	}
	method := symbols.NewMethod(b.intern(d.Name), d.Name.R, d.R, b.uri, spec)
	method.ReturnRef = b.typeRef(d.Return, symbols.HintType)
	for _, mod := range d.Modifiers {
		method.Modifiers = append(method.Modifiers, b.intern(mod))
	}
	method.SetBlock(d.Body)
	b.push(d, method)
	return true
}

func (b *Builder) buildParam(d *parser.ParamDecl) {
	method, ok := b.top().(*symbols.Method)
	if !ok || !d.Name.IsValid() {
		return
	}
	param := symbols.NewParameter(b.intern(d.Name), d.Name.R, b.uri, b.typeRef(d.Type, symbols.HintType))
	param.Default = d.Default
	for _, mod := range d.Modifiers {
		param.Modifiers = append(param.Modifiers, b.intern(mod))
	}
	symbols.AddChildTo(method, param)
	method.Params = append(method.Params, param)
}

func (b *Builder) buildLocals(d *parser.LocalDecl) {
	scope := b.top()
	if scope == nil {
		return
	}
	typeRef := b.typeFromSyntax(d.Type)
	for _, vn := range d.Names {
		if !vn.Name.IsValid() {
			continue
		}
		// Each declarator gets its own reference so resolution records one
		// reference per occurrence.
		local := symbols.NewLocal(b.intern(vn.Name), vn.Name.R, b.uri, cloneRef(typeRef))
		local.ArrayDim = vn.ArrayDim
		symbols.AddChildTo(scope, local)
	}
	b.buildInlineTypes(d.Type)
}

func (b *Builder) buildProperties(d *parser.VarDecl) {
	scope := b.top()
	if scope == nil {
		return
	}
	typeRef := b.typeFromSyntax(d.Type)
	for _, vn := range d.Names {
		if !vn.Name.IsValid() {
			continue
		}
		prop := symbols.NewProperty(b.intern(vn.Name), vn.Name.R, d.R, b.uri, cloneRef(typeRef))
		prop.ArrayDim = vn.ArrayDim
		for _, mod := range d.Modifiers {
			prop.Modifiers = append(prop.Modifiers, b.intern(mod))
		}
		symbols.AddChildTo(scope, prop)
	}
}

// buildInlineTypes materializes inline enum/struct declarations from a local
// declaration; class-level var declarations get theirs from the tree walk.
func (b *Builder) buildInlineTypes(ts *parser.TypeSyntax) {
	if ts == nil {
		return
	}
	if ts.InlineEnum != nil {
		parser.Walk(ts.InlineEnum, b.enter, b.exit)
	}
	if ts.InlineStruct != nil {
		parser.Walk(ts.InlineStruct, b.enter, b.exit)
	}
}

func (b *Builder) buildConst(d *parser.ConstDecl) {
	scope := b.top()
	if scope == nil || !d.Name.IsValid() {
		return
	}
	symbols.AddChildTo(scope, symbols.NewConst(b.intern(d.Name), d.Name.R, d.R, b.uri, d.Value))
}

func (b *Builder) enterReplication(d *parser.ReplicationDecl) bool {
	if b.top() == nil {
		return false
	}
	block := symbols.NewReplicationBlock(b.names.Intern("replication"), d.R, b.uri)
	for _, stmt := range d.Statements {
		rs := &symbols.ReplStatement{Cond: stmt.Cond}
		for _, name := range stmt.Names {
			if name.IsValid() {
				rs.Refs = append(rs.Refs, &symbols.IdentRef{Name: b.intern(name), R: name.R})
			}
		}
		block.Statements = append(block.Statements, rs)
	}
	b.push(d, block)
	return true
}

func (b *Builder) enterDefaults(d *parser.DefaultPropertiesDecl) bool {
	if b.top() == nil {
		return false
	}
	block := symbols.NewDefaultsBlock(b.names.Intern("defaultproperties"), d.R, b.uri)
	b.push(d, block)
	for _, a := range d.Assignments {
		b.addDefaultAssign(block.AddAssignment, a)
	}
	return true
}

func (b *Builder) enterObject(d *parser.ObjectDecl) bool {
	if b.top() == nil {
		return false
	}
	name := b.names.Intern("object")
	idRange := d.R
	if d.Name.IsValid() {
		name = b.intern(d.Name)
		idRange = d.Name.R
	}
	obj := symbols.NewObjectSymbol(name, idRange, d.R, b.uri)
	obj.ClassRef = b.typeRef(d.Class, symbols.HintClass)
	b.push(d, obj)
	for _, a := range d.Assignments {
		b.addDefaultAssign(func(da *symbols.DefaultAssign) {
			obj.Assignments = append(obj.Assignments, da)
		}, a)
	}
	return true
}

func (b *Builder) addDefaultAssign(add func(*symbols.DefaultAssign), a *parser.DefaultAssignment) {
	if a == nil || !a.Name.IsValid() {
		return
	}
	add(&symbols.DefaultAssign{
		Ref:   &symbols.IdentRef{Name: b.intern(a.Name), R: a.Name.R},
		Value: a.Value,
	})
}

func cloneRef(ref *symbols.TypeRef) *symbols.TypeRef {
	if ref == nil {
		return nil
	}
	clone := *ref
	if ref.Inner != nil {
		clone.Inner = cloneRef(ref.Inner)
	}
	return &clone
}
