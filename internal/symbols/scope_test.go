package symbols

import (
	"testing"

	"uls/internal/names"
	"uls/internal/span"
)

func r(line, start, end int) span.Range {
	return span.Range{
		Start: span.Position{Line: line, Character: start},
		End:   span.Position{Line: line, Character: end},
	}
}

// buildHierarchy assembles Base <- Derived classes with members used by the
// lookup tests. Ranges are synthetic; only identity matters here.
func buildHierarchy(nt *names.Table) (base, derived *Class) {
	base = NewClass(nt.Intern("Base"), r(0, 6, 10), r(0, 0, 99), "Base.uc")
	derived = NewClass(nt.Intern("Derived"), r(0, 6, 13), r(0, 0, 99), "Derived.uc")
	derived.SetSuper(base)
	return base, derived
}

func TestFindInScopeShadowing(t *testing.T) {
	nt := names.NewTable()
	base, derived := buildHierarchy(nt)

	baseProp := NewProperty(nt.Intern("Health"), r(1, 8, 14), r(1, 0, 20), "Base.uc", nil)
	AddChildTo(base, baseProp)
	derivedProp := NewProperty(nt.Intern("Health"), r(1, 8, 14), r(1, 0, 20), "Derived.uc", nil)
	AddChildTo(derived, derivedProp)

	got := FindInScope(derived, nt.Intern("health"), AnyKind)
	if got != Symbol(derivedProp) {
		t.Error("derived declaration should shadow the inherited one")
	}
	if FindInScope(base, nt.Intern("Health"), AnyKind) != Symbol(baseProp) {
		t.Error("base lookup should see its own property")
	}
}

func TestFindInScopeInheritanceBeforeContainment(t *testing.T) {
	nt := names.NewTable()
	base, derived := buildHierarchy(nt)

	// Same name twice: once inherited into the method's class, once on the
	// lexical outer chain only.
	inherited := NewProperty(nt.Intern("Value"), r(2, 8, 13), r(2, 0, 20), "Base.uc", nil)
	AddChildTo(base, inherited)

	method := NewMethod(nt.Intern("Tick"), r(5, 9, 13), r(5, 0, 40), "Derived.uc", MethodFunction)
	AddChildTo(derived, method)

	got := FindInScope(method, nt.Intern("Value"), AnyKind)
	if got != Symbol(inherited) {
		t.Error("method scope should reach inherited class members")
	}
}

func TestFindInScopeStateMethodSeesStateChain(t *testing.T) {
	nt := names.NewTable()
	base, derived := buildHierarchy(nt)

	baseState := NewState(nt.Intern("Idle"), r(3, 6, 10), r(3, 0, 50), "Base.uc")
	AddChildTo(base, baseState)
	stateFunc := NewMethod(nt.Intern("Rest"), r(4, 9, 13), r(4, 0, 30), "Base.uc", MethodFunction)
	AddChildTo(baseState, stateFunc)

	derivedState := NewState(nt.Intern("Idle"), r(3, 6, 10), r(3, 0, 50), "Derived.uc")
	derivedState.SetSuper(baseState)
	AddChildTo(derived, derivedState)

	if FindInScope(derivedState, nt.Intern("Rest"), KindMethod.Mask()) != Symbol(stateFunc) {
		t.Error("overriding state should see inherited state functions")
	}
}

func TestFindInScopeCycleSafe(t *testing.T) {
	nt := names.NewTable()
	a := NewClass(nt.Intern("A"), r(0, 0, 1), r(0, 0, 9), "A.uc")
	b := NewClass(nt.Intern("B"), r(0, 0, 1), r(0, 0, 9), "B.uc")
	a.SetSuper(b)
	b.SetSuper(a)

	if FindInScope(a, nt.Intern("Nothing"), AnyKind) != nil {
		t.Error("lookup over a super cycle should miss, not hang")
	}
}

func TestFindMemberIgnoresLexicalOuter(t *testing.T) {
	nt := names.NewTable()
	_, derived := buildHierarchy(nt)

	outerConst := NewConst(nt.Intern("MAX"), r(1, 6, 9), r(1, 0, 15), "Derived.uc", nil)
	AddChildTo(derived, outerConst)

	st := NewScriptStruct(nt.Intern("Vitals"), r(2, 7, 13), r(2, 0, 40), "Derived.uc")
	AddChildTo(derived, st)

	if FindInScope(st, nt.Intern("MAX"), AnyKind) == nil {
		t.Error("scope lookup should reach the lexical outer")
	}
	if FindMember(st, nt.Intern("MAX"), AnyKind) != nil {
		t.Error("member lookup must not reach the lexical outer")
	}
}

func TestKindSet(t *testing.T) {
	set := KindClass.Mask() | KindEnum.Mask()
	if !set.Has(KindClass) || !set.Has(KindEnum) {
		t.Error("mask should contain its kinds")
	}
	if set.Has(KindMethod) {
		t.Error("mask should not contain other kinds")
	}
	if !AnyKind.Has(KindMethod) {
		t.Error("the empty set matches every kind")
	}
}

func TestCompletionSymbolsOrderAndFiltering(t *testing.T) {
	nt := names.NewTable()
	base, derived := buildHierarchy(nt)

	AddChildTo(base, NewProperty(nt.Intern("Health"), r(1, 0, 6), r(1, 0, 20), "Base.uc", nil))
	op := NewMethod(nt.Intern("+="), r(2, 0, 2), r(2, 0, 30), "Base.uc", MethodOperator)
	AddChildTo(base, op)
	AddChildTo(base, NewDefaultsBlock(nt.Intern("defaultproperties"), r(9, 0, 1), "Base.uc"))

	near := NewProperty(nt.Intern("Health"), r(1, 0, 6), r(1, 0, 20), "Derived.uc", nil)
	AddChildTo(derived, near)

	got := CompletionSymbols(derived, AnyKind)

	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2 (operator and defaults filtered)", len(got))
	}
	if got[0] != Symbol(near) {
		t.Error("nearest declaration must come first")
	}
	for _, sym := range got {
		if m, ok := sym.(*Method); ok && m.IsOperator() {
			t.Error("operators must not complete")
		}
	}
}

func TestContainerAt(t *testing.T) {
	nt := names.NewTable()
	class := NewClass(nt.Intern("A"), r(0, 6, 7), span.Range{
		Start: span.Position{Line: 0, Character: 0},
		End:   span.Position{Line: 20, Character: 0},
	}, "A.uc")

	method := NewMethod(nt.Intern("F"), r(5, 9, 10), span.Range{
		Start: span.Position{Line: 5, Character: 0},
		End:   span.Position{Line: 8, Character: 1},
	}, "A.uc", MethodFunction)
	AddChildTo(class, method)

	if got := ContainerAt(class, span.Position{Line: 6, Character: 2}); got != Container(method) {
		t.Errorf("position inside method should resolve to it, got %v", got)
	}
	if got := ContainerAt(class, span.Position{Line: 2, Character: 0}); got != Container(class) {
		t.Errorf("position outside members should resolve to the class, got %v", got)
	}
}

func TestFindLabel(t *testing.T) {
	nt := names.NewTable()
	base, derived := buildHierarchy(nt)

	baseState := NewState(nt.Intern("Idle"), r(3, 6, 10), r(3, 0, 50), "Base.uc")
	baseState.AddLabel(nt.Intern("Begin"), r(4, 0, 5))
	AddChildTo(base, baseState)

	derivedState := NewState(nt.Intern("Idle"), r(3, 6, 10), r(3, 0, 50), "Derived.uc")
	derivedState.SetSuper(baseState)
	AddChildTo(derived, derivedState)

	if _, ok := FindLabel(derivedState, nt.Intern("begin")); !ok {
		t.Error("label lookup should follow the state super chain")
	}
	if _, ok := FindLabel(derivedState, nt.Intern("End")); ok {
		t.Error("unknown label should miss")
	}
}
