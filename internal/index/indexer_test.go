package index

import (
	"testing"

	"uls/internal/build"
	"uls/internal/logging"
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/span"
	"uls/internal/symbols"
)

type fixture struct {
	nt     *names.Table
	tables *symbols.Tables
	refs   *ReferenceIndex
	ix     *Indexer
}

func newFixture() *fixture {
	nt := names.NewTable()
	tables := symbols.NewTables(nt)
	refs := NewReferenceIndex()
	return &fixture{
		nt:     nt,
		tables: tables,
		refs:   refs,
		ix:     New(tables, refs, logging.Nop()),
	}
}

// index parses, builds and registers one document, then runs the resolution
// pass over it.
func (f *fixture) index(t *testing.T, uri, src string) (*symbols.Class, *Result) {
	t.Helper()
	file, _ := parser.Parse(src, nil)
	class := build.Document(f.nt, uri, file)
	if class == nil {
		t.Fatalf("no class built from %s", uri)
	}
	if err := f.tables.AddSymbol(class); err != nil {
		t.Fatalf("AddSymbol(%s): %v", uri, err)
	}
	return class, f.ix.IndexDocument(class)
}

func (f *fixture) hash(sym symbols.Symbol) string {
	return symbols.Hash(f.nt, sym)
}

func (f *fixture) member(t *testing.T, c symbols.Container, name string) symbols.Symbol {
	t.Helper()
	sym := c.FindChild(f.nt.Intern(name), symbols.AnyKind)
	if sym == nil {
		t.Fatalf("member %q not found", name)
	}
	return sym
}

func TestIndexCrossFileExtends(t *testing.T) {
	f := newFixture()
	base, _ := f.index(t, "Base.uc", `class Base extends Object;
var int Health;
`)
	derived, _ := f.index(t, "Derived.uc", `class Derived extends Base;
`)

	if derived.Super() != symbols.Container(base) {
		t.Fatal("extends should link the super class across documents")
	}
	refs := f.refs.References(f.hash(base))
	if len(refs) != 1 {
		t.Fatalf("references to Base = %d, want 1 (the extends clause)", len(refs))
	}
	if refs[0].Location.URI != "Derived.uc" {
		t.Errorf("reference URI = %q", refs[0].Location.URI)
	}
}

func TestIndexForwardReference(t *testing.T) {
	// Derived indexed before Base: the extends ref misses and stays nil so a
	// later pass over Derived can bind it.
	f := newFixture()
	derived, _ := f.index(t, "Derived.uc", "class Derived extends Base;\n")
	if derived.ExtendsRef().IsResolved() {
		t.Fatal("extends should stay unresolved while Base is unknown")
	}

	base, _ := f.index(t, "Base.uc", "class Base extends Object;\n")
	f.ix.IndexDocument(derived)
	if derived.Super() != symbols.Container(base) {
		t.Error("re-indexing should bind the previously missing super")
	}
}

func TestIndexImplicitStateOverride(t *testing.T) {
	f := newFixture()
	base, _ := f.index(t, "Base.uc", `class Base extends Object;

state Idle
{
	function Rest();
}
`)
	derived, _ := f.index(t, "Derived.uc", `class Derived extends Base;

state Idle
{
}
`)

	baseState := f.member(t, base, "Idle").(*symbols.State)
	derivedState := f.member(t, derived, "Idle").(*symbols.State)
	if derivedState.Super() != symbols.Container(baseState) {
		t.Fatal("a state without extends must override the inherited state of the same name")
	}
	if symbols.FindInScope(derivedState, f.nt.Intern("Rest"), symbols.KindMethod.Mask()) == nil {
		t.Error("the overriding state should see inherited state functions")
	}
}

func TestIndexStateIgnores(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;

function Poke();

state Idle
{
ignores Poke;
}
`)

	state := f.member(t, class, "Idle").(*symbols.State)
	method := f.member(t, class, "Poke")
	if len(state.Ignores) != 1 || state.Ignores[0].Resolved != method {
		t.Fatal("ignores entry should resolve to the class function")
	}
	if len(f.refs.References(f.hash(method))) == 0 {
		t.Error("a resolved ignores entry counts as a reference")
	}
}

func TestIndexTypeHints(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;

enum EMode
{
	MODE_On,
	MODE_Off
};

struct Vitals
{
	var int Current;
};

var EMode Mode;
var Vitals Life;
var array<Vitals> History;
var class<A> Template;
var int Plain;
`)

	mode := f.member(t, class, "Mode").(*symbols.Property)
	if mode.TypeRef.Resolved != f.member(t, class, "EMode") {
		t.Error("enum-typed property should bind the nested enum")
	}

	life := f.member(t, class, "Life").(*symbols.Property)
	if life.TypeRef.Resolved != f.member(t, class, "Vitals") {
		t.Error("struct-typed property should bind the nested struct")
	}

	history := f.member(t, class, "History").(*symbols.Property)
	if _, ok := history.TypeRef.Resolved.(*symbols.Primitive); !ok {
		t.Error("array head resolves to its fixed primitive symbol")
	}
	if history.TypeRef.Inner == nil || history.TypeRef.Inner.Resolved != f.member(t, class, "Vitals") {
		t.Error("array inner type should bind the struct")
	}

	template := f.member(t, class, "Template").(*symbols.Property)
	if template.TypeRef.Inner == nil || template.TypeRef.Inner.Resolved != symbols.Symbol(class) {
		t.Error("class<A> inner type should bind the class itself")
	}

	plain := f.member(t, class, "Plain").(*symbols.Property)
	if _, ok := plain.TypeRef.Resolved.(*symbols.Primitive); !ok {
		t.Error("int should short-circuit to the primitive")
	}
}

func TestIndexPrimitivesNotReferenceTracked(t *testing.T) {
	f := newFixture()
	_, res := f.index(t, "A.uc", `class A extends Object;
var int Health;
var int Armor;
`)

	intHash := f.hash(f.tables.Primitive(f.nt.Intern("int")))
	if len(res.Refs[intHash]) != 0 {
		t.Error("primitive uses must not enter the per-document ledger")
	}
	if len(f.refs.References(intHash)) != 0 {
		t.Error("primitive uses must not enter the reference index")
	}

	// They still get occurrences for hover.
	found := 0
	for _, occ := range res.Occurrences {
		if _, ok := occ.Target.(*symbols.Primitive); ok {
			found++
		}
	}
	if found != 2 {
		t.Errorf("primitive occurrences = %d, want 2", found)
	}
}

func TestIndexBodyReferences(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;

var int Health;

function Heal(int Amount)
{
	Health = Health + Amount;
}
`)

	health := f.member(t, class, "Health")
	if got := len(f.refs.References(f.hash(health))); got != 2 {
		t.Fatalf("references to Health = %d, want 2", got)
	}

	method := f.member(t, class, "Heal").(*symbols.Method)
	amount := method.FindChild(f.nt.Intern("Amount"), symbols.AnyKind)
	if got := len(f.refs.References(f.hash(amount))); got != 1 {
		t.Errorf("references to Amount = %d, want 1", got)
	}
}

func TestIndexDotMemberAccess(t *testing.T) {
	f := newFixture()
	f.index(t, "Pawn.uc", `class Pawn extends Object;
var int Health;
`)
	class, _ := f.index(t, "A.uc", `class A extends Object;

var Pawn Target;

function Drain()
{
	Target.Health = 0;
}
`)

	_ = class
	refs := f.refs.References("pawn.health")
	if len(refs) != 1 {
		t.Fatalf("references to Pawn.Health = %d, want 1", len(refs))
	}
	if refs[0].Location.URI != "A.uc" {
		t.Errorf("reference URI = %q", refs[0].Location.URI)
	}
}

func TestIndexEnumMemberBareReference(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;

enum EStance
{
	STANCE_Standing,
	STANCE_Prone
};

var EStance Stance;

function Drop()
{
	Stance = STANCE_Prone;
}
`)

	enum := f.member(t, class, "EStance").(*symbols.Enum)
	prone := enum.FindChild(f.nt.Intern("STANCE_Prone"), symbols.AnyKind)
	if got := len(f.refs.References(f.hash(prone))); got != 1 {
		t.Errorf("bare enumerator references = %d, want 1", got)
	}
}

func TestIndexDefaultsAgainstInheritedProperties(t *testing.T) {
	f := newFixture()
	base, _ := f.index(t, "Base.uc", `class Base extends Object;
var int Health;
`)
	derived, _ := f.index(t, "Derived.uc", `class Derived extends Base;

defaultproperties
{
	Health=50
	Bogus=1
}
`)

	defaults := f.member(t, derived, "defaultproperties").(*symbols.DefaultsBlock)
	health := f.member(t, base, "Health")
	raw := defaults.RawRefs()

	hr := raw[f.nt.Intern("Health")]
	if len(hr) != 1 || hr[0].Resolved != health {
		t.Fatal("defaults target should resolve against the inherited property")
	}
	br := raw[f.nt.Intern("Bogus")]
	if len(br) != 1 {
		t.Fatalf("Bogus raw refs = %d, want 1", len(br))
	}
	if br[0].Resolved != nil {
		t.Error("unknown defaults target must stay unresolved")
	}
}

func TestIndexReplication(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;

var int Health;
var int Role;

replication
{
	if (Role == 1)
		Health;
}
`)

	health := f.member(t, class, "Health")
	role := f.member(t, class, "Role")
	if len(f.refs.References(f.hash(health))) != 1 {
		t.Error("replicated name should be a reference to the property")
	}
	if len(f.refs.References(f.hash(role))) != 1 {
		t.Error("replication condition should resolve in class scope")
	}
}

func TestIndexGotoLabel(t *testing.T) {
	f := newFixture()
	_, res := f.index(t, "A.uc", `class A extends Object;

state Idle
{
Begin:
	goto 'Begin';
}
`)

	var label *Occurrence
	for i := range res.Occurrences {
		if res.Occurrences[i].LabelDef != nil {
			label = &res.Occurrences[i]
		}
	}
	if label == nil {
		t.Fatal("goto use should produce a label occurrence")
	}
	if label.Target != nil {
		t.Error("label occurrences carry no symbol")
	}
	if label.LabelDef.URI != "A.uc" || label.LabelDef.Range.Start.Line != 4 {
		t.Errorf("label definition = %v, want line 4 of A.uc", label.LabelDef)
	}
}

func TestIndexRetractionRoundTrip(t *testing.T) {
	f := newFixture()
	base, _ := f.index(t, "Base.uc", "class Base extends Object;\nvar int Health;\n")
	_, res := f.index(t, "Derived.uc", `class Derived extends Base;

defaultproperties
{
	Health=10
}
`)

	baseHash := f.hash(base)
	if len(f.refs.References(baseHash)) == 0 {
		t.Fatal("indexing should have filed references")
	}

	for hash, refs := range res.Refs {
		f.refs.Remove(hash, refs)
	}
	if len(f.refs.References(baseHash)) != 0 {
		t.Error("retracting the ledger must clear every reference the document filed")
	}
	if f.refs.TargetCount() != 0 {
		t.Errorf("targets after retraction = %d, want 0", f.refs.TargetCount())
	}
}

func TestIndexRepeatIsStable(t *testing.T) {
	f := newFixture()
	f.index(t, "Base.uc", "class Base extends Object;\nvar int Health;\n")
	derived, first := f.index(t, "Derived.uc", `class Derived extends Base;

function Hurt()
{
	Health = 0;
}
`)

	healthRefs := len(f.refs.References("base.health"))

	// Simulate invalidation and rebuild of the same content.
	for hash, refs := range first.Refs {
		f.refs.Remove(hash, refs)
	}
	second := f.ix.IndexDocument(derived)

	if got := len(f.refs.References("base.health")); got != healthRefs {
		t.Errorf("references after rebuild = %d, want %d", got, healthRefs)
	}
	if len(second.Occurrences) != len(first.Occurrences) {
		t.Errorf("occurrences changed across rebuild: %d vs %d",
			len(second.Occurrences), len(first.Occurrences))
	}
}

func TestIndexUnresolvedTypeStaysNil(t *testing.T) {
	f := newFixture()
	class, _ := f.index(t, "A.uc", `class A extends Object;
var MissingType Thing;
`)

	thing := f.member(t, class, "Thing").(*symbols.Property)
	if thing.TypeRef.IsResolved() {
		t.Error("unknown type must stay unresolved for the analyzer to flag")
	}
}

func TestOccurrenceAtPicksNarrowest(t *testing.T) {
	wide := span.Range{
		Start: span.Position{Line: 1, Character: 0},
		End:   span.Position{Line: 1, Character: 30},
	}
	narrow := span.Range{
		Start: span.Position{Line: 1, Character: 4},
		End:   span.Position{Line: 1, Character: 10},
	}
	res := &Result{Occurrences: []Occurrence{{R: wide}, {R: narrow}}}

	got := res.OccurrenceAt(span.Position{Line: 1, Character: 5})
	if got == nil || got.R != narrow {
		t.Errorf("OccurrenceAt() = %v, want the narrow occurrence", got)
	}
	if res.OccurrenceAt(span.Position{Line: 2, Character: 0}) != nil {
		t.Error("a position outside every occurrence should miss")
	}
}
