package build

import (
	"testing"

	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/symbols"
)

func buildSource(t *testing.T, nt *names.Table, uri, src string) *symbols.Class {
	t.Helper()
	file, _ := parser.Parse(src, nil)
	class := Document(nt, uri, file)
	if class == nil {
		t.Fatalf("Document() returned nil for %s", uri)
	}
	return class
}

func findChild(t *testing.T, nt *names.Table, c symbols.Container, name string) symbols.Symbol {
	t.Helper()
	sym := c.FindChild(nt.Intern(name), symbols.AnyKind)
	if sym == nil {
		t.Fatalf("child %q not found in %q", name, nt.Text(c.Name()))
	}
	return sym
}

func TestBuildClassTree(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "MyActor.uc", `class MyActor extends Actor;

const MAX = 3;

var int Health;
var float Speed, TurnRate;

function TakeDamage(int Amount)
{
	local int Remaining;
	Remaining = Health - Amount;
}
`)

	if !class.Built {
		t.Error("Built should be set after a completed build")
	}
	if class.ExtendsRef() == nil || nt.Lower(class.ExtendsRef().Name) != "actor" {
		t.Error("class extends ref should name Actor")
	}

	findChild(t, nt, class, "MAX")
	findChild(t, nt, class, "Health")
	findChild(t, nt, class, "TurnRate")

	method := findChild(t, nt, class, "TakeDamage").(*symbols.Method)
	if len(method.Params) != 1 {
		t.Fatalf("params = %d, want 1", len(method.Params))
	}
	if method.Params[0].Outer() != symbols.Symbol(method) {
		t.Error("parameter outer should be the method")
	}
	findChild(t, nt, method, "Remaining")
	findChild(t, nt, method, "Amount")
}

func TestBuildEnumNumbering(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "A.uc", `class A extends Object;

enum EColor
{
	COLOR_Red,
	COLOR_Green,
	COLOR_Blue
};
`)

	enum := findChild(t, nt, class, "EColor").(*symbols.Enum)
	tests := []struct {
		member string
		value  int
	}{
		{"COLOR_Red", 0},
		{"COLOR_Green", 1},
		{"COLOR_Blue", 2},
		{"EnumCount", 3},
	}
	for _, tt := range tests {
		m := findChild(t, nt, enum, tt.member).(*symbols.EnumMember)
		if m.Value != tt.value {
			t.Errorf("%s = %d, want %d", tt.member, m.Value, tt.value)
		}
	}

	count := findChild(t, nt, enum, "EnumCount")
	if !count.IDRange().IsZero() {
		t.Error("EnumCount is synthesized and must carry a zero range")
	}
}

func TestBuildPerDeclaratorTypeRefs(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "A.uc", `class A extends Object;
var Vitals First, Second;
`)

	first := findChild(t, nt, class, "First").(*symbols.Property)
	second := findChild(t, nt, class, "Second").(*symbols.Property)
	if first.TypeRef == nil || second.TypeRef == nil {
		t.Fatal("both properties need type refs")
	}
	if first.TypeRef == second.TypeRef {
		t.Error("declarators must not share one type ref; resolution records per-occurrence references")
	}
	if first.TypeRef.Name != second.TypeRef.Name {
		t.Error("cloned refs should name the same type")
	}
}

func TestBuildStateCarriesLabelsAndIgnores(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "A.uc", `class A extends Object;

function Poke();

state Idle
{
ignores Poke;

Begin:
	Sleep(1.0);
Loop:
	goto 'Loop';
}
`)

	state := findChild(t, nt, class, "Idle").(*symbols.State)
	if len(state.Ignores) != 1 || nt.Lower(state.Ignores[0].Name) != "poke" {
		t.Errorf("ignores = %v", state.Ignores)
	}
	if _, ok := state.Labels()[nt.Intern("Begin")]; !ok {
		t.Error("label Begin missing")
	}
	if _, ok := state.Labels()[nt.Intern("Loop")]; !ok {
		t.Error("label Loop missing")
	}
	if state.Block() == nil {
		t.Error("state code block missing")
	}
}

func TestBuildInlineEnumType(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "A.uc", `class A extends Object;

var enum EMode
{
	MODE_On,
	MODE_Off
} Mode;
`)

	enum := findChild(t, nt, class, "EMode").(*symbols.Enum)
	if enum.FindChild(nt.Intern("MODE_On"), symbols.AnyKind) == nil {
		t.Error("inline enum members missing")
	}

	prop := findChild(t, nt, class, "Mode").(*symbols.Property)
	if prop.TypeRef == nil || nt.Lower(prop.TypeRef.Name) != "emode" {
		t.Errorf("property type should reference the inline enum, got %v", prop.TypeRef)
	}
	if prop.TypeRef.Expect != symbols.HintEnum {
		t.Errorf("inline enum reference hint = %v, want HintEnum", prop.TypeRef.Expect)
	}
}

func TestBuildDefaultsRawRefs(t *testing.T) {
	nt := names.NewTable()
	class := buildSource(t, nt, "A.uc", `class A extends Object;
var int Health;

defaultproperties
{
	Health=10
	Health=20
	Missing=1
}
`)

	defaults := findChild(t, nt, class, "defaultproperties").(*symbols.DefaultsBlock)
	if len(defaults.Assignments) != 3 {
		t.Fatalf("assignments = %d, want 3", len(defaults.Assignments))
	}
	raw := defaults.RawRefs()
	if len(raw[nt.Intern("Health")]) != 2 {
		t.Errorf("Health raw refs = %d, want 2", len(raw[nt.Intern("Health")]))
	}
	if len(raw[nt.Intern("Missing")]) != 1 {
		t.Errorf("Missing raw refs = %d, want 1", len(raw[nt.Intern("Missing")]))
	}
}

func TestBuildMalformedDeclarationsSkipped(t *testing.T) {
	nt := names.NewTable()
	file, _ := parser.Parse(`class A extends Object;

var int ;

var int Good;
`, nil)
	class := Document(nt, "A.uc", file)
	if class == nil {
		t.Fatal("class should still build")
	}
	if class.FindChild(nt.Intern("Good"), symbols.AnyKind) == nil {
		t.Error("well-formed sibling should survive a malformed declaration")
	}
}

func TestBuildNoClass(t *testing.T) {
	nt := names.NewTable()
	file, _ := parser.Parse("// include fragment, no class here\n", nil)
	if class := Document(nt, "frag.uci", file); class != nil {
		t.Errorf("Document() = %v, want nil for classless file", class)
	}
}

func TestBuildContainsPanics(t *testing.T) {
	nt := names.NewTable()
	file, _ := parser.Parse("class A extends Object;\n", nil)
	// A nil declaration in the member list must not take the document down.
	file.Class.Members = append(file.Class.Members, (*parser.VarDecl)(nil))

	class := Document(nt, "A.uc", file)
	if class == nil {
		t.Fatal("class built before the failure should survive")
	}
	if !class.Built {
		t.Error("surviving class should be marked built")
	}
}
