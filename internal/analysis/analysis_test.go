package analysis

import (
	"strings"
	"testing"

	"uls/internal/build"
	"uls/internal/index"
	"uls/internal/logging"
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/symbols"
)

func analyzeSource(t *testing.T, src string) []Diagnostic {
	t.Helper()
	nt := names.NewTable()
	tables := symbols.NewTables(nt)

	file, _ := parser.Parse(src, nil)
	class := build.Document(nt, "Test.uc", file)
	if class == nil {
		t.Fatal("no class built")
	}
	if err := tables.AddSymbol(class); err != nil {
		t.Fatal(err)
	}
	index.New(tables, index.NewReferenceIndex(), logging.Nop()).IndexDocument(class)

	return New(nt).Document(class)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"none", ModeNone},
		{"active", ModeActive},
		{"all", ModeAll},
		{"", ModeActive},
		{"bogus", ModeActive},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnrecognizedType(t *testing.T) {
	diags := analyzeSource(t, `class Test extends Object;
var MissingType Thing;
`)

	var found bool
	for _, d := range diags {
		if d.Severity == SeverityError && strings.Contains(d.Message, `unrecognized type "MissingType"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unrecognized-type diagnostic, got %v", diags)
	}
}

func TestResolvedTypesAreClean(t *testing.T) {
	diags := analyzeSource(t, `class Test;

enum EMode
{
	MODE_On
};

struct Vitals
{
	var int Current;
};

var int Health;
var EMode Mode;
var Vitals Life;
var array<int> Values;
`)
	if len(diags) != 0 {
		t.Errorf("clean document produced diagnostics: %v", diags)
	}
}

func TestParametrizedInnerChecked(t *testing.T) {
	diags := analyzeSource(t, `class Test;
var array<MissingInner> Values;
`)

	var found bool
	for _, d := range diags {
		if strings.Contains(d.Message, "MissingInner") {
			found = true
		}
	}
	if !found {
		t.Errorf("inner type of a parametrized type should be checked, got %v", diags)
	}
}

func TestKindMismatch(t *testing.T) {
	// NotAStruct resolves to a property, so the finding names the expected
	// kind rather than reporting an unrecognized type.
	diags := analyzeSource(t, `class Test;

var int NotAStruct;

struct Vitals extends NotAStruct
{
	var int Current;
};
`)

	var found bool
	for _, d := range diags {
		if d.Severity == SeverityError && strings.Contains(d.Message, "expected a struct") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing kind-mismatch diagnostic, got %v", diags)
	}
}

func TestKindMismatchState(t *testing.T) {
	diags := analyzeSource(t, `class Test;

function Idle()
{
}

state Roaming extends Idle
{
}
`)

	var found bool
	for _, d := range diags {
		if strings.Contains(d.Message, "expected a state") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing kind-mismatch diagnostic, got %v", diags)
	}
}

func TestAnalysisIsIdempotent(t *testing.T) {
	nt := names.NewTable()
	tables := symbols.NewTables(nt)

	file, _ := parser.Parse(`class Test extends Object;
var MissingType Thing;
`, nil)
	class := build.Document(nt, "Test.uc", file)
	if class == nil {
		t.Fatal("no class built")
	}
	if err := tables.AddSymbol(class); err != nil {
		t.Fatal(err)
	}
	index.New(tables, index.NewReferenceIndex(), logging.Nop()).IndexDocument(class)

	a := New(nt)
	first := a.Document(class)
	second := a.Document(class)
	if len(first) != len(second) {
		t.Errorf("diagnostics changed across runs: %d vs %d", len(first), len(second))
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" {
		t.Error("severity labels")
	}
}
