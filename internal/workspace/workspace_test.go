package workspace

import (
	"context"
	"testing"
	"time"

	"uls/internal/config"
	"uls/internal/errors"
	"uls/internal/logging"
	"uls/internal/symbols"
)

func newTestWorkspace(t *testing.T, mode string) *Workspace {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Analysis.Mode = mode
	return New(cfg, nil, logging.Nop())
}

func TestIndexDocumentRegistersClass(t *testing.T) {
	ws := newTestWorkspace(t, "none")

	doc, err := ws.IndexDocument("Engine/Classes/Pawn.uc", `class Pawn extends Object;
var int Health;
`, "Engine")
	if err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
	if doc.Class == nil || !doc.Class.Built {
		t.Fatal("document should carry a built class")
	}

	if ws.Tables().FindSymbol(ws.Names().Intern("Pawn"), false) != symbols.Symbol(doc.Class) {
		t.Error("class should be registered in the global tables")
	}
	pkg := ws.Tables().FindPackage(ws.Names().Intern("Engine"))
	if pkg == nil || pkg.FindClass(ws.Names().Intern("Pawn")) != doc.Class {
		t.Error("class should be filed under its package")
	}

	got, err := ws.Document("Engine/Classes/Pawn.uc")
	if err != nil || got != doc {
		t.Errorf("Document() = %v, %v", got, err)
	}
	if _, err := ws.Document("nope.uc"); !errors.IsCode(err, errors.DocumentNotFound) {
		t.Errorf("unknown URI should fail with DocumentNotFound, got %v", err)
	}
}

func TestDocumentForClass(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	doc, err := ws.IndexDocument("Pawn.uc", "class Pawn extends Object;\n", "Engine")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query string
		want  *Document
	}{
		{"Engine.Pawn", doc},
		{"engine.pawn", doc},
		{"Pawn", doc},
		{"pawn", doc},
	}
	for _, tt := range tests {
		got, err := ws.DocumentForClass(tt.query)
		if err != nil || got != tt.want {
			t.Errorf("DocumentForClass(%q) = %v, %v", tt.query, got, err)
		}
	}
	if _, err := ws.DocumentForClass("Engine.Missing"); !errors.IsCode(err, errors.DocumentNotFound) {
		t.Errorf("unknown class should fail with DocumentNotFound, got %v", err)
	}
}

func TestReindexRetractsStaleReferences(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	base, err := ws.IndexDocument("Base.uc", "class Base extends Object;\nvar int Health;\n", "Game")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ws.IndexDocument("Derived.uc", `class Derived extends Base;

function Hurt()
{
	Health = 0;
}
`, "Game"); err != nil {
		t.Fatal(err)
	}

	health := base.Class.FindChild(ws.Names().Intern("Health"), symbols.AnyKind)
	healthHash := symbols.Hash(ws.Names(), health)
	if got := len(ws.References().References(healthHash)); got != 1 {
		t.Fatalf("references before re-index = %d, want 1", got)
	}

	// The rewritten body no longer touches Health.
	if _, err := ws.IndexDocument("Derived.uc", `class Derived extends Base;

function Hurt()
{
}
`, "Game"); err != nil {
		t.Fatal(err)
	}
	if got := len(ws.References().References(healthHash)); got != 0 {
		t.Errorf("stale references after re-index = %d, want 0", got)
	}
}

func TestReindexReplacesClass(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	first, err := ws.IndexDocument("A.uc", "class A extends Object;\nvar int Old;\n", "Game")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ws.IndexDocument("A.uc", "class A extends Object;\nvar int New;\n", "Game")
	if err != nil {
		t.Fatal(err)
	}

	if first.Class == second.Class {
		t.Fatal("re-indexing must rebuild the tree")
	}
	if ws.Tables().FindSymbol(ws.Names().Intern("A"), false) != symbols.Symbol(second.Class) {
		t.Error("tables should hold the rebuilt class")
	}
	if ws.Tables().SymbolCount() != 1 {
		t.Errorf("symbol count = %d, want 1", ws.Tables().SymbolCount())
	}

	doc, err := ws.DocumentForClass("Game.A")
	if err != nil || doc != second {
		t.Errorf("DocumentForClass after re-index = %v, %v", doc, err)
	}
}

func TestRemoveDocument(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	if _, err := ws.IndexDocument("A.uc", "class A extends Object;\n", "Game"); err != nil {
		t.Fatal(err)
	}

	ws.RemoveDocument("A.uc")
	if _, err := ws.Document("A.uc"); !errors.IsCode(err, errors.DocumentNotFound) {
		t.Error("removed document should be forgotten")
	}
	if ws.Tables().FindSymbol(ws.Names().Intern("A"), false) != nil {
		t.Error("removed document's class should leave the tables")
	}
}

func TestClasslessDocumentKeepsParseDiagnostics(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	doc, err := ws.IndexDocument("frag.uc", "var int Orphan;\n", "Game")
	if !errors.IsCode(err, errors.ParseFailed) {
		t.Fatalf("classless file should fail with ParseFailed, got %v", err)
	}
	if doc == nil || !doc.HasBeenIndexed {
		t.Fatal("the document is still tracked for its diagnostics")
	}
	if got, err := ws.Document("frag.uc"); err != nil || got != doc {
		t.Errorf("Document() = %v, %v", got, err)
	}
}

func TestAnalysisModes(t *testing.T) {
	const src = "class A extends Object;\nvar MissingType Thing;\n"

	t.Run("none", func(t *testing.T) {
		ws := newTestWorkspace(t, "none")
		doc, _ := ws.IndexDocument("A.uc", src, "Game")
		if len(doc.Diags) != 0 {
			t.Errorf("diags = %d, want 0", len(doc.Diags))
		}
	})

	t.Run("all", func(t *testing.T) {
		ws := newTestWorkspace(t, "all")
		doc, _ := ws.IndexDocument("A.uc", src, "Game")
		if len(doc.Diags) == 0 {
			t.Error("unresolved type should be flagged")
		}
	})

	t.Run("active", func(t *testing.T) {
		ws := newTestWorkspace(t, "active")
		doc, _ := ws.IndexDocument("A.uc", src, "Game")
		if len(doc.Diags) != 0 {
			t.Error("closed documents are not analyzed in active mode")
		}

		ws.SetOpen("A.uc", true)
		doc, _ = ws.IndexDocument("A.uc", src, "Game")
		if len(doc.Diags) == 0 {
			t.Error("open documents are analyzed in active mode")
		}
	})
}

func TestAllDiagnosticsMergesParseAndAnalysis(t *testing.T) {
	ws := newTestWorkspace(t, "all")
	doc, _ := ws.IndexDocument("A.uc", `class A extends Object;
var int ;
var MissingType Thing;
`, "Game")

	all := doc.AllDiagnostics()
	if len(all) < 2 {
		t.Fatalf("merged diagnostics = %d, want parse + analysis entries", len(all))
	}
}

func TestReadyGate(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	if ws.Ready() {
		t.Fatal("workspace starts not ready")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ws.AwaitReady(ctx); !errors.IsCode(err, errors.WorkspaceNotReady) {
		t.Errorf("AwaitReady on canceled context = %v, want WorkspaceNotReady", err)
	}

	ws.MarkReady()
	ws.MarkReady() // idempotent
	if !ws.Ready() {
		t.Error("workspace should be ready after MarkReady")
	}
	if err := ws.AwaitReady(context.Background()); err != nil {
		t.Errorf("AwaitReady after MarkReady = %v", err)
	}
}

func TestQueueCoalesces(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	q := NewQueue(ws, time.Hour) // never fires on its own in this test
	defer q.Close()

	q.Submit("A.uc", "class A extends Object;\nvar int First;\n", "Game")
	id := q.Submit("A.uc", "class A extends Object;\nvar int Second;\n", "Game")
	q.Submit("B.uc", "class B extends Object;\n", "Game")

	if id == "" {
		t.Error("Submit should hand back a request id")
	}
	if q.Len() != 2 {
		t.Fatalf("pending = %d, want 2 (same-URI submissions coalesce)", q.Len())
	}

	q.Flush()
	if q.Len() != 0 {
		t.Errorf("pending after flush = %d, want 0", q.Len())
	}

	doc, err := ws.Document("A.uc")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Class.FindChild(ws.Names().Intern("Second"), symbols.AnyKind) == nil {
		t.Error("the newest content should win")
	}
	if doc.Class.FindChild(ws.Names().Intern("First"), symbols.AnyKind) != nil {
		t.Error("superseded content must not be indexed")
	}
}

func TestStats(t *testing.T) {
	ws := newTestWorkspace(t, "none")
	if _, err := ws.IndexDocument("A.uc", "class A extends Object;\n", "Game"); err != nil {
		t.Fatal(err)
	}
	ws.MarkReady()

	stats := ws.Stats()
	if stats["documents"] != 1 || stats["symbols"] != 1 || stats["ready"] != true {
		t.Errorf("Stats() = %v", stats)
	}
}
