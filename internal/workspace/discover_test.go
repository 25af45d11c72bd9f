package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"uls/internal/config"
	"uls/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPackageFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join("Engine", "Classes", "Actor.uc"), "Engine"},
		{filepath.Join("GameCode", "classes", "Pawn.uc"), "GameCode"},
		{filepath.Join("Loose", "Thing.uc"), "Loose"},
	}
	for _, tt := range tests {
		if got := packageFor(tt.path); got != tt.want {
			t.Errorf("packageFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDiscoverAndIndexAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Engine", "Classes", "Actor.uc"), "class Actor extends Object;\n")
	writeFile(t, filepath.Join(root, "Game", "Classes", "Pawn.uc"), "class Pawn extends Actor;\n")
	writeFile(t, filepath.Join(root, "Game", "Classes", "notes.txt"), "ignore me")
	writeFile(t, filepath.Join(root, "Saves", "Old.uc"), "class Old extends Object;\n")

	cfg := config.DefaultConfig()
	cfg.RepoRoot = root
	cfg.Analysis.Mode = "none"
	ws := New(cfg, nil, logging.Nop())

	files, err := ws.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("discovered = %d, want 2 (non-.uc and ignored dirs skipped)", len(files))
	}
	for _, f := range files {
		if f.Package != "Engine" && f.Package != "Game" {
			t.Errorf("package for %s = %q", f.Path, f.Package)
		}
	}

	if err := ws.IndexAll(); err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if !ws.Ready() {
		t.Error("workspace should be ready after the initial pass")
	}

	pawn, err := ws.DocumentForClass("Game.Pawn")
	if err != nil {
		t.Fatal(err)
	}
	if pawn.Class.Super() == nil {
		t.Error("Pawn should link its super after the initial pass")
	}
}

func TestIndexAllOrderIndependent(t *testing.T) {
	root := t.TempDir()
	// AChild sorts before ZBase in the walk; resolution must still find the
	// superclass and its members.
	writeFile(t, filepath.Join(root, "Game", "Classes", "AChild.uc"), `class AChild extends ZBase;

function Poke()
{
	Foo();
}
`)
	writeFile(t, filepath.Join(root, "Game", "Classes", "ZBase.uc"), `class ZBase;

function Foo()
{
}
`)

	cfg := config.DefaultConfig()
	cfg.RepoRoot = root
	cfg.Analysis.Mode = "none"
	ws := New(cfg, nil, logging.Nop())

	if err := ws.IndexAll(); err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}

	child, err := ws.DocumentForClass("Game.AChild")
	if err != nil {
		t.Fatal(err)
	}
	if child.Class.Super() == nil {
		t.Fatal("AChild should link its super even though ZBase is walked later")
	}
	if refs := ws.References().References("game.zbase.foo"); len(refs) != 1 {
		t.Errorf("references to inherited Foo = %d, want 1", len(refs))
	}
}
