package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Workspace.ManifestName != "uls.toml" {
		t.Errorf("ManifestName = %q, want %q", cfg.Workspace.ManifestName, "uls.toml")
	}
	if cfg.Indexing.DebounceMs != 300 {
		t.Errorf("DebounceMs = %d, want 300", cfg.Indexing.DebounceMs)
	}
	if cfg.Analysis.Mode != "active" {
		t.Errorf("Analysis.Mode = %q, want %q", cfg.Analysis.Mode, "active")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"bad analysis mode", func(c *Config) { c.Analysis.Mode = "sometimes" }, true},
		{"mode all", func(c *Config) { c.Analysis.Mode = "all" }, false},
		{"negative debounce", func(c *Config) { c.Indexing.DebounceMs = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want default 1", cfg.Version)
	}
	if cfg.RepoRoot != dir {
		t.Errorf("RepoRoot = %q, want %q", cfg.RepoRoot, dir)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".uls"), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "indexing": {"debounceMs": 50},
  "analysis": {"mode": "all"},
  "logging": {"format": "json", "level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(dir, ".uls", "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Indexing.DebounceMs != 50 {
		t.Errorf("DebounceMs = %d, want 50", cfg.Indexing.DebounceMs)
	}
	if cfg.Analysis.Mode != "all" {
		t.Errorf("Analysis.Mode = %q, want all", cfg.Analysis.Mode)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Indexing.DebounceMs = 120
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Indexing.DebounceMs != 120 {
		t.Errorf("DebounceMs = %d, want 120", loaded.Indexing.DebounceMs)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	content := `name = "MyGame"
source_dirs = ["Src", "Mods"]
intrinsics = ["intrinsics/core.yml"]

[macros]
final = "final"

[analysis]
mode = "none"

[index]
debounce_ms = 150
`
	path := filepath.Join(dir, "uls.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m.Name != "MyGame" {
		t.Errorf("Name = %q, want MyGame", m.Name)
	}
	if len(m.SourceDirs) != 2 || m.SourceDirs[0] != "Src" {
		t.Errorf("SourceDirs = %v", m.SourceDirs)
	}
	if m.Macros["final"] != "final" {
		t.Errorf("Macros = %v", m.Macros)
	}

	cfg := DefaultConfig()
	m.Apply(cfg)
	if cfg.Analysis.Mode != "none" {
		t.Errorf("Apply: Analysis.Mode = %q, want none", cfg.Analysis.Mode)
	}
	if cfg.Indexing.DebounceMs != 150 {
		t.Errorf("Apply: DebounceMs = %d, want 150", cfg.Indexing.DebounceMs)
	}
}

func TestLoadManifestDefaultsSourceDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uls.toml")
	if err := os.WriteFile(path, []byte(`name = "Minimal"`), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.SourceDirs) != 1 || m.SourceDirs[0] != "." {
		t.Errorf("SourceDirs = %v, want [.]", m.SourceDirs)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(root, "uls.toml")
	if err := os.WriteFile(manifestPath, []byte(`name = "X"`), 0644); err != nil {
		t.Fatal(err)
	}

	got, ok := FindManifest(nested, "uls.toml")
	if !ok {
		t.Fatal("FindManifest() should find the manifest above nested dir")
	}
	if got != manifestPath {
		t.Errorf("FindManifest() = %q, want %q", got, manifestPath)
	}

	if _, ok := FindManifest(t.TempDir(), "uls.toml"); ok {
		t.Error("FindManifest() should report false when no manifest exists")
	}
}
