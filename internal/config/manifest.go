package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the per-project uls.toml file. It names the project, lists
// the directories whose subdirectories are treated as script packages, and
// carries macro definitions applied before lexing.
type Manifest struct {
	Name       string            `toml:"name"`
	SourceDirs []string          `toml:"source_dirs"`
	Intrinsics []string          `toml:"intrinsics"`
	Macros     map[string]string `toml:"macros"`

	Analysis ManifestAnalysis `toml:"analysis"`
	Index    ManifestIndex    `toml:"index"`
}

// ManifestAnalysis overrides the tool-level analysis mode per project.
type ManifestAnalysis struct {
	Mode string `toml:"mode"`
}

// ManifestIndex overrides indexing knobs per project.
type ManifestIndex struct {
	DebounceMs int `toml:"debounce_ms"`
}

// LoadManifest parses a uls.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	if len(m.SourceDirs) == 0 {
		m.SourceDirs = []string{"."}
	}
	return &m, nil
}

// FindManifest walks from dir upward looking for a manifest file, returning
// its path or false when none exists up to the filesystem root.
func FindManifest(dir, name string) (string, bool) {
	if name == "" {
		name = "uls.toml"
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Apply folds manifest overrides into a loaded tool config.
func (m *Manifest) Apply(cfg *Config) {
	if m.Analysis.Mode != "" {
		cfg.Analysis.Mode = m.Analysis.Mode
	}
	if m.Index.DebounceMs > 0 {
		cfg.Indexing.DebounceMs = m.Index.DebounceMs
	}
}
