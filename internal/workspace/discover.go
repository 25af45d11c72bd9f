package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// ScriptFile is one discovered source file with its inferred package.
type ScriptFile struct {
	Path    string
	Package string
}

// Discover walks the manifest's source directories collecting .uc files.
// The package of a file follows the engine convention PackageName/Classes/
// Foo.uc; files outside a Classes directory take their parent directory's
// name as the package.
func (w *Workspace) Discover() ([]ScriptFile, error) {
	roots := []string{w.cfg.RepoRoot}
	if w.manifest != nil && len(w.manifest.SourceDirs) > 0 {
		roots = nil
		for _, dir := range w.manifest.SourceDirs {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(w.cfg.RepoRoot, dir)
			}
			roots = append(roots, dir)
		}
	}

	ignored := make(map[string]bool)
	for _, name := range w.cfg.Workspace.Ignore {
		ignored[strings.ToLower(name)] = true
	}

	var files []ScriptFile
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if ignored[strings.ToLower(d.Name())] {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".uc") {
				return nil
			}
			files = append(files, ScriptFile{Path: path, Package: packageFor(path)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func packageFor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(dir)
	if strings.EqualFold(base, "Classes") {
		return filepath.Base(filepath.Dir(dir))
	}
	return base
}

// IndexAll discovers every script file, declares them all, then resolves
// them all, and finally opens the ready gate. Declaration and resolution run
// as separate passes so a class finds its superclass no matter where the
// two files fall in walk order. Individual file failures are logged and
// skipped so one bad file cannot block the workspace.
func (w *Workspace) IndexAll() error {
	files, err := w.Discover()
	if err != nil {
		return err
	}

	var declared []*Document
	for _, f := range files {
		content, readErr := os.ReadFile(f.Path)
		if readErr != nil {
			w.log.Warn("skipping unreadable file", map[string]interface{}{
				"path":  f.Path,
				"error": readErr.Error(),
			})
			continue
		}
		doc, declErr := w.declareDocument(f.Path, string(content), f.Package)
		if declErr != nil {
			w.log.Warn("document failed to index", map[string]interface{}{
				"uri":   f.Path,
				"error": declErr.Error(),
			})
			continue
		}
		declared = append(declared, doc)
	}

	for _, doc := range declared {
		w.resolveDocument(doc)
	}

	w.log.Info("workspace indexed", map[string]interface{}{
		"files":   len(files),
		"indexed": len(declared),
		"symbols": w.tables.SymbolCount(),
	})
	w.MarkReady()
	return nil
}
