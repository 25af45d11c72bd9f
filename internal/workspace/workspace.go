// Package workspace orchestrates the indexing pipeline: it owns the global
// tables, drives parse, build, resolve and analyze for each document, and
// keeps the invalidation bookkeeping that makes re-indexing correct.
//
// A single worker performs all writes. Queries may run concurrently with
// the worker; the structures they touch are individually guarded.
package workspace

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"uls/internal/analysis"
	"uls/internal/build"
	"uls/internal/config"
	"uls/internal/errors"
	"uls/internal/index"
	"uls/internal/logging"
	"uls/internal/names"
	"uls/internal/parser"
	"uls/internal/symbols"
)

// Workspace is the root object of the language service.
type Workspace struct {
	cfg      *config.Config
	manifest *config.Manifest
	log      *logging.Logger

	names    *names.Table
	tables   *symbols.Tables
	refs     *index.ReferenceIndex
	indexer  *index.Indexer
	analyzer *analysis.Analyzer
	mode     analysis.Mode
	macros   map[string]string

	mu      sync.RWMutex
	docs    map[string]*Document
	byClass map[string]*Document
	open    map[string]bool

	ready     chan struct{}
	readyOnce sync.Once
}

// New assembles a workspace from loaded configuration. The manifest may be
// nil when the tool runs outside a project.
func New(cfg *config.Config, manifest *config.Manifest, log *logging.Logger) *Workspace {
	nt := names.NewTable()
	tables := symbols.NewTables(nt)
	refs := index.NewReferenceIndex()

	macros := map[string]string{}
	mode := analysis.ParseMode(cfg.Analysis.Mode)
	if manifest != nil {
		for k, v := range manifest.Macros {
			macros[strings.ToLower(k)] = v
		}
	}

	return &Workspace{
		cfg:      cfg,
		manifest: manifest,
		log:      log,
		names:    nt,
		tables:   tables,
		refs:     refs,
		indexer:  index.New(tables, refs, log),
		analyzer: analysis.New(nt),
		mode:     mode,
		macros:   macros,
		docs:     make(map[string]*Document),
		byClass:  make(map[string]*Document),
		open:     make(map[string]bool),
		ready:    make(chan struct{}),
	}
}

// Names returns the shared intern table.
func (w *Workspace) Names() *names.Table { return w.names }

// Tables returns the global symbol tables.
func (w *Workspace) Tables() *symbols.Tables { return w.tables }

// References returns the shared reference index.
func (w *Workspace) References() *index.ReferenceIndex { return w.refs }

// LoadIntrinsics injects the manifest's intrinsic symbol files.
func (w *Workspace) LoadIntrinsics() error {
	if w.manifest == nil {
		return nil
	}
	for _, rel := range w.manifest.Intrinsics {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(w.cfg.RepoRoot, rel)
		}
		file, err := config.LoadIntrinsics(path)
		if err != nil {
			return err
		}
		if err := config.InjectIntrinsics(w.tables, file); err != nil {
			return err
		}
		w.log.Debug("intrinsics loaded", map[string]interface{}{
			"path":  path,
			"count": len(file),
		})
	}
	return nil
}

// IndexDocument runs the full pipeline for one document: invalidate any
// previous state, parse, build the symbol tree, register it, resolve, and
// analyze. It is the only write path into the tables.
func (w *Workspace) IndexDocument(uri, content, pkg string) (*Document, error) {
	doc, err := w.declareDocument(uri, content, pkg)
	if err != nil {
		return doc, err
	}
	w.resolveDocument(doc)
	return doc, nil
}

// declareDocument runs the declaration phase: invalidate, parse, build the
// symbol tree and register the class. Resolution is a separate phase so a
// bulk load can declare every document before any of them resolves;
// otherwise a class would bind its extends chain against whatever subset of
// the workspace happened to be registered first.
func (w *Workspace) declareDocument(uri, content, pkg string) (*Document, error) {
	w.invalidate(uri)

	file, parseDiags := parser.Parse(content, w.macros)
	doc := &Document{URI: uri, Package: pkg, ParseDiags: parseDiags}

	class := build.Document(w.names, uri, file)
	if class == nil {
		// No class declaration survived parsing; keep the document so its
		// parse diagnostics remain queryable.
		doc.HasBeenIndexed = true
		w.storeDoc(doc, "")
		return doc, errors.Newf(errors.ParseFailed, "no class declaration in %s", uri)
	}
	doc.Class = class

	pkgSym := w.tables.EnsurePackage(w.names.Intern(pkg))
	class.SetOuter(pkgSym)
	if err := w.tables.AddSymbol(class); err != nil {
		w.log.Warn("symbol registration", map[string]interface{}{
			"uri":   uri,
			"error": err.Error(),
		})
	} else {
		pkgSym.AddClass(class)
	}

	w.storeDoc(doc, symbols.Hash(w.names, class))
	return doc, nil
}

// resolveDocument runs the resolution phase over a declared document.
func (w *Workspace) resolveDocument(doc *Document) {
	if doc.Class != nil {
		doc.Result = w.indexer.IndexDocument(doc.Class)
		if w.shouldAnalyze(doc.URI) {
			doc.Diags = w.analyzer.Document(doc.Class)
		}
	}
	doc.HasBeenIndexed = true
}

func (w *Workspace) storeDoc(doc *Document, classKey string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[doc.URI] = doc
	if classKey != "" {
		w.byClass[classKey] = doc
	}
}

// invalidate retracts everything the document contributed: the references
// it made (exactly those recorded at index time), its class registration,
// and its tree. References other documents made to this document's symbols
// stay in the index; their hashes simply point at nothing until a rebuild
// re-registers the symbols.
func (w *Workspace) invalidate(uri string) {
	w.mu.Lock()
	doc, ok := w.docs[uri]
	w.mu.Unlock()
	if !ok || doc.Class == nil {
		return
	}

	if doc.Result != nil {
		for hash, refs := range doc.Result.Refs {
			w.refs.Remove(hash, refs)
		}
	}

	class := doc.Class
	w.tables.RemoveSymbol(class.Name(), class)
	if pkg, isPkg := class.Outer().(*symbols.Package); isPkg {
		if pkg.FindClass(class.Name()) == class {
			pkg.RemoveClass(class.Name())
		}
	}

	w.mu.Lock()
	delete(w.byClass, symbols.Hash(w.names, class))
	w.mu.Unlock()
}

// RemoveDocument handles a deleted file: invalidate and forget it.
func (w *Workspace) RemoveDocument(uri string) {
	w.invalidate(uri)
	w.mu.Lock()
	delete(w.docs, uri)
	delete(w.open, uri)
	w.mu.Unlock()
}

// Document returns the indexed document for a URI.
func (w *Workspace) Document(uri string) (*Document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if doc, ok := w.docs[uri]; ok {
		return doc, nil
	}
	return nil, errors.Newf(errors.DocumentNotFound, "document not indexed: %s", uri)
}

// DocumentForClass looks a document up by qualified class name, matching
// case-insensitively on the package.class path.
func (w *Workspace) DocumentForClass(qualified string) (*Document, error) {
	key := strings.ToLower(qualified)
	w.mu.RLock()
	defer w.mu.RUnlock()
	if doc, ok := w.byClass[key]; ok {
		return doc, nil
	}
	// A bare class name matches any package.
	for k, doc := range w.byClass {
		if i := strings.LastIndexByte(k, '.'); i >= 0 && k[i+1:] == key {
			return doc, nil
		}
	}
	return nil, errors.Newf(errors.DocumentNotFound, "class not indexed: %s", qualified)
}

// Documents returns a snapshot of all indexed documents.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Document, 0, len(w.docs))
	for _, doc := range w.docs {
		out = append(out, doc)
	}
	return out
}

// SetOpen marks a document as open in the editor, which makes it eligible
// for analysis under the active mode.
func (w *Workspace) SetOpen(uri string, open bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if open {
		w.open[uri] = true
	} else {
		delete(w.open, uri)
	}
}

func (w *Workspace) shouldAnalyze(uri string) bool {
	switch w.mode {
	case analysis.ModeNone:
		return false
	case analysis.ModeAll:
		return true
	default:
		w.mu.RLock()
		defer w.mu.RUnlock()
		return w.open[uri]
	}
}

// MarkReady opens the ready gate. Queries block on AwaitReady until the
// initial workspace indexing pass has completed.
func (w *Workspace) MarkReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

// Ready reports whether the initial indexing pass has completed.
func (w *Workspace) Ready() bool {
	select {
	case <-w.ready:
		return true
	default:
		return false
	}
}

// AwaitReady blocks until the workspace is ready or ctx is done.
func (w *Workspace) AwaitReady(ctx context.Context) error {
	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.WorkspaceNotReady, "workspace not ready", ctx.Err())
	}
}

// Stats summarizes workspace state for status output.
func (w *Workspace) Stats() map[string]interface{} {
	w.mu.RLock()
	docCount := len(w.docs)
	w.mu.RUnlock()
	return map[string]interface{}{
		"documents":  docCount,
		"symbols":    w.tables.SymbolCount(),
		"packages":   len(w.tables.Packages()),
		"refTargets": w.refs.TargetCount(),
		"ready":      w.Ready(),
	}
}
