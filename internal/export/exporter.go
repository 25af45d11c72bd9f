// Package export emits the workspace's symbol graph as a SCIP index, the
// interchange format other code intelligence tooling consumes. The export
// is a one-shot snapshot; nothing is ever read back.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"uls/internal/index"
	"uls/internal/logging"
	"uls/internal/paths"
	"uls/internal/span"
	"uls/internal/symbols"
	"uls/internal/version"
	"uls/internal/workspace"
)

// Exporter builds SCIP indexes from an indexed workspace.
type Exporter struct {
	ws          *workspace.Workspace
	logger      *logging.Logger
	projectRoot string
}

// NewExporter creates a new exporter
func NewExporter(ws *workspace.Workspace, logger *logging.Logger, projectRoot string) *Exporter {
	return &Exporter{ws: ws, logger: logger, projectRoot: projectRoot}
}

// Export writes the SCIP index for the whole workspace to path.
func (e *Exporter) Export(path string) error {
	idx := e.BuildIndex()

	data, err := proto.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshaling scip index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	e.logger.Info("scip index written", map[string]interface{}{
		"path":      path,
		"documents": len(idx.Documents),
		"bytes":     len(data),
	})
	return nil
}

// BuildIndex assembles the in-memory SCIP index.
func (e *Exporter) BuildIndex() *scippb.Index {
	root, err := filepath.Abs(e.projectRoot)
	if err != nil {
		root = e.projectRoot
	}

	idx := &scippb.Index{
		Metadata: &scippb.Metadata{
			ToolInfo: &scippb.ToolInfo{
				Name:    "uls",
				Version: version.Version,
			},
			ProjectRoot:          "file://" + filepath.ToSlash(root),
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	docs := e.ws.Documents()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	for _, doc := range docs {
		if doc.Class == nil || doc.Result == nil {
			continue
		}
		idx.Documents = append(idx.Documents, e.buildDocument(doc, root))
	}
	return idx
}

func (e *Exporter) buildDocument(doc *workspace.Document, root string) *scippb.Document {
	rel, err := paths.Canonicalize(doc.URI, root)
	if err != nil {
		rel = paths.Normalize(doc.URI)
	}

	out := &scippb.Document{
		RelativePath: rel,
		Language:     "unrealscript",
	}

	occs := make([]index.Occurrence, len(doc.Result.Occurrences))
	copy(occs, doc.Result.Occurrences)
	sort.Slice(occs, func(i, j int) bool {
		return occs[i].R.Start.Before(occs[j].R.Start)
	})

	seen := make(map[string]bool)
	for _, occ := range occs {
		if occ.Target == nil {
			continue
		}
		symName := e.scipSymbol(occ.Target)

		var roles int32
		if occ.IsDefinition {
			roles |= int32(scippb.SymbolRole_Definition)
			if !seen[symName] {
				seen[symName] = true
				out.Symbols = append(out.Symbols, &scippb.SymbolInformation{
					Symbol:        symName,
					DisplayName:   e.ws.Names().Text(occ.Target.Name()),
					Documentation: []string{symbols.Tooltip(e.ws.Names(), occ.Target)},
				})
			}
		}
		out.Occurrences = append(out.Occurrences, &scippb.Occurrence{
			Range:       scipRange(occ.R),
			Symbol:      symName,
			SymbolRoles: roles,
		})
	}
	return out
}

// scipSymbol renders the SCIP symbol string: scheme, package, then one
// descriptor per outer-chain element.
func (e *Exporter) scipSymbol(sym symbols.Symbol) string {
	nt := e.ws.Names()

	var chain []symbols.Symbol
	for s := sym; s != nil; s = s.Outer() {
		chain = append(chain, s)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var b strings.Builder
	b.WriteString("uls . . . ")
	for _, s := range chain {
		name := nt.Text(s.Name())
		switch s.Kind() {
		case symbols.KindPackage:
			b.WriteString(name)
			b.WriteString("/")
		case symbols.KindClass, symbols.KindScriptStruct, symbols.KindEnum, symbols.KindState:
			b.WriteString(name)
			b.WriteString("#")
		case symbols.KindMethod:
			b.WriteString(name)
			b.WriteString("().")
		default:
			b.WriteString(name)
			b.WriteString(".")
		}
	}
	return b.String()
}

// scipRange encodes a range in SCIP's compact form: three elements when the
// range stays on one line, four otherwise.
func scipRange(r span.Range) []int32 {
	if r.Start.Line == r.End.Line {
		return []int32{int32(r.Start.Line), int32(r.Start.Character), int32(r.End.Character)}
	}
	return []int32{
		int32(r.Start.Line), int32(r.Start.Character),
		int32(r.End.Line), int32(r.End.Character),
	}
}
