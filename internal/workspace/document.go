package workspace

import (
	"uls/internal/analysis"
	"uls/internal/index"
	"uls/internal/parser"
	"uls/internal/symbols"
)

// Document is the unit of indexing: one script file, its built class tree,
// the references it made, and its diagnostics. A document is replaced
// wholesale on re-index; there is no partial patching.
type Document struct {
	URI     string
	Package string

	Class      *symbols.Class
	Result     *index.Result
	ParseDiags []parser.Diagnostic
	Diags      []analysis.Diagnostic

	// HasBeenIndexed distinguishes a never-indexed document from one that
	// indexed cleanly with nothing to report.
	HasBeenIndexed bool
}

// AllDiagnostics merges parse and analysis findings in source order.
func (d *Document) AllDiagnostics() []analysis.Diagnostic {
	out := make([]analysis.Diagnostic, 0, len(d.ParseDiags)+len(d.Diags))
	for _, pd := range d.ParseDiags {
		out = append(out, analysis.Diagnostic{
			R:        pd.R,
			Severity: analysis.SeverityError,
			Message:  pd.Message,
		})
	}
	out = append(out, d.Diags...)
	return out
}
