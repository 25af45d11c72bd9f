package symbols

import (
	"sync"

	"uls/internal/errors"
	"uls/internal/names"
)

// Tables holds the global symbol namespaces: one for packages and one for
// all hashed top-level symbols (classes and intrinsic/injected types).
// Constructed once at startup and passed by reference; the single indexing
// worker writes, concurrent query handlers read.
type Tables struct {
	names *names.Table

	mu         sync.RWMutex
	packages   map[names.Name]*Package
	symbols    map[names.Name]Symbol
	primitives map[names.Name]*Primitive
}

// Primitive type names resolved without scope lookup.
var primitiveNames = []string{
	"byte", "int", "float", "bool", "name", "string", "pointer", "button",
	// Parametrized type heads resolve to fixed symbols too; their inner
	// reference carries the interesting resolution.
	"class", "array", "delegate",
}

// NewTables creates the global tables and the fixed primitive symbols.
func NewTables(nt *names.Table) *Tables {
	t := &Tables{
		names:      nt,
		packages:   make(map[names.Name]*Package),
		symbols:    make(map[names.Name]Symbol),
		primitives: make(map[names.Name]*Primitive, len(primitiveNames)),
	}
	for _, pn := range primitiveNames {
		n := nt.Intern(pn)
		t.primitives[n] = NewPrimitive(n)
	}
	return t
}

// Names returns the intern table shared by the workspace.
func (t *Tables) Names() *names.Table { return t.names }

// Primitive returns the fixed predefined symbol for a primitive type name,
// or nil.
func (t *Tables) Primitive(n names.Name) Symbol {
	if p, ok := t.primitives[n]; ok {
		return p
	}
	return nil
}

// EnsurePackage returns the package for n, creating it on first sight.
func (t *Tables) EnsurePackage(n names.Name) *Package {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.packages[n]; ok {
		return p
	}
	p := NewPackage(n)
	t.packages[n] = p
	return p
}

// FindPackage looks a package up by interned name.
func (t *Tables) FindPackage(n names.Name) *Package {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.packages[n]
}

// Packages returns a snapshot of the registered packages.
func (t *Tables) Packages() []*Package {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Package, 0, len(t.packages))
	for _, p := range t.packages {
		out = append(out, p)
	}
	return out
}

// AddSymbol registers a top-level hashed symbol. Registering a class over an
// existing forward-declared stub of the same name fills the stub slot in;
// any other collision with a different symbol is a recoverable duplicate
// condition, not a fatal abort.
func (t *Tables) AddSymbol(sym Symbol) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.symbols[sym.Name()]
	if !ok || existing == sym {
		t.symbols[sym.Name()] = sym
		return nil
	}

	if existingClass, isClass := existing.(*Class); isClass {
		if _, newIsClass := sym.(*Class); newIsClass && !existingClass.Built {
			t.symbols[sym.Name()] = sym
			return nil
		}
	}
	if existing.Kind() != sym.Kind() {
		return errors.Newf(errors.DuplicateSymbol,
			"%q already declared as a %s", t.names.Text(sym.Name()), existing.Kind())
	}
	return errors.Newf(errors.DuplicateSymbol,
		"duplicate declaration of %q", t.names.Text(sym.Name()))
}

// FindSymbol looks a hashed symbol up by exact case-insensitive name. With
// deepSearch, a miss additionally scans package class namespaces, finding
// classes the flat lookup misses (e.g. classes declared within another
// class, or shadowed by a same-named symbol of another kind).
func (t *Tables) FindSymbol(n names.Name, deepSearch bool) Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if sym, ok := t.symbols[n]; ok {
		return sym
	}
	if !deepSearch {
		return nil
	}
	for _, pkg := range t.packages {
		if c := pkg.FindClass(n); c != nil {
			return c
		}
	}
	return nil
}

// RemoveSymbol drops a hashed symbol. Callers must only remove symbols whose
// declaring document has been invalidated; the expected symbol is passed so
// a stub replaced by a newer registration is not clobbered.
func (t *Tables) RemoveSymbol(n names.Name, expect Symbol) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.symbols[n]; ok && (expect == nil || existing == expect) {
		delete(t.symbols, n)
	}
}

// SymbolCount reports the number of hashed symbols, for status output.
func (t *Tables) SymbolCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}
