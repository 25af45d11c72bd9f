package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"uls/internal/symbols"
)

// IntrinsicSpec declares one engine-native symbol that never appears in
// script source: the core Object/Actor hierarchy, native structs, and the
// packages that own them.
type IntrinsicSpec struct {
	Kind    string `yaml:"kind"`
	Extends string `yaml:"extends"`
	Package string `yaml:"package"`
}

// IntrinsicFile is the YAML document shape: symbol name to spec.
type IntrinsicFile map[string]IntrinsicSpec

// LoadIntrinsics parses one intrinsic symbol file.
func LoadIntrinsics(path string) (IntrinsicFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file IntrinsicFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing intrinsics %s: %w", path, err)
	}
	return file, nil
}

// InjectIntrinsics registers intrinsic symbols in the tables. They get zero
// source ranges and no URI, which is what marks them non-renameable later.
// Extends links are wired after every symbol is registered so declaration
// order in the file does not matter.
func InjectIntrinsics(tables *symbols.Tables, file IntrinsicFile) error {
	nt := tables.Names()

	names := make([]string, 0, len(file))
	for name := range file {
		names = append(names, name)
	}
	sort.Strings(names)

	created := make(map[string]*symbols.Class, len(names))
	for _, name := range names {
		spec := file[name]
		switch spec.Kind {
		case "", "class":
		case "package":
			tables.EnsurePackage(nt.Intern(name))
			continue
		default:
			return fmt.Errorf("intrinsic %s: unsupported kind %q", name, spec.Kind)
		}

		cls := symbols.NewIntrinsicClass(nt.Intern(name))
		if err := tables.AddSymbol(cls); err != nil {
			return err
		}
		if spec.Package != "" {
			pkg := tables.EnsurePackage(nt.Intern(spec.Package))
			pkg.AddClass(cls)
			cls.SetOuter(pkg)
		}
		created[name] = cls
	}

	for _, name := range names {
		spec := file[name]
		if spec.Extends == "" {
			continue
		}
		cls, ok := created[name]
		if !ok {
			continue
		}
		super := tables.FindSymbol(nt.Intern(spec.Extends), true)
		if sc, isContainer := super.(symbols.Container); isContainer {
			cls.SetSuper(sc)
		}
	}
	return nil
}
