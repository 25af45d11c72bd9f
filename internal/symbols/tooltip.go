package symbols

import (
	"fmt"
	"strings"

	"uls/internal/names"
)

// TypeText renders a type reference for display, preferring the resolved
// symbol's casing.
func TypeText(t *names.Table, ref *TypeRef) string {
	if ref == nil {
		return ""
	}
	text := t.Text(ref.Name)
	if ref.Resolved != nil {
		text = t.Text(ref.Resolved.Name())
	}
	if ref.Inner != nil {
		return fmt.Sprintf("%s<%s>", text, TypeText(t, ref.Inner))
	}
	return text
}

// Tooltip builds the hover text for a symbol.
func Tooltip(t *names.Table, sym Symbol) string {
	switch s := sym.(type) {
	case *Class:
		var b strings.Builder
		b.WriteString("class ")
		b.WriteString(QualifiedName(t, s))
		if ext := s.ExtendsRef(); ext != nil {
			b.WriteString(" extends ")
			b.WriteString(TypeText(t, ext))
		}
		if s.WithinRef != nil {
			b.WriteString(" within ")
			b.WriteString(TypeText(t, s.WithinRef))
		}
		return b.String()
	case *ScriptStruct:
		text := "struct " + QualifiedName(t, s)
		if ext := s.ExtendsRef(); ext != nil {
			text += " extends " + TypeText(t, ext)
		}
		return text
	case *State:
		text := "state " + QualifiedName(t, s)
		if s.Super() != nil {
			text += " extends " + QualifiedName(t, s.Super())
		}
		return text
	case *Enum:
		return "enum " + QualifiedName(t, s)
	case *EnumMember:
		return fmt.Sprintf("%s = %d", QualifiedName(t, s), s.Value)
	case *Method:
		return methodTooltip(t, s)
	case *Parameter:
		return fmt.Sprintf("(parameter) %s %s", TypeText(t, s.TypeRef), t.Text(s.Name()))
	case *Local:
		return fmt.Sprintf("(local) %s %s", TypeText(t, s.TypeRef), t.Text(s.Name()))
	case *Property:
		return fmt.Sprintf("var %s %s", TypeText(t, s.TypeRef), QualifiedName(t, s))
	case *Const:
		return "const " + QualifiedName(t, s)
	case *ObjectSymbol:
		if s.ClassRef != nil {
			return fmt.Sprintf("object %s (%s)", t.Text(s.Name()), TypeText(t, s.ClassRef))
		}
		return "object " + t.Text(s.Name())
	case *Package:
		return "package " + t.Text(s.Name())
	case *Primitive:
		return t.Text(s.Name())
	}
	return t.Text(sym.Name())
}

func methodTooltip(t *names.Table, m *Method) string {
	var b strings.Builder
	switch m.Specifier {
	case MethodEvent:
		b.WriteString("event ")
	case MethodDelegate:
		b.WriteString("delegate ")
	case MethodOperator:
		b.WriteString("operator ")
	case MethodPreOperator:
		b.WriteString("preoperator ")
	case MethodPostOperator:
		b.WriteString("postoperator ")
	default:
		b.WriteString("function ")
	}
	if m.ReturnRef != nil {
		b.WriteString(TypeText(t, m.ReturnRef))
		b.WriteString(" ")
	}
	b.WriteString(QualifiedName(t, m))
	b.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(TypeText(t, p.TypeRef))
		b.WriteString(" ")
		b.WriteString(t.Text(p.Name()))
	}
	b.WriteString(")")
	return b.String()
}
