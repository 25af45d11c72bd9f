package symbols

// Kind classifies the semantic meaning of a symbol.
type Kind uint8

const (
	KindNone Kind = iota
	KindPackage
	KindClass
	KindScriptStruct
	KindState
	KindEnum
	KindEnumMember
	KindMethod
	KindParameter
	KindLocal
	KindProperty
	KindConst
	KindDefaultsBlock
	KindReplicationBlock
	KindObject
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindClass:
		return "class"
	case KindScriptStruct:
		return "struct"
	case KindState:
		return "state"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum member"
	case KindMethod:
		return "function"
	case KindParameter:
		return "parameter"
	case KindLocal:
		return "local"
	case KindProperty:
		return "var"
	case KindConst:
		return "const"
	case KindDefaultsBlock:
		return "defaultproperties"
	case KindReplicationBlock:
		return "replication"
	case KindObject:
		return "object"
	case KindPrimitive:
		return "type"
	default:
		return "none"
	}
}

// KindSet is a bitmask filter over symbol kinds.
type KindSet uint32

// Mask returns the singleton set for k.
func (k Kind) Mask() KindSet { return 1 << k }

// Has reports whether the set contains k. The empty set matches every kind.
func (s KindSet) Has(k Kind) bool {
	return s == 0 || s&k.Mask() != 0
}

// AnyKind matches all symbol kinds.
const AnyKind KindSet = 0

// TypeKinds are the kinds usable as a type in a declaration.
var TypeKinds = KindClass.Mask() | KindScriptStruct.Mask() | KindEnum.Mask() | KindPrimitive.Mask()

// IsType reports whether a symbol of kind k can be used as a type.
func (k Kind) IsType() bool { return TypeKinds.Has(k) && k != KindNone }
