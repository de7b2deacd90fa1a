package typeref

// Kind is the discriminant tag carried by every type reference.
type Kind uint8

const (
	KindBuiltin Kind = iota
	KindNominal
	KindBoundGeneric
	KindTuple
	KindFunction
	KindProtocol
	KindProtocolComposition
	KindMetatype
	KindExistentialMetatype
	KindGenericTypeParameter
	KindDependentMember
	KindForeignClass
	KindObjCClass
	KindOpaque
	KindUnownedStorage
	KindWeakStorage
	KindUnmanagedStorage
)

var kindNames = [...]string{
	KindBuiltin:              "builtin",
	KindNominal:              "nominal",
	KindBoundGeneric:         "bound_generic",
	KindTuple:                "tuple",
	KindFunction:             "function",
	KindProtocol:             "protocol",
	KindProtocolComposition:  "protocol_composition",
	KindMetatype:             "metatype",
	KindExistentialMetatype:  "existential_metatype",
	KindGenericTypeParameter: "generic_type_parameter",
	KindDependentMember:      "dependent_member",
	KindForeignClass:         "foreign",
	KindObjCClass:            "objective_c_class",
	KindOpaque:               "opaque",
	KindUnownedStorage:       "unowned_storage",
	KindWeakStorage:          "weak_storage",
	KindUnmanagedStorage:     "unmanaged_storage",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a dump name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
