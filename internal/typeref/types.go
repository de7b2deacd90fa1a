// Package typeref models type references recovered from reflection metadata
// and substitutes concrete types for their generic parameters.
package typeref

// TypeRef is an immutable description of a possibly generic type. The set of
// implementations is closed: every variant lives in this package and is
// created through a Builder.
type TypeRef interface {
	Kind() Kind
	// IsConcrete reports whether no generic parameter or dependent member is
	// reachable from this node. It is computed once, at construction.
	IsConcrete() bool
	String() string
	typeRef()
}

type header struct {
	concrete bool
}

func (h *header) IsConcrete() bool { return h.concrete }
func (*header) typeRef()           {}

// As views t as the variant T. It succeeds iff t's tag matches.
func As[T TypeRef](t TypeRef) (T, bool) {
	v, ok := t.(T)
	return v, ok
}

// Builtin is a leaf for a compiler builtin type.
type Builtin struct {
	header
	mangledName string
}

func (t *Builtin) Kind() Kind          { return KindBuiltin }
func (t *Builtin) MangledName() string { return t.mangledName }
func (t *Builtin) String() string      { return compact(t) }

// NominalType is implemented by *Nominal and *BoundGeneric.
type NominalType interface {
	TypeRef
	MangledName() string
	Parent() TypeRef
	Depth() uint32
	IsStruct() bool
	IsEnum() bool
	IsClass() bool
}

type nominalTrait struct {
	mangledName string
	parent      TypeRef
}

func (n *nominalTrait) MangledName() string { return n.mangledName }

// Parent returns the enclosing nominal type, or nil.
func (n *nominalTrait) Parent() TypeRef { return n.parent }

// Depth counts enclosing nominal types.
func (n *nominalTrait) Depth() uint32 {
	if n.parent == nil {
		return 0
	}
	p, ok := n.parent.(NominalType)
	if !ok {
		violate("depth", "parent of %s is %s, not a nominal type", n.mangledName, n.parent.Kind())
	}
	return 1 + p.Depth()
}

func (n *nominalTrait) IsStruct() bool { return nominalMarker(n.mangledName) == 'V' }
func (n *nominalTrait) IsEnum() bool   { return nominalMarker(n.mangledName) == 'O' }
func (n *nominalTrait) IsClass() bool  { return nominalMarker(n.mangledName) == 'C' }

// Nominal is a non-generic struct, enum or class.
type Nominal struct {
	header
	nominalTrait
}

func (t *Nominal) Kind() Kind     { return KindNominal }
func (t *Nominal) String() string { return compact(t) }

// BoundGeneric is a nominal type applied to generic arguments.
type BoundGeneric struct {
	header
	nominalTrait
	genericParams []TypeRef
}

func (t *BoundGeneric) Kind() Kind { return KindBoundGeneric }

// GenericParams returns the bound arguments. The slice must not be modified.
func (t *BoundGeneric) GenericParams() []TypeRef { return t.genericParams }
func (t *BoundGeneric) String() string           { return compact(t) }

// Tuple is an ordered list of element types.
type Tuple struct {
	header
	elements []TypeRef
	variadic bool
}

func (t *Tuple) Kind() Kind { return KindTuple }

// Elements returns the element types. The slice must not be modified.
func (t *Tuple) Elements() []TypeRef { return t.elements }
func (t *Tuple) IsVariadic() bool    { return t.variadic }
func (t *Tuple) String() string      { return compact(t) }

// Function is a function type.
type Function struct {
	header
	arguments []TypeRef
	result    TypeRef
}

func (t *Function) Kind() Kind { return KindFunction }

// Arguments returns the parameter types. The slice must not be modified.
func (t *Function) Arguments() []TypeRef { return t.arguments }
func (t *Function) Result() TypeRef      { return t.result }
func (t *Function) String() string       { return compact(t) }

// Protocol identifies a protocol by module and name.
type Protocol struct {
	header
	moduleName string
	name       string
}

func (t *Protocol) Kind() Kind         { return KindProtocol }
func (t *Protocol) ModuleName() string { return t.moduleName }
func (t *Protocol) Name() string       { return t.name }
func (t *Protocol) String() string     { return compact(t) }

// Equal compares module and name.
func (t *Protocol) Equal(other *Protocol) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.moduleName == other.moduleName && t.name == other.name
}

// ProtocolComposition is an existential made of several protocols.
type ProtocolComposition struct {
	header
	protocols []TypeRef
}

func (t *ProtocolComposition) Kind() Kind { return KindProtocolComposition }

// Protocols returns the members in storage order. The slice must not be
// modified.
func (t *ProtocolComposition) Protocols() []TypeRef { return t.protocols }
func (t *ProtocolComposition) String() string       { return compact(t) }

// Metatype is T.Type.
type Metatype struct {
	header
	instanceType TypeRef
}

func (t *Metatype) Kind() Kind            { return KindMetatype }
func (t *Metatype) InstanceType() TypeRef { return t.instanceType }
func (t *Metatype) String() string        { return compact(t) }

// ExistentialMetatype is P.Type for an existential P.
type ExistentialMetatype struct {
	header
	instanceType TypeRef
}

func (t *ExistentialMetatype) Kind() Kind            { return KindExistentialMetatype }
func (t *ExistentialMetatype) InstanceType() TypeRef { return t.instanceType }
func (t *ExistentialMetatype) String() string        { return compact(t) }

// GenericTypeParameter is an unresolved generic parameter slot.
type GenericTypeParameter struct {
	header
	depth uint32
	index uint32
}

func (t *GenericTypeParameter) Kind() Kind    { return KindGenericTypeParameter }
func (t *GenericTypeParameter) Depth() uint32 { return t.depth }
func (t *GenericTypeParameter) Index() uint32 { return t.index }

// Key returns the substitution key of the parameter.
func (t *GenericTypeParameter) Key() DepthAndIndex {
	return DepthAndIndex{Depth: t.depth, Index: t.index}
}
func (t *GenericTypeParameter) String() string { return compact(t) }

// DependentMember is the projection Base.Member constrained by a protocol.
type DependentMember struct {
	header
	member   string
	base     TypeRef
	protocol TypeRef
}

func (t *DependentMember) Kind() Kind     { return KindDependentMember }
func (t *DependentMember) Member() string { return t.member }
func (t *DependentMember) Base() TypeRef  { return t.base }
func (t *DependentMember) String() string { return compact(t) }

// Protocol returns the owning protocol. A non-protocol in that slot is a
// contract violation.
func (t *DependentMember) Protocol() *Protocol {
	p, ok := t.protocol.(*Protocol)
	if !ok {
		violate("dependent member", "protocol of %s is %s, not a protocol", t.member, kindOf(t.protocol))
	}
	return p
}

// ProtocolRef returns the protocol slot as stored.
func (t *DependentMember) ProtocolRef() TypeRef { return t.protocol }

// ForeignClass is a foreign (CF) class reference. The unnamed one is a
// process-wide singleton.
type ForeignClass struct {
	header
	name string
}

func (t *ForeignClass) Kind() Kind     { return KindForeignClass }
func (t *ForeignClass) Name() string   { return t.name }
func (t *ForeignClass) String() string { return compact(t) }

// ObjCClass is an Objective-C class reference. The unnamed one is a
// process-wide singleton.
type ObjCClass struct {
	header
	name string
}

func (t *ObjCClass) Kind() Kind     { return KindObjCClass }
func (t *ObjCClass) Name() string   { return t.name }
func (t *ObjCClass) String() string { return compact(t) }

// Opaque is a type whose structure is unknown.
type Opaque struct {
	header
}

func (t *Opaque) Kind() Kind     { return KindOpaque }
func (t *Opaque) String() string { return compact(t) }

// ReferenceStorage is implemented by the unowned, weak and unmanaged
// qualifiers.
type ReferenceStorage interface {
	TypeRef
	Type() TypeRef
}

type storage struct {
	header
	typ TypeRef
}

func (s *storage) Type() TypeRef { return s.typ }

type UnownedStorage struct{ storage }

func (t *UnownedStorage) Kind() Kind     { return KindUnownedStorage }
func (t *UnownedStorage) String() string { return compact(t) }

type WeakStorage struct{ storage }

func (t *WeakStorage) Kind() Kind     { return KindWeakStorage }
func (t *WeakStorage) String() string { return compact(t) }

type UnmanagedStorage struct{ storage }

func (t *UnmanagedStorage) Kind() Kind     { return KindUnmanagedStorage }
func (t *UnmanagedStorage) String() string { return compact(t) }

func kindOf(t TypeRef) string {
	if t == nil {
		return "nil"
	}
	return t.Kind().String()
}

func allConcrete(refs []TypeRef) bool {
	for _, r := range refs {
		if !r.IsConcrete() {
			return false
		}
	}
	return true
}

func parentConcrete(parent TypeRef) bool {
	return parent == nil || parent.IsConcrete()
}
