package typeref

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Builder is the arena that owns type reference nodes for one reflection
// session. Structurally identical requests return the same node. A Builder is
// safe for concurrent use.
type Builder struct {
	id uuid.UUID

	mu    sync.Mutex
	nodes map[string]TypeRef
}

// NewBuilder creates an empty arena with a fresh session id.
func NewBuilder() *Builder {
	return &Builder{
		id:    uuid.New(),
		nodes: make(map[string]TypeRef),
	}
}

// ID identifies the session owning the nodes.
func (b *Builder) ID() uuid.UUID { return b.id }

// Len returns the number of interned nodes. Singletons are not counted.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

func intern[T TypeRef](b *Builder, k *nodeKey, mk func() T) T {
	key := k.String()
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.nodes[key]; ok {
		return existing.(T)
	}
	n := mk()
	b.nodes[key] = n
	return n
}

// nodeKey is the uniquing key: the variant tag, scalar fields, and the
// identities of child nodes.
type nodeKey struct {
	sb strings.Builder
}

func newKey(k Kind) *nodeKey {
	nk := &nodeKey{}
	nk.sb.WriteString(k.String())
	nk.sb.WriteByte('|')
	return nk
}

func (k *nodeKey) str(s string) *nodeKey {
	fmt.Fprintf(&k.sb, "%d:%s|", len(s), s)
	return k
}

func (k *nodeKey) num(n uint32) *nodeKey {
	fmt.Fprintf(&k.sb, "%d|", n)
	return k
}

func (k *nodeKey) flag(v bool) *nodeKey {
	if v {
		k.sb.WriteString("1|")
	} else {
		k.sb.WriteString("0|")
	}
	return k
}

func (k *nodeKey) ref(t TypeRef) *nodeKey {
	if t == nil {
		k.sb.WriteString("-|")
		return k
	}
	fmt.Fprintf(&k.sb, "%p|", t)
	return k
}

func (k *nodeKey) refs(ts []TypeRef) *nodeKey {
	k.num(uint32(len(ts)))
	for _, t := range ts {
		k.ref(t)
	}
	return k
}

func (k *nodeKey) String() string { return k.sb.String() }

func requireRef(op string, t TypeRef) {
	if t == nil {
		violate(op, "nil type reference")
	}
}

func requireRefs(op string, ts []TypeRef) []TypeRef {
	for i, t := range ts {
		if t == nil {
			violate(op, "nil type reference at position %d", i)
		}
	}
	out := make([]TypeRef, len(ts))
	copy(out, ts)
	return out
}

func requireNominalParent(op string, parent TypeRef) {
	if parent == nil {
		return
	}
	if _, ok := parent.(NominalType); !ok {
		violate(op, "parent is %s, not a nominal type", parent.Kind())
	}
}

func (b *Builder) Builtin(mangledName string) *Builtin {
	return intern(b, newKey(KindBuiltin).str(mangledName), func() *Builtin {
		return &Builtin{header: header{concrete: true}, mangledName: mangledName}
	})
}

// Nominal builds a non-generic nominal type; parent may be nil.
func (b *Builder) Nominal(mangledName string, parent TypeRef) *Nominal {
	requireNominalParent("nominal", parent)
	return intern(b, newKey(KindNominal).str(mangledName).ref(parent), func() *Nominal {
		return &Nominal{
			header:       header{concrete: parentConcrete(parent)},
			nominalTrait: nominalTrait{mangledName: mangledName, parent: parent},
		}
	})
}

// BoundGeneric builds a generic application; parent may be nil.
func (b *Builder) BoundGeneric(mangledName string, params []TypeRef, parent TypeRef) *BoundGeneric {
	params = requireRefs("bound generic", params)
	requireNominalParent("bound generic", parent)
	return intern(b, newKey(KindBoundGeneric).str(mangledName).refs(params).ref(parent), func() *BoundGeneric {
		return &BoundGeneric{
			header:        header{concrete: allConcrete(params) && parentConcrete(parent)},
			nominalTrait:  nominalTrait{mangledName: mangledName, parent: parent},
			genericParams: params,
		}
	})
}

func (b *Builder) Tuple(elements []TypeRef, variadic bool) *Tuple {
	elements = requireRefs("tuple", elements)
	return intern(b, newKey(KindTuple).refs(elements).flag(variadic), func() *Tuple {
		return &Tuple{
			header:   header{concrete: allConcrete(elements)},
			elements: elements,
			variadic: variadic,
		}
	})
}

func (b *Builder) Function(arguments []TypeRef, result TypeRef) *Function {
	arguments = requireRefs("function", arguments)
	requireRef("function result", result)
	return intern(b, newKey(KindFunction).refs(arguments).ref(result), func() *Function {
		return &Function{
			header:    header{concrete: allConcrete(arguments) && result.IsConcrete()},
			arguments: arguments,
			result:    result,
		}
	})
}

func (b *Builder) Protocol(moduleName, name string) *Protocol {
	return intern(b, newKey(KindProtocol).str(moduleName).str(name), func() *Protocol {
		return &Protocol{header: header{concrete: true}, moduleName: moduleName, name: name}
	})
}

func (b *Builder) ProtocolComposition(protocols []TypeRef) *ProtocolComposition {
	protocols = requireRefs("protocol composition", protocols)
	return intern(b, newKey(KindProtocolComposition).refs(protocols), func() *ProtocolComposition {
		return &ProtocolComposition{
			header:    header{concrete: allConcrete(protocols)},
			protocols: protocols,
		}
	})
}

func (b *Builder) Metatype(instance TypeRef) *Metatype {
	requireRef("metatype", instance)
	return intern(b, newKey(KindMetatype).ref(instance), func() *Metatype {
		return &Metatype{header: header{concrete: instance.IsConcrete()}, instanceType: instance}
	})
}

func (b *Builder) ExistentialMetatype(instance TypeRef) *ExistentialMetatype {
	requireRef("existential metatype", instance)
	return intern(b, newKey(KindExistentialMetatype).ref(instance), func() *ExistentialMetatype {
		return &ExistentialMetatype{header: header{concrete: instance.IsConcrete()}, instanceType: instance}
	})
}

func (b *Builder) GenericTypeParameter(depth, index uint32) *GenericTypeParameter {
	return intern(b, newKey(KindGenericTypeParameter).num(depth).num(index), func() *GenericTypeParameter {
		return &GenericTypeParameter{depth: depth, index: index}
	})
}

// DependentMember builds Base.Member. The protocol slot is checked when it is
// read, through (*DependentMember).Protocol.
func (b *Builder) DependentMember(member string, base, protocol TypeRef) *DependentMember {
	requireRef("dependent member base", base)
	requireRef("dependent member protocol", protocol)
	return intern(b, newKey(KindDependentMember).str(member).ref(base).ref(protocol), func() *DependentMember {
		return &DependentMember{member: member, base: base, protocol: protocol}
	})
}

// ForeignClass returns the shared unnamed instance when name is empty.
func (b *Builder) ForeignClass(name string) *ForeignClass {
	if name == "" {
		return UnnamedForeignClass()
	}
	return intern(b, newKey(KindForeignClass).str(name), func() *ForeignClass {
		return &ForeignClass{header: header{concrete: true}, name: name}
	})
}

// ObjCClass returns the shared unnamed instance when name is empty.
func (b *Builder) ObjCClass(name string) *ObjCClass {
	if name == "" {
		return UnnamedObjCClass()
	}
	return intern(b, newKey(KindObjCClass).str(name), func() *ObjCClass {
		return &ObjCClass{header: header{concrete: true}, name: name}
	})
}

func (b *Builder) Opaque() *Opaque { return OpaqueType() }

func (b *Builder) UnownedStorage(t TypeRef) *UnownedStorage {
	requireRef("unowned storage", t)
	return intern(b, newKey(KindUnownedStorage).ref(t), func() *UnownedStorage {
		return &UnownedStorage{storage{header: header{concrete: t.IsConcrete()}, typ: t}}
	})
}

func (b *Builder) WeakStorage(t TypeRef) *WeakStorage {
	requireRef("weak storage", t)
	return intern(b, newKey(KindWeakStorage).ref(t), func() *WeakStorage {
		return &WeakStorage{storage{header: header{concrete: t.IsConcrete()}, typ: t}}
	})
}

func (b *Builder) UnmanagedStorage(t TypeRef) *UnmanagedStorage {
	requireRef("unmanaged storage", t)
	return intern(b, newKey(KindUnmanagedStorage).ref(t), func() *UnmanagedStorage {
		return &UnmanagedStorage{storage{header: header{concrete: t.IsConcrete()}, typ: t}}
	})
}

var (
	unnamedForeignClass = sync.OnceValue(func() *ForeignClass {
		return &ForeignClass{header: header{concrete: true}}
	})
	unnamedObjCClass = sync.OnceValue(func() *ObjCClass {
		return &ObjCClass{header: header{concrete: true}}
	})
	opaqueType = sync.OnceValue(func() *Opaque {
		return &Opaque{header: header{concrete: true}}
	})
)

// UnnamedForeignClass returns the process-wide unnamed foreign class. It is
// immutable and never torn down.
func UnnamedForeignClass() *ForeignClass { return unnamedForeignClass() }

// UnnamedObjCClass returns the process-wide unnamed Objective-C class.
func UnnamedObjCClass() *ObjCClass { return unnamedObjCClass() }

// OpaqueType returns the process-wide opaque type.
func OpaqueType() *Opaque { return opaqueType() }
