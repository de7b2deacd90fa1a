package refdoc

import "github.com/funvibe/typeref/internal/typeref"

// Encode converts t to its serialized form.
func Encode(t typeref.TypeRef) *Node {
	if t == nil {
		return nil
	}
	return typeref.Visit[*Node](encoder{}, t)
}

type encoder struct{}

func (e encoder) all(ts []typeref.TypeRef) []*Node {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*Node, len(ts))
	for i, t := range ts {
		out[i] = Encode(t)
	}
	return out
}

func node(k typeref.Kind) *Node { return &Node{Kind: k.String()} }

func (e encoder) VisitBuiltin(t *typeref.Builtin) *Node {
	n := node(typeref.KindBuiltin)
	n.Name = t.MangledName()
	return n
}

func (e encoder) VisitNominal(t *typeref.Nominal) *Node {
	n := node(typeref.KindNominal)
	n.Name = t.MangledName()
	n.Parent = Encode(t.Parent())
	return n
}

func (e encoder) VisitBoundGeneric(t *typeref.BoundGeneric) *Node {
	n := node(typeref.KindBoundGeneric)
	n.Name = t.MangledName()
	n.Args = e.all(t.GenericParams())
	n.Parent = Encode(t.Parent())
	return n
}

func (e encoder) VisitTuple(t *typeref.Tuple) *Node {
	n := node(typeref.KindTuple)
	n.Args = e.all(t.Elements())
	n.Variadic = t.IsVariadic()
	return n
}

func (e encoder) VisitFunction(t *typeref.Function) *Node {
	n := node(typeref.KindFunction)
	n.Args = e.all(t.Arguments())
	n.Result = Encode(t.Result())
	return n
}

func (e encoder) VisitProtocol(t *typeref.Protocol) *Node {
	n := node(typeref.KindProtocol)
	n.Module = t.ModuleName()
	n.Name = t.Name()
	return n
}

func (e encoder) VisitProtocolComposition(t *typeref.ProtocolComposition) *Node {
	n := node(typeref.KindProtocolComposition)
	n.Args = e.all(t.Protocols())
	return n
}

func (e encoder) VisitMetatype(t *typeref.Metatype) *Node {
	n := node(typeref.KindMetatype)
	n.Type = Encode(t.InstanceType())
	return n
}

func (e encoder) VisitExistentialMetatype(t *typeref.ExistentialMetatype) *Node {
	n := node(typeref.KindExistentialMetatype)
	n.Type = Encode(t.InstanceType())
	return n
}

func (e encoder) VisitGenericTypeParameter(t *typeref.GenericTypeParameter) *Node {
	n := node(typeref.KindGenericTypeParameter)
	n.Depth = t.Depth()
	n.Index = t.Index()
	return n
}

func (e encoder) VisitDependentMember(t *typeref.DependentMember) *Node {
	n := node(typeref.KindDependentMember)
	n.Member = t.Member()
	n.Base = Encode(t.Base())
	n.Protocol = Encode(t.ProtocolRef())
	return n
}

func (e encoder) VisitForeignClass(t *typeref.ForeignClass) *Node {
	n := node(typeref.KindForeignClass)
	n.Name = t.Name()
	return n
}

func (e encoder) VisitObjCClass(t *typeref.ObjCClass) *Node {
	n := node(typeref.KindObjCClass)
	n.Name = t.Name()
	return n
}

func (e encoder) VisitOpaque(t *typeref.Opaque) *Node {
	return node(typeref.KindOpaque)
}

func (e encoder) VisitUnownedStorage(t *typeref.UnownedStorage) *Node {
	n := node(typeref.KindUnownedStorage)
	n.Type = Encode(t.Type())
	return n
}

func (e encoder) VisitWeakStorage(t *typeref.WeakStorage) *Node {
	n := node(typeref.KindWeakStorage)
	n.Type = Encode(t.Type())
	return n
}

func (e encoder) VisitUnmanagedStorage(t *typeref.UnmanagedStorage) *Node {
	n := node(typeref.KindUnmanagedStorage)
	n.Type = Encode(t.Type())
	return n
}

var _ typeref.Visitor[*Node] = encoder{}
