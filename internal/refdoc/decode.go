package refdoc

import (
	"fmt"

	"github.com/funvibe/typeref/internal/typeref"
)

// Decode builds n in b. Malformed nodes are reported as *DecodeError with the
// path of the offending node, rooted at "root".
func Decode(b *typeref.Builder, n *Node) (typeref.TypeRef, error) {
	return DecodeAt(b, n, "root")
}

// DecodeAt is Decode with an explicit root path for error messages.
func DecodeAt(b *typeref.Builder, n *Node, path string) (typeref.TypeRef, error) {
	d := &decoder{b: b}
	return d.decode(n, path)
}

type decoder struct {
	b *typeref.Builder
}

func fail(path, format string, args ...any) error {
	return &DecodeError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) required(n *Node, path, field string) (typeref.TypeRef, error) {
	if n == nil {
		return nil, fail(path, "%s is required", field)
	}
	return d.decode(n, path+"."+field)
}

func (d *decoder) optional(n *Node, path, field string) (typeref.TypeRef, error) {
	if n == nil {
		return nil, nil
	}
	return d.decode(n, path+"."+field)
}

func (d *decoder) list(ns []*Node, path, field string) ([]typeref.TypeRef, error) {
	out := make([]typeref.TypeRef, len(ns))
	for i, n := range ns {
		elemPath := fmt.Sprintf("%s.%s[%d]", path, field, i)
		if n == nil {
			return nil, fail(elemPath, "empty node")
		}
		t, err := d.decode(n, elemPath)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (d *decoder) parent(n *Node, path string) (typeref.TypeRef, error) {
	p, err := d.optional(n.Parent, path, "parent")
	if err != nil || p == nil {
		return nil, err
	}
	if _, ok := p.(typeref.NominalType); !ok {
		return nil, fail(path+".parent", "parent must be nominal or bound_generic, got %s", p.Kind())
	}
	return p, nil
}

func (d *decoder) decode(n *Node, path string) (typeref.TypeRef, error) {
	if n == nil {
		return nil, fail(path, "empty node")
	}
	kind, ok := typeref.ParseKind(n.Kind)
	if !ok {
		return nil, fail(path, "unknown kind %q", n.Kind)
	}

	switch kind {
	case typeref.KindBuiltin:
		if n.Name == "" {
			return nil, fail(path, "builtin needs a name")
		}
		return d.b.Builtin(n.Name), nil

	case typeref.KindNominal:
		if n.Name == "" {
			return nil, fail(path, "nominal needs a name")
		}
		parent, err := d.parent(n, path)
		if err != nil {
			return nil, err
		}
		return d.b.Nominal(n.Name, parent), nil

	case typeref.KindBoundGeneric:
		if n.Name == "" {
			return nil, fail(path, "bound_generic needs a name")
		}
		args, err := d.list(n.Args, path, "args")
		if err != nil {
			return nil, err
		}
		parent, err := d.parent(n, path)
		if err != nil {
			return nil, err
		}
		return d.b.BoundGeneric(n.Name, args, parent), nil

	case typeref.KindTuple:
		elems, err := d.list(n.Args, path, "args")
		if err != nil {
			return nil, err
		}
		return d.b.Tuple(elems, n.Variadic), nil

	case typeref.KindFunction:
		args, err := d.list(n.Args, path, "args")
		if err != nil {
			return nil, err
		}
		result, err := d.required(n.Result, path, "result")
		if err != nil {
			return nil, err
		}
		return d.b.Function(args, result), nil

	case typeref.KindProtocol:
		if n.Module == "" || n.Name == "" {
			return nil, fail(path, "protocol needs a module and a name")
		}
		return d.b.Protocol(n.Module, n.Name), nil

	case typeref.KindProtocolComposition:
		protos, err := d.list(n.Args, path, "args")
		if err != nil {
			return nil, err
		}
		return d.b.ProtocolComposition(protos), nil

	case typeref.KindMetatype, typeref.KindExistentialMetatype,
		typeref.KindUnownedStorage, typeref.KindWeakStorage, typeref.KindUnmanagedStorage:
		inner, err := d.required(n.Type, path, "type")
		if err != nil {
			return nil, err
		}
		return d.wrap(kind, inner), nil

	case typeref.KindGenericTypeParameter:
		return d.b.GenericTypeParameter(n.Depth, n.Index), nil

	case typeref.KindDependentMember:
		if n.Member == "" {
			return nil, fail(path, "dependent_member needs a member")
		}
		base, err := d.required(n.Base, path, "base")
		if err != nil {
			return nil, err
		}
		proto, err := d.required(n.Protocol, path, "protocol")
		if err != nil {
			return nil, err
		}
		if _, ok := proto.(*typeref.Protocol); !ok {
			return nil, fail(path+".protocol", "must be a protocol, got %s", proto.Kind())
		}
		return d.b.DependentMember(n.Member, base, proto), nil

	case typeref.KindForeignClass:
		return d.b.ForeignClass(n.Name), nil

	case typeref.KindObjCClass:
		return d.b.ObjCClass(n.Name), nil

	case typeref.KindOpaque:
		return d.b.Opaque(), nil
	}

	return nil, fail(path, "unsupported kind %s", kind)
}

func (d *decoder) wrap(kind typeref.Kind, inner typeref.TypeRef) typeref.TypeRef {
	switch kind {
	case typeref.KindMetatype:
		return d.b.Metatype(inner)
	case typeref.KindExistentialMetatype:
		return d.b.ExistentialMetatype(inner)
	case typeref.KindUnownedStorage:
		return d.b.UnownedStorage(inner)
	case typeref.KindWeakStorage:
		return d.b.WeakStorage(inner)
	default:
		return d.b.UnmanagedStorage(inner)
	}
}
