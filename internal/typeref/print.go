package typeref

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes t as an indented s-expression, one node per line. A nil t is
// written as <nil>.
func Dump(w io.Writer, t TypeRef) error {
	p := &printer{tree: true}
	if t == nil {
		p.sb.WriteString("<nil>")
	} else {
		Visit[struct{}](p, t)
	}
	p.sb.WriteByte('\n')
	_, err := io.WriteString(w, p.sb.String())
	return err
}

// DumpString is Dump into a string.
func DumpString(t TypeRef) string {
	var sb strings.Builder
	_ = Dump(&sb, t)
	return sb.String()
}

func compact(t TypeRef) string {
	p := &printer{}
	Visit[struct{}](p, t)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	tree   bool
	indent int
}

func (p *printer) open(label string, fields ...string) {
	p.sb.WriteByte('(')
	p.sb.WriteString(label)
	for _, f := range fields {
		p.sb.WriteByte(' ')
		p.sb.WriteString(f)
	}
}

func (p *printer) close() struct{} {
	p.sb.WriteByte(')')
	return struct{}{}
}

func (p *printer) sep() {
	if p.tree {
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat("  ", p.indent))
	} else {
		p.sb.WriteByte(' ')
	}
}

func (p *printer) child(t TypeRef) {
	p.indent++
	p.sep()
	if t == nil {
		p.sb.WriteString("<nil>")
	} else {
		Visit[struct{}](p, t)
	}
	p.indent--
}

func (p *printer) children(ts []TypeRef) {
	for _, t := range ts {
		p.child(t)
	}
}

func (p *printer) labeled(label string, t TypeRef) {
	p.indent++
	p.sep()
	p.open(label)
	p.child(t)
	p.close()
	p.indent--
}

func nominalLabel(n NominalType, bound bool) string {
	var label string
	switch {
	case n.IsStruct():
		label = "struct"
	case n.IsEnum():
		label = "enum"
	case n.IsClass():
		label = "class"
	default:
		label = "nominal"
	}
	if bound {
		return "bound_generic_" + label
	}
	return label
}

func (p *printer) VisitBuiltin(t *Builtin) struct{} {
	p.open("builtin", t.MangledName())
	return p.close()
}

func (p *printer) VisitNominal(t *Nominal) struct{} {
	p.open(nominalLabel(t, false), t.MangledName())
	if t.Parent() != nil {
		p.labeled("parent", t.Parent())
	}
	return p.close()
}

func (p *printer) VisitBoundGeneric(t *BoundGeneric) struct{} {
	p.open(nominalLabel(t, true), t.MangledName())
	p.children(t.GenericParams())
	if t.Parent() != nil {
		p.labeled("parent", t.Parent())
	}
	return p.close()
}

func (p *printer) VisitTuple(t *Tuple) struct{} {
	if t.IsVariadic() {
		p.open("tuple", "variadic")
	} else {
		p.open("tuple")
	}
	p.children(t.Elements())
	return p.close()
}

func (p *printer) VisitFunction(t *Function) struct{} {
	p.open("function")
	p.children(t.Arguments())
	p.labeled("result", t.Result())
	return p.close()
}

func (p *printer) VisitProtocol(t *Protocol) struct{} {
	p.open("protocol", t.ModuleName()+"."+t.Name())
	return p.close()
}

func (p *printer) VisitProtocolComposition(t *ProtocolComposition) struct{} {
	p.open("protocol_composition")
	p.children(t.Protocols())
	return p.close()
}

func (p *printer) VisitMetatype(t *Metatype) struct{} {
	p.open("metatype")
	p.child(t.InstanceType())
	return p.close()
}

func (p *printer) VisitExistentialMetatype(t *ExistentialMetatype) struct{} {
	p.open("existential_metatype")
	p.child(t.InstanceType())
	return p.close()
}

func (p *printer) VisitGenericTypeParameter(t *GenericTypeParameter) struct{} {
	p.open("generic_type_parameter", fmt.Sprintf("depth=%d", t.Depth()), fmt.Sprintf("index=%d", t.Index()))
	return p.close()
}

func (p *printer) VisitDependentMember(t *DependentMember) struct{} {
	p.open("dependent_member", "member="+t.Member())
	// Dumping must not trip the protocol-slot check.
	p.labeled("protocol", t.ProtocolRef())
	p.labeled("base", t.Base())
	return p.close()
}

func (p *printer) VisitForeignClass(t *ForeignClass) struct{} {
	if t.Name() == "" {
		p.open("foreign")
	} else {
		p.open("foreign", "name="+t.Name())
	}
	return p.close()
}

func (p *printer) VisitObjCClass(t *ObjCClass) struct{} {
	if t.Name() == "" {
		p.open("objective_c_class")
	} else {
		p.open("objective_c_class", "name="+t.Name())
	}
	return p.close()
}

func (p *printer) VisitOpaque(t *Opaque) struct{} {
	p.open("opaque")
	return p.close()
}

func (p *printer) VisitUnownedStorage(t *UnownedStorage) struct{} {
	p.open("unowned_storage")
	p.child(t.Type())
	return p.close()
}

func (p *printer) VisitWeakStorage(t *WeakStorage) struct{} {
	p.open("weak_storage")
	p.child(t.Type())
	return p.close()
}

func (p *printer) VisitUnmanagedStorage(t *UnmanagedStorage) struct{} {
	p.open("unmanaged_storage")
	p.child(t.Type())
	return p.close()
}
