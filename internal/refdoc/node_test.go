package refdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/typeref/internal/typeref"
)

const dictionaryDoc = `
kind: bound_generic
name: SD
args:
  - kind: nominal
    name: SS
  - kind: dependent_member
    member: Element
    base:
      kind: generic_type_parameter
      depth: 1
      index: 0
    protocol:
      kind: protocol
      module: Swift
      name: Sequence
parent:
  kind: nominal
  name: 4main5OuterV
`

func TestDecodeYAML(t *testing.T) {
	b := typeref.NewBuilder()
	got, err := DecodeYAML(b, []byte(dictionaryDoc))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}

	dm := b.DependentMember("Element", b.GenericTypeParameter(1, 0), b.Protocol("Swift", "Sequence"))
	want := b.BoundGeneric("SD", []typeref.TypeRef{b.Nominal("SS", nil), dm}, b.Nominal("4main5OuterV", nil))
	if got != want {
		t.Errorf("DecodeYAML = %s, want %s", got, want)
	}
}

func TestEncodeDecodeAcrossBuilders(t *testing.T) {
	src := typeref.NewBuilder()
	intType := src.Nominal("Si", nil)
	trees := []typeref.TypeRef{
		src.Function([]typeref.TypeRef{src.Tuple([]typeref.TypeRef{intType}, true)}, src.Metatype(intType)),
		src.ExistentialMetatype(src.ProtocolComposition([]typeref.TypeRef{src.Protocol("Swift", "Hashable")})),
		src.WeakStorage(src.ObjCClass("")),
		src.UnownedStorage(src.ForeignClass("CFArray")),
		src.UnmanagedStorage(src.Opaque()),
		src.Builtin("Bo"),
	}

	for _, tree := range trees {
		data, err := EncodeYAML(tree)
		if err != nil {
			t.Fatalf("EncodeYAML(%s): %v", tree, err)
		}
		dst := typeref.NewBuilder()
		got, err := DecodeYAML(dst, data)
		if err != nil {
			t.Fatalf("DecodeYAML(%s): %v", data, err)
		}
		if !typeref.Equal(got, tree) {
			t.Errorf("decoded %s, want %s", got, tree)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		path string
		msg  string
	}{
		{"unknown kind", &Node{Kind: "pointer"}, "root", `unknown kind "pointer"`},
		{"nominal without name", &Node{Kind: "nominal"}, "root", "needs a name"},
		{
			name: "bad tuple element",
			node: &Node{Kind: "tuple", Args: []*Node{{Kind: "opaque"}, {Kind: "builtin"}}},
			path: "root.args[1]",
			msg:  "builtin needs a name",
		},
		{"function without result", &Node{Kind: "function"}, "root", "result is required"},
		{
			name: "non-nominal parent",
			node: &Node{Kind: "nominal", Name: "4main1AV", Parent: &Node{Kind: "opaque"}},
			path: "root.parent",
			msg:  "parent must be nominal",
		},
		{
			name: "dependent member with nominal protocol",
			node: &Node{
				Kind:     "dependent_member",
				Member:   "Element",
				Base:     &Node{Kind: "generic_type_parameter"},
				Protocol: &Node{Kind: "nominal", Name: "Si"},
			},
			path: "root.protocol",
			msg:  "must be a protocol",
		},
		{"metatype without type", &Node{Kind: "metatype"}, "root", "type is required"},
		{"protocol without module", &Node{Kind: "protocol", Name: "Sequence"}, "root", "module and a name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(typeref.NewBuilder(), tt.node)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode error = %v, want *DecodeError", err)
			}
			if de.Path != tt.path {
				t.Errorf("path = %q, want %q", de.Path, tt.path)
			}
			if !strings.Contains(de.Msg, tt.msg) {
				t.Errorf("message %q does not contain %q", de.Msg, tt.msg)
			}
		})
	}
}

func TestDecodeYAMLSyntaxError(t *testing.T) {
	if _, err := DecodeYAML(typeref.NewBuilder(), []byte("kind: [")); err == nil {
		t.Errorf("expected a parse error")
	}
}
