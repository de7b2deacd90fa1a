// Package refdoc is the serialized form of type references used by session
// documents and the witness store.
//
// A Node mirrors one type reference. Which fields are meaningful depends on
// Kind, which takes the dump names of typeref.Kind:
//
//	builtin                 name
//	nominal                 name, parent
//	bound_generic           name, args, parent
//	tuple                   args, variadic
//	function                args, result
//	protocol                module, name
//	protocol_composition    args
//	metatype                type
//	existential_metatype    type
//	generic_type_parameter  depth, index
//	dependent_member        member, base, protocol
//	foreign                 name (empty for the unnamed class)
//	objective_c_class       name (empty for the unnamed class)
//	opaque
//	unowned_storage         type
//	weak_storage            type
//	unmanaged_storage       type
package refdoc

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/typeref/internal/typeref"
)

// Node is one serialized type reference.
type Node struct {
	Kind     string  `yaml:"kind" toml:"kind"`
	Name     string  `yaml:"name,omitempty" toml:"name,omitempty"`
	Module   string  `yaml:"module,omitempty" toml:"module,omitempty"`
	Member   string  `yaml:"member,omitempty" toml:"member,omitempty"`
	Depth    uint32  `yaml:"depth,omitempty" toml:"depth,omitempty"`
	Index    uint32  `yaml:"index,omitempty" toml:"index,omitempty"`
	Variadic bool    `yaml:"variadic,omitempty" toml:"variadic,omitempty"`
	Parent   *Node   `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Args     []*Node `yaml:"args,omitempty" toml:"args,omitempty"`
	Result   *Node   `yaml:"result,omitempty" toml:"result,omitempty"`
	Type     *Node   `yaml:"type,omitempty" toml:"type,omitempty"`
	Base     *Node   `yaml:"base,omitempty" toml:"base,omitempty"`
	Protocol *Node   `yaml:"protocol,omitempty" toml:"protocol,omitempty"`
}

// DecodeError reports a malformed node and where it sits in the document.
type DecodeError struct {
	Path string
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// EncodeYAML serializes t.
func EncodeYAML(t typeref.TypeRef) ([]byte, error) {
	return yaml.Marshal(Encode(t))
}

// DecodeYAML parses a serialized node and builds it in b.
func DecodeYAML(b *typeref.Builder, data []byte) (typeref.TypeRef, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parsing type reference: %w", err)
	}
	return Decode(b, &n)
}
