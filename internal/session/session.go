// Package session loads substitution sessions: a generic root type, the
// bindings for its generic parameters and the witnesses its dependent members
// need.
//
//	root:
//	  kind: dependent_member
//	  member: Element
//	  base: {kind: generic_type_parameter, depth: 0, index: 0}
//	  protocol: {kind: protocol, module: Swift, name: Sequence}
//	substitutions:
//	  - depth: 0
//	    index: 0
//	    type: {kind: bound_generic, name: Sa, args: [{kind: nominal, name: Si}]}
//	witnesses:
//	  - nominal: Sa
//	    protocol: {module: Swift, name: Sequence}
//	    member: Element
//	    type: {kind: generic_type_parameter, depth: 0, index: 0}
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/typeref/internal/config"
	"github.com/funvibe/typeref/internal/refdoc"
	"github.com/funvibe/typeref/internal/typeref"
	"github.com/funvibe/typeref/internal/witness"
)

// Document is the on-disk form of a session.
type Document struct {
	Root          *refdoc.Node   `yaml:"root" toml:"root"`
	Substitutions []Substitution `yaml:"substitutions,omitempty" toml:"substitutions"`
	Witnesses     []Witness      `yaml:"witnesses,omitempty" toml:"witnesses"`
}

// Substitution binds one generic parameter coordinate.
type Substitution struct {
	Depth uint32       `yaml:"depth" toml:"depth"`
	Index uint32       `yaml:"index" toml:"index"`
	Type  *refdoc.Node `yaml:"type" toml:"type"`
}

// Witness records the type a nominal type supplies for an associated type.
type Witness struct {
	Nominal  string       `yaml:"nominal" toml:"nominal"`
	Protocol ProtocolName `yaml:"protocol" toml:"protocol"`
	Member   string       `yaml:"member" toml:"member"`
	Type     *refdoc.Node `yaml:"type" toml:"type"`
}

type ProtocolName struct {
	Module string `yaml:"module" toml:"module"`
	Name   string `yaml:"name" toml:"name"`
}

// Session is a Document built into a Builder.
type Session struct {
	Root      typeref.TypeRef
	Subs      typeref.GenericArgumentMap
	Witnesses *witness.Table
}

// LoadDocument reads a session document; the format follows the extension.
func LoadDocument(path string) (*Document, error) {
	if !isDocument(path) {
		return nil, fmt.Errorf("%s: unsupported document type, want one of %s",
			path, strings.Join(config.DocumentExtensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}
	return ParseDocument(data, path)
}

// ParseDocument parses session content. The path selects the format and is
// used in error messages.
func ParseDocument(data []byte, path string) (*Document, error) {
	var doc Document
	if config.IsTOML(path) {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%s: root is required", path)
	}
	return &doc, nil
}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range config.DocumentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Build creates every node of the document in b.
func (d *Document) Build(b *typeref.Builder) (*Session, error) {
	root, err := refdoc.Decode(b, d.Root)
	if err != nil {
		return nil, err
	}

	subs := make(typeref.GenericArgumentMap, len(d.Substitutions))
	for i, s := range d.Substitutions {
		key := typeref.DepthAndIndex{Depth: s.Depth, Index: s.Index}
		if _, dup := subs[key]; dup {
			return nil, fmt.Errorf("substitutions[%d]: duplicate binding for %s", i, key)
		}
		t, err := refdoc.DecodeAt(b, s.Type, fmt.Sprintf("substitutions[%d].type", i))
		if err != nil {
			return nil, err
		}
		subs[key] = t
	}

	table := witness.NewTable()
	for i, w := range d.Witnesses {
		if w.Nominal == "" || w.Member == "" || w.Protocol.Module == "" || w.Protocol.Name == "" {
			return nil, fmt.Errorf("witnesses[%d]: nominal, protocol module and name, and member are required", i)
		}
		t, err := refdoc.DecodeAt(b, w.Type, fmt.Sprintf("witnesses[%d].type", i))
		if err != nil {
			return nil, err
		}
		table.Add(witness.Key{
			Nominal:        w.Nominal,
			ProtocolModule: w.Protocol.Module,
			Protocol:       w.Protocol.Name,
			Member:         w.Member,
		}, t)
	}

	return &Session{Root: root, Subs: subs, Witnesses: table}, nil
}

// Load reads and builds a session document in one step.
func Load(b *typeref.Builder, path string) (*Session, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	s, err := doc.Build(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
