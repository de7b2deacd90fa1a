package typeref

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// DepthAndIndex is the coordinate of a generic parameter.
type DepthAndIndex struct {
	Depth uint32
	Index uint32
}

func (k DepthAndIndex) String() string {
	return fmt.Sprintf("%d.%d", k.Depth, k.Index)
}

// GenericArgumentMap maps generic parameter coordinates to replacements.
type GenericArgumentMap map[DepthAndIndex]TypeRef

// Keys returns the coordinates ordered by depth, then index.
func (m GenericArgumentMap) Keys() []DepthAndIndex {
	keys := make([]DepthAndIndex, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b DepthAndIndex) int {
		if a.Depth != b.Depth {
			if a.Depth < b.Depth {
				return -1
			}
			return 1
		}
		if a.Index < b.Index {
			return -1
		}
		if a.Index > b.Index {
			return 1
		}
		return 0
	})
	return keys
}

func (m GenericArgumentMap) String() string {
	parts := make([]string, 0, len(m))
	for _, k := range m.Keys() {
		parts = append(parts, fmt.Sprintf("%s => %s", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SubstMap binds the generic parameters of a nominal type to its own
// arguments: a BoundGeneric at depth d contributes (d, i) for its i-th
// argument, and each enclosing type contributes its bindings at its own depth.
// Other variants yield an empty map.
func SubstMap(t TypeRef) GenericArgumentMap {
	subs := make(GenericArgumentMap)
	collectSubstMap(t, subs)
	return subs
}

func collectSubstMap(t TypeRef, subs GenericArgumentMap) {
	switch typ := t.(type) {
	case *Nominal:
		if typ.Parent() != nil {
			collectSubstMap(typ.Parent(), subs)
		}
	case *BoundGeneric:
		depth := typ.Depth()
		for i, param := range typ.GenericParams() {
			subs[DepthAndIndex{Depth: depth, Index: uint32(i)}] = param
		}
		if typ.Parent() != nil {
			collectSubstMap(typ.Parent(), subs)
		}
	}
}
