package typeref

import "errors"

// WitnessResolver finds the type witness a nominal type supplies for the
// associated type named by a dependent member. The witness may itself be
// expressed in terms of the nominal type's own generic parameters.
type WitnessResolver interface {
	ResolveWitness(mangledName string, dm *DependentMember) (TypeRef, error)
}

// WitnessResolverFunc adapts a function to WitnessResolver.
type WitnessResolverFunc func(mangledName string, dm *DependentMember) (TypeRef, error)

func (f WitnessResolverFunc) ResolveWitness(mangledName string, dm *DependentMember) (TypeRef, error) {
	return f(mangledName, dm)
}

// Subst replaces every generic parameter and dependent member reachable from
// t, allocating new nodes in b. The result is always concrete; a missing
// binding, an unresolvable witness or a non-concrete result panics with a
// *ContractViolation.
func Subst(b *Builder, r WitnessResolver, t TypeRef, subs GenericArgumentMap) TypeRef {
	requireRef("subst", t)
	result := Visit[TypeRef](&substituter{b: b, r: r, subs: subs}, t)
	if !result.IsConcrete() {
		violate("subst", "result %s is not concrete", result)
	}
	return result
}

// TrySubst is Subst with contract violations reported as an error. Other
// panics propagate.
func TrySubst(b *Builder, r WitnessResolver, t TypeRef, subs GenericArgumentMap) (result TypeRef, err error) {
	defer func() {
		if p := recover(); p != nil {
			var cv *ContractViolation
			if e, ok := p.(error); ok && errors.As(e, &cv) {
				result, err = nil, cv
				return
			}
			panic(p)
		}
	}()
	return Subst(b, r, t, subs), nil
}

type substituter struct {
	b    *Builder
	r    WitnessResolver
	subs GenericArgumentMap
}

func (s *substituter) subst(t TypeRef) TypeRef {
	return Visit[TypeRef](s, t)
}

func (s *substituter) substAll(ts []TypeRef) []TypeRef {
	out := make([]TypeRef, len(ts))
	for i, t := range ts {
		out[i] = s.subst(t)
	}
	return out
}

func (s *substituter) VisitBuiltin(t *Builtin) TypeRef { return t }

// A nominal type nested in a generic one carries the enclosing arguments in
// its parent chain.
func (s *substituter) VisitNominal(t *Nominal) TypeRef {
	if t.Parent() == nil || t.Parent().IsConcrete() {
		return t
	}
	return s.b.Nominal(t.MangledName(), s.subst(t.Parent()))
}

func (s *substituter) VisitBoundGeneric(t *BoundGeneric) TypeRef {
	return s.b.BoundGeneric(t.MangledName(), s.substAll(t.GenericParams()), s.substParent(t.Parent()))
}

func (s *substituter) substParent(parent TypeRef) TypeRef {
	if parent == nil {
		return nil
	}
	return s.subst(parent)
}

func (s *substituter) VisitTuple(t *Tuple) TypeRef {
	return s.b.Tuple(s.substAll(t.Elements()), t.IsVariadic())
}

func (s *substituter) VisitFunction(t *Function) TypeRef {
	return s.b.Function(s.substAll(t.Arguments()), s.subst(t.Result()))
}

func (s *substituter) VisitProtocol(t *Protocol) TypeRef { return t }

func (s *substituter) VisitProtocolComposition(t *ProtocolComposition) TypeRef { return t }

func (s *substituter) VisitMetatype(t *Metatype) TypeRef {
	return s.b.Metatype(s.subst(t.InstanceType()))
}

// Existential metatypes are not generic at this point.
func (s *substituter) VisitExistentialMetatype(t *ExistentialMetatype) TypeRef {
	if !t.InstanceType().IsConcrete() {
		violate("subst", "existential metatype instance %s is not concrete", t.InstanceType())
	}
	return t
}

func (s *substituter) VisitGenericTypeParameter(t *GenericTypeParameter) TypeRef {
	found, ok := s.subs[t.Key()]
	if !ok || found == nil {
		violate("subst", "no substitution for generic parameter %s in %s", t.Key(), s.subs)
	}
	if !found.IsConcrete() {
		violate("subst", "substitution %s for generic parameter %s is not concrete", found, t.Key())
	}
	return found
}

func (s *substituter) VisitDependentMember(t *DependentMember) TypeRef {
	substBase := s.subst(t.Base())

	var mangledName string
	switch base := substBase.(type) {
	case *Nominal:
		mangledName = base.MangledName()
	case *BoundGeneric:
		mangledName = base.MangledName()
	default:
		violate("subst", "base of dependent member %s resolved to %s, not a nominal type", t.Member(), substBase.Kind())
	}

	if s.r == nil {
		violate("subst", "no witness resolver for %s.%s", mangledName, t.Member())
	}
	witness, err := s.r.ResolveWitness(mangledName, t)
	if err != nil {
		violateErr("subst", err, "resolving witness %s.%s", mangledName, t.Member())
	}
	if witness == nil {
		violate("subst", "no witness for %s.%s", mangledName, t.Member())
	}

	// The witness is written against the conforming type's own parameters.
	return s.nested(SubstMap(substBase)).subst(witness)
}

func (s *substituter) nested(subs GenericArgumentMap) *substituter {
	return &substituter{b: s.b, r: s.r, subs: subs}
}

func (s *substituter) VisitForeignClass(t *ForeignClass) TypeRef { return t }
func (s *substituter) VisitObjCClass(t *ObjCClass) TypeRef       { return t }
func (s *substituter) VisitOpaque(t *Opaque) TypeRef             { return t }

func (s *substituter) VisitUnownedStorage(t *UnownedStorage) TypeRef {
	return s.b.UnownedStorage(s.subst(t.Type()))
}

func (s *substituter) VisitWeakStorage(t *WeakStorage) TypeRef {
	return s.b.WeakStorage(s.subst(t.Type()))
}

func (s *substituter) VisitUnmanagedStorage(t *UnmanagedStorage) TypeRef {
	return s.b.UnmanagedStorage(s.subst(t.Type()))
}

var _ Visitor[TypeRef] = (*substituter)(nil)

