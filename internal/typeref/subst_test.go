package typeref

import (
	"errors"
	"strings"
	"testing"
)

// fixture holds a builder and a few common nodes.
type fixture struct {
	b        *Builder
	intType  *Nominal
	strType  *Nominal
	sequence *Protocol
}

func newFixture() *fixture {
	b := NewBuilder()
	return &fixture{
		b:        b,
		intType:  b.Nominal("Si", nil),
		strType:  b.Nominal("SS", nil),
		sequence: b.Protocol("Swift", "Sequence"),
	}
}

func noWitnesses(t *testing.T) WitnessResolver {
	return WitnessResolverFunc(func(name string, dm *DependentMember) (TypeRef, error) {
		t.Fatalf("unexpected witness lookup for %s.%s", name, dm.Member())
		return nil, nil
	})
}

func TestSubstIdempotentOnConcrete(t *testing.T) {
	f := newFixture()
	b := f.b
	subs := GenericArgumentMap{{0, 0}: f.strType}

	trees := []TypeRef{
		b.Builtin("Bi64_"),
		f.intType,
		b.BoundGeneric("Sa", []TypeRef{f.intType}, nil),
		b.Tuple([]TypeRef{f.intType, f.strType}, true),
		b.Function([]TypeRef{f.intType}, b.Tuple(nil, false)),
		f.sequence,
		b.ProtocolComposition([]TypeRef{f.sequence, b.Protocol("Swift", "Hashable")}),
		b.Metatype(f.intType),
		b.ExistentialMetatype(f.sequence),
		b.ForeignClass("CFString"),
		b.ObjCClass(""),
		b.Opaque(),
		b.WeakStorage(b.Nominal("C4main3Obj", nil)),
		b.UnownedStorage(b.Nominal("C4main3Obj", nil)),
		b.UnmanagedStorage(b.Nominal("C4main3Obj", nil)),
	}

	for _, tree := range trees {
		t.Run(tree.Kind().String(), func(t *testing.T) {
			got := Subst(b, noWitnesses(t), tree, subs)
			if !Equal(got, tree) {
				t.Errorf("Subst(%s) = %s, want unchanged", tree, got)
			}
			if got != tree {
				t.Errorf("Subst(%s) should return the interned node", tree)
			}
		})
	}
}

func TestSubstGenericParameter(t *testing.T) {
	f := newFixture()
	subs := GenericArgumentMap{
		{0, 0}: f.intType,
		{0, 1}: f.strType,
		{1, 0}: f.f64(),
	}

	for _, key := range subs.Keys() {
		param := f.b.GenericTypeParameter(key.Depth, key.Index)
		got := Subst(f.b, noWitnesses(t), param, subs)
		if got != subs[key] {
			t.Errorf("Subst(%s) = %s, want %s", param, got, subs[key])
		}
	}
}

func (f *fixture) f64() *Nominal { return f.b.Nominal("Sd", nil) }

func TestSubstStructural(t *testing.T) {
	f := newFixture()
	b := f.b
	p0 := b.GenericTypeParameter(0, 0)
	p1 := b.GenericTypeParameter(0, 1)
	p10 := b.GenericTypeParameter(1, 0)
	subs := GenericArgumentMap{{0, 0}: f.intType, {0, 1}: f.strType, {1, 0}: f.strType}
	obj := b.Nominal("C4main3Obj", nil)
	parent := b.Nominal("V4main5Outer", nil)
	genericOuter := b.BoundGeneric("4main5OuterV", []TypeRef{p0}, nil)
	intOuter := b.BoundGeneric("4main5OuterV", []TypeRef{f.intType}, nil)

	tests := []struct {
		name string
		in   TypeRef
		want TypeRef
	}{
		{
			name: "tuple",
			in:   b.Tuple([]TypeRef{p0, f.strType, p1}, true),
			want: b.Tuple([]TypeRef{f.intType, f.strType, f.strType}, true),
		},
		{
			name: "function",
			in:   b.Function([]TypeRef{p0, p1}, p0),
			want: b.Function([]TypeRef{f.intType, f.strType}, f.intType),
		},
		{
			name: "bound generic keeps parent",
			in:   b.BoundGeneric("4main4PairV", []TypeRef{p1, p0}, parent),
			want: b.BoundGeneric("4main4PairV", []TypeRef{f.strType, f.intType}, parent),
		},
		{
			name: "bound generic with generic parent",
			in:   b.BoundGeneric("4main5InnerV", []TypeRef{p10}, genericOuter),
			want: b.BoundGeneric("4main5InnerV", []TypeRef{f.strType}, intOuter),
		},
		{
			name: "nominal nested in generic",
			in:   b.Tuple([]TypeRef{b.Nominal("4main4LeafV", genericOuter), p1}, false),
			want: b.Tuple([]TypeRef{b.Nominal("4main4LeafV", intOuter), f.strType}, false),
		},
		{
			name: "metatype",
			in:   b.Metatype(b.BoundGeneric("Sa", []TypeRef{p0}, nil)),
			want: b.Metatype(b.BoundGeneric("Sa", []TypeRef{f.intType}, nil)),
		},
		{
			name: "weak",
			in:   b.WeakStorage(b.BoundGeneric("4main3BoxC", []TypeRef{p0}, nil)),
			want: b.WeakStorage(b.BoundGeneric("4main3BoxC", []TypeRef{f.intType}, nil)),
		},
		{
			name: "unowned",
			in:   b.UnownedStorage(b.BoundGeneric("4main3BoxC", []TypeRef{p1}, nil)),
			want: b.UnownedStorage(b.BoundGeneric("4main3BoxC", []TypeRef{f.strType}, nil)),
		},
		{
			name: "unmanaged",
			in:   b.UnmanagedStorage(obj),
			want: b.UnmanagedStorage(obj),
		},
		{
			name: "nested",
			in:   b.Tuple([]TypeRef{b.Function([]TypeRef{b.Metatype(p1)}, b.Tuple([]TypeRef{p0}, false))}, false),
			want: b.Tuple([]TypeRef{b.Function([]TypeRef{b.Metatype(f.strType)}, b.Tuple([]TypeRef{f.intType}, false))}, false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subst(b, noWitnesses(t), tt.in, subs)
			if !Equal(got, tt.want) {
				t.Errorf("Subst(%s) = %s, want %s", tt.in, got, tt.want)
			}
			if !got.IsConcrete() {
				t.Errorf("result %s is not concrete", got)
			}
		})
	}
}

func TestSubstDoesNotMutateInput(t *testing.T) {
	f := newFixture()
	p0 := f.b.GenericTypeParameter(0, 0)
	in := f.b.Tuple([]TypeRef{p0, p0}, false)
	before := in.String()

	Subst(f.b, nil, in, GenericArgumentMap{{0, 0}: f.intType})

	if in.String() != before || in.IsConcrete() {
		t.Errorf("input changed: %s -> %s", before, in)
	}
}

func TestSubstDependentMember(t *testing.T) {
	f := newFixture()
	b := f.b
	witnessParam := b.GenericTypeParameter(0, 0)

	var seen *DependentMember
	resolver := WitnessResolverFunc(func(name string, dm *DependentMember) (TypeRef, error) {
		seen = dm
		if name == "4main1SV" && dm.Member() == "Element" && dm.Protocol().Equal(f.sequence) {
			return witnessParam, nil
		}
		return nil, errors.New("no witness")
	})

	base := b.BoundGeneric("4main1SV", []TypeRef{f.strType}, nil)
	dm := b.DependentMember("Element", base, f.sequence)

	got := Subst(b, resolver, dm, GenericArgumentMap{})
	if got != f.strType {
		t.Errorf("Subst(%s) = %s, want %s", dm, got, f.strType)
	}
	if seen != dm {
		t.Errorf("resolver should receive the original dependent member")
	}
}

func TestSubstDependentMemberOfParameter(t *testing.T) {
	f := newFixture()
	b := f.b

	// T.Element where T := Stack<Int>, and Stack<U>.Element == [U].
	stack := b.BoundGeneric("4main5StackV", []TypeRef{f.intType}, nil)
	resolver := WitnessResolverFunc(func(name string, dm *DependentMember) (TypeRef, error) {
		if name != "4main5StackV" {
			return nil, errors.New("unexpected nominal " + name)
		}
		return b.BoundGeneric("Sa", []TypeRef{b.GenericTypeParameter(0, 0)}, nil), nil
	})

	dm := b.DependentMember("Element", b.GenericTypeParameter(0, 0), f.sequence)
	in := b.Function([]TypeRef{dm}, b.Tuple(nil, false))

	got := Subst(b, resolver, in, GenericArgumentMap{{0, 0}: stack})
	want := b.Function([]TypeRef{b.BoundGeneric("Sa", []TypeRef{f.intType}, nil)}, b.Tuple(nil, false))
	if !Equal(got, want) {
		t.Errorf("Subst(%s) = %s, want %s", in, got, want)
	}
}

func TestSubstDependentMemberNestedBase(t *testing.T) {
	f := newFixture()
	b := f.b

	// Outer<Int>.Inner<String>: its own map binds (0,0) and (1,0).
	outer := b.BoundGeneric("4main5OuterV", []TypeRef{f.intType}, nil)
	inner := b.BoundGeneric("4main5InnerV", []TypeRef{f.strType}, outer)

	resolver := WitnessResolverFunc(func(name string, dm *DependentMember) (TypeRef, error) {
		return b.Tuple([]TypeRef{b.GenericTypeParameter(0, 0), b.GenericTypeParameter(1, 0)}, false), nil
	})
	dm := b.DependentMember("Pair", inner, f.sequence)

	got := Subst(b, resolver, dm, nil)
	want := b.Tuple([]TypeRef{f.intType, f.strType}, false)
	if got != want {
		t.Errorf("Subst(%s) = %s, want %s", dm, got, want)
	}
}

func TestSubstDependentMemberChained(t *testing.T) {
	f := newFixture()
	b := f.b

	// T.Iterator.Element, with T := [Int].
	iterProto := b.Protocol("Swift", "IteratorProtocol")
	array := b.BoundGeneric("Sa", []TypeRef{f.intType}, nil)
	resolver := WitnessResolverFunc(func(name string, dm *DependentMember) (TypeRef, error) {
		switch {
		case name == "Sa" && dm.Member() == "Iterator":
			return b.BoundGeneric("s16IndexingIteratorV", []TypeRef{b.GenericTypeParameter(0, 0)}, nil), nil
		case name == "s16IndexingIteratorV" && dm.Member() == "Element":
			return b.GenericTypeParameter(0, 0), nil
		}
		return nil, errors.New("no witness")
	})

	iter := b.DependentMember("Iterator", b.GenericTypeParameter(0, 0), f.sequence)
	elem := b.DependentMember("Element", iter, iterProto)

	got := Subst(b, resolver, elem, GenericArgumentMap{{0, 0}: array})
	if got != f.intType {
		t.Errorf("Subst(%s) = %s, want %s", elem, got, f.intType)
	}
}

func TestSubstContractViolations(t *testing.T) {
	f := newFixture()
	b := f.b
	errNoWitness := errors.New("no witness")

	tests := []struct {
		name     string
		in       TypeRef
		subs     GenericArgumentMap
		resolver WitnessResolver
		contains string
	}{
		{
			name:     "missing binding",
			in:       b.Tuple([]TypeRef{f.intType, b.GenericTypeParameter(1, 0)}, false),
			subs:     GenericArgumentMap{{0, 0}: f.intType},
			contains: "no substitution for generic parameter 1.0",
		},
		{
			name:     "non-concrete replacement",
			in:       b.GenericTypeParameter(0, 0),
			subs:     GenericArgumentMap{{0, 0}: b.GenericTypeParameter(0, 1)},
			contains: "is not concrete",
		},
		{
			name:     "open existential metatype",
			in:       b.ExistentialMetatype(b.GenericTypeParameter(0, 0)),
			subs:     GenericArgumentMap{{0, 0}: f.intType},
			contains: "existential metatype",
		},
		{
			name:     "dependent member on a tuple",
			in:       b.DependentMember("Element", b.GenericTypeParameter(0, 0), f.sequence),
			subs:     GenericArgumentMap{{0, 0}: b.Tuple(nil, false)},
			contains: "not a nominal type",
		},
		{
			name: "resolver failure",
			in:   b.DependentMember("Element", f.intType, f.sequence),
			resolver: WitnessResolverFunc(func(string, *DependentMember) (TypeRef, error) {
				return nil, errNoWitness
			}),
			contains: "resolving witness Si.Element",
		},
		{
			name: "resolver returns nothing",
			in:   b.DependentMember("Element", f.intType, f.sequence),
			resolver: WitnessResolverFunc(func(string, *DependentMember) (TypeRef, error) {
				return nil, nil
			}),
			contains: "no witness for Si.Element",
		},
		{
			name:     "no resolver",
			in:       b.DependentMember("Element", f.intType, f.sequence),
			contains: "no witness resolver",
		},
		{
			name: "witness outside the base's parameters",
			in:   b.DependentMember("Element", f.intType, f.sequence),
			resolver: WitnessResolverFunc(func(string, *DependentMember) (TypeRef, error) {
				return b.GenericTypeParameter(0, 0), nil
			}),
			contains: "no substitution for generic parameter 0.0",
		},
		{
			name:     "protocol slot holds a nominal",
			in:       b.DependentMember("Element", f.intType, f.strType),
			resolver: WitnessResolverFunc(func(_ string, dm *DependentMember) (TypeRef, error) { return dm.Protocol(), nil }),
			contains: "not a protocol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := expectViolation(t, func() {
				Subst(b, tt.resolver, tt.in, tt.subs)
			})
			if !strings.Contains(cv.Error(), tt.contains) {
				t.Errorf("violation %q does not mention %q", cv.Error(), tt.contains)
			}

			got, err := TrySubst(b, tt.resolver, tt.in, tt.subs)
			if got != nil || err == nil {
				t.Fatalf("TrySubst = %v, %v; want an error", got, err)
			}
			var target *ContractViolation
			if !errors.As(err, &target) {
				t.Errorf("TrySubst error %T is not a contract violation", err)
			}
		})
	}
}

func TestTrySubstWrapsResolverError(t *testing.T) {
	f := newFixture()
	errNoWitness := errors.New("no witness")
	resolver := WitnessResolverFunc(func(string, *DependentMember) (TypeRef, error) {
		return nil, errNoWitness
	})

	_, err := TrySubst(f.b, resolver, f.b.DependentMember("Element", f.intType, f.sequence), nil)
	if !errors.Is(err, errNoWitness) {
		t.Errorf("TrySubst error %v should wrap the resolver error", err)
	}
}

func TestTrySubstSuccess(t *testing.T) {
	f := newFixture()
	got, err := TrySubst(f.b, nil, f.b.GenericTypeParameter(0, 0), GenericArgumentMap{{0, 0}: f.intType})
	if err != nil || got != f.intType {
		t.Errorf("TrySubst = %v, %v", got, err)
	}
}
