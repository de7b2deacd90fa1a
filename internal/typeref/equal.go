package typeref

// Equal reports whether a and b describe the same type. Nodes from the same
// Builder are interned, so the pointer check settles most comparisons; nodes
// from different sessions are compared field by field.
func Equal(a, b TypeRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Builtin:
		return x.MangledName() == b.(*Builtin).MangledName()
	case *Nominal:
		y := b.(*Nominal)
		return x.MangledName() == y.MangledName() && Equal(x.Parent(), y.Parent())
	case *BoundGeneric:
		y := b.(*BoundGeneric)
		return x.MangledName() == y.MangledName() &&
			equalAll(x.GenericParams(), y.GenericParams()) &&
			Equal(x.Parent(), y.Parent())
	case *Tuple:
		y := b.(*Tuple)
		return x.IsVariadic() == y.IsVariadic() && equalAll(x.Elements(), y.Elements())
	case *Function:
		y := b.(*Function)
		return equalAll(x.Arguments(), y.Arguments()) && Equal(x.Result(), y.Result())
	case *Protocol:
		return x.Equal(b.(*Protocol))
	case *ProtocolComposition:
		return equalAll(x.Protocols(), b.(*ProtocolComposition).Protocols())
	case *Metatype:
		return Equal(x.InstanceType(), b.(*Metatype).InstanceType())
	case *ExistentialMetatype:
		return Equal(x.InstanceType(), b.(*ExistentialMetatype).InstanceType())
	case *GenericTypeParameter:
		return x.Key() == b.(*GenericTypeParameter).Key()
	case *DependentMember:
		y := b.(*DependentMember)
		return x.Member() == y.Member() &&
			Equal(x.Base(), y.Base()) &&
			Equal(x.ProtocolRef(), y.ProtocolRef())
	case *ForeignClass:
		return x.Name() == b.(*ForeignClass).Name()
	case *ObjCClass:
		return x.Name() == b.(*ObjCClass).Name()
	case *Opaque:
		return true
	case ReferenceStorage:
		return Equal(x.Type(), b.(ReferenceStorage).Type())
	}
	return false
}

func equalAll(a, b []TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
