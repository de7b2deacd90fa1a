package typeref

import "fmt"

// Visitor has one method per variant. A new variant adds a method here, so
// every visitor in the tree stops compiling until it handles it.
type Visitor[R any] interface {
	VisitBuiltin(*Builtin) R
	VisitNominal(*Nominal) R
	VisitBoundGeneric(*BoundGeneric) R
	VisitTuple(*Tuple) R
	VisitFunction(*Function) R
	VisitProtocol(*Protocol) R
	VisitProtocolComposition(*ProtocolComposition) R
	VisitMetatype(*Metatype) R
	VisitExistentialMetatype(*ExistentialMetatype) R
	VisitGenericTypeParameter(*GenericTypeParameter) R
	VisitDependentMember(*DependentMember) R
	VisitForeignClass(*ForeignClass) R
	VisitObjCClass(*ObjCClass) R
	VisitOpaque(*Opaque) R
	VisitUnownedStorage(*UnownedStorage) R
	VisitWeakStorage(*WeakStorage) R
	VisitUnmanagedStorage(*UnmanagedStorage) R
}

// Visit dispatches t to the matching method of v.
func Visit[R any](v Visitor[R], t TypeRef) R {
	switch typ := t.(type) {
	case *Builtin:
		return v.VisitBuiltin(typ)
	case *Nominal:
		return v.VisitNominal(typ)
	case *BoundGeneric:
		return v.VisitBoundGeneric(typ)
	case *Tuple:
		return v.VisitTuple(typ)
	case *Function:
		return v.VisitFunction(typ)
	case *Protocol:
		return v.VisitProtocol(typ)
	case *ProtocolComposition:
		return v.VisitProtocolComposition(typ)
	case *Metatype:
		return v.VisitMetatype(typ)
	case *ExistentialMetatype:
		return v.VisitExistentialMetatype(typ)
	case *GenericTypeParameter:
		return v.VisitGenericTypeParameter(typ)
	case *DependentMember:
		return v.VisitDependentMember(typ)
	case *ForeignClass:
		return v.VisitForeignClass(typ)
	case *ObjCClass:
		return v.VisitObjCClass(typ)
	case *Opaque:
		return v.VisitOpaque(typ)
	case *UnownedStorage:
		return v.VisitUnownedStorage(typ)
	case *WeakStorage:
		return v.VisitWeakStorage(typ)
	case *UnmanagedStorage:
		return v.VisitUnmanagedStorage(typ)
	case nil:
		panic(&ContractViolation{Op: "visit", Msg: "nil type reference"})
	default:
		panic(&ContractViolation{Op: "visit", Msg: fmt.Sprintf("unknown type reference %T", t)})
	}
}
