// Package witness provides type-witness resolvers for dependent member
// substitution: an in-memory table, a SQLite-backed store and a chain of
// both.
package witness

import (
	"errors"
	"fmt"
	"sync"

	"github.com/funvibe/typeref/internal/typeref"
)

// Key identifies the witness a nominal type supplies for one associated type
// of one protocol.
type Key struct {
	Nominal        string
	ProtocolModule string
	Protocol       string
	Member         string
}

func (k Key) String() string {
	return fmt.Sprintf("%s: %s.%s.%s", k.Nominal, k.ProtocolModule, k.Protocol, k.Member)
}

// KeyFor builds the lookup key for dm projected from the nominal type named
// mangledName.
func KeyFor(mangledName string, dm *typeref.DependentMember) Key {
	proto := dm.Protocol()
	return Key{
		Nominal:        mangledName,
		ProtocolModule: proto.ModuleName(),
		Protocol:       proto.Name(),
		Member:         dm.Member(),
	}
}

// NotFoundError indicates no witness is recorded for a key.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("witness not found: %s", e.Key)
}

func NewNotFoundError(k Key) *NotFoundError {
	return &NotFoundError{Key: k}
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Table is an in-memory resolver.
type Table struct {
	mu        sync.RWMutex
	witnesses map[Key]typeref.TypeRef
}

func NewTable() *Table {
	return &Table{witnesses: make(map[Key]typeref.TypeRef)}
}

// Add records a witness, replacing any previous one for the same key.
func (t *Table) Add(k Key, witness typeref.TypeRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.witnesses[k] = witness
}

func (t *Table) Lookup(k Key) (typeref.TypeRef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.witnesses[k]
	return w, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.witnesses)
}

// Each calls fn for every entry, in no particular order.
func (t *Table) Each(fn func(Key, typeref.TypeRef)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for k, w := range t.witnesses {
		fn(k, w)
	}
}

func (t *Table) ResolveWitness(mangledName string, dm *typeref.DependentMember) (typeref.TypeRef, error) {
	k := KeyFor(mangledName, dm)
	if w, ok := t.Lookup(k); ok {
		return w, nil
	}
	return nil, NewNotFoundError(k)
}

// Chain tries each resolver in order. A *NotFoundError moves on to the next
// one; any other error stops the search.
type Chain []typeref.WitnessResolver

func (c Chain) ResolveWitness(mangledName string, dm *typeref.DependentMember) (typeref.TypeRef, error) {
	for _, r := range c {
		w, err := r.ResolveWitness(mangledName, dm)
		if err == nil {
			return w, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, NewNotFoundError(KeyFor(mangledName, dm))
}

var (
	_ typeref.WitnessResolver = (*Table)(nil)
	_ typeref.WitnessResolver = Chain(nil)
)
