// bindings.go — the build-time binding environment.
//
// Bindings maps names introduced by WITH clauses and lambda parameters to
// slot indices and static types. The chain is immutable and append-only:
// extending returns a new chain and never touches the receiver, so two
// lambda bodies built from the same outer environment cannot interfere.
// References are resolved here, once, while building; at evaluation time a
// binding is just an index into the context's value stack.
package findit

// Bindings is one link of the environment chain. A nil *Bindings is the
// empty environment.
type Bindings struct {
	parent *Bindings
	name   string
	typ    ValueType
	slot   int
}

// extend declares one more binding. Its slot is the current depth, so slots
// grow densely from zero and shadowing a name still allocates a fresh slot.
func (b *Bindings) extend(name string, t ValueType) *Bindings {
	return &Bindings{parent: b, name: name, typ: t, slot: b.depth()}
}

// depth is the number of slots declared so far.
func (b *Bindings) depth() int {
	if b == nil {
		return 0
	}
	return b.slot + 1
}

// lookup resolves a name to its slot and type. The newest declaration wins.
func (b *Bindings) lookup(name string) (int, ValueType, bool) {
	for e := b; e != nil; e = e.parent {
		if e.name == name {
			return e.slot, e.typ, true
		}
	}
	return 0, ValueType{}, false
}
