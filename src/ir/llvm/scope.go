package llvm

import (
	"log"

	"tinygo.org/x/go-llvm"
)

// scopeCapacity bounds a single Scope's binding table, mirroring the reference generator's own
// pre-sized symbol table hash maps (mapSize there). It is a tolerated limitation, not a
// correctness requirement: overflow is logged and the binding is dropped rather than the
// compilation aborting.
const scopeCapacity = 16

// Binding is one name's entry in a Scope: the storage-handle (a pointer-typed IR value for a
// stack slot or global cell, or a bare function value for an immutable function handle), the
// element type that a load of the handle yields, and whether the binding came from a function
// parameter.
type Binding struct {
	Name       string
	Handle     llvm.Value
	Type       llvm.Type
	IsParam    bool
	IsFunction bool // true when Handle is an immutable function value, never loaded or stored to.
}

// Scope is one frame of the lexical scope chain: a capacity-bounded table of bindings plus a
// link to its parent. Function bodies and loop bodies each get their own Scope; lookups walk
// from innermost to outermost, the way the reference generator walks its scope stack bottom-up
// by index, except expressed as parent pointers instead of an explicit stack with Get(n).
type Scope struct {
	parent   *Scope
	bindings map[string]*Binding
}

// newScope creates a fresh Scope whose parent is the given Scope. Passing nil parent creates the
// global scope.
func newScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		bindings: make(map[string]*Binding, scopeCapacity),
	}
}

// define inserts or overwrites a binding in this scope's own table — never a parent's. Within one
// scope, redefining an existing name updates its binding in place (implicit re-declaration);
// inserting past capacity is logged and dropped.
func (s *Scope) define(name string, handle llvm.Value, typ llvm.Type, isParam bool) {
	s.defineBinding(&Binding{Name: name, Handle: handle, Type: typ, IsParam: isParam})
}

// defineFunction inserts an immutable function binding, distinct from define's mutable
// storage-handle bindings: its Handle is never loaded or stored to.
func (s *Scope) defineFunction(name string, fn llvm.Value, fnType llvm.Type) {
	s.defineBinding(&Binding{Name: name, Handle: fn, Type: fnType, IsFunction: true})
}

func (s *Scope) defineBinding(b *Binding) {
	if _, exists := s.bindings[b.Name]; !exists && len(s.bindings) >= scopeCapacity {
		log.Printf("scope table full (capacity %d), discarding binding for %q", scopeCapacity, b.Name)
		return
	}
	s.bindings[b.Name] = b
}

// lookup walks the scope chain from s outward to the global scope, returning the first matching
// binding.
func (s *Scope) lookup(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}
