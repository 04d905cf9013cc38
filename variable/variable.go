// Package variable implements the GC-tracked heap cell (spec.md §3.3) and
// the generational, cycle-tracing collector (spec.md §4.5).
//
// Grounded on the teacher's locals/scopeDepth bookkeeping in
// compiler/ast_compiler.go (Local{name,depth,initialized,slot}): a Variable
// here plays the same "named slot with an initialized flag" role, just
// promoted from a compile-time stack slot to a heap cell with a lifetime
// governed by the collector instead of block scope.
package variable

import "asteria/value"

// Variable is a GC-tracked heap cell holding a Value plus the two flags
// named in spec.md §3.3.
type Variable struct {
	val         value.Value
	initialized bool
	immutable   bool

	generation int // 0 = newest, 1 = middle, 2 = oldest
}

// New creates an uninitialized variable. Creation is explicit at
// declaration sites, as spec.md §3.3 requires; destruction is left to the
// collector.
func New() *Variable {
	return &Variable{}
}

func (v *Variable) Get() value.Value { return v.val }

func (v *Variable) IsInitialized() bool { return v.initialized }
func (v *Variable) IsImmutable() bool   { return v.immutable }

// Initialize assigns val and marks the variable initialized. Value
// assignment is always defined and never fails (spec.md §3.1).
func (v *Variable) Initialize(val value.Value, immutable bool) {
	v.val = val
	v.initialized = true
	v.immutable = immutable
}

// Assign overwrites the value of an already-initialized, mutable variable.
// Callers are expected to have checked IsImmutable(); this is a narrow
// primitive, not itself a reference operation (those live in package
// reference).
func (v *Variable) Assign(val value.Value) {
	v.val = val
}

// CollectInner implements value.VariableRef, letting composite values
// expose the variables nested inside them to the GC's tracer without the
// value package needing to import this one.
func (v *Variable) CollectInner(visit func(value.VariableRef)) {
	v.val.CollectVariables(visit)
}
