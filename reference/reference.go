// Package reference implements the addressable-location model of
// spec.md §3.2: the Reference sum type, its composable modifier stack, and
// the four dereference operations.
package reference

import (
	"fmt"
	"math/rand"

	"asteria/value"
	"asteria/variable"
)

// Kind discriminates the forms a Reference may take.
type Kind uint8

const (
	KindUninitialized Kind = iota
	KindVoid
	KindTemporary
	KindVariable
	KindStackSlot
	KindTailCall
)

// ModifierKind discriminates the forms a path-extending Modifier may take.
type ModifierKind uint8

const (
	ModIndex ModifierKind = iota
	ModKey
	ModHead
	ModTail
	ModRandom
)

// Modifier selects a sub-location of a referent. Modifiers compose
// (e.g. a[0].b.c lowers to three stacked modifiers) and are applied lazily
// on dereference, per spec.md §3.2 and the design note in §9.
type Modifier struct {
	Kind  ModifierKind
	Index int
	Key   string
}

// Reference denotes a mutable or immutable location, per spec.md §3.2.
type Reference struct {
	kind Kind

	temp value.Value
	v    *variable.Variable
	slot *value.Value // pointer-to-thread-local-stack-slot (argument reference)

	mods []Modifier

	// tailCallee/tailArgs are populated only for KindTailCall placeholders;
	// see spec.md §4.4.
	tailCallee *Reference
	tailArgs   []Reference
}

func Uninitialized() Reference { return Reference{kind: KindUninitialized} }
func Void() Reference          { return Reference{kind: KindVoid} }

func Temporary(v value.Value) Reference { return Reference{kind: KindTemporary, temp: v} }

func FromVariable(v *variable.Variable) Reference { return Reference{kind: KindVariable, v: v} }

func FromStackSlot(slot *value.Value) Reference { return Reference{kind: KindStackSlot, slot: slot} }

// TailCallPlaceholder records a call in tail position so the current frame
// can be discarded before the callee runs, per spec.md §4.4. Read reports an
// error on a placeholder; whoever receives one resolves it by calling the
// callee and arguments that TailCall returns.
func TailCallPlaceholder(callee Reference, args []Reference) Reference {
	return Reference{kind: KindTailCall, tailCallee: &callee, tailArgs: args}
}

func (r Reference) Kind() Kind { return r.kind }

// Variable returns the backing *variable.Variable this reference addresses
// directly (no modifiers applied), if any. Used by closures to register
// their captured variables as GC roots (spec.md §4.4, §4.5).
func (r Reference) Variable() (*variable.Variable, bool) {
	if r.kind == KindVariable {
		return r.v, true
	}
	return nil, false
}

// IsTailCall reports whether this reference is an unresolved tail-call
// placeholder.
func (r Reference) IsTailCall() bool { return r.kind == KindTailCall }

// TailCall returns the recorded callee and arguments of a tail-call
// placeholder; callers must check IsTailCall first.
func (r Reference) TailCall() (Reference, []Reference) { return *r.tailCallee, r.tailArgs }

// WithModifier returns a copy of r with an additional modifier appended,
// implementing reference composition (e.g. a[0].b.c).
func (r Reference) WithModifier(m Modifier) Reference {
	next := r
	next.mods = append(append([]Modifier{}, r.mods...), m)
	return next
}

func errUninitialized() error { return fmt.Errorf("dereferencing an uninitialized reference") }
func errVoid() error          { return fmt.Errorf("dereferencing a void reference") }

// base resolves the reference to its root Value before modifiers are
// applied. It returns the value only, not the variable it came from.
func (r Reference) base() (value.Value, error) {
	switch r.kind {
	case KindUninitialized:
		return value.Value{}, errUninitialized()
	case KindVoid:
		return value.Value{}, errVoid()
	case KindTemporary:
		return r.temp, nil
	case KindVariable:
		if !r.v.IsInitialized() {
			return value.Value{}, errUninitialized()
		}
		return r.v.Get(), nil
	case KindStackSlot:
		return *r.slot, nil
	case KindTailCall:
		return value.Value{}, fmt.Errorf("dereferencing an unresolved tail-call placeholder")
	default:
		return value.Value{}, fmt.Errorf("dereferencing a reference of unknown kind")
	}
}

// Read performs the read-only dereference operation of spec.md §3.2:
// returns Null when traversing through a null intermediate, and an error
// when the parent type cannot accept the modifier.
func (r Reference) Read() (value.Value, error) {
	cur, err := r.base()
	if err != nil {
		return value.Value{}, err
	}
	for _, m := range r.mods {
		if cur.IsNull() {
			return value.Null(), nil
		}
		cur, err = applyModifierRead(cur, m)
		if err != nil {
			return value.Value{}, err
		}
	}
	return cur, nil
}

func applyModifierRead(cur value.Value, m Modifier) (value.Value, error) {
	switch m.Kind {
	case ModIndex, ModHead, ModTail, ModRandom:
		if cur.Type() != value.TypeArray {
			return value.Value{}, fmt.Errorf("index modifier applied to a %s, not an array", cur.Type())
		}
		idx := resolveArrayModifierIndex(cur.AsArray(), m)
		return cur.AsArray().Get(idx), nil
	case ModKey:
		if cur.Type() != value.TypeObject {
			return value.Value{}, fmt.Errorf("key modifier applied to a %s, not an object", cur.Type())
		}
		v, _ := cur.AsObject().Get(m.Key)
		return v, nil
	default:
		return value.Value{}, fmt.Errorf("unknown modifier kind")
	}
}

func resolveArrayModifierIndex(a *value.Array, m Modifier) int {
	switch m.Kind {
	case ModHead:
		return 0
	case ModTail:
		return a.Len() - 1
	case ModRandom:
		if a.Len() == 0 {
			return 0
		}
		return rand.Intn(a.Len())
	default:
		return m.Index
	}
}

// ReadMutable performs the mutable dereference operation: like Read, but
// traversal through null returns "absent" (reported via the bool) instead
// of Null, per spec.md §3.2.
func (r Reference) ReadMutable() (value.Value, bool, error) {
	cur, err := r.base()
	if err != nil {
		return value.Value{}, false, err
	}
	for _, m := range r.mods {
		if cur.IsNull() {
			return value.Value{}, false, nil
		}
		cur, err = applyModifierRead(cur, m)
		if err != nil {
			return value.Value{}, false, err
		}
	}
	return cur, true, nil
}

// Open creates missing intermediates (null -> array/object as the next
// modifier demands), extends arrays for out-of-range indices, inserts
// object keys, and returns the leaf's current value and a setter to write
// the new leaf value back into the structure. This implements spec.md
// §3.2's "open" operation.
func (r Reference) Open() (value.Value, func(value.Value), error) {
	if len(r.mods) == 0 {
		switch r.kind {
		case KindVariable:
			if r.v.IsImmutable() {
				return value.Value{}, nil, fmt.Errorf("cannot modify an immutable variable")
			}
			v := value.Null()
			if r.v.IsInitialized() {
				v = r.v.Get()
			}
			return v, func(nv value.Value) { r.v.Assign(nv) }, nil
		case KindStackSlot:
			return *r.slot, func(nv value.Value) { *r.slot = nv }, nil
		case KindTemporary:
			return value.Value{}, nil, fmt.Errorf("cannot open a temporary reference for mutation")
		default:
			return value.Value{}, nil, errUninitialized()
		}
	}

	rootRef, baseSetter, err := r.openBase()
	if err != nil {
		return value.Value{}, nil, err
	}
	return openLeaf(rootRef, r.mods, baseSetter)
}

func (r Reference) openBase() (value.Value, func(value.Value), error) {
	base := Reference{kind: r.kind, temp: r.temp, v: r.v, slot: r.slot}
	return base.Open()
}

// openLeaf walks mods against root, auto-vivifying null intermediates into
// arrays or objects depending on the next modifier's kind, and returns the
// final addressed value plus a setter that writes through the whole chain.
func openLeaf(root value.Value, mods []Modifier, commitRoot func(value.Value)) (value.Value, func(value.Value), error) {
	cur := root
	containers := make([]value.Value, 0, len(mods)+1)
	containers = append(containers, cur)

	for _, m := range mods {
		switch m.Kind {
		case ModKey:
			if cur.IsNull() {
				cur = value.FromObject(value.NewObject())
				containers[len(containers)-1] = cur
			}
			if cur.Type() != value.TypeObject {
				return value.Value{}, nil, fmt.Errorf("key modifier applied to a %s, not an object", cur.Type())
			}
			obj := cur.AsObject()
			v, ok := obj.Get(m.Key)
			if !ok {
				v = value.Null()
			}
			cur = v
		case ModIndex, ModHead, ModTail, ModRandom:
			if cur.IsNull() {
				cur = value.FromArray(value.NewArray())
				containers[len(containers)-1] = cur
			}
			if cur.Type() != value.TypeArray {
				return value.Value{}, nil, fmt.Errorf("index modifier applied to a %s, not an array", cur.Type())
			}
			arr := cur.AsArray()
			if m.Kind == ModHead || m.Kind == ModTail {
				// The setter pushes a new element at that end; it starts as null.
				cur = value.Null()
				break
			}
			idx := resolveArrayModifierIndex(arr, m)
			if idx < 0 && arr.Len()+idx < 0 {
				return value.Value{}, nil, fmt.Errorf("negative index out of range after wrap-around")
			}
			cur = arr.Get(idx)
		}
		containers = append(containers, cur)
	}

	// Build setters from the leaf back to the root: writing the leaf means
	// rewriting its immediate parent container, which in turn rewrites its
	// own parent, and so on up to commitRoot.
	leaf := containers[len(containers)-1]
	set := func(newLeaf value.Value) {
		val := newLeaf
		for i := len(mods) - 1; i >= 0; i-- {
			parent := containers[i]
			m := mods[i]
			switch m.Kind {
			case ModKey:
				obj := parent.AsObject()
				if obj == nil {
					obj = value.NewObject()
				}
				obj.Set(m.Key, val)
				val = value.FromObject(obj)
			case ModIndex, ModHead, ModTail, ModRandom:
				arr := parent.AsArray()
				if arr == nil {
					arr = value.NewArray()
				}
				switch m.Kind {
				case ModHead:
					arr.PushHead(val)
				case ModTail:
					arr.PushTail(val)
				default:
					idx := resolveArrayModifierIndex(arr, m)
					arr.Set(idx, val)
				}
				val = value.FromArray(arr)
			}
		}
		commitRoot(val)
	}
	return leaf, set, nil
}

// Unset removes the addressed element and returns its previous value, or
// Null if absent, per spec.md §3.2's "unset" operation.
func (r Reference) Unset() (value.Value, error) {
	if len(r.mods) == 0 {
		switch r.kind {
		case KindVariable:
			prev := value.Null()
			if r.v.IsInitialized() {
				prev = r.v.Get()
			}
			r.v.Assign(value.Null())
			return prev, nil
		default:
			return value.Null(), nil
		}
	}

	root, commit, err := r.openBase()
	if err != nil {
		return value.Value{}, err
	}
	parent := root
	for _, m := range r.mods[:len(r.mods)-1] {
		v, err := applyModifierRead(parent, m)
		if err != nil {
			return value.Value{}, err
		}
		parent = v
	}
	last := r.mods[len(r.mods)-1]
	var prev value.Value
	switch last.Kind {
	case ModKey:
		if parent.Type() != value.TypeObject {
			return value.Null(), nil
		}
		prev = parent.AsObject().Unset(last.Key)
	case ModIndex, ModHead, ModTail, ModRandom:
		if parent.Type() != value.TypeArray {
			return value.Null(), nil
		}
		arr := parent.AsArray()
		idx := resolveArrayModifierIndex(arr, last)
		prev = arr.Unset(idx)
	}
	if len(r.mods) == 1 {
		commit(parent)
	}
	return prev, nil
}
