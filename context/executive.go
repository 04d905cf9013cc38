package context

import (
	"asteria/reference"
)

// DeferredAction is one thunk registered by a "defer expr;" statement; it
// is invoked with no further arguments at scope exit and may itself throw,
// per spec.md §4.3.
type DeferredAction func() error

// Executive is a run-time scope: a name-to-reference map, a parent link,
// and the deferred-action list that runs (in reverse registration order) on
// scope exit, per spec.md §4.6. Contexts are created on function entry,
// block entry where local declarations exist, and for the body of each
// for/try/switch.
type Executive struct {
	parent  *Executive
	names   map[string]reference.Reference
	defers  []DeferredAction
	isFuncFrame bool
}

// NewExecutive creates a root executive context (the global scope's
// runtime counterpart, or a fresh top-level execution).
func NewExecutive() *Executive {
	return &Executive{names: make(map[string]reference.Reference)}
}

// Child creates a nested executive context layered on parent.
func (e *Executive) Child() *Executive {
	return &Executive{parent: e, names: make(map[string]reference.Reference)}
}

// ChildFrame creates a nested executive context that additionally marks
// the start of a function call frame, as reported by IsFuncFrame. Lookup
// does not stop at the mark, and the engine does not consult it.
func (e *Executive) ChildFrame() *Executive {
	child := e.Child()
	child.isFuncFrame = true
	return child
}

func (e *Executive) IsFuncFrame() bool { return e.isFuncFrame }

func (e *Executive) Parent() *Executive { return e.parent }

// Bind introduces name in this context, bound to ref.
func (e *Executive) Bind(name string, ref reference.Reference) {
	e.names[name] = ref
}

// Lookup walks outward from e, returning the bound reference for name.
func (e *Executive) Lookup(name string) (reference.Reference, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if ref, ok := cur.names[name]; ok {
			return ref, true
		}
	}
	return reference.Reference{}, false
}

// Defer appends a deferred action to this context's list.
func (e *Executive) Defer(action DeferredAction) {
	e.defers = append(e.defers, action)
}

// RunDeferred runs this context's deferred actions in reverse registration
// order, per spec.md §4.3. Errors from later-run (earlier-registered)
// actions are collected; the caller decides how to fold them into the
// in-flight exception's backtrace.
func (e *Executive) RunDeferred() []error {
	var errs []error
	for i := len(e.defers) - 1; i >= 0; i-- {
		if err := e.defers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.defers = nil
	return errs
}

// Names returns the references bound directly in e (not parents), used by
// the GC root-set walk.
func (e *Executive) Names() map[string]reference.Reference { return e.names }
