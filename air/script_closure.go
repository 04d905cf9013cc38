package air

import "asteria/value"

// ScriptClosure adapts a compiled *Function into value.Function so it can
// be stored inside a Value and invoked uniformly alongside host-registered
// natives, per spec.md §6.
type ScriptClosure struct {
	fn *Function
}

func NewScriptClosure(fn *Function) *ScriptClosure { return &ScriptClosure{fn: fn} }

func (s *ScriptClosure) Name() string { return s.fn.Name }

// CollectVariables walks every executive context this closure closes over
// (its defining scope and every enclosing scope up to the root), visiting
// each bound variable. This is what keeps a captured variable alive after
// its defining function call has returned, per spec.md §4.4's
// capture-by-reference rule and §4.5's root-set definition.
func (s *ScriptClosure) CollectVariables(visit func(value.VariableRef)) {
	for e := s.fn.Closure; e != nil; e = e.Parent() {
		for _, ref := range e.Names() {
			if v, ok := ref.Variable(); ok {
				visit(v)
			}
		}
	}
}

var _ value.Function = (*ScriptClosure)(nil)
