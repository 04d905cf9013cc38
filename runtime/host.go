package runtime

import (
	"asteria/context"
	"asteria/reference"
	"asteria/value"
)

// HostFunc is the host function calling convention of spec.md §6: a
// callable taking (self_ref, globals, arg_stack); by convention it sets
// *self to its result value, or leaves it as Void() for no return value.
// It returns a non-nil *Exception instead of panicking when it wants to
// raise a runtime error.
type HostFunc func(self *reference.Reference, globals *context.Global, args []value.Value) *Exception

// Native adapts a HostFunc into a value.Function so it can be stored in a
// Value and called uniformly alongside script closures, per spec.md §6's
// "host function registration".
type Native struct {
	name string
	fn   HostFunc
}

// NewNative wraps fn as a callable Asteria value under name.
func NewNative(name string, fn HostFunc) *Native {
	return &Native{name: name, fn: fn}
}

func (n *Native) Name() string { return n.name }

// CollectVariables is a no-op: native functions do not themselves close
// over script-level variables (any state they need lives on *Global).
func (n *Native) CollectVariables(func(value.VariableRef)) {}

// Invoke calls the wrapped host function using the calling convention
// above, returning the self reference's resulting value and any exception.
func (n *Native) Invoke(globals *context.Global, args []value.Value) (value.Value, *Exception) {
	self := reference.Void()
	if exc := n.fn(&self, globals, args); exc != nil {
		return value.Value{}, exc
	}
	if self.Kind() == reference.KindVoid {
		return value.Null(), nil
	}
	v, err := self.Read()
	if err != nil {
		return value.Null(), nil
	}
	return v, nil
}

var _ value.Function = (*Native)(nil)
