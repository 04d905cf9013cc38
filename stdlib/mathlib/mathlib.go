// Package mathlib registers the "std.math" host module named in spec.md
// §6, following the host function calling convention of runtime.HostFunc.
package mathlib

import (
	"math"

	"asteria/context"
	"asteria/reference"
	"asteria/runtime"
	"asteria/value"
)

// Register binds every std.math function into globals' stdlib namespace.
func Register(globals *context.Global) {
	globals.RegisterStdlib("std.math.sqrt", reference.Temporary(value.FromFunction(runtime.NewNative("sqrt", sqrt))))
	globals.RegisterStdlib("std.math.abs", reference.Temporary(value.FromFunction(runtime.NewNative("abs", abs))))
	globals.RegisterStdlib("std.math.floor", reference.Temporary(value.FromFunction(runtime.NewNative("floor", floor))))
	globals.RegisterStdlib("std.math.ceil", reference.Temporary(value.FromFunction(runtime.NewNative("ceil", ceil))))
	globals.RegisterStdlib("std.math.pow", reference.Temporary(value.FromFunction(runtime.NewNative("pow", pow))))
	globals.RegisterStdlib("std.math.pi", reference.Temporary(value.FromReal(math.Pi)))
}

func sqrt(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	x := r.Required("number")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("sqrt")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromReal(math.Sqrt(x.AsReal())))
	return nil
}

func abs(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	x := r.Required("number")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("abs")), runtime.Frame{Kind: runtime.FrameNative})
	}
	if x.Type() == value.TypeInteger {
		n := x.AsInteger()
		if n < 0 {
			n = -n
		}
		*self = reference.Temporary(value.FromInt(n))
		return nil
	}
	*self = reference.Temporary(value.FromReal(math.Abs(x.AsReal())))
	return nil
}

func floor(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	x := r.Required("number")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("floor")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromReal(math.Floor(x.AsReal())))
	return nil
}

func ceil(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	x := r.Required("number")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("ceil")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromReal(math.Ceil(x.AsReal())))
	return nil
}

func pow(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	base := r.Required("number")
	exp := r.Required("number")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("pow")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromReal(math.Pow(base.AsReal(), exp.AsReal())))
	return nil
}
