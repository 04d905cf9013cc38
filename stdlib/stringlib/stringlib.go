// Package stringlib registers the "std.string" host module named in
// spec.md §6.
package stringlib

import (
	"strings"

	"asteria/context"
	"asteria/reference"
	"asteria/runtime"
	"asteria/value"
)

func Register(globals *context.Global) {
	globals.RegisterStdlib("std.string.upper", reference.Temporary(value.FromFunction(runtime.NewNative("upper", upper))))
	globals.RegisterStdlib("std.string.lower", reference.Temporary(value.FromFunction(runtime.NewNative("lower", lower))))
	globals.RegisterStdlib("std.string.trim", reference.Temporary(value.FromFunction(runtime.NewNative("trim", trim))))
	globals.RegisterStdlib("std.string.split", reference.Temporary(value.FromFunction(runtime.NewNative("split", split))))
	globals.RegisterStdlib("std.string.join", reference.Temporary(value.FromFunction(runtime.NewNative("join", join))))
}

func upper(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	s := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("upper")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromString(strings.ToUpper(s.AsString())))
	return nil
}

func lower(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	s := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("lower")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromString(strings.ToLower(s.AsString())))
	return nil
}

func trim(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	s := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("trim")), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromString(strings.TrimSpace(s.AsString())))
	return nil
}

func split(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	s := r.Required("string")
	sep := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("split")), runtime.Frame{Kind: runtime.FrameNative})
	}
	parts := strings.Split(s.AsString(), sep.AsString())
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.FromString(p)
	}
	*self = reference.Temporary(value.FromArray(value.NewArray(elems...)))
	return nil
}

func join(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	arr := r.Required("array")
	sep := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("join")), runtime.Frame{Kind: runtime.FrameNative})
	}
	parts := make([]string, 0, arr.AsArray().Len())
	for _, v := range arr.AsArray().Slice() {
		if v.Type() == value.TypeString {
			parts = append(parts, v.AsString())
		}
	}
	*self = reference.Temporary(value.FromString(strings.Join(parts, sep.AsString())))
	return nil
}
