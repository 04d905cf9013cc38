package air

import (
	"asteria/context"
	"asteria/reference"
	"asteria/runtime"
	"asteria/value"
)

// invoke dispatches a call to either a host-registered Native or a
// script-level ScriptClosure, the two value.Function implementations named
// in spec.md §6.
func (e *Engine) invoke(fn value.Function, args []value.Value) (value.Value, *runtime.Exception) {
	switch f := fn.(type) {
	case *runtime.Native:
		return f.Invoke(e.global, args)
	case *ScriptClosure:
		return e.callClosure(f, args)
	default:
		return value.Value{}, runtime.NewException(
			value.FromString("value is not callable"),
			runtime.Frame{Kind: runtime.FrameNative, File: e.file})
	}
}

// callClosure runs sc, trampolining through self- and mutually-recursive
// tail calls without growing the Go call stack, per spec.md §4.4's
// "tail calls execute in O(1) stack space" guarantee: each iteration
// discards the previous frame's Executive before binding the next call's
// arguments.
func (e *Engine) callClosure(sc *ScriptClosure, args []value.Value) (value.Value, *runtime.Exception) {
	fn := sc.fn
	for {
		var scope *context.Executive
		if fn.Closure != nil {
			scope = fn.Closure.ChildFrame()
		} else {
			scope = e.global.Root().ChildFrame()
		}
		e.bindArgs(scope, fn.Params, args)

		result, tailFn, tailArgs, exc := e.runOnce(fn, scope)
		if exc != nil {
			return value.Value{}, exc
		}
		if tailFn != nil {
			fn = tailFn
			args = tailArgs
			continue
		}
		return result, nil
	}
}

// runOnce executes one activation of fn's body in scope, returning either
// its result, an escaped exception, or (when the body's return expression
// was itself a direct call to a script closure) the next trampoline step.
func (e *Engine) runOnce(fn *Function, scope *context.Executive) (result value.Value, tailFn *Function, tailArgs []value.Value, exc *runtime.Exception) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case returnSignal:
			if v.ref.IsTailCall() {
				calleeRef, argRefs := v.ref.TailCall()
				calleeVal, err := calleeRef.Read()
				if err != nil {
					exc = runtime.NewException(value.FromString(err.Error()), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
					return
				}
				vals := make([]value.Value, len(argRefs))
				for i, ar := range argRefs {
					vv, rerr := ar.Read()
					if rerr != nil {
						vv = value.Null()
					}
					vals[i] = vv
				}
				if sc, ok := calleeVal.AsFunction().(*ScriptClosure); ok {
					tailFn = sc.fn
					tailArgs = vals
					return
				}
				result, exc = e.invoke(calleeVal.AsFunction(), vals)
				return
			}
			rv, rerr := v.ref.Read()
			if rerr != nil {
				rv = value.Null()
			}
			result = rv
		case thrownSignal:
			exc = v.exc
		case engineError:
			exc = runtime.NewException(value.FromString(v.message), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
		default:
			panic(r)
		}
	}()

	if fn.ExprBody != nil {
		ref := e.evalExpr(fn.ExprBody, scope)
		v, err := reference.Reference(ref).Read()
		if err != nil {
			return value.Value{}, nil, nil, runtime.NewException(value.FromString(err.Error()), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
		}
		return v, nil, nil, nil
	}

	e.execScope(fn.Body, scope)
	return value.Null(), nil, nil, nil
}
