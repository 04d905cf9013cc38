package air

import (
	"asteria/ast"
	"asteria/context"
	"asteria/reference"
	"asteria/runtime"
	"asteria/token"
	"asteria/value"
)

// Engine executes a compiled Function's statement sequence against a
// Global context, implementing spec.md §4.3's statement/expression
// semantics via the visitor pattern, in the style of the teacher's
// compiler/ast_compiler.go and interpreter/interpreter.go.
type Engine struct {
	global *context.Global
	file   string
}

// NewEngine creates an engine bound to globals for the source named file
// (used only to label backtrace frames).
func NewEngine(globals *context.Global, file string) *Engine {
	return &Engine{global: globals, file: file}
}

// Run executes fn's top-level statements in a fresh child of globals' root
// executive context, returning the program's return value (Null if it ran
// off the end without a "return"), or the escaping exception.
func (e *Engine) Run(fn *Function, args []value.Value) (result value.Value, exc *runtime.Exception) {
	scope := e.global.Root().ChildFrame()
	e.bindArgs(scope, fn.Params, args)

	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case thrownSignal:
				exc = v.exc
			case returnSignal:
				if v.ref.IsTailCall() {
					calleeRef, argRefs := v.ref.TailCall()
					calleeVal, cerr := calleeRef.Read()
					if cerr != nil {
						exc = runtime.NewException(value.FromString(cerr.Error()), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
						return
					}
					vals := make([]value.Value, len(argRefs))
					for i, ar := range argRefs {
						if vals[i], cerr = ar.Read(); cerr != nil {
							vals[i] = value.Null()
						}
					}
					result, exc = e.invoke(calleeVal.AsFunction(), vals)
					return
				}
				rv, rerr := v.ref.Read()
				if rerr != nil {
					rv = value.Null()
				}
				result = rv
			case engineError:
				exc = runtime.NewException(value.FromString(v.message), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
			default:
				panic(r)
			}
		}
	}()

	e.execScope(fn.Body, scope)
	return value.Null(), nil
}

func (e *Engine) bindArgs(scope *context.Executive, params []ast.Param, args []value.Value) {
	i := 0
	for _, p := range params {
		if p.Variadic {
			rest := valueArray(args[min(i, len(args)):])
			v := e.global.NewVariable()
			v.Initialize(value.FromArray(rest), false)
			scope.Bind(p.Name, reference.FromVariable(v))
			scope.Bind("__varg", reference.FromVariable(v))
			return
		}
		var arg value.Value
		if i < len(args) {
			arg = args[i]
		} else {
			arg = value.Null()
		}
		v := e.global.NewVariable()
		v.Initialize(arg, false)
		scope.Bind(p.Name, reference.FromVariable(v))
		i++
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func valueArray(vals []value.Value) *value.Array {
	arr := value.NewArray()
	for _, v := range vals {
		arr.PushTail(v)
	}
	return arr
}

// execScope runs stmts directly in outer (callers wanting a nested context
// use execChildScope), registering outer as a live frame and running deferred
// actions on every exit path (normal, break/continue/return, or thrown
// exception), per spec.md §4.3's defer semantics.
func (e *Engine) execScope(stmts []ast.Stmt, outer *context.Executive) {
	scope := outer
	e.global.PushFrame(scope)
	defer e.global.PopFrame()
	defer e.runDeferredOnExit(scope)

	for _, stmt := range stmts {
		e.execStmt(stmt, scope)
	}
}

// execChildScope is like execScope but always introduces a new nested
// Executive, for constructs (block, loop body, for, try) that need their
// own local bindings distinct from the caller's.
func (e *Engine) execChildScope(stmts []ast.Stmt, outer *context.Executive) {
	e.execScope(stmts, outer.Child())
}

func (e *Engine) runDeferredOnExit(scope *context.Executive) {
	deferErrs := scope.RunDeferred()
	r := recover()
	switch {
	case r == nil && len(deferErrs) == 0:
		return
	case r == nil:
		exc := runtime.NewException(value.FromString(deferErrs[0].Error()), runtime.Frame{Kind: runtime.FrameDefer, File: e.file})
		panic(thrownSignal{exc: exc})
	default:
		if ts, ok := r.(thrownSignal); ok {
			for range deferErrs {
				ts.exc.Append(runtime.Frame{Kind: runtime.FrameDefer, File: e.file})
			}
		}
		panic(r)
	}
}

func (e *Engine) execStmt(stmt ast.Stmt, scope *context.Executive) {
	stmt.Accept(&stmtVisitor{e: e, scope: scope})
}

// stmtVisitor adapts Engine to ast.StmtVisitor; every Visit method performs
// its effect via panic/recover and side effects on scope rather than a
// meaningful return value, matching the `any` visitor signature.
type stmtVisitor struct {
	e     *Engine
	scope *context.Executive
}

func (sv *stmtVisitor) VisitExpressionStmt(s ast.ExpressionStmt) any {
	sv.e.evalExpr(s.Expression, sv.scope)
	return nil
}

func (sv *stmtVisitor) VisitVarStmt(s ast.VarStmt) any {
	sv.e.execVarStmt(s, sv.scope)
	return nil
}

func (sv *stmtVisitor) VisitBlockStmt(s ast.BlockStmt) any {
	sv.e.execChildScope(s.Statements, sv.scope)
	return nil
}

func (sv *stmtVisitor) VisitIfStmt(s ast.IfStmt) any {
	cond := sv.e.evalExpr(s.Condition, sv.scope).mustRead(sv.e)
	truth := cond.Truthy()
	if s.Negated {
		truth = !truth
	}
	if truth {
		sv.e.execStmt(s.Then, sv.scope)
	} else if s.Else != nil {
		sv.e.execStmt(s.Else, sv.scope)
	}
	return nil
}

func (sv *stmtVisitor) VisitWhileStmt(s ast.WhileStmt) any {
	for {
		cond := sv.e.evalExpr(s.Condition, sv.scope).mustRead(sv.e)
		if !cond.Truthy() {
			return nil
		}
		if sv.e.runLoopBody(s.Body, sv.scope, token.WHILE) {
			return nil
		}
	}
}

func (sv *stmtVisitor) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	for {
		if sv.e.runLoopBody(s.Body, sv.scope, token.WHILE) {
			return nil
		}
		cond := sv.e.evalExpr(s.Condition, sv.scope).mustRead(sv.e)
		if !cond.Truthy() {
			return nil
		}
	}
}

func (sv *stmtVisitor) VisitForStmt(s ast.ForStmt) any {
	forScope := sv.scope.Child()
	if s.Init != nil {
		sv.e.execStmt(s.Init, forScope)
	}
	for {
		if s.Condition != nil {
			cond := sv.e.evalExpr(s.Condition, forScope).mustRead(sv.e)
			if !cond.Truthy() {
				return nil
			}
		}
		if sv.e.runLoopBody(s.Body, forScope, token.FOR) {
			return nil
		}
		if s.Step != nil {
			sv.e.evalExpr(s.Step, forScope)
		}
	}
}

func (sv *stmtVisitor) VisitForEachStmt(s ast.ForEachStmt) any {
	rangeVal := sv.e.evalExpr(s.Range, sv.scope).mustRead(sv.e)
	switch rangeVal.Type() {
	case value.TypeArray:
		arr := rangeVal.AsArray()
		for i := 0; i < arr.Len(); i++ {
			iterScope := sv.scope.Child()
			keyVar := sv.e.global.NewVariable()
			keyVar.Initialize(value.FromInt(int64(i)), false)
			iterScope.Bind(s.KeyName, reference.FromVariable(keyVar))
			if s.ValueName != "" {
				valVar := sv.e.global.NewVariable()
				valVar.Initialize(arr.Get(i), false)
				iterScope.Bind(s.ValueName, reference.FromVariable(valVar))
			}
			if sv.e.runLoopBody(s.Body, iterScope, token.FOR) {
				return nil
			}
		}
	case value.TypeObject:
		obj := rangeVal.AsObject()
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			iterScope := sv.scope.Child()
			keyVar := sv.e.global.NewVariable()
			keyVar.Initialize(value.FromString(k), false)
			iterScope.Bind(s.KeyName, reference.FromVariable(keyVar))
			if s.ValueName != "" {
				valVar := sv.e.global.NewVariable()
				valVar.Initialize(v, false)
				iterScope.Bind(s.ValueName, reference.FromVariable(valVar))
			}
			if sv.e.runLoopBody(s.Body, iterScope, token.FOR) {
				return nil
			}
		}
	default:
		raise("for-each requires an array or object")
	}
	return nil
}

// runLoopBody executes one loop iteration's body, catching break/continue
// signals targeted at this loop (or untargeted). It returns true when the
// loop should stop (a break was caught).
func (e *Engine) runLoopBody(body ast.Stmt, scope *context.Executive, loopTok token.TokenType) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case breakSignal:
				if sig.target == "" || sig.target == loopTok {
					stop = true
					return
				}
			case continueSignal:
				if sig.target == "" || sig.target == loopTok {
					stop = false
					return
				}
			}
			panic(r)
		}
	}()
	e.execStmt(body, scope)
	return false
}

func (sv *stmtVisitor) VisitSwitchStmt(s ast.SwitchStmt) any {
	subject := sv.e.evalExpr(s.Subject, sv.scope).mustRead(sv.e)
	switchScope := sv.scope.Child()

	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(breakSignal); ok && (sig.target == "" || sig.target == token.SWITCH) {
				return
			}
			panic(r)
		}
	}()

	matched := -1
	for i, c := range s.Cases {
		if c.IsDefault {
			continue
		}
		for _, v := range c.Values {
			cv := sv.e.evalExpr(v, switchScope).mustRead(sv.e)
			if value.Equal(subject, cv) {
				matched = i
				break
			}
		}
		if matched != -1 {
			break
		}
	}
	if matched == -1 {
		for i, c := range s.Cases {
			if c.IsDefault {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return nil
	}
	for i := matched; i < len(s.Cases); i++ {
		for _, stmt := range s.Cases[i].Statements {
			sv.e.execStmt(stmt, switchScope)
		}
	}
	return nil
}

func (sv *stmtVisitor) VisitBreakStmt(s ast.BreakStmt) any {
	panic(breakSignal{target: s.Target})
}

func (sv *stmtVisitor) VisitContinueStmt(s ast.ContinueStmt) any {
	panic(continueSignal{target: s.Target})
}

func (sv *stmtVisitor) VisitReturnStmt(s ast.ReturnStmt) any {
	if s.Value == nil {
		panic(returnSignal{ref: reference.Temporary(value.Null())})
	}
	// "return f(...)" is inherently a tail call: build a placeholder instead
	// of invoking immediately, so the enclosing callClosure trampoline can
	// discard this frame before running the callee, per spec.md §4.4.
	if call, ok := s.Value.(ast.Call); ok {
		calleeVal := sv.e.evalExpr(call.Fn, sv.scope).mustRead(sv.e)
		if calleeVal.Type() == value.TypeFunction {
			if _, ok := calleeVal.AsFunction().(*ScriptClosure); ok {
				args := make([]reference.Reference, len(call.Args))
				for i, a := range call.Args {
					args[i] = reference.Reference(sv.e.evalExpr(a, sv.scope))
				}
				placeholder := reference.TailCallPlaceholder(reference.Temporary(calleeVal), args)
				panic(returnSignal{ref: placeholder})
			}
		}
	}
	ref := sv.e.evalExpr(s.Value, sv.scope)
	panic(returnSignal{ref: reference.Reference(ref)})
}

func (sv *stmtVisitor) VisitThrowStmt(s ast.ThrowStmt) any {
	val := sv.e.evalExpr(s.Value, sv.scope).mustRead(sv.e)
	exc := runtime.NewException(val, runtime.Frame{Kind: runtime.FrameThrow, File: sv.e.file, Line: s.Tok.Line})
	panic(thrownSignal{exc: exc})
}

func (sv *stmtVisitor) VisitAssertStmt(s ast.AssertStmt) any {
	cond := sv.e.evalExpr(s.Condition, sv.scope).mustRead(sv.e)
	if !cond.Truthy() {
		msg := "assertion failed: " + s.SourceText
		exc := runtime.NewException(value.FromString(msg), runtime.Frame{Kind: runtime.FrameAssert, File: sv.e.file, Line: s.Tok.Line})
		panic(thrownSignal{exc: exc})
	}
	return nil
}

func (sv *stmtVisitor) VisitTryStmt(s ast.TryStmt) any {
	caught := sv.e.runTryBody(s.Try, sv.scope)
	if caught == nil {
		return nil
	}
	catchScope := sv.scope.Child()
	excVar := sv.e.global.NewVariable()
	excVar.Initialize(caught.Thrown, false)
	catchScope.Bind(s.ExceptVar, reference.FromVariable(excVar))
	for _, stmt := range s.Catch {
		sv.e.execStmt(stmt, catchScope)
	}
	return nil
}

// runTryBody executes stmts in a child scope, catching a thrown exception
// (or an internal engine error reported the same way, per spec.md §7) and
// returning it instead of letting it propagate; break/continue/return
// still propagate normally, per spec.md §4.3.
func (e *Engine) runTryBody(stmts []ast.Stmt, outer *context.Executive) (caught *runtime.Exception) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case thrownSignal:
				v.exc.Append(runtime.Frame{Kind: runtime.FrameCatch, File: e.file})
				caught = v.exc
			case engineError:
				exc := runtime.NewException(value.FromString(v.message), runtime.Frame{Kind: runtime.FrameNative, File: e.file})
				caught = exc
			default:
				panic(r)
			}
		}
	}()
	e.execChildScope(stmts, outer)
	return nil
}

func (sv *stmtVisitor) VisitDeferStmt(s ast.DeferStmt) any {
	action := sv.e.makeDeferredAction(s.Expression, sv.scope)
	sv.scope.Defer(action)
	return nil
}

func (e *Engine) makeDeferredAction(expr ast.Expression, scope *context.Executive) context.DeferredAction {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				switch v := r.(type) {
				case thrownSignal:
					err = v.exc
				case engineError:
					err = v
				default:
					panic(r)
				}
			}
		}()
		e.evalExpr(expr, scope)
		return nil
	}
}

func (sv *stmtVisitor) VisitFuncStmt(s ast.FuncStmt) any {
	fn := &ScriptClosure{fn: &Function{Name: s.Name, Params: s.Params, Body: s.Body, Closure: sv.scope}}
	v := sv.e.global.NewVariable()
	v.Initialize(value.FromFunction(fn), false)
	sv.scope.Bind(s.Name, reference.FromVariable(v))
	return nil
}

// execVarStmt handles plain and structured-binding var/const/ref
// declarations, per spec.md §4.2.
func (e *Engine) execVarStmt(s ast.VarStmt, scope *context.Executive) {
	immutable := s.Kind == token.CONST

	if s.Declarator.Bracket == "" {
		var val value.Value
		var asRef reference.Reference
		if s.Initializer != nil {
			if s.Kind == token.REF {
				asRef = reference.Reference(e.evalExpr(s.Initializer, scope))
			} else {
				val = e.evalExpr(s.Initializer, scope).mustRead(e)
			}
		}
		if s.Kind == token.REF {
			scope.Bind(s.Declarator.Name, asRef)
			return
		}
		v := e.global.NewVariable()
		v.Initialize(val, immutable)
		scope.Bind(s.Declarator.Name, reference.FromVariable(v))
		return
	}

	var src value.Value
	if s.Initializer != nil {
		src = e.evalExpr(s.Initializer, scope).mustRead(e)
	}
	for i, name := range s.Declarator.Names {
		var elem value.Value
		switch {
		case s.Declarator.Bracket == "[" && src.Type() == value.TypeArray && i < src.AsArray().Len():
			elem = src.AsArray().Get(i)
		case s.Declarator.Bracket == "{" && src.Type() == value.TypeObject:
			if v, ok := src.AsObject().Get(name); ok {
				elem = v
			}
		}
		v := e.global.NewVariable()
		v.Initialize(elem, immutable)
		scope.Bind(name, reference.FromVariable(v))
	}
}

// mustRead dereferences ref, converting a dereference failure into an
// engine-raised exception rather than a Go panic escaping uncontrolled.
func (r evalRef) mustRead(e *Engine) value.Value {
	val, err := reference.Reference(r).Read()
	if err != nil {
		raise(err.Error())
	}
	return val
}

// evalRef is reference.Reference with the mustRead convenience method
// attached; evalExpr returns this type.
type evalRef reference.Reference
