package air

import (
	"math"

	"asteria/ast"
	"asteria/context"
	"asteria/reference"
	"asteria/token"
	"asteria/value"
)

// evalExpr evaluates expr in scope and returns the reference it denotes,
// implementing the stack-machine expression execution named in spec.md
// §4.3: every expression node resolves to exactly one Reference, which the
// caller may dereference (Read/ReadMutable) or address further (Open).
func (e *Engine) evalExpr(expr ast.Expression, scope *context.Executive) evalRef {
	result := expr.Accept(&exprVisitor{e: e, scope: scope})
	ref, ok := result.(reference.Reference)
	if !ok {
		raise("expression evaluation produced no reference")
	}
	return evalRef(ref)
}

type exprVisitor struct {
	e     *Engine
	scope *context.Executive
}

func (ev *exprVisitor) VisitLiteral(l ast.Literal) any {
	return reference.Temporary(literalValue(l.Value))
}

func literalValue(v any) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.FromBool(x)
	case int64:
		return value.FromInt(x)
	case float64:
		return value.FromReal(x)
	case string:
		return value.FromString(x)
	default:
		return value.Null()
	}
}

func (ev *exprVisitor) VisitGrouping(g ast.Grouping) any {
	ref := ev.e.evalExpr(g.Expression, ev.scope)
	return reference.Reference(ref)
}

func (ev *exprVisitor) VisitVariableExpression(vr ast.Variable) any {
	if ref, ok := ev.scope.Lookup(vr.Name.Lexeme); ok {
		return ref
	}
	if ref, ok := ev.e.global.LookupStdlib(vr.Name.Lexeme); ok {
		return ref
	}
	raise("undefined name: " + vr.Name.Lexeme)
	return nil
}

func (ev *exprVisitor) VisitThisExpression(t ast.This) any {
	if ref, ok := ev.scope.Lookup("this"); ok {
		return ref
	}
	return reference.Temporary(value.Null())
}

func (ev *exprVisitor) VisitAssignExpression(a ast.Assign) any {
	targetRef := ev.e.evalExpr(a.Target, ev.scope)
	cur, setter, err := reference.Reference(targetRef).Open()
	if err != nil {
		raise(err.Error())
	}

	rhs := ev.e.evalExpr(a.Value, ev.scope).mustRead(ev.e)
	newVal := rhs
	if a.CompoundOp != "" {
		newVal, err = applyBinaryOp(a.CompoundOp, cur, rhs)
		if err != nil {
			raise(err.Error())
		}
	}
	setter(newVal)
	return reference.Temporary(newVal)
}

func (ev *exprVisitor) VisitLogicalExpression(l ast.Logical) any {
	left := ev.e.evalExpr(l.Left, ev.scope).mustRead(ev.e)
	switch l.Operator.TokenType {
	case token.AND:
		if !left.Truthy() {
			return reference.Temporary(left)
		}
	case token.OR:
		if left.Truthy() {
			return reference.Temporary(left)
		}
	}
	right := ev.e.evalExpr(l.Right, ev.scope).mustRead(ev.e)
	return reference.Temporary(right)
}

func (ev *exprVisitor) VisitCoalesceExpression(c ast.Coalesce) any {
	left := ev.e.evalExpr(c.Left, ev.scope).mustRead(ev.e)
	if !left.IsNull() {
		return reference.Temporary(left)
	}
	right := ev.e.evalExpr(c.Right, ev.scope).mustRead(ev.e)
	return reference.Temporary(right)
}

func (ev *exprVisitor) VisitTernaryExpression(t ast.Ternary) any {
	cond := ev.e.evalExpr(t.Cond, ev.scope).mustRead(ev.e)
	var chosen value.Value
	if cond.Truthy() {
		chosen = ev.e.evalExpr(t.Then, ev.scope).mustRead(ev.e)
	} else {
		chosen = ev.e.evalExpr(t.Else, ev.scope).mustRead(ev.e)
	}
	if t.Assigning {
		if _, setter, err := reference.Reference(ev.e.evalExpr(t.Cond, ev.scope)).Open(); err == nil {
			setter(chosen)
		}
	}
	return reference.Temporary(chosen)
}

func (ev *exprVisitor) VisitCallExpression(c ast.Call) any {
	calleeVal := ev.e.evalExpr(c.Fn, ev.scope).mustRead(ev.e)
	if calleeVal.Type() != value.TypeFunction {
		raise("cannot call a " + calleeVal.Type().String())
	}
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = ev.e.evalExpr(a, ev.scope).mustRead(ev.e)
	}
	result, exc := ev.e.invoke(calleeVal.AsFunction(), args)
	if exc != nil {
		panic(thrownSignal{exc: exc})
	}
	return reference.Temporary(result)
}

func (ev *exprVisitor) VisitIndexExpression(i ast.Index) any {
	targetRef := ev.e.evalExpr(i.Target, ev.scope)
	mod := reference.Modifier{}
	switch i.Form {
	case token.LBRK_HEAD:
		mod.Kind = reference.ModHead
	case token.LBRK_TAIL:
		mod.Kind = reference.ModTail
	case token.LBRK_RAND:
		mod.Kind = reference.ModRandom
	default:
		mod.Kind = reference.ModIndex
		idxVal := ev.e.evalExpr(i.Subscript, ev.scope).mustRead(ev.e)
		if idxVal.Type() != value.TypeInteger {
			raise("array index must be an integer")
		}
		mod.Index = int(idxVal.AsInteger())
	}
	return reference.Reference(targetRef).WithModifier(mod)
}

func (ev *exprVisitor) VisitMemberExpression(m ast.Member) any {
	targetRef := ev.e.evalExpr(m.Target, ev.scope)
	return reference.Reference(targetRef).WithModifier(reference.Modifier{Kind: reference.ModKey, Key: m.Name.Lexeme})
}

func (ev *exprVisitor) VisitArrayExpression(a ast.ArrayLit) any {
	elems := make([]value.Value, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = ev.e.evalExpr(e, ev.scope).mustRead(ev.e)
	}
	return reference.Temporary(value.FromArray(value.NewArray(elems...)))
}

func (ev *exprVisitor) VisitObjectExpression(o ast.ObjectLit) any {
	obj := value.NewObject()
	for i, k := range o.Keys {
		obj.Set(k, ev.e.evalExpr(o.Values[i], ev.scope).mustRead(ev.e))
	}
	return reference.Temporary(value.FromObject(obj))
}

func (ev *exprVisitor) VisitClosureExpression(c ast.Closure) any {
	fn := &Function{
		Name:     c.Name,
		Params:   c.Params,
		Body:     c.Body,
		ExprBody: c.ExprBody,
		RefBody:  c.RefBody,
		Closure:  ev.scope,
	}
	return reference.Temporary(value.FromFunction(NewScriptClosure(fn)))
}

func (ev *exprVisitor) VisitCatchExpression(c ast.CatchExpr) any {
	exc := ev.e.runTryBody([]ast.Stmt{ast.ExpressionStmt{Expression: c.Expression}}, ev.scope)
	if exc == nil {
		return reference.Temporary(value.Null())
	}
	return reference.Temporary(exc.Thrown)
}

func (ev *exprVisitor) VisitIntrinsicExpression(i ast.Intrinsic) any {
	args := make([]value.Value, len(i.Args))
	for idx, a := range i.Args {
		args[idx] = ev.e.evalExpr(a, ev.scope).mustRead(ev.e)
	}
	switch i.Name {
	case "__fma":
		if len(args) != 3 {
			raise("__fma requires 3 arguments")
		}
		return reference.Temporary(value.FromReal(math.FMA(args[0].AsReal(), args[1].AsReal(), args[2].AsReal())))
	case "__addm", "__adds":
		return reference.Temporary(saturatingOrModular(args, func(a, b int64) int64 { return a + b }))
	case "__subm", "__subs":
		return reference.Temporary(saturatingOrModular(args, func(a, b int64) int64 { return a - b }))
	case "__mulm", "__muls":
		return reference.Temporary(saturatingOrModular(args, func(a, b int64) int64 { return a * b }))
	case "__vcall":
		if len(args) == 0 {
			raise("__vcall requires a callee and an argument array")
		}
		if args[0].Type() != value.TypeFunction {
			raise("__vcall target is not callable")
		}
		var spread []value.Value
		if len(args) > 1 && args[1].Type() == value.TypeArray {
			spread = args[1].AsArray().Slice()
		}
		result, exc := ev.e.invoke(args[0].AsFunction(), spread)
		if exc != nil {
			panic(thrownSignal{exc: exc})
		}
		return reference.Temporary(result)
	case "import":
		if len(args) != 1 || args[0].Type() != value.TypeString {
			raise("import requires a single string module name")
		}
		if ref, ok := ev.e.global.LookupStdlib(args[0].AsString()); ok {
			return ref
		}
		raise("unknown module: " + args[0].AsString())
		return nil
	default:
		raise("unknown intrinsic: " + i.Name)
		return nil
	}
}

func saturatingOrModular(args []value.Value, op func(a, b int64) int64) value.Value {
	if len(args) != 2 {
		raise("arithmetic intrinsic requires 2 arguments")
	}
	return value.FromInt(op(args[0].AsInteger(), args[1].AsInteger()))
}

func (ev *exprVisitor) VisitUnary(u ast.Unary) any {
	switch u.Operator.TokenType {
	case token.INCR, token.DECR:
		ref := ev.e.evalExpr(u.Right, ev.scope)
		cur, setter, err := reference.Reference(ref).Open()
		if err != nil {
			raise(err.Error())
		}
		delta := int64(1)
		if u.Operator.TokenType == token.DECR {
			delta = -1
		}
		var next value.Value
		if cur.Type() == value.TypeReal {
			next = value.FromReal(cur.AsReal() + float64(delta))
		} else {
			next = value.FromInt(cur.AsInteger() + delta)
		}
		setter(next)
		return reference.Temporary(next)
	}

	right := ev.e.evalExpr(u.Right, ev.scope).mustRead(ev.e)
	switch u.Operator.TokenType {
	case token.SUB:
		if right.Type() == value.TypeReal {
			return reference.Temporary(value.FromReal(-right.AsReal()))
		}
		return reference.Temporary(value.FromInt(-right.AsInteger()))
	case token.BANG:
		return reference.Temporary(value.FromBool(!right.Truthy()))
	case token.BNOT:
		return reference.Temporary(value.FromInt(^right.AsInteger()))
	default:
		raise("unsupported unary operator: " + string(u.Operator.TokenType))
		return nil
	}
}

func (ev *exprVisitor) VisitBinary(b ast.Binary) any {
	left := ev.e.evalExpr(b.Left, ev.scope).mustRead(ev.e)
	right := ev.e.evalExpr(b.Right, ev.scope).mustRead(ev.e)
	result, err := applyBinaryOp(b.Operator.TokenType, left, right)
	if err != nil {
		raise(err.Error())
	}
	return reference.Temporary(result)
}

// applyBinaryOp implements every binary/comparison operator of spec.md
// §4.2's precedence table over Value, used both by VisitBinary and by
// compound-assignment desugaring.
func applyBinaryOp(op token.TokenType, a, b value.Value) (value.Value, error) {
	switch op {
	case token.ADD:
		if a.Type() == value.TypeString || b.Type() == value.TypeString {
			return value.FromString(stringOf(a) + stringOf(b)), nil
		}
		if a.Type() == value.TypeArray && b.Type() == value.TypeArray {
			merged := a.AsArray().Share()
			for _, v := range b.AsArray().Slice() {
				merged.PushTail(v)
			}
			return value.FromArray(merged), nil
		}
		return numericOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	case token.SUB:
		return numericOp(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	case token.MULT:
		return numericOp(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
	case token.DIV:
		if a.Type() == value.TypeInteger && b.Type() == value.TypeInteger {
			if b.AsInteger() == 0 {
				return value.Value{}, divisionByZero()
			}
			return value.FromInt(a.AsInteger() / b.AsInteger()), nil
		}
		return value.FromReal(a.AsReal() / b.AsReal()), nil
	case token.MOD:
		if b.AsInteger() == 0 {
			return value.Value{}, divisionByZero()
		}
		return value.FromInt(a.AsInteger() % b.AsInteger()), nil
	case token.SHL:
		return value.FromInt(a.AsInteger() << uint(b.AsInteger())), nil
	case token.SHR:
		return value.FromInt(a.AsInteger() >> uint(b.AsInteger())), nil
	case token.BAND:
		return value.FromInt(a.AsInteger() & b.AsInteger()), nil
	case token.BOR:
		return value.FromInt(a.AsInteger() | b.AsInteger()), nil
	case token.BXOR:
		return value.FromInt(a.AsInteger() ^ b.AsInteger()), nil
	case token.AND:
		return value.FromBool(a.Truthy() && b.Truthy()), nil
	case token.OR:
		return value.FromBool(a.Truthy() || b.Truthy()), nil
	case token.COALESCE:
		if !a.IsNull() {
			return a, nil
		}
		return b, nil
	case token.EQUAL_EQUAL:
		return value.FromBool(value.Equal(a, b)), nil
	case token.NOT_EQUAL:
		return value.FromBool(!value.Equal(a, b)), nil
	case token.LESS:
		return value.FromBool(value.Compare(a, b) == value.Less), nil
	case token.LESS_EQUAL:
		o := value.Compare(a, b)
		return value.FromBool(o == value.Less || o == value.Equal), nil
	case token.LARGER:
		return value.FromBool(value.Compare(a, b) == value.Greater), nil
	case token.LARGER_EQUAL:
		o := value.Compare(a, b)
		return value.FromBool(o == value.Greater || o == value.Equal), nil
	case token.SPACESHIP:
		switch value.Compare(a, b) {
		case value.Less:
			return value.FromInt(-1), nil
		case value.Greater:
			return value.FromInt(1), nil
		case value.Equal:
			return value.FromInt(0), nil
		default:
			return value.Null(), nil
		}
	default:
		return value.Value{}, unsupportedOperator(op)
	}
}

func numericOp(a, b value.Value, intOp func(int64, int64) int64, realOp func(float64, float64) float64) (value.Value, error) {
	if a.Type() == value.TypeInteger && b.Type() == value.TypeInteger {
		return value.FromInt(intOp(a.AsInteger(), b.AsInteger())), nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return value.Value{}, unsupportedOperand()
	}
	return value.FromReal(realOp(a.AsReal(), b.AsReal())), nil
}

func stringOf(v value.Value) string {
	if v.Type() == value.TypeString {
		return v.AsString()
	}
	return ""
}

func divisionByZero() error     { return errStr("division by zero") }
func unsupportedOperand() error { return errStr("operand does not support this arithmetic operation") }
func unsupportedOperator(op token.TokenType) error {
	return errStr("unsupported binary operator: " + string(op))
}

type errStr string

func (e errStr) Error() string { return string(e) }
