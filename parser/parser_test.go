package parser

import (
	"testing"

	"asteria/ast"
	"asteria/lexer"
	"asteria/token"
)

func parseSource(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, err := lexer.New("<test>", src).Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	stmts, errs := Make(toks).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return stmts
}

func TestParseVarDeclaration(t *testing.T) {
	stmts := parseSource(t, "var x = 1;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	v, ok := stmts[0].(ast.VarStmt)
	if !ok {
		t.Fatalf("got %T, want ast.VarStmt", stmts[0])
	}
	if v.Kind != token.VAR || v.Declarator.Name != "x" {
		t.Errorf("got Kind=%v Declarator=%+v", v.Kind, v.Declarator)
	}
}

func TestParseStructuredBinding(t *testing.T) {
	stmts := parseSource(t, "var [a, b] = arr;")
	v := stmts[0].(ast.VarStmt)
	if v.Declarator.Bracket != "[" {
		t.Fatalf("Bracket = %q, want %q", v.Declarator.Bracket, "[")
	}
	want := []string{"a", "b"}
	if len(v.Declarator.Names) != len(want) {
		t.Fatalf("Names = %v, want %v", v.Declarator.Names, want)
	}
	for i, w := range want {
		if v.Declarator.Names[i] != w {
			t.Errorf("Names[%d] = %q, want %q", i, v.Declarator.Names[i], w)
		}
	}
}

func TestConstRequiresInitializer(t *testing.T) {
	toks, err := lexer.New("<test>", "const x;").Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	_, errs := Make(toks).Parse()
	if len(errs) == 0 {
		t.Error("Parse() of \"const x;\" succeeded, want a syntax error")
	}
}

func TestBinaryPrecedence(t *testing.T) {
	stmts := parseSource(t, "return 1 + 2 * 3;")
	ret := stmts[0].(ast.ReturnStmt)
	top, ok := ret.Value.(ast.Binary)
	if !ok {
		t.Fatalf("got %T, want ast.Binary at the top", ret.Value)
	}
	if top.Operator.TokenType != token.ADD {
		t.Fatalf("top operator = %v, want ADD", top.Operator.TokenType)
	}
	right, ok := top.Right.(ast.Binary)
	if !ok || right.Operator.TokenType != token.MULT {
		t.Errorf("right operand = %+v, want a MULT binary", top.Right)
	}
}

func TestFuncDeclaration(t *testing.T) {
	stmts := parseSource(t, "func add(a, b) { return a + b; }")
	fn, ok := stmts[0].(ast.FuncStmt)
	if !ok {
		t.Fatalf("got %T, want ast.FuncStmt", stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("got Name=%q Params=%+v", fn.Name, fn.Params)
	}
}

func TestVariadicParameterMustBeLast(t *testing.T) {
	stmts := parseSource(t, "func f(a, ...rest) { return rest; }")
	fn := stmts[0].(ast.FuncStmt)
	if len(fn.Params) != 2 || !fn.Params[1].Variadic {
		t.Errorf("Params = %+v, want a trailing variadic parameter", fn.Params)
	}
}

func TestTailPositionedReturnCallParsesAsPlainCall(t *testing.T) {
	stmts := parseSource(t, "func f(n) { return g(n - 1); }")
	fn := stmts[0].(ast.FuncStmt)
	ret := fn.Body[0].(ast.ReturnStmt)
	if _, ok := ret.Value.(ast.Call); !ok {
		t.Errorf("got %T, want ast.Call (tail-call recognition happens at evaluation time, not in the parser)", ret.Value)
	}
}

func TestIndexModifierForms(t *testing.T) {
	stmts := parseSource(t, "var a = x[0]; var b = x[^]; var c = x[$]; var d = x[?];")
	wantForms := []token.TokenType{token.LBRK, token.LBRK_HEAD, token.LBRK_TAIL, token.LBRK_RAND}
	for i, want := range wantForms {
		v := stmts[i].(ast.VarStmt)
		idx, ok := v.Initializer.(ast.Index)
		if !ok {
			t.Fatalf("stmt %d: got %T, want ast.Index", i, v.Initializer)
		}
		if idx.Form != want {
			t.Errorf("stmt %d: Form = %v, want %v", i, idx.Form, want)
		}
	}
}

func TestTryCatchStatement(t *testing.T) {
	stmts := parseSource(t, "try { assert 1 == 2; } catch (e) { return e; }")
	ts, ok := stmts[0].(ast.TryStmt)
	if !ok {
		t.Fatalf("got %T, want ast.TryStmt", stmts[0])
	}
	if ts.ExceptVar != "e" || len(ts.Try) != 1 || len(ts.Catch) != 1 {
		t.Errorf("got %+v", ts)
	}
}

func TestTernaryAssigningForm(t *testing.T) {
	stmts := parseSource(t, "a ?= b : c;")
	es := stmts[0].(ast.ExpressionStmt)
	tern, ok := es.Expression.(ast.Ternary)
	if !ok {
		t.Fatalf("got %T, want ast.Ternary", es.Expression)
	}
	if !tern.Assigning {
		t.Error("Assigning = false, want true for the \"?=\" form")
	}
}

func TestObjectLiteralBareAndQuotedKeys(t *testing.T) {
	stmts := parseSource(t, `var o = { a: 1, "b": 2 };`)
	v := stmts[0].(ast.VarStmt)
	lit, ok := v.Initializer.(ast.ObjectLit)
	if !ok {
		t.Fatalf("got %T, want ast.ObjectLit", v.Initializer)
	}
	wantKeys := []string{"a", "b"}
	if len(lit.Keys) != len(wantKeys) {
		t.Fatalf("Keys = %v, want %v", lit.Keys, wantKeys)
	}
	for i, w := range wantKeys {
		if lit.Keys[i] != w {
			t.Errorf("Keys[%d] = %q, want %q", i, lit.Keys[i], w)
		}
	}
}

func TestForEachStatement(t *testing.T) {
	stmts := parseSource(t, "for each (k, v -> arr) { }")
	fe, ok := stmts[0].(ast.ForEachStmt)
	if !ok {
		t.Fatalf("got %T, want ast.ForEachStmt", stmts[0])
	}
	if fe.KeyName != "k" || fe.ValueName != "v" {
		t.Errorf("got KeyName=%q ValueName=%q", fe.KeyName, fe.ValueName)
	}
}
