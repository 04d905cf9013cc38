package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"asteria/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements both visitor interfaces and builds a JSON-friendly
// representation of the AST using maps and slices. Each Visit method
// returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(s ast.ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": s.Expression.Accept(p)}
}

func (p astPrinter) VisitVarStmt(s ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"kind":        string(s.Kind),
		"name":        s.Declarator.Name,
		"bracket":     s.Declarator.Bracket,
		"names":       s.Declarator.Names,
		"initializer": nilOrAccept(s.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(s ast.BlockStmt) any {
	stmts := p.stmtList(s.Statements)
	return map[string]any{"type": "BlockStmt", "statements": stmts}
}

func (p astPrinter) stmtList(stmts []ast.Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, stmt.Accept(p))
	}
	return out
}

func (p astPrinter) VisitIfStmt(s ast.IfStmt) any {
	var elseVal any
	if s.Else != nil {
		elseVal = s.Else.Accept(p)
	}
	return map[string]any{
		"type":      "IfStmt",
		"negated":   s.Negated,
		"condition": s.Condition.Accept(p),
		"then":      s.Then.Accept(p),
		"else":      elseVal,
	}
}

func (p astPrinter) VisitWhileStmt(s ast.WhileStmt) any {
	return map[string]any{"type": "WhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p astPrinter) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	return map[string]any{"type": "DoWhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p astPrinter) VisitForStmt(s ast.ForStmt) any {
	return map[string]any{
		"type":      "ForStmt",
		"init":      nilOrAcceptStmt(s.Init, p),
		"condition": nilOrAccept(s.Condition, p),
		"step":      nilOrAccept(s.Step, p),
		"body":      s.Body.Accept(p),
	}
}

func (p astPrinter) VisitForEachStmt(s ast.ForEachStmt) any {
	return map[string]any{
		"type":      "ForEachStmt",
		"key":       s.KeyName,
		"value":     s.ValueName,
		"range":     s.Range.Accept(p),
		"body":      s.Body.Accept(p),
	}
}

func (p astPrinter) VisitSwitchStmt(s ast.SwitchStmt) any {
	cases := make([]any, 0, len(s.Cases))
	for _, c := range s.Cases {
		values := make([]any, 0, len(c.Values))
		for _, v := range c.Values {
			values = append(values, v.Accept(p))
		}
		cases = append(cases, map[string]any{
			"values":     values,
			"default":    c.IsDefault,
			"statements": p.stmtList(c.Statements),
		})
	}
	return map[string]any{"type": "SwitchStmt", "subject": s.Subject.Accept(p), "cases": cases}
}

func (p astPrinter) VisitBreakStmt(s ast.BreakStmt) any {
	return map[string]any{"type": "BreakStmt", "target": string(s.Target)}
}

func (p astPrinter) VisitContinueStmt(s ast.ContinueStmt) any {
	return map[string]any{"type": "ContinueStmt", "target": string(s.Target)}
}

func (p astPrinter) VisitReturnStmt(s ast.ReturnStmt) any {
	return map[string]any{"type": "ReturnStmt", "value": nilOrAccept(s.Value, p), "ref": s.RefReturn}
}

func (p astPrinter) VisitThrowStmt(s ast.ThrowStmt) any {
	return map[string]any{"type": "ThrowStmt", "value": s.Value.Accept(p)}
}

func (p astPrinter) VisitAssertStmt(s ast.AssertStmt) any {
	return map[string]any{"type": "AssertStmt", "condition": s.Condition.Accept(p), "source": s.SourceText}
}

func (p astPrinter) VisitTryStmt(s ast.TryStmt) any {
	return map[string]any{
		"type":      "TryStmt",
		"try":       p.stmtList(s.Try),
		"exceptVar": s.ExceptVar,
		"catch":     p.stmtList(s.Catch),
	}
}

func (p astPrinter) VisitDeferStmt(s ast.DeferStmt) any {
	return map[string]any{"type": "DeferStmt", "expression": s.Expression.Accept(p)}
}

func (p astPrinter) VisitFuncStmt(s ast.FuncStmt) any {
	return map[string]any{
		"type":   "FuncStmt",
		"name":   s.Name,
		"params": paramList(s.Params),
		"body":   p.stmtList(s.Body),
	}
}

func paramList(params []ast.Param) []any {
	out := make([]any, 0, len(params))
	for _, param := range params {
		out = append(out, map[string]any{"name": param.Name, "variadic": param.Variadic})
	}
	return out
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{"type": "Logical", "operator": expr.Operator.Lexeme, "left": expr.Left.Accept(p), "right": expr.Right.Accept(p)}
}

func (p astPrinter) VisitCoalesceExpression(expr ast.Coalesce) any {
	return map[string]any{"type": "Coalesce", "left": expr.Left.Accept(p), "right": expr.Right.Accept(p)}
}

func (p astPrinter) VisitTernaryExpression(expr ast.Ternary) any {
	return map[string]any{
		"type":      "Ternary",
		"assigning": expr.Assigning,
		"cond":      expr.Cond.Accept(p),
		"then":      expr.Then.Accept(p),
		"else":      expr.Else.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":     "Assign",
		"operator": assign.Operator.Lexeme,
		"target":   assign.Target.Accept(p),
		"value":    assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{"type": "Variable", "name": variable.Name.Lexeme}
}

func (p astPrinter) VisitCallExpression(c ast.Call) any {
	args := make([]any, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.Accept(p))
	}
	return map[string]any{"type": "Call", "callee": c.Fn.Accept(p), "args": args, "tail": c.Tail}
}

func (p astPrinter) VisitIndexExpression(i ast.Index) any {
	return map[string]any{
		"type":      "Index",
		"target":    i.Target.Accept(p),
		"form":      string(i.Form),
		"subscript": nilOrAccept(i.Subscript, p),
	}
}

func (p astPrinter) VisitMemberExpression(m ast.Member) any {
	return map[string]any{"type": "Member", "target": m.Target.Accept(p), "name": m.Name.Lexeme}
}

func (p astPrinter) VisitArrayExpression(a ast.ArrayLit) any {
	elems := make([]any, 0, len(a.Elements))
	for _, e := range a.Elements {
		elems = append(elems, e.Accept(p))
	}
	return map[string]any{"type": "ArrayLit", "elements": elems}
}

func (p astPrinter) VisitObjectExpression(o ast.ObjectLit) any {
	entries := make([]any, 0, len(o.Keys))
	for idx, k := range o.Keys {
		entries = append(entries, map[string]any{"key": k, "value": o.Values[idx].Accept(p)})
	}
	return map[string]any{"type": "ObjectLit", "entries": entries}
}

func (p astPrinter) VisitClosureExpression(c ast.Closure) any {
	result := map[string]any{"type": "Closure", "name": c.Name, "params": paramList(c.Params), "refBody": c.RefBody}
	if c.Body != nil {
		result["body"] = p.stmtList(c.Body)
	} else {
		result["exprBody"] = nilOrAccept(c.ExprBody, p)
	}
	return result
}

func (p astPrinter) VisitThisExpression(ast.This) any {
	return map[string]any{"type": "This"}
}

func (p astPrinter) VisitCatchExpression(c ast.CatchExpr) any {
	return map[string]any{"type": "CatchExpr", "expression": c.Expression.Accept(p)}
}

func (p astPrinter) VisitIntrinsicExpression(i ast.Intrinsic) any {
	args := make([]any, 0, len(i.Args))
	for _, a := range i.Args {
		args = append(args, a.Accept(p))
	}
	return map[string]any{"type": "Intrinsic", "name": i.Name, "args": args}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{"type": "Binary", "operator": b.Operator.Lexeme, "left": b.Left.Accept(p), "right": b.Right.Accept(p)}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{"type": "Unary", "operator": u.Operator.Lexeme, "right": u.Right.Accept(p)}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{"type": "Grouping", "expression": g.Expression.Accept(p)}
}

// nilOrAccept returns nil if expr is nil, otherwise continues processing the
// expression and returns the result.
func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

func nilOrAcceptStmt(stmt ast.Stmt, p ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(p)
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
