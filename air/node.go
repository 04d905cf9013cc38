// Package air implements the abstract intermediate representation and
// execution engine of spec.md §4.3: statement results, the evaluation
// stack-machine, defer/try-catch unwinding, and tail calls.
//
// Grounded on the teacher's visitor-pattern compiler (compiler/ast_compiler.go)
// and tree-walking interpreter (interpreter/interpreter.go): like both, the
// engine here implements ast.StmtVisitor/ast.ExpressionVisitor and uses
// panic/recover for non-local control flow (break/continue/return/throw),
// the same shape as the teacher's per-statement panic/recover boundary in
// CompileAST and Interpret. Unlike the teacher, a compiled Function is not
// re-lowered into byte-addressed bytecode: each expression already lowers
// to exactly one AIR node (the resolved ast.Expression itself) and the
// engine's per-expression stack machine operates on a Go slice of
// reference.Reference rather than a byte stream, since Executive contexts
// are themselves name-to-reference hash maps (spec.md §4.6) and slot
// pre-resolution is not required to implement the spec's semantics.
package air

import (
	"asteria/ast"
	"asteria/context"
)

// Function is a compiled callable: either a statement-bodied closure
// ("func(...) { ... }") or an expression-bodied one ("func(...) = expr" or
// the "func(...) -> expr" form, marked by RefBody), per spec.md §4.2. Both
// expression-bodied forms return their result by value; the "->" form does
// not keep the result's reference.
type Function struct {
	Name     string
	Params   []ast.Param
	Body     []ast.Stmt
	ExprBody ast.Expression
	RefBody  bool

	// Closure is the captured defining scope; nil for the top-level
	// program function. Captured by reference, per spec.md §4.4.
	Closure *context.Executive
}

// Compile lowers a parsed statement sequence into the program's top-level
// Function, ready for Engine.Run. Nested closures are lowered lazily: a
// Closure expression node is turned into a *Function (and bound to its
// defining scope) only when the closure expression is evaluated, mirroring
// the teacher's "compile on first use" avoidance of a separate pass for
// nested function bodies.
func Compile(statements []ast.Stmt) *Function {
	return &Function{Name: "<program>", Body: statements}
}
