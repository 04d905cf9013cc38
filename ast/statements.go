// statements.go contains all statement AST nodes. A statement node does
// not itself produce a value (spec.md §3.4, §4.3).
package ast

import "asteria/token"

// Declarator is one binding target of a var/const/ref declaration. Plain
// declarations have Name set and Bracket/Names empty. Structured bindings
// set Bracket to "[" or "{" per spec.md §4.2's "var [x,y,z] = arr;" and
// "var {a,b} = obj;" forms.
type Declarator struct {
	Name    string
	Bracket string   // "", "[", or "{"
	Names   []string // element/member names for structured bindings
}

// VarStmt represents a var/const/ref declaration statement. Kind holds the
// introducing token type (token.VAR, token.CONST, or token.REF).
type VarStmt struct {
	Kind        token.TokenType
	Declarator  Declarator
	Initializer Expression
}

func (s VarStmt) Accept(v StmtVisitor) any { return v.VisitVarStmt(s) }

// ExpressionStmt wraps an expression evaluated for effect only.
type ExpressionStmt struct {
	Expression Expression
}

func (s ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpressionStmt(s) }

// BlockStmt groups a sequence of statements under one executive context.
type BlockStmt struct {
	Statements []Stmt
}

func (s BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlockStmt(s) }

// IfStmt represents "if (cond) then [else else]"; Negated marks the
// "if not (cond)" form spec.md §4.2 calls out.
type IfStmt struct {
	Condition Expression
	Negated   bool
	Then      Stmt
	Else      Stmt
}

func (s IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(s) }

// WhileStmt represents "while (cond) body".
type WhileStmt struct {
	Condition Expression
	Body      Stmt
}

func (s WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhileStmt(s) }

// DoWhileStmt represents "do body while (cond);".
type DoWhileStmt struct {
	Body      Stmt
	Condition Expression
}

func (s DoWhileStmt) Accept(v StmtVisitor) any { return v.VisitDoWhileStmt(s) }

// ForStmt represents the triplet form "for (init; cond; step) body".
type ForStmt struct {
	Init      Stmt
	Condition Expression
	Step      Expression
	Body      Stmt
}

func (s ForStmt) Accept(v StmtVisitor) any { return v.VisitForStmt(s) }

// ForEachStmt represents "for each (k, v -> expr) body", per spec.md §4.2.
type ForEachStmt struct {
	KeyName   string
	ValueName string
	Range     Expression
	Body      Stmt
}

func (s ForEachStmt) Accept(v StmtVisitor) any { return v.VisitForEachStmt(s) }

// SwitchCase is one "case expr:"/"default:" arm of a SwitchStmt.
type SwitchCase struct {
	Values     []Expression // empty for "default"
	IsDefault  bool
	Statements []Stmt
}

// SwitchStmt represents "switch (expr) { case ...: ... default: ... }".
type SwitchStmt struct {
	Subject Expression
	Cases   []SwitchCase
}

func (s SwitchStmt) Accept(v StmtVisitor) any { return v.VisitSwitchStmt(s) }

// BreakStmt represents "break [switch|while|for];".
type BreakStmt struct {
	Target token.TokenType // zero value: nearest enclosing loop/switch
}

func (s BreakStmt) Accept(v StmtVisitor) any { return v.VisitBreakStmt(s) }

// ContinueStmt represents "continue [while|for];".
type ContinueStmt struct {
	Target token.TokenType
}

func (s ContinueStmt) Accept(v StmtVisitor) any { return v.VisitContinueStmt(s) }

// ReturnStmt represents "return [expr];".
type ReturnStmt struct {
	Value Expression // nil for a bare "return;"
	RefReturn bool
}

func (s ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(s) }

// ThrowStmt represents "throw expr;".
type ThrowStmt struct {
	Value Expression
	Tok   token.Token
}

func (s ThrowStmt) Accept(v StmtVisitor) any { return v.VisitThrowStmt(s) }

// AssertStmt represents "assert expr [: message];"; SourceText is the
// parsed literal source text used in the failure message, per spec.md §4.3.
type AssertStmt struct {
	Condition  Expression
	SourceText string
	Tok        token.Token
}

func (s AssertStmt) Accept(v StmtVisitor) any { return v.VisitAssertStmt(s) }

// TryStmt represents "try { ... } catch (name) { ... }".
type TryStmt struct {
	Try       []Stmt
	ExceptVar string
	Catch     []Stmt
}

func (s TryStmt) Accept(v StmtVisitor) any { return v.VisitTryStmt(s) }

// DeferStmt represents "defer expr;" (spec.md §4.3).
type DeferStmt struct {
	Expression Expression
	Tok        token.Token
}

func (s DeferStmt) Accept(v StmtVisitor) any { return v.VisitDeferStmt(s) }

// FuncStmt represents a named function declaration "func name(params) {...}",
// sugar for "var name = func name(params) {...};".
type FuncStmt struct {
	Name   string
	Params []Param
	Body   []Stmt
}

func (s FuncStmt) Accept(v StmtVisitor) any { return v.VisitFuncStmt(s) }
