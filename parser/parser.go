// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A recursive descent parser is a top-down parser because it starts from the
// top grammar rule and works its way down into the nested sub-expressions
// before reaching the leaves of the syntax tree (terminal rules). Statement
// forms are parsed by recursive descent; expressions use Pratt-style
// precedence climbing, per spec.md §4.2.
package parser

import (
	"fmt"

	"asteria/ast"
	"asteria/token"
)

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
	token.SPACESHIP,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
	token.MOD,
}

var shiftTokenTypes = []token.TokenType{
	token.SHL,
	token.SHR,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
	token.BNOT,
	token.INCR,
	token.DECR,

	// NOTE: unsupported operands on unary expressions are included so they
	// can be parsed, then the engine can throw a more detailed runtime
	// error message. This is known as "error productions".
	token.MULT,
	token.ADD,
	token.DIV,
}

var assignTokenTypes = []token.TokenType{
	token.ASSIGN,
	token.ADD_ASSIGN,
	token.SUB_ASSIGN,
	token.MUL_ASSIGN,
	token.DIV_ASSIGN,
	token.MOD_ASSIGN,
	token.SHL_ASSIGN,
	token.SHR_ASSIGN,
	token.AND_ASSIGN,
	token.OR_ASSIGN,
	token.XOR_ASSIGN,
	token.COAL_ASSIGN,
	token.LAND_ASSIGN,
	token.LOR_ASSIGN,
}

// compoundOf maps a compound-assignment token to the binary operator it
// implies; the zero value (empty string) marks the plain "=" form.
var compoundOf = map[token.TokenType]token.TokenType{
	token.ADD_ASSIGN:  token.ADD,
	token.SUB_ASSIGN:  token.SUB,
	token.MUL_ASSIGN:  token.MULT,
	token.DIV_ASSIGN:  token.DIV,
	token.MOD_ASSIGN:  token.MOD,
	token.SHL_ASSIGN:  token.SHL,
	token.SHR_ASSIGN:  token.SHR,
	token.AND_ASSIGN:  token.BAND,
	token.OR_ASSIGN:   token.BOR,
	token.XOR_ASSIGN:  token.BXOR,
	token.COAL_ASSIGN: token.COALESCE,
	token.LAND_ASSIGN: token.AND,
	token.LOR_ASSIGN:  token.OR,
}

var indexFormTokenTypes = []token.TokenType{
	token.LBRK,
	token.LBRK_HEAD,
	token.LBRK_TAIL,
	token.LBRK_RAND,
}

type Parser struct {
	tokens   []token.Token
	position int

	// loopDepth/switchDepth reject break/continue outside any enclosing loop
	// or switch. A targeted form ("break switch", "continue for") is not
	// checked against the kind of construct that encloses it.
	loopDepth   int
	switchDepth int
}

// NOTE: The parser's position is always one unit ahead of the current token.

// Make initializes and returns a new Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	_, err := PrintASTJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided statements to a .json file.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteASTJSONToFile(statements, path)
}

func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	return parser.peek().TokenType == tokenType
}

func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// Parse parses the entire token stream into a slice of Stmt nodes. Errors
// are collected and parsing resynchronizes at the next statement boundary
// so multiple errors can be reported from a single pass.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	statements := []ast.Stmt{}
	errors := []error{}

	for !parser.isFinished() {
		statement, err := parser.declaration()
		if err != nil {
			errors = append(errors, err)
			parser.synchronize()
			continue
		}
		statements = append(statements, statement)
	}

	return statements, errors
}

// synchronize discards tokens until a likely statement boundary, so one
// syntax error does not cascade into spurious follow-on errors.
func (parser *Parser) synchronize() {
	parser.advance()
	for !parser.isFinished() {
		if parser.previous().TokenType == token.SEMICOLON {
			return
		}
		switch parser.peek().TokenType {
		case token.VAR, token.CONST, token.REF, token.FUNC, token.IF, token.SWITCH,
			token.WHILE, token.DO, token.FOR, token.RETURN, token.TRY, token.THROW,
			token.BREAK, token.CONTINUE, token.ASSERT, token.DEFER:
			return
		}
		parser.advance()
	}
}

func (parser *Parser) declaration() (ast.Stmt, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.VAR}):
		return parser.varDeclaration(token.VAR)
	case parser.isMatch([]token.TokenType{token.CONST}):
		return parser.varDeclaration(token.CONST)
	case parser.isMatch([]token.TokenType{token.REF}):
		return parser.varDeclaration(token.REF)
	case parser.isMatch([]token.TokenType{token.FUNC}):
		return parser.funcDeclaration()
	default:
		return parser.statement()
	}
}

// varDeclaration parses "var"/"const"/"ref" declarations, including the
// structured-binding forms "var [x, y, z] = arr;" and "var { a, b } = obj;"
// named in spec.md §4.2.
func (parser *Parser) varDeclaration(kind token.TokenType) (ast.Stmt, error) {
	var decl ast.Declarator

	switch {
	case parser.isMatch([]token.TokenType{token.LBRK}):
		decl.Bracket = "["
		names, err := parser.bindingNameList(token.RBRK)
		if err != nil {
			return nil, err
		}
		decl.Names = names
	case parser.isMatch([]token.TokenType{token.LCUR}):
		decl.Bracket = "{"
		names, err := parser.bindingNameList(token.RCUR)
		if err != nil {
			return nil, err
		}
		decl.Names = names
	default:
		name, err := parser.consume(token.IDENTIFIER, "expected a variable name")
		if err != nil {
			return nil, err
		}
		decl.Name = name.Lexeme
	}

	var initializer ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		var err error
		initializer, err = parser.expression()
		if err != nil {
			return nil, err
		}
	} else if kind == token.CONST || kind == token.REF {
		tok := parser.peek()
		return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "const/ref declarations require an initializer")
	}

	if _, err := parser.consume(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return ast.VarStmt{Kind: kind, Declarator: decl, Initializer: initializer}, nil
}

func (parser *Parser) bindingNameList(closer token.TokenType) ([]string, error) {
	names := []string{}
	for !parser.checkType(closer) {
		name, err := parser.consume(token.IDENTIFIER, "expected a binding name")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Lexeme)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(closer, fmt.Sprintf("expected '%s' to close the binding list", closer)); err != nil {
		return nil, err
	}
	return names, nil
}

// funcDeclaration parses a named function declaration, sugar for
// "var name = func name(params) {...};" per spec.md §4.2.
func (parser *Parser) funcDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "expected a function name")
	if err != nil {
		return nil, err
	}
	params, err := parser.paramList()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' to open the function body"); err != nil {
		return nil, err
	}
	body, err := parser.block()
	if err != nil {
		return nil, err
	}
	return ast.FuncStmt{Name: name.Lexeme, Params: params, Body: body}, nil
}

func (parser *Parser) paramList() ([]ast.Param, error) {
	if _, err := parser.consume(token.LPA, "expected '(' to open the parameter list"); err != nil {
		return nil, err
	}
	params := []ast.Param{}
	for !parser.checkType(token.RPA) {
		variadic := parser.isMatch([]token.TokenType{token.ELLIPSIS})
		name, err := parser.consume(token.IDENTIFIER, "expected a parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: name.Lexeme, Variadic: variadic})
		if variadic {
			break // "..." is only valid as the last parameter
		}
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' to close the parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

// statement parses a single statement form named in spec.md §4.2.
func (parser *Parser) statement() (ast.Stmt, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.LCUR}):
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	case parser.isMatch([]token.TokenType{token.IF}):
		return parser.ifStatement()
	case parser.isMatch([]token.TokenType{token.WHILE}):
		return parser.whileStatement()
	case parser.isMatch([]token.TokenType{token.DO}):
		return parser.doWhileStatement()
	case parser.isMatch([]token.TokenType{token.FOR}):
		return parser.forStatement()
	case parser.isMatch([]token.TokenType{token.SWITCH}):
		return parser.switchStatement()
	case parser.isMatch([]token.TokenType{token.BREAK}):
		return parser.breakStatement()
	case parser.isMatch([]token.TokenType{token.CONTINUE}):
		return parser.continueStatement()
	case parser.isMatch([]token.TokenType{token.RETURN}):
		return parser.returnStatement()
	case parser.isMatch([]token.TokenType{token.THROW}):
		return parser.throwStatement()
	case parser.isMatch([]token.TokenType{token.ASSERT}):
		return parser.assertStatement()
	case parser.isMatch([]token.TokenType{token.TRY}):
		return parser.tryStatement()
	case parser.isMatch([]token.TokenType{token.DEFER}):
		return parser.deferStatement()
	default:
		return parser.expressionStatement()
	}
}

func (parser *Parser) ifStatement() (ast.Stmt, error) {
	negated := parser.isMatch([]token.TokenType{token.BANG})
	if _, err := parser.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	thenStmt, err := parser.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		elseStmt, err = parser.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfStmt{Condition: condition, Negated: negated, Then: thenStmt, Else: elseStmt}, nil
}

func (parser *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	parser.loopDepth++
	body, err := parser.statement()
	parser.loopDepth--
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: condition, Body: body}, nil
}

func (parser *Parser) doWhileStatement() (ast.Stmt, error) {
	parser.loopDepth++
	body, err := parser.statement()
	parser.loopDepth--
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.WHILE, "expected 'while' after do-block"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after do/while"); err != nil {
		return nil, err
	}
	return ast.DoWhileStmt{Body: body, Condition: condition}, nil
}

// forStatement parses either the triplet form "for (init; cond; step) body"
// or the "for each (k, v -> expr) body" form, per spec.md §4.2.
func (parser *Parser) forStatement() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.EACH}) {
		return parser.forEachStatement()
	}

	if _, err := parser.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case parser.isMatch([]token.TokenType{token.SEMICOLON}):
		init = nil
	case parser.isMatch([]token.TokenType{token.VAR}):
		init, err = parser.varDeclaration(token.VAR)
		if err != nil {
			return nil, err
		}
	default:
		init, err = parser.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		condition, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}

	var step ast.Expression
	if !parser.checkType(token.RPA) {
		step, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after for-loop clauses"); err != nil {
		return nil, err
	}

	parser.loopDepth++
	body, err := parser.statement()
	parser.loopDepth--
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Condition: condition, Step: step, Body: body}, nil
}

func (parser *Parser) forEachStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'for each'"); err != nil {
		return nil, err
	}
	keyTok, err := parser.consume(token.IDENTIFIER, "expected a key/index binding name")
	if err != nil {
		return nil, err
	}
	var valueName string
	if parser.isMatch([]token.TokenType{token.COMMA}) {
		valueTok, err := parser.consume(token.IDENTIFIER, "expected a value binding name")
		if err != nil {
			return nil, err
		}
		valueName = valueTok.Lexeme
	}
	if _, err := parser.consume(token.ARROW, "expected '->' in for-each clause"); err != nil {
		return nil, err
	}
	rangeExpr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after for-each clause"); err != nil {
		return nil, err
	}
	parser.loopDepth++
	body, err := parser.statement()
	parser.loopDepth--
	if err != nil {
		return nil, err
	}
	return ast.ForEachStmt{KeyName: keyTok.Lexeme, ValueName: valueName, Range: rangeExpr, Body: body}, nil
}

func (parser *Parser) switchStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'switch'"); err != nil {
		return nil, err
	}
	subject, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after switch subject"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' to open switch body"); err != nil {
		return nil, err
	}

	parser.switchDepth++
	defer func() { parser.switchDepth-- }()

	cases := []ast.SwitchCase{}
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		var c ast.SwitchCase
		switch {
		case parser.isMatch([]token.TokenType{token.CASE}):
			values := []ast.Expression{}
			for {
				v, err := parser.expression()
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				if !parser.isMatch([]token.TokenType{token.COMMA}) {
					break
				}
			}
			c.Values = values
		case parser.isMatch([]token.TokenType{token.DEFAULT}):
			c.IsDefault = true
		default:
			tok := parser.peek()
			return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "expected 'case' or 'default' in switch body")
		}
		if _, err := parser.consume(token.COLON, "expected ':' after case label"); err != nil {
			return nil, err
		}
		for !parser.checkType(token.CASE) && !parser.checkType(token.DEFAULT) && !parser.checkType(token.RCUR) && !parser.isFinished() {
			stmt, err := parser.declaration()
			if err != nil {
				return nil, err
			}
			c.Statements = append(c.Statements, stmt)
		}
		cases = append(cases, c)
	}
	if _, err := parser.consume(token.RCUR, "expected '}' to close switch body"); err != nil {
		return nil, err
	}
	return ast.SwitchStmt{Subject: subject, Cases: cases}, nil
}

func (parser *Parser) breakStatement() (ast.Stmt, error) {
	tok := parser.previous()
	var target token.TokenType
	if parser.isMatch([]token.TokenType{token.SWITCH, token.WHILE, token.FOR}) {
		target = parser.previous().TokenType
	}
	if parser.loopDepth == 0 && parser.switchDepth == 0 {
		return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "'break' outside of a loop or switch")
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'break'"); err != nil {
		return nil, err
	}
	return ast.BreakStmt{Target: target}, nil
}

func (parser *Parser) continueStatement() (ast.Stmt, error) {
	tok := parser.previous()
	var target token.TokenType
	if parser.isMatch([]token.TokenType{token.WHILE, token.FOR}) {
		target = parser.previous().TokenType
	}
	if parser.loopDepth == 0 {
		return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "'continue' outside of a loop")
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'continue'"); err != nil {
		return nil, err
	}
	return ast.ContinueStmt{Target: target}, nil
}

func (parser *Parser) returnStatement() (ast.Stmt, error) {
	refReturn := parser.isMatch([]token.TokenType{token.REF})
	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		var err error
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'return'"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value, RefReturn: refReturn}, nil
}

func (parser *Parser) throwStatement() (ast.Stmt, error) {
	tok := parser.previous()
	value, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'throw'"); err != nil {
		return nil, err
	}
	return ast.ThrowStmt{Value: value, Tok: tok}, nil
}

// assertStatement parses "assert expr [: message];"; SourceText preserves
// the literal source text of the condition for the failure message, per
// spec.md §4.3.
func (parser *Parser) assertStatement() (ast.Stmt, error) {
	tok := parser.previous()
	start := parser.position
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	sourceText := parser.sourceTextBetween(start, parser.position)

	if parser.isMatch([]token.TokenType{token.COLON}) {
		if _, err := parser.expression(); err != nil { // message, not retained in the AST node
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'assert'"); err != nil {
		return nil, err
	}
	return ast.AssertStmt{Condition: condition, SourceText: sourceText, Tok: tok}, nil
}

// sourceTextBetween rebuilds an approximate source rendering of the tokens
// in [start, end) by joining their lexemes with single spaces.
func (parser *Parser) sourceTextBetween(start, end int) string {
	text := ""
	for i := start; i < end; i++ {
		if i > start {
			text += " "
		}
		text += parser.tokens[i].Lexeme
	}
	return text
}

func (parser *Parser) tryStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LCUR, "expected '{' to open try body"); err != nil {
		return nil, err
	}
	tryBlock, err := parser.block()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.CATCH, "expected 'catch' after try body"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LPA, "expected '(' after 'catch'"); err != nil {
		return nil, err
	}
	exceptVar, err := parser.consume(token.IDENTIFIER, "expected an exception binding name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after catch binding"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' to open catch body"); err != nil {
		return nil, err
	}
	catchBlock, err := parser.block()
	if err != nil {
		return nil, err
	}
	return ast.TryStmt{Try: tryBlock, ExceptVar: exceptVar.Lexeme, Catch: catchBlock}, nil
}

func (parser *Parser) deferStatement() (ast.Stmt, error) {
	tok := parser.previous()
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after 'defer'"); err != nil {
		return nil, err
	}
	return ast.DeferStmt{Expression: expression, Tok: tok}, nil
}

func (parser *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

func (parser *Parser) block() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}

	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := parser.consume(token.RCUR, "expected '}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point for parsing expressions, starting at the
// lowest-precedence rule (assignment), per spec.md §4.2's precedence table.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment parses the right-associative assignment forms ("=", "+=", …,
// "??=", "&&=", "||=") and the ternary assigning form ("?=").
func (parser *Parser) assignment() (ast.Expression, error) {
	expr, err := parser.ternary()
	if err != nil {
		return nil, err
	}

	if parser.isMatch(assignTokenTypes) {
		opTok := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		if !isAssignable(expr) {
			return nil, CreateSyntaxError(opTok.File, opTok.Line, opTok.Column, "invalid assignment target")
		}
		return ast.Assign{Target: expr, Operator: opTok, CompoundOp: compoundOf[opTok.TokenType], Value: value}, nil
	}

	return expr, nil
}

func isAssignable(expr ast.Expression) bool {
	switch expr.(type) {
	case ast.Variable, ast.Index, ast.Member:
		return true
	default:
		return false
	}
}

// ternary parses "cond ? then : else" and its assigning form
// "cond ?= then : else" (which also writes the chosen branch back through
// cond), sitting between assignment and coalescence in the precedence table.
func (parser *Parser) ternary() (ast.Expression, error) {
	expr, err := parser.coalescence()
	if err != nil {
		return nil, err
	}
	assigning := false
	switch {
	case parser.isMatch([]token.TokenType{token.QUESTION}):
	case parser.isMatch([]token.TokenType{token.TERN_ASSIGN}):
		assigning = true
	default:
		return expr, nil
	}
	thenExpr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.COLON, "expected ':' in ternary expression"); err != nil {
		return nil, err
	}
	elseExpr, err := parser.ternary()
	if err != nil {
		return nil, err
	}
	return ast.Ternary{Cond: expr, Then: thenExpr, Else: elseExpr, Assigning: assigning}, nil
}

func (parser *Parser) coalescence() (ast.Expression, error) {
	expr, err := parser.or()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.COALESCE}) {
		right, err := parser.or()
		if err != nil {
			return nil, err
		}
		expr = ast.Coalesce{Left: expr, Right: right}
	}
	return expr, nil
}

func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		right, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		right, err := parser.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) equality() (ast.Expression, error) {
	expr, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		op := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) comparison() (ast.Expression, error) {
	expr, err := parser.bitwiseOr()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		op := parser.previous()
		right, err := parser.bitwiseOr()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) bitwiseOr() (ast.Expression, error) {
	expr, err := parser.bitwiseXor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.BOR}) {
		op := parser.previous()
		right, err := parser.bitwiseXor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) bitwiseXor() (ast.Expression, error) {
	expr, err := parser.bitwiseAnd()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.BXOR}) {
		op := parser.previous()
		right, err := parser.bitwiseAnd()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) bitwiseAnd() (ast.Expression, error) {
	expr, err := parser.shift()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.BAND}) {
		op := parser.previous()
		right, err := parser.shift()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) shift() (ast.Expression, error) {
	expr, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(shiftTokenTypes) {
		op := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) term() (ast.Expression, error) {
	expr, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		op := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) factor() (ast.Expression, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorExpressionTypes) {
		op := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		op := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return parser.postfix()
}

// postfix parses a primary expression followed by a chain of postfix
// operators: call, subscript, member access, and increment/decrement, per
// spec.md §4.2.
func (parser *Parser) postfix() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case parser.isMatch([]token.TokenType{token.LPA}):
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case parser.isMatch(indexFormTokenTypes):
			bracket := parser.previous()
			var subscript ast.Expression
			var form token.TokenType = bracket.TokenType
			if bracket.TokenType == token.LBRK {
				subscript, err = parser.expression()
				if err != nil {
					return nil, err
				}
				if _, err := parser.consume(token.RBRK, "expected ']' after subscript"); err != nil {
					return nil, err
				}
				form = token.LBRK
			}
			expr = ast.Index{Target: expr, Bracket: bracket, Subscript: subscript, Form: form}
		case parser.isMatch([]token.TokenType{token.DOT}):
			name, err := parser.consume(token.IDENTIFIER, "expected a member name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Member{Target: expr, Name: name}
		case parser.isMatch([]token.TokenType{token.INCR, token.DECR}):
			op := parser.previous()
			expr = ast.Assign{Target: expr, Operator: op, CompoundOp: tokenTypeFor(op.TokenType), Value: ast.Literal{Value: int64(1)}}
		default:
			return expr, nil
		}
	}
}

func tokenTypeFor(postfixOp token.TokenType) token.TokenType {
	if postfixOp == token.INCR {
		return token.ADD
	}
	return token.SUB
}

func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	calleeTok := parser.previous()
	args := []ast.Expression{}
	argRef := []bool{}
	for !parser.checkType(token.RPA) {
		isRef := parser.isMatch([]token.TokenType{token.REF})
		arg, err := parser.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		argRef = append(argRef, isRef)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after argument list"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: calleeTok, Fn: callee, Args: args, ArgRef: argRef}, nil
}

// primary parses literals, identifiers, groupings, closures, collection
// literals, and the built-in intrinsics named in spec.md §4.2.
func (parser *Parser) primary() (ast.Expression, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.FALSE}):
		return ast.Literal{Value: false}, nil
	case parser.isMatch([]token.TokenType{token.TRUE}):
		return ast.Literal{Value: true}, nil
	case parser.isMatch([]token.TokenType{token.NULL}):
		return ast.Literal{Value: nil}, nil
	case parser.isMatch([]token.TokenType{token.INT, token.REAL, token.STRING}):
		return ast.Literal{Value: parser.previous().Literal}, nil
	case parser.isMatch([]token.TokenType{token.THIS}):
		return ast.This{Tok: parser.previous()}, nil
	case parser.isMatch([]token.TokenType{token.IDENTIFIER}):
		return ast.Variable{Name: parser.previous()}, nil
	case parser.isMatch([]token.TokenType{token.LPA}):
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "expected ')' to close grouping"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	case parser.isMatch([]token.TokenType{token.LBRK}):
		return parser.arrayLiteral()
	case parser.isMatch([]token.TokenType{token.LCUR}):
		return parser.objectLiteral()
	case parser.isMatch([]token.TokenType{token.FUNC}):
		return parser.closureLiteral()
	case parser.isMatch([]token.TokenType{token.CATCH}):
		return parser.catchExpression()
	case parser.isMatch([]token.TokenType{
		token.FMA, token.ADDM, token.SUBM, token.MULM, token.ADDS, token.SUBS, token.MULS, token.VCALL,
	}):
		return parser.intrinsicCall(string(parser.previous().TokenType))
	case parser.isMatch([]token.TokenType{token.IMPORT}):
		return parser.importExpression()
	}

	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.File, currentToken.Line, currentToken.Column, "unrecognized expression")
}

func (parser *Parser) arrayLiteral() (ast.Expression, error) {
	elements := []ast.Expression{}
	for !parser.checkType(token.RBRK) {
		elem, err := parser.expression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RBRK, "expected ']' to close array literal"); err != nil {
		return nil, err
	}
	return ast.ArrayLit{Elements: elements}, nil
}

// objectLiteral parses "{ a: 1, "b": 2 }", accepting both bare identifier
// keys and string-literal keys (JSON5-style), per spec.md §4.2.
func (parser *Parser) objectLiteral() (ast.Expression, error) {
	keys := []string{}
	values := []ast.Expression{}
	for !parser.checkType(token.RCUR) {
		var key string
		switch {
		case parser.isMatch([]token.TokenType{token.IDENTIFIER}):
			key = parser.previous().Lexeme
		case parser.isMatch([]token.TokenType{token.STRING}):
			key = fmt.Sprint(parser.previous().Literal)
		default:
			tok := parser.peek()
			return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "expected an object key")
		}
		if _, err := parser.consume(token.COLON, "expected ':' after object key"); err != nil {
			return nil, err
		}
		value, err := parser.expression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RCUR, "expected '}' to close object literal"); err != nil {
		return nil, err
	}
	return ast.ObjectLit{Keys: keys, Values: values}, nil
}

// closureLiteral parses "func(params) { body }", "func(params) = expr", and
// the reference-returning "func(params) -> expr" form, per spec.md §4.2.
func (parser *Parser) closureLiteral() (ast.Expression, error) {
	var name string
	if parser.checkType(token.IDENTIFIER) {
		name = parser.advance().Lexeme
	}
	params, err := parser.paramList()
	if err != nil {
		return nil, err
	}

	switch {
	case parser.isMatch([]token.TokenType{token.LCUR}):
		body, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.Closure{Params: params, Body: body, Name: name}, nil
	case parser.isMatch([]token.TokenType{token.ASSIGN}):
		exprBody, err := parser.expression()
		if err != nil {
			return nil, err
		}
		return ast.Closure{Params: params, ExprBody: exprBody, Name: name}, nil
	case parser.isMatch([]token.TokenType{token.ARROW}):
		exprBody, err := parser.expression()
		if err != nil {
			return nil, err
		}
		return ast.Closure{Params: params, ExprBody: exprBody, RefBody: true, Name: name}, nil
	}

	tok := parser.peek()
	return nil, CreateSyntaxError(tok.File, tok.Line, tok.Column, "expected '{', '=', or '->' after closure parameters")
}

// catchExpression parses the "catch(expr)" operator (spec.md §4.3).
func (parser *Parser) catchExpression() (ast.Expression, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'catch'"); err != nil {
		return nil, err
	}
	inner, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after catch expression"); err != nil {
		return nil, err
	}
	return ast.CatchExpr{Expression: inner}, nil
}

// intrinsicCall parses a prefix-call-form intrinsic: "__fma(a, b, c)", etc.
func (parser *Parser) intrinsicCall(name string) (ast.Expression, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after intrinsic name"); err != nil {
		return nil, err
	}
	args := []ast.Expression{}
	for !parser.checkType(token.RPA) {
		arg, err := parser.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after intrinsic arguments"); err != nil {
		return nil, err
	}
	return ast.Intrinsic{Name: name, Args: args}, nil
}

func (parser *Parser) importExpression() (ast.Expression, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'import'"); err != nil {
		return nil, err
	}
	path, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after import path"); err != nil {
		return nil, err
	}
	return ast.Intrinsic{Name: "import", Args: []ast.Expression{path}}, nil
}

// consume advances past the current token if it matches tokenType, else
// produces a SyntaxError at the current position.
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.Token{}, CreateSyntaxError(currentToken.File, currentToken.Line, currentToken.Column, errorMessage)
}
