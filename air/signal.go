package air

import (
	"asteria/reference"
	"asteria/runtime"
	"asteria/token"
)

// The engine models the non-local control-flow forms of spec.md §4.3 as Go
// panics, caught at the statement boundary that can handle them (a loop for
// break/continue, a function frame for return, a try block or the top-level
// Run for thrown exceptions). This mirrors the teacher's per-statement
// panic/recover shape in compiler/ast_compiler.go's CompileAST and
// interpreter/interpreter.go's Interpret.
type breakSignal struct{ target token.TokenType }
type continueSignal struct{ target token.TokenType }
type returnSignal struct{ ref reference.Reference }
type thrownSignal struct{ exc *runtime.Exception }

// engineError panics with a plain evaluation error (a type mismatch, an
// undefined name, ...), which the engine converts to a thrown Exception at
// the nearest recover point so scripts can catch host-detected errors the
// same way they catch "throw", per spec.md §7's "host-call failures must be
// reported as runtime errors, never as untranslated native exceptions."
type engineError struct{ message string }

func (e engineError) Error() string { return e.message }

func raise(message string) { panic(engineError{message: message}) }
