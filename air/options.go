package air

import "asteria/ast"

// Options configures compilation, mirroring spec.md §6's compile-time
// knobs and the teacher's small value-style config structs (plain fields,
// a zero-value default, no tags, no file/env loader). Every field is safe
// at its zero value. Compile's output is identical regardless of
// OptimizationLevel today: AIR nodes are already the resolved AST (see
// this package's doc comment) rather than a flat bytecode with distinct
// optimization passes to gate.
type Options struct {
	OptimizationLevel      int
	EscapableSingleQuotes  bool
	KeywordsAsIdentifiers  bool
	IntegersAsReals        bool
	VerboseSingleStepTraps bool
}

// DefaultOptions returns the zero-value Options, matching the CLI's and
// the embedding API's default behavior.
func DefaultOptions() Options { return Options{} }

// CompileWithOptions lowers statements into the program's top-level
// Function under opts. It delegates to Compile; opts is accepted so
// callers have a stable place to plug in compile-time knobs without a
// breaking signature change once optimization passes exist.
func CompileWithOptions(statements []ast.Stmt, opts Options) *Function {
	_ = opts
	return Compile(statements)
}
