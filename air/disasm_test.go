package air

import (
	"strings"
	"testing"

	"asteria/lexer"
	"asteria/parser"
)

func TestDisassembleListsTopLevelStatements(t *testing.T) {
	toks, err := lexer.New("<test>", "var x = 1; return x;").Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	stmts, errs := parser.Make(toks).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	fn := Compile(stmts)
	out := Disassemble(fn)

	if !strings.Contains(out, "[000]") || !strings.Contains(out, "[001]") {
		t.Errorf("Disassemble() = %q, want indexed entries for both statements", out)
	}
	if !strings.HasPrefix(out, "function <program>(0 params)\n") {
		t.Errorf("Disassemble() header = %q", out)
	}
}

func TestCompileWithOptionsIgnoresOptimizationLevel(t *testing.T) {
	toks, err := lexer.New("<test>", "return 1;").Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	stmts, errs := parser.Make(toks).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	opts := DefaultOptions()
	opts.OptimizationLevel = 2
	fn := CompileWithOptions(stmts, opts)
	if len(fn.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(fn.Body))
	}
}
