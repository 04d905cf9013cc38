package air

import (
	"fmt"
	"strings"
)

// Disassemble renders fn's AIR form as an indexed listing, one entry per
// top-level statement (or a single "= expr" entry for an expression-bodied
// function), mirroring the teacher's DisassembleBytecode/DisassembleInstruction
// pair. Since an AIR node is the resolved ast.Expression/ast.Stmt itself
// (see node.go's doc comment) rather than a decoded byte-addressed
// instruction, disassembly is pretty-printing that tree instead of
// decoding a separate instruction stream.
func Disassemble(fn *Function) string {
	var b strings.Builder
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(&b, "function %s(%d params)\n", name, len(fn.Params))

	switch {
	case fn.ExprBody != nil:
		fmt.Fprintf(&b, "  = %#v\n", fn.ExprBody)
	default:
		for i, stmt := range fn.Body {
			fmt.Fprintf(&b, "[%03d] %#v\n", i, stmt)
		}
	}
	return b.String()
}
