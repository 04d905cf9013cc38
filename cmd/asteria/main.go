// Command asteria is the host CLI around the embeddable interpreter core:
// "asteria run <file>" executes a script, "asteria repl" opens an
// interactive prompt, per spec.md §6's external interfaces.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"asteria/air"
	actx "asteria/context"
	"asteria/lexer"
	"asteria/parser"
	"asteria/runtime"
	"asteria/stdlib/jsonlib"
	"asteria/stdlib/mathlib"
	"asteria/stdlib/stringlib"
	"asteria/value"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&disasmCmd{}, "")
	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

func newGlobal() *actx.Global {
	g := actx.NewGlobal()
	mathlib.Register(g)
	stringlib.Register(g)
	jsonlib.Register(g)
	return g
}

// Exit status codes for the "run" and "repl" subcommands, per spec.md §6:
// 0 success, 1 usage error, 2 compile error, 3 uncaught exception,
// 4 file not found, 5 internal error.
const (
	exitOK subcommands.ExitStatus = iota
	exitUsage
	exitCompileError
	exitException
	exitFileNotFound
	exitInternal
)

type runCmd struct {
	verbose bool
	opt     int
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute an Asteria source file" }
func (*runCmd) Usage() string    { return "run [-v] [-O level] <file>\n" }

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verbose, "v", false, "print diagnostics to stderr")
	f.IntVar(&c.opt, "O", 0, "optimization level (accepted; Compile's output is unaffected today, see air.Options)")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return exitUsage
	}
	path := f.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asteria: cannot read %s: %v\n", path, err)
		return exitFileNotFound
	}

	opts := air.DefaultOptions()
	opts.OptimizationLevel = c.opt
	fn, cerrs := compileSource(path, string(src), opts)
	if len(cerrs) > 0 {
		for _, ce := range cerrs {
			fmt.Fprintln(os.Stderr, ce)
		}
		return exitCompileError
	}

	globals := newGlobal()
	eng := air.NewEngine(globals, path)
	result, exc := eng.Run(fn, nil)
	if exc != nil {
		fmt.Fprintln(os.Stderr, exc.Error())
		return exitException
	}
	if c.verbose {
		fmt.Fprintf(os.Stderr, "asteria: program returned %v\n", result)
	}
	return exitOK
}

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive Asteria prompt" }
func (*replCmd) Usage() string    { return "repl\n" }
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (c *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("asteria> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "asteria: cannot start prompt:", err)
		return exitInternal
	}
	defer rl.Close()

	globals := newGlobal()
	eng := air.NewEngine(globals, "<repl>")
	fmt.Println("Asteria interactive prompt. Ctrl-D to exit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return exitOK
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "asteria:", err)
			return exitInternal
		}
		if line == "" {
			continue
		}
		fn, cerrs := compileSource("<repl>", line, air.DefaultOptions())
		if len(cerrs) > 0 {
			for _, ce := range cerrs {
				fmt.Println(ce)
			}
			continue
		}
		result, exc := eng.Run(fn, nil)
		if exc != nil {
			fmt.Println(exc.Error())
			continue
		}
		if !result.IsNull() {
			fmt.Printf("=> %v\n", describeResult(result))
		}
	}
}

func describeResult(v value.Value) any {
	switch v.Type() {
	case value.TypeString:
		return v.AsString()
	case value.TypeInteger:
		return v.AsInteger()
	case value.TypeReal:
		return v.AsReal()
	case value.TypeBoolean:
		return v.AsBoolean()
	default:
		return v.Type().String()
	}
}

// compileSource lexes, parses, and lowers src into a top-level Function
// under opts, or returns the accumulated compile errors classified onto
// spec.md §7.1's status-code taxonomy.
func compileSource(file, src string, opts air.Options) (*air.Function, runtime.CompileErrors) {
	lx := lexer.New(file, src)
	toks, err := lx.Scan()
	if err != nil {
		return nil, runtime.ClassifyCompileErrors([]error{err})
	}
	stmts, errs := parser.Make(toks).Parse()
	if len(errs) > 0 {
		return nil, runtime.ClassifyCompileErrors(errs)
	}
	return air.CompileWithOptions(stmts, opts), nil
}

type disasmCmd struct {
	ast bool
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "print the AIR or AST form of an Asteria source file" }
func (*disasmCmd) Usage() string    { return "disasm [-ast] <file>\n" }

func (c *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.ast, "ast", false, "print the parsed AST as JSON instead of the AIR listing")
}

func (c *disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return exitUsage
	}
	path := f.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asteria: cannot read %s: %v\n", path, err)
		return exitFileNotFound
	}

	if c.ast {
		toks, err := lexer.New(path, string(src)).Scan()
		if err != nil {
			for _, ce := range runtime.ClassifyCompileErrors([]error{err}) {
				fmt.Fprintln(os.Stderr, ce)
			}
			return exitCompileError
		}
		p := parser.Make(toks)
		stmts, errs := p.Parse()
		if len(errs) > 0 {
			for _, ce := range runtime.ClassifyCompileErrors(errs) {
				fmt.Fprintln(os.Stderr, ce)
			}
			return exitCompileError
		}
		p.Print(stmts)
		return exitOK
	}

	fn, cerrs := compileSource(path, string(src), air.DefaultOptions())
	if len(cerrs) > 0 {
		for _, ce := range cerrs {
			fmt.Fprintln(os.Stderr, ce)
		}
		return exitCompileError
	}
	fmt.Print(air.Disassemble(fn))
	return exitOK
}
