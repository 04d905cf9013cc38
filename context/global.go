package context

import (
	"math/rand"

	"asteria/reference"
	"asteria/value"
	"asteria/variable"
)

// EventKind discriminates the execution events a diagnostic hook may
// observe, per spec.md §4.6 ("call, return, exception, defer, single-step").
type EventKind uint8

const (
	EventCall EventKind = iota
	EventReturn
	EventException
	EventDefer
	EventStep
)

// ExecutionObserver receives execution events for diagnostics (tracing,
// profiling, a debugger's step mode); it must not mutate engine state.
type ExecutionObserver interface {
	Observe(kind EventKind, detail string)
}

// defaultThresholds seeds each generation's allocation threshold before a
// collection is triggered, per spec.md §4.5.
var defaultThresholds = [3]int{4096, 16384, 65536}

// Global is the process-wide context of spec.md §4.6: standard-library
// bindings, the GC, the PRNG state, and optional diagnostic hook objects.
// It also holds the root executive context bindings are looked up against
// once an Analytic lookup escapes every enclosing function scope.
type Global struct {
	root      *Executive
	stdlib    map[string]reference.Reference
	collector *variable.Collector
	rng       *rand.Rand
	observers []ExecutionObserver

	// stack is the evaluation stack the collector's root walk traces
	// through (spec.md §4.5's root-set definition). It holds only what
	// callers of PushStack put there; the AIR engine does not push onto it.
	stack []reference.Reference

	// frames holds the executive contexts registered through PushFrame, so
	// the GC can walk them without needing child links on Executive itself.
	// The engine registers the context of every statement sequence it runs
	// through execScope (program body, function bodies, blocks, try bodies);
	// the contexts of for, switch and catch are not registered.
	frames []*Executive
}

// NewGlobal constructs a fresh Global context with an empty root executive
// scope and a deterministic-by-default PRNG seed of 1 (callers wanting
// nondeterministic randomness reseed via Seed).
func NewGlobal() *Global {
	g := &Global{
		root:   NewExecutive(),
		stdlib: make(map[string]reference.Reference),
		rng:    rand.New(rand.NewSource(1)),
	}
	g.collector = variable.NewCollector(defaultThresholds, g.walkRoots)
	return g
}

func (g *Global) Root() *Executive { return g.root }

// Seed reseeds the PRNG; exposed for host programs and test determinism.
func (g *Global) Seed(seed int64) { g.rng = rand.New(rand.NewSource(seed)) }

func (g *Global) Rand() *rand.Rand { return g.rng }

// RegisterStdlib binds name in the global stdlib namespace (e.g.
// "std.json.parse"); host registration uses the same mechanism per
// spec.md §6's "host function registration".
func (g *Global) RegisterStdlib(name string, ref reference.Reference) {
	g.stdlib[name] = ref
}

// LookupStdlib resolves a standard-library or host-registered binding.
func (g *Global) LookupStdlib(name string) (reference.Reference, bool) {
	ref, ok := g.stdlib[name]
	return ref, ok
}

// NewVariable allocates and tracks a fresh heap variable through the GC.
func (g *Global) NewVariable() *variable.Variable {
	return g.collector.Track(variable.New())
}

// PushStack/PopStack maintain the evaluation stack the collector traces as
// part of the root set (spec.md §4.5).
func (g *Global) PushStack(ref reference.Reference) { g.stack = append(g.stack, ref) }

func (g *Global) PopStack() {
	if len(g.stack) > 0 {
		g.stack = g.stack[:len(g.stack)-1]
	}
}

// PushFrame/PopFrame track the currently live executive contexts so the GC
// root walk can reach them; the engine calls these in execScope, around the
// program body, function bodies, blocks and try bodies.
func (g *Global) PushFrame(e *Executive) { g.frames = append(g.frames, e) }

func (g *Global) PopFrame() {
	if len(g.frames) > 0 {
		g.frames = g.frames[:len(g.frames)-1]
	}
}

// MaybeCollect runs a collection of generation gen without checking any
// threshold. Threshold-triggered collection of the newest generation
// happens inside the collector's Track, on allocation; the engine does not
// call MaybeCollect.
func (g *Global) MaybeCollect(gen int) { g.collector.Collect(gen) }

func (g *Global) GCStats() [3]int { return g.collector.Stats() }

// walkRoots enumerates the GC root set named in spec.md §4.5: the
// evaluation stack, all executive contexts reachable from root, the global
// bindings, and host registrations.
func (g *Global) walkRoots(visit func(*variable.Variable)) {
	for _, ref := range g.stack {
		visitVariableRef(ref, visit)
	}
	walkExecutive(g.root, visit)
	for _, frame := range g.frames {
		walkExecutive(frame, visit)
	}
	for _, ref := range g.stdlib {
		visitVariableRef(ref, visit)
	}
}

// visitVariableRef marks the backing *variable.Variable a reference
// addresses directly (if any) as reachable, then walks the values nested
// inside it (e.g. a closure's captured variables) for the same reason.
func visitVariableRef(ref reference.Reference, visit func(*variable.Variable)) {
	v, ok := ref.Variable()
	if !ok {
		return
	}
	visit(v)
	val, err := ref.Read()
	if err != nil {
		return
	}
	val.CollectVariables(func(vr value.VariableRef) {
		if nested, ok := vr.(*variable.Variable); ok {
			visit(nested)
		}
	})
}

func walkExecutive(e *Executive, visit func(*variable.Variable)) {
	if e == nil {
		return
	}
	for _, ref := range e.Names() {
		visitVariableRef(ref, visit)
	}
}

// AddObserver registers an execution observer for diagnostics.
func (g *Global) AddObserver(o ExecutionObserver) { g.observers = append(g.observers, o) }

// Notify fans an execution event out to every registered observer.
func (g *Global) Notify(kind EventKind, detail string) {
	for _, o := range g.observers {
		o.Observe(kind, detail)
	}
}
