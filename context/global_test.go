package context

import (
	"testing"

	"asteria/reference"
	"asteria/value"
)

// TestRootBoundVariableSurvivesCollection exercises the fix to
// visitVariableRef: a variable bound directly into the root executive
// context (holding a plain value, not itself containing nested variable
// references) must be traced as a GC root and survive a collection, not
// just variables reachable indirectly through its value.
func TestRootBoundVariableSurvivesCollection(t *testing.T) {
	g := NewGlobal()

	bound := g.NewVariable()
	bound.Initialize(value.FromInt(7), false)
	g.Root().Bind("x", reference.FromVariable(bound))

	orphan := g.NewVariable()
	orphan.Initialize(value.FromInt(99), false)

	g.MaybeCollect(0)

	stats := g.GCStats()
	live := stats[0] + stats[1] + stats[2]
	if live != 1 {
		t.Fatalf("GCStats() total live = %d, want 1 (only the root-bound variable)", live)
	}

	ref, ok := g.Root().Lookup("x")
	if !ok {
		t.Fatal("Lookup(\"x\") failed after collection")
	}
	got, err := ref.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.AsInteger() != 7 {
		t.Errorf("x = %v, want 7", got)
	}
	_ = orphan
}
