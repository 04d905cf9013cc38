package variable

import (
	"testing"

	"asteria/value"
)

func TestTrackAddsToNewestGeneration(t *testing.T) {
	c := NewCollector([3]int{0, 0, 0}, func(visit func(*Variable)) {})
	v := c.Track(New())
	if v.generation != GenNewest {
		t.Errorf("generation = %d, want %d", v.generation, GenNewest)
	}
	stats := c.Stats()
	if stats[GenNewest] != 1 {
		t.Errorf("Stats()[GenNewest] = %d, want 1", stats[GenNewest])
	}
}

func TestCollectReclaimsUnreachableVariables(t *testing.T) {
	var root *Variable
	c := NewCollector([3]int{0, 0, 0}, func(visit func(*Variable)) {
		if root != nil {
			visit(root)
		}
	})

	root = c.Track(New())
	root.Initialize(value.FromInt(1), false)
	garbage := c.Track(New())
	garbage.Initialize(value.FromInt(2), false)

	c.Collect(GenNewest)

	stats := c.Stats()
	if stats[GenMiddle] != 1 {
		t.Errorf("Stats()[GenMiddle] = %d, want 1 (only root survives)", stats[GenMiddle])
	}
	if stats[GenNewest] != 0 {
		t.Errorf("Stats()[GenNewest] = %d, want 0", stats[GenNewest])
	}
}

func TestCollectPromotesSurvivorsAGeneration(t *testing.T) {
	var root *Variable
	c := NewCollector([3]int{0, 0, 0}, func(visit func(*Variable)) {
		if root != nil {
			visit(root)
		}
	})
	root = c.Track(New())

	c.Collect(GenNewest)
	if root.generation != GenMiddle {
		t.Errorf("generation after one collection = %d, want %d", root.generation, GenMiddle)
	}

	c.Collect(GenMiddle)
	if root.generation != GenOldest {
		t.Errorf("generation after two collections = %d, want %d", root.generation, GenOldest)
	}

	// A variable already in the oldest generation stays there.
	c.Collect(GenOldest)
	if root.generation != GenOldest {
		t.Errorf("generation after a third collection = %d, want %d (clamped)", root.generation, GenOldest)
	}
}

func TestCollectKeepsRootHoldingContainerValue(t *testing.T) {
	var rootVar *Variable
	c := NewCollector([3]int{0, 0, 0}, func(visit func(*Variable)) {
		if rootVar != nil {
			visit(rootVar)
		}
	})

	inner := c.Track(New())
	inner.Initialize(value.FromInt(42), false)

	arr := value.NewArray()
	// The array stores the inner variable's value directly (not a reference),
	// so reachability here is exercised through an opaque holder instead:
	// wrap inner inside an object-valued outer variable via a host-style
	// VariableRef chain is beyond this package's scope, so instead verify
	// that a variable holding a plain array value survives collection on its
	// own reachability, independent of the array's contents.
	rootVar = c.Track(New())
	rootVar.Initialize(value.FromArray(arr), false)

	c.Collect(GenNewest)

	stats := c.Stats()
	if stats[GenMiddle] != 1 {
		t.Errorf("Stats()[GenMiddle] = %d, want 1", stats[GenMiddle])
	}
	// inner was never reachable from rootVar and is not itself a root, so it
	// must not survive.
	_ = inner
}

func TestTrackTriggersCollectionAtThreshold(t *testing.T) {
	var root *Variable
	c := NewCollector([3]int{2, 0, 0}, func(visit func(*Variable)) {
		if root != nil {
			visit(root)
		}
	})
	root = c.Track(New())
	c.Track(New()) // crosses the threshold of 2, triggering an automatic collect

	stats := c.Stats()
	if stats[GenNewest] != 0 {
		t.Errorf("Stats()[GenNewest] = %d, want 0 after automatic collection", stats[GenNewest])
	}
	if stats[GenMiddle] != 1 {
		t.Errorf("Stats()[GenMiddle] = %d, want 1 (only root survives)", stats[GenMiddle])
	}
}
