package variable

import "asteria/value"

// Generation indices, matching spec.md §4.5's three-generation model.
const (
	GenNewest = 0
	GenMiddle = 1
	GenOldest = 2
	numGens   = 3
)

// Collector is a generational, non-moving, cycle-tolerant garbage
// collector. Track runs a collection of the newest generation once its
// allocation counter reaches that generation's threshold, and Collect can
// also be called directly; the thresholds of the older generations are not
// checked anywhere. The collector never reclaims synchronously on refcount-to-zero, matching
// spec.md §4.5 ("deletion of a variable's last strong reference is merely a
// hint").
type Collector struct {
	thresholds [numGens]int
	allocated  [numGens]int
	tracked    [numGens]map[*Variable]struct{}

	// roots is invoked before every collection to enumerate the current
	// root set: the evaluation stack, executive contexts, global bindings,
	// and host registrations (spec.md §4.5).
	roots func(visit func(*Variable))
}

// NewCollector builds a collector with the given per-generation allocation
// thresholds before a collection of that generation is triggered.
func NewCollector(thresholds [3]int, roots func(visit func(*Variable))) *Collector {
	c := &Collector{thresholds: thresholds, roots: roots}
	for g := range c.tracked {
		c.tracked[g] = make(map[*Variable]struct{})
	}
	return c
}

// Track registers a newly allocated variable in the newest generation and
// returns it, incrementing that generation's allocation counter. Collect is
// invoked automatically when the threshold is crossed.
func (c *Collector) Track(v *Variable) *Variable {
	v.generation = GenNewest
	c.tracked[GenNewest][v] = struct{}{}
	c.allocated[GenNewest]++
	if c.thresholds[GenNewest] > 0 && c.allocated[GenNewest] >= c.thresholds[GenNewest] {
		c.Collect(GenNewest)
	}
	return v
}

// Collect runs a collection cycle for generation g: it scans roots, traces
// reachable variables in generations <= g using two hash maps (staged and
// temporary, per spec.md §4.5's tracing description) to avoid
// re-visitation, then drops everything in generations <= g that was not
// reached and promotes each survivor one generation (a survivor already in
// the oldest generation stays there).
func (c *Collector) Collect(g int) {
	staged := make(map[*Variable]struct{})
	temp := make(map[*Variable]struct{})

	var trace func(v *Variable)
	trace = func(v *Variable) {
		if v == nil {
			return
		}
		if _, seen := staged[v]; seen {
			return
		}
		if v.generation > g {
			// Older generations are assumed already live; still record them
			// in temp so cross-generation edges don't get re-walked.
			if _, seen := temp[v]; seen {
				return
			}
			temp[v] = struct{}{}
			return
		}
		staged[v] = struct{}{}
		v.CollectInner(func(ref value.VariableRef) {
			if inner, ok := ref.(*Variable); ok {
				trace(inner)
			}
		})
	}

	if c.roots != nil {
		c.roots(trace)
	}

	for gen := 0; gen <= g; gen++ {
		for v := range c.tracked[gen] {
			if _, live := staged[v]; !live {
				delete(c.tracked[gen], v)
				continue
			}
			delete(c.tracked[gen], v)
			target := gen + 1
			if target >= numGens {
				target = numGens - 1
			}
			v.generation = target
			c.tracked[target][v] = struct{}{}
		}
	}
	c.allocated[g] = 0
}

// Stats reports the live-variable count per generation, exposed for tests
// and the CLI's diagnostic hooks (spec.md §4.6).
func (c *Collector) Stats() [3]int {
	var out [3]int
	for g := 0; g < numGens; g++ {
		out[g] = len(c.tracked[g])
	}
	return out
}
