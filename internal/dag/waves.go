package dag

// Wave is a set of items that can run in parallel because every prerequisite
// was placed in an earlier wave.
type Wave struct {
	Number  int      // 1-based wave number
	ItemIDs []string // ordered by out-degree desc, then label
}

// WavePlan is an ordered sequence of disjoint waves covering every item.
type WavePlan struct {
	Waves []Wave
}

// Order flattens the plan into a single sequence, wave by wave.
func (p WavePlan) Order() []string {
	var out []string
	for _, w := range p.Waves {
		out = append(out, w.ItemIDs...)
	}
	return out
}

// WaveOf returns the 1-based wave number of each item.
func (p WavePlan) WaveOf() map[string]int {
	out := make(map[string]int)
	for _, w := range p.Waves {
		for _, id := range w.ItemIDs {
			out[id] = w.Number
		}
	}
	return out
}

// ComputeWaves groups items into waves with Kahn's algorithm. The first wave
// holds every item with no prerequisites; each following wave holds the
// items whose last prerequisite was placed in the wave before it. Within a
// wave, items that unblock more work come first, ties broken by label.
//
// If the graph has a cycle, ComputeWaves returns a *StuckError (wrapping
// ErrCycle) listing the items that could never be placed. It does not try to
// find the cycle itself; see DetectCycle.
func ComputeWaves(g *Graph) (WavePlan, error) {
	r := newRun(g)
	frontier := g.prioritySorted(r.initialReady())

	var plan WavePlan
	for len(frontier) > 0 {
		plan.Waves = append(plan.Waves, Wave{
			Number:  len(plan.Waves) + 1,
			ItemIDs: frontier,
		})
		var next []string
		for _, id := range frontier {
			next = append(next, r.emit(id)...)
		}
		frontier = g.prioritySorted(next)
	}

	if err := r.result(); err != nil {
		return WavePlan{}, err
	}
	return plan, nil
}
