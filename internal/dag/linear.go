package dag

// LinearPlan is a single total order of every item.
type LinearPlan struct {
	Order []string
}

// Position returns the 0-based index of each item in the plan.
func (p LinearPlan) Position() map[string]int {
	out := make(map[string]int, len(p.Order))
	for i, id := range p.Order {
		out[id] = i
	}
	return out
}

// ComputeLinearPlan orders items one at a time: among all ready items it
// picks the one with the highest out-degree, ties broken by label, emits it,
// and admits whatever that frees. Greedily unblocking the widest fan-out
// first tends to shorten the effective critical path; it is a heuristic, not
// an optimal schedule.
//
// Failure semantics match ComputeWaves.
func ComputeLinearPlan(g *Graph) (LinearPlan, error) {
	r := newRun(g)
	ready := r.initialReady()

	order := make([]string, 0, len(g.ids))
	for len(ready) > 0 {
		best := 0
		for i := 1; i < len(ready); i++ {
			if g.less(ready[i], ready[best]) {
				best = i
			}
		}
		id := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, id)
		ready = append(ready, r.emit(id)...)
	}

	if err := r.result(); err != nil {
		return LinearPlan{}, err
	}
	return LinearPlan{Order: order}, nil
}
