package dag

import "sort"

// nodeState tracks an item through a scheduling run.
type nodeState int

const (
	stateUnprocessed nodeState = iota // waiting on at least one prerequisite
	stateReady                        // in-degree reached zero
	stateEmitted                      // placed in the plan; terminal
)

// run is the bookkeeping shared by the wave and linear schedulers: a
// residual in-degree per item and its state. It never touches the Graph's
// own maps.
type run struct {
	g        *Graph
	inDegree map[string]int
	state    map[string]nodeState
	emitted  int
}

func newRun(g *Graph) *run {
	r := &run{
		g:        g,
		inDegree: g.InDegrees(),
		state:    make(map[string]nodeState, len(g.ids)),
	}
	for _, id := range g.ids {
		r.state[id] = stateUnprocessed
	}
	return r
}

// initialReady returns the items with in-degree zero, in item order, and
// marks them ready.
func (r *run) initialReady() []string {
	var ready []string
	for _, id := range r.g.ids {
		if r.inDegree[id] == 0 {
			r.state[id] = stateReady
			ready = append(ready, id)
		}
	}
	return ready
}

// emit marks id as placed and returns the targets that became ready.
func (r *run) emit(id string) []string {
	r.state[id] = stateEmitted
	r.emitted++
	var freed []string
	for _, next := range r.g.adjacency[id] {
		r.inDegree[next]--
		if r.inDegree[next] == 0 && r.state[next] == stateUnprocessed {
			r.state[next] = stateReady
			freed = append(freed, next)
		}
	}
	return freed
}

// result returns a StuckError when not every item was emitted.
func (r *run) result() error {
	if r.emitted == len(r.g.ids) {
		return nil
	}
	return stuckError(r.g, r.inDegree)
}

// less orders items by out-degree descending, then label ascending, with the
// id as a final tiebreaker so equal labels still sort reproducibly.
func (g *Graph) less(a, b string) bool {
	if da, db := g.outDegree[a], g.outDegree[b]; da != db {
		return da > db
	}
	if la, lb := g.labels[a], g.labels[b]; la != lb {
		return la < lb
	}
	return a < b
}

// prioritySorted sorts ids in place by Graph.less and returns them.
func (g *Graph) prioritySorted(ids []string) []string {
	sort.SliceStable(ids, func(i, j int) bool {
		return g.less(ids[i], ids[j])
	})
	return ids
}
