package dag

import "sort"

// CycleReport describes one concrete cycle: the items in traversal order and
// the edges joining them end to end. The last edge's target is Items[0].
type CycleReport struct {
	Items []string
	Edges []Edge
}

// Partial reports whether the report could not be closed back to its start
// (a malformed parent chain). Partial reports are best-effort.
func (r *CycleReport) Partial() bool {
	if r == nil || len(r.Edges) == 0 {
		return false
	}
	return r.Edges[len(r.Edges)-1].To != r.Items[0]
}

// DetectCycle runs a depth-first search from each unvisited item in item
// order and returns the first cycle it finds. Neighbors are visited in
// adjacency insertion order, so the result is deterministic but not
// necessarily the shortest cycle. ok is false for an acyclic graph.
//
// Callers that want every cycle re-run DetectCycle after fixing the one
// reported.
func DetectCycle(g *Graph) (*CycleReport, bool) {
	visited := make(map[string]bool, len(g.ids))
	onPath := make(map[string]bool, len(g.ids))
	parent := make(map[string]string, len(g.ids))
	var start, end string
	found := false

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onPath[id] = true
		for _, next := range g.adjacency[id] {
			if !visited[next] {
				parent[next] = id
				if dfs(next) {
					return true
				}
			} else if onPath[next] {
				start, end = next, id
				return true
			}
		}
		onPath[id] = false
		return false
	}

	for _, id := range g.ids {
		if visited[id] {
			continue
		}
		if dfs(id) {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	return reconstructCycle(start, end, parent, len(g.ids)), true
}

// reconstructCycle walks parent pointers from end back to start, bounded by
// limit steps, then reverses the walk. If start is not reached within the
// bound, the partial walk is returned as is.
func reconstructCycle(start, end string, parent map[string]string, limit int) *CycleReport {
	path := []string{end}
	cur := end
	for steps := 0; cur != start && steps < limit; steps++ {
		p, ok := parent[cur]
		if !ok {
			break
		}
		cur = p
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	edges := make([]Edge, len(path))
	for i, id := range path {
		edges[i] = Edge{From: id, To: path[(i+1)%len(path)]}
	}
	if path[0] != start {
		// Could not close the loop; still point the last edge at the start
		// the search detected so callers can name it.
		edges[len(edges)-1].To = start
	}
	return &CycleReport{Items: path, Edges: edges}
}

// CycleToPairs returns the sorted indices of pairs whose decision produced
// one of the report's edges. Since a pair holds at most one decision, each
// edge maps to at most one pair. A nil report yields nil.
func CycleToPairs(report *CycleReport, pairs []Pair) []int {
	if report == nil {
		return nil
	}
	index := PairIndex(pairs)
	seen := make(map[int]bool, len(report.Edges))
	var out []int
	for _, e := range report.Edges {
		i, ok := index[KeyOf(e.From, e.To)]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
