package dag

import "sort"

// Ancestors returns every item that must happen before id, directly or
// transitively, sorted by id. Returns ErrNodeNotFound for an unknown id.
// Cycles are tolerated: each item is visited once.
func Ancestors(g *Graph, id string) ([]string, error) {
	if err := g.mustHave(id); err != nil {
		return nil, err
	}
	return collect(id, g.reverse), nil
}

// Descendants returns every item that id unblocks, directly or
// transitively, sorted by id. Returns ErrNodeNotFound for an unknown id.
func Descendants(g *Graph, id string) ([]string, error) {
	if err := g.mustHave(id); err != nil {
		return nil, err
	}
	return collect(id, g.adjacency), nil
}

// collect walks next breadth-first from id and returns everything reached,
// excluding id itself.
func collect(id string, next map[string][]string) []string {
	visited := map[string]bool{id: true}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next[cur] {
			if visited[n] {
				continue
			}
			visited[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	sort.Strings(out)
	return out
}

// CriticalPath returns the longest chain of items through the graph, in
// order. Among chains of equal length the one ending at the item placed
// earliest by ComputeLinearPlan wins. Returns the scheduler's *StuckError
// if the graph has a cycle.
func CriticalPath(g *Graph) ([]string, error) {
	plan, err := ComputeLinearPlan(g)
	if err != nil {
		return nil, err
	}
	if len(plan.Order) == 0 {
		return nil, nil
	}

	dist := make(map[string]int, len(plan.Order))
	prev := make(map[string]string, len(plan.Order))
	for _, id := range plan.Order {
		if _, ok := dist[id]; !ok {
			dist[id] = 1
		}
		for _, next := range g.adjacency[id] {
			if dist[id]+1 > dist[next] {
				dist[next] = dist[id] + 1
				prev[next] = id
			}
		}
	}

	end := plan.Order[0]
	for _, id := range plan.Order {
		if dist[id] > dist[end] {
			end = id
		}
	}

	var path []string
	for cur, ok := end, true; ok; cur, ok = prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
