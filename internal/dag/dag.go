// Package dag provides the dependency-graph engine behind pairwise task
// planning. It enumerates the precedence questions for a set of items,
// tracks the answers, derives a directed graph from them, detects and
// explains cycles, and schedules the items into parallel waves or a single
// priority-ordered sequence.
//
// Every function in this package is pure: inputs are never mutated and
// results are rebuilt on each call.
package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent item.
var ErrNodeNotFound = errors.New("item not found")

// Item is a task to be scheduled. IDs are opaque and supplied by the caller;
// this package never generates them.
type Item struct {
	ID          string
	Label       string
	Description string
}

// Edge is a directed "From must precede To" relationship.
type Edge struct {
	From string
	To   string
}

// String returns "from → to".
func (e Edge) String() string {
	return e.From + " → " + e.To
}

// Graph is the directed graph derived from a set of items and edges.
// Adjacency lists keep insertion order. Every item appears in the adjacency,
// in-degree and out-degree maps, even at zero degree.
type Graph struct {
	ids    []string
	labels map[string]string

	// adjacency maps itemID → targets it must precede (forward edges).
	adjacency map[string][]string
	// reverse maps itemID → sources that must precede it (backward edges).
	reverse map[string][]string

	inDegree  map[string]int
	outDegree map[string]int

	edges   []Edge
	seen    map[Edge]bool
	skipped []Edge
}

// Build derives a graph from items and edges. Edges that reference an id
// outside the item set, or that point from an item to itself, are skipped
// and reported by Skipped rather than treated as fatal. Duplicate edges are
// collapsed.
func Build(items []Item, edges []Edge) *Graph {
	g := &Graph{
		ids:       make([]string, 0, len(items)),
		labels:    make(map[string]string, len(items)),
		adjacency: make(map[string][]string, len(items)),
		reverse:   make(map[string][]string, len(items)),
		inDegree:  make(map[string]int, len(items)),
		outDegree: make(map[string]int, len(items)),
		seen:      make(map[Edge]bool, len(edges)),
	}
	for _, it := range items {
		if _, dup := g.labels[it.ID]; dup {
			continue
		}
		g.ids = append(g.ids, it.ID)
		label := it.Label
		if label == "" {
			label = it.ID
		}
		g.labels[it.ID] = label
		g.adjacency[it.ID] = nil
		g.reverse[it.ID] = nil
		g.inDegree[it.ID] = 0
		g.outDegree[it.ID] = 0
	}
	for _, e := range edges {
		g.addEdge(e)
	}
	return g
}

func (g *Graph) addEdge(e Edge) {
	_, okFrom := g.labels[e.From]
	_, okTo := g.labels[e.To]
	if !okFrom || !okTo || e.From == e.To {
		g.skipped = append(g.skipped, e)
		return
	}
	if g.seen[e] {
		return
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
	g.adjacency[e.From] = append(g.adjacency[e.From], e.To)
	g.reverse[e.To] = append(g.reverse[e.To], e.From)
	g.outDegree[e.From]++
	g.inDegree[e.To]++
}

// IDs returns the item ids in input order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Len returns the number of items in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Has reports whether id is an item of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.labels[id]
	return ok
}

// Label returns the item's label, falling back to its id when the label is
// empty. Unknown ids return "".
func (g *Graph) Label(id string) string {
	return g.labels[id]
}

// Targets returns the items that id must precede, in insertion order.
func (g *Graph) Targets(id string) []string {
	return append([]string(nil), g.adjacency[id]...)
}

// Sources returns the items that must precede id, in insertion order.
func (g *Graph) Sources(id string) []string {
	return append([]string(nil), g.reverse[id]...)
}

// InDegree returns the number of edges pointing at id.
func (g *Graph) InDegree(id string) int {
	return g.inDegree[id]
}

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int {
	return g.outDegree[id]
}

// Edges returns the accepted edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// HasEdge reports whether the edge from → to is present.
func (g *Graph) HasEdge(from, to string) bool {
	return g.seen[Edge{From: from, To: to}]
}

// Skipped returns the edges that were ignored because they referenced an
// unknown item or formed a self-loop.
func (g *Graph) Skipped() []Edge {
	return append([]Edge(nil), g.skipped...)
}

// Adjacency returns a copy of the source → targets map.
func (g *Graph) Adjacency() map[string][]string {
	out := make(map[string][]string, len(g.adjacency))
	for id, targets := range g.adjacency {
		out[id] = append([]string(nil), targets...)
	}
	return out
}

// InDegrees returns a copy of the in-degree map.
func (g *Graph) InDegrees() map[string]int {
	return copyDegrees(g.inDegree)
}

// OutDegrees returns a copy of the out-degree map.
func (g *Graph) OutDegrees() map[string]int {
	return copyDegrees(g.outDegree)
}

func copyDegrees(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// mustHave returns ErrNodeNotFound when id is not an item of the graph.
func (g *Graph) mustHave(id string) error {
	if !g.Has(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return nil
}
