package dag

import "sort"

// Track is an independent group of items: no edge connects an item in one
// track to an item in another, so tracks can be worked on by different
// people without waiting on each other.
type Track struct {
	// ID is the track's position after sorting, starting at 1.
	ID int

	// ItemIDs lists the track's items in linear-plan order.
	ItemIDs []string
}

// ComputeTracks partitions the graph into its weakly connected components.
// Items inside a track follow the order of ComputeLinearPlan. Tracks are
// sorted largest first, then by their first item's position in the plan.
//
// Returns the scheduler's *StuckError if the graph has a cycle.
func ComputeTracks(g *Graph) ([]Track, error) {
	if g.Len() == 0 {
		return nil, nil
	}
	plan, err := ComputeLinearPlan(g)
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(g.ids)
	for _, e := range g.edges {
		uf.union(e.From, e.To)
	}

	byRoot := make(map[string]int)
	var tracks []Track
	for _, id := range plan.Order {
		root := uf.find(id)
		i, ok := byRoot[root]
		if !ok {
			i = len(tracks)
			byRoot[root] = i
			tracks = append(tracks, Track{})
		}
		tracks[i].ItemIDs = append(tracks[i].ItemIDs, id)
	}

	// Tracks were created in plan order, so a stable sort by size keeps
	// first-appearance order among equal sizes.
	sort.SliceStable(tracks, func(i, j int) bool {
		return len(tracks[i].ItemIDs) > len(tracks[j].ItemIDs)
	})
	for i := range tracks {
		tracks[i].ID = i + 1
	}
	return tracks, nil
}
