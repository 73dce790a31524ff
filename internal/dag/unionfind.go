package dag

// unionFind partitions item ids into disjoint sets with path compression
// and union by size.
type unionFind struct {
	parent map[string]string
	size   map[string]int
}

func newUnionFind(ids []string) *unionFind {
	uf := &unionFind{
		parent: make(map[string]string, len(ids)),
		size:   make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
		uf.size[id] = 1
	}
	return uf
}

// find returns the representative of id's set. Unknown ids are their own
// representative.
func (uf *unionFind) find(id string) string {
	p, ok := uf.parent[id]
	if !ok {
		return id
	}
	if p != id {
		uf.parent[id] = uf.find(p)
	}
	return uf.parent[id]
}

// union merges the sets of a and b, attaching the smaller under the larger.
func (uf *unionFind) union(a, b string) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
