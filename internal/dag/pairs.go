package dag

// Pair is one unordered combination of two distinct items. A and B keep the
// orientation in which the pair was enumerated (A earlier in item order), so
// answers like "A before B" can be expressed relative to it. Identity is
// order-independent; see Key.
type Pair struct {
	A string
	B string
}

// PairKey is the canonical identity of a pair: the two ids sorted.
type PairKey struct {
	Lo string
	Hi string
}

// KeyOf returns the canonical key for the unordered pair {a, b}.
func KeyOf(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Key returns the pair's canonical, order-independent identity.
func (p Pair) Key() PairKey {
	return KeyOf(p.A, p.B)
}

// Has reports whether id is one of the pair's two items.
func (p Pair) Has(id string) bool {
	return p.A == id || p.B == id
}

// Pairs returns every unordered pair of ids exactly once, ordered by
// ascending (i, j) with i < j over the input order. Indices are therefore
// stable across calls for a fixed item order. Ids must be distinct.
func Pairs(ids []string) []Pair {
	n := len(ids)
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: ids[i], B: ids[j]})
		}
	}
	return pairs
}

// ItemIDs returns the ids of items in order.
func ItemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// PairIndex maps each pair's canonical key to its position in pairs.
func PairIndex(pairs []Pair) map[PairKey]int {
	idx := make(map[PairKey]int, len(pairs))
	for i, p := range pairs {
		idx[p.Key()] = i
	}
	return idx
}
