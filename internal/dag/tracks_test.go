package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnionFind(t *testing.T) {
	t.Parallel()
	uf := newUnionFind([]string{"a", "b", "c", "d"})

	uf.union("a", "b")
	uf.union("c", "d")
	if uf.find("a") != uf.find("b") {
		t.Error("a and b should share a root after union")
	}
	if uf.find("a") == uf.find("c") {
		t.Error("a and c should not be connected")
	}

	uf.union("b", "d")
	if uf.find("a") != uf.find("c") {
		t.Error("a and c should be connected transitively")
	}
	if got := uf.find("zzz"); got != "zzz" {
		t.Errorf("find(unknown) = %q, want itself", got)
	}
}

func TestComputeTracks(t *testing.T) {
	t.Parallel()
	// Two components: A → B → C and X → Y, plus a lone item L.
	g := Build(items("X", "A", "L", "B", "Y", "C"), []Edge{
		{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "X", To: "Y"},
	})
	tracks, err := ComputeTracks(g)
	if err != nil {
		t.Fatalf("ComputeTracks: %v", err)
	}
	want := []Track{
		{ID: 1, ItemIDs: []string{"A", "B", "C"}},
		{ID: 2, ItemIDs: []string{"X", "Y"}},
		{ID: 3, ItemIDs: []string{"L"}},
	}
	if diff := cmp.Diff(want, tracks); diff != "" {
		t.Errorf("ComputeTracks mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTracks_CoversEveryItemOnce(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 20; seed++ {
		g := randomDAG(t, seed, 10, 0.12)
		tracks, err := ComputeTracks(g)
		if err != nil {
			t.Fatalf("seed %d: ComputeTracks: %v", seed, err)
		}
		trackOf := make(map[string]int)
		for _, tr := range tracks {
			for _, id := range tr.ItemIDs {
				if _, dup := trackOf[id]; dup {
					t.Errorf("seed %d: %s in more than one track", seed, id)
				}
				trackOf[id] = tr.ID
			}
		}
		if len(trackOf) != g.Len() {
			t.Errorf("seed %d: tracks cover %d of %d items", seed, len(trackOf), g.Len())
		}
		for _, e := range g.Edges() {
			if trackOf[e.From] != trackOf[e.To] {
				t.Errorf("seed %d: edge %v crosses tracks", seed, e)
			}
		}
	}
}

func TestComputeTracks_EmptyAndCycle(t *testing.T) {
	t.Parallel()
	tracks, err := ComputeTracks(Build(nil, nil))
	if err != nil || tracks != nil {
		t.Errorf("ComputeTracks(empty) = (%v, %v), want (nil, nil)", tracks, err)
	}
	if _, err := ComputeTracks(threeCycle(t)); !errors.Is(err, ErrCycle) {
		t.Errorf("ComputeTracks(cycle) error = %v, want ErrCycle", err)
	}
}
