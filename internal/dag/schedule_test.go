package dag

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// randomDAG builds an acyclic graph by only adding edges from lower to
// higher positions in a shuffled order.
func randomDAG(t *testing.T, seed int64, n int, density float64) *Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%02d", i)
	}
	perm := rng.Perm(n)
	var es []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				es = append(es, Edge{From: ids[perm[i]], To: ids[perm[j]]})
			}
		}
	}
	its := make([]Item, n)
	for i, id := range ids {
		its[i] = Item{ID: id, Label: fmt.Sprintf("task %d", rng.Intn(4))}
	}
	return Build(its, es)
}

func TestComputeWaves_DiamondTail(t *testing.T) {
	t.Parallel()
	plan, err := ComputeWaves(diamondTail(t))
	if err != nil {
		t.Fatalf("ComputeWaves: %v", err)
	}
	want := WavePlan{Waves: []Wave{
		{Number: 1, ItemIDs: []string{"A"}},
		{Number: 2, ItemIDs: []string{"B", "C"}},
		{Number: 3, ItemIDs: []string{"D"}},
		{Number: 4, ItemIDs: []string{"E"}},
	}}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("ComputeWaves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E"}, plan.Order()); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLinearPlan_DiamondTail(t *testing.T) {
	t.Parallel()
	plan, err := ComputeLinearPlan(diamondTail(t))
	if err != nil {
		t.Fatalf("ComputeLinearPlan: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E"}, plan.Order); diff != "" {
		t.Errorf("ComputeLinearPlan mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeWaves_OutDegreeBeforeLabel(t *testing.T) {
	t.Parallel()
	// Z unblocks two items, A unblocks none: Z leads wave 1 despite its label.
	g := Build(items("A", "Z", "X", "Y"), []Edge{{From: "Z", To: "X"}, {From: "Z", To: "Y"}})
	plan, err := ComputeWaves(g)
	if err != nil {
		t.Fatalf("ComputeWaves: %v", err)
	}
	if diff := cmp.Diff([]string{"Z", "A"}, plan.Waves[0].ItemIDs); diff != "" {
		t.Errorf("wave 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLinearPlan_GreedyAcrossWaves(t *testing.T) {
	t.Parallel()
	// After A, the freed item M (out-degree 2) outranks the already-ready B
	// (out-degree 0), which a wave scheduler would have placed earlier.
	g := Build(items("A", "B", "M", "X", "Y"),
		[]Edge{{From: "A", To: "M"}, {From: "M", To: "X"}, {From: "M", To: "Y"}})
	plan, err := ComputeLinearPlan(g)
	if err != nil {
		t.Fatalf("ComputeLinearPlan: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "M", "B", "X", "Y"}, plan.Order); diff != "" {
		t.Errorf("ComputeLinearPlan mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulers_TieBreakByLabelThenID(t *testing.T) {
	t.Parallel()
	g := Build([]Item{
		{ID: "3", Label: "same"},
		{ID: "1", Label: "same"},
		{ID: "2", Label: "alpha"},
	}, nil)

	waves, err := ComputeWaves(g)
	if err != nil {
		t.Fatalf("ComputeWaves: %v", err)
	}
	want := []string{"2", "1", "3"}
	if diff := cmp.Diff(want, waves.Waves[0].ItemIDs); diff != "" {
		t.Errorf("wave tie-break mismatch (-want +got):\n%s", diff)
	}

	linear, err := ComputeLinearPlan(g)
	if err != nil {
		t.Fatalf("ComputeLinearPlan: %v", err)
	}
	if diff := cmp.Diff(want, linear.Order); diff != "" {
		t.Errorf("linear tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulers_Empty(t *testing.T) {
	t.Parallel()
	g := Build(nil, nil)
	waves, err := ComputeWaves(g)
	if err != nil || len(waves.Waves) != 0 {
		t.Errorf("ComputeWaves(empty) = (%v, %v), want no waves", waves, err)
	}
	linear, err := ComputeLinearPlan(g)
	if err != nil || len(linear.Order) != 0 {
		t.Errorf("ComputeLinearPlan(empty) = (%v, %v), want empty order", linear, err)
	}
}

func TestSchedulers_CycleFailure(t *testing.T) {
	t.Parallel()
	g := threeCycle(t)
	want := []string{"A", "B", "C"}

	_, err := ComputeWaves(g)
	var stuck *StuckError
	if !errors.As(err, &stuck) {
		t.Fatalf("ComputeWaves error = %v, want *StuckError", err)
	}
	if !errors.Is(err, ErrCycle) {
		t.Errorf("ComputeWaves error does not wrap ErrCycle")
	}
	if diff := cmp.Diff(want, stuck.Stuck); diff != "" {
		t.Errorf("waves stuck mismatch (-want +got):\n%s", diff)
	}

	_, err = ComputeLinearPlan(g)
	if !errors.As(err, &stuck) {
		t.Fatalf("ComputeLinearPlan error = %v, want *StuckError", err)
	}
	if diff := cmp.Diff(want, stuck.Stuck); diff != "" {
		t.Errorf("linear stuck mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulers_StuckIncludesDownstreamOfCycle(t *testing.T) {
	t.Parallel()
	// D waits on the A/B cycle, so its in-degree never reaches zero either.
	g := Build(items("A", "B", "D", "E"), []Edge{
		{From: "A", To: "B"}, {From: "B", To: "A"}, {From: "B", To: "D"},
	})
	_, err := ComputeWaves(g)
	var stuck *StuckError
	if !errors.As(err, &stuck) {
		t.Fatalf("error = %v, want *StuckError", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "D"}, stuck.Stuck); diff != "" {
		t.Errorf("stuck mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulers_RespectEdgesOnRandomDAGs(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 40; seed++ {
		g := randomDAG(t, seed, 10, 0.3)

		waves, err := ComputeWaves(g)
		if err != nil {
			t.Fatalf("seed %d: ComputeWaves: %v", seed, err)
		}
		waveOf := waves.WaveOf()
		if len(waveOf) != g.Len() {
			t.Fatalf("seed %d: waves cover %d of %d items", seed, len(waveOf), g.Len())
		}

		linear, err := ComputeLinearPlan(g)
		if err != nil {
			t.Fatalf("seed %d: ComputeLinearPlan: %v", seed, err)
		}
		pos := linear.Position()
		if len(pos) != g.Len() {
			t.Fatalf("seed %d: linear plan covers %d of %d items", seed, len(pos), g.Len())
		}

		for _, e := range g.Edges() {
			if waveOf[e.From] >= waveOf[e.To] {
				t.Errorf("seed %d: edge %v violates waves (%d >= %d)", seed, e, waveOf[e.From], waveOf[e.To])
			}
			if pos[e.From] >= pos[e.To] {
				t.Errorf("seed %d: edge %v violates linear order", seed, e)
			}
		}
	}
}

func TestSchedulers_Deterministic(t *testing.T) {
	t.Parallel()
	for seed := int64(100); seed < 110; seed++ {
		g := randomDAG(t, seed, 9, 0.25)
		w1, _ := ComputeWaves(g)
		w2, _ := ComputeWaves(g)
		if diff := cmp.Diff(w1, w2); diff != "" {
			t.Errorf("seed %d: waves differ between runs:\n%s", seed, diff)
		}
		l1, _ := ComputeLinearPlan(g)
		l2, _ := ComputeLinearPlan(g)
		if diff := cmp.Diff(l1, l2); diff != "" {
			t.Errorf("seed %d: linear plans differ between runs:\n%s", seed, diff)
		}
	}
}

func TestSchedulers_StuckSetMatchesResidualInDegree(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 30; seed++ {
		g := randomDAG(t, seed, 8, 0.3)
		es := g.Edges()
		if len(es) == 0 {
			continue
		}
		// The reverse of an existing edge always closes a loop.
		back := Edge{From: es[0].To, To: es[0].From}
		g2 := Build(itemsOf(g), append(es, back))

		_, err := ComputeWaves(g2)
		var stuck *StuckError
		if !errors.As(err, &stuck) {
			t.Fatalf("seed %d: error = %v, want *StuckError", seed, err)
		}
		if len(stuck.Stuck) == 0 {
			t.Fatalf("seed %d: empty stuck set", seed)
		}

		// Recompute residual in-degree independently.
		residual := g2.InDegrees()
		placed := make(map[string]bool)
		for changed := true; changed; {
			changed = false
			for _, id := range g2.IDs() {
				if placed[id] || residual[id] != 0 {
					continue
				}
				placed[id] = true
				changed = true
				for _, next := range g2.Targets(id) {
					residual[next]--
				}
			}
		}
		var want []string
		for _, id := range g2.IDs() {
			if residual[id] > 0 {
				want = append(want, id)
			}
		}
		if diff := cmp.Diff(want, stuck.Stuck); diff != "" {
			t.Errorf("seed %d: stuck mismatch (-want +got):\n%s", seed, diff)
		}
	}
}

func itemsOf(g *Graph) []Item {
	out := make([]Item, 0, g.Len())
	for _, id := range g.IDs() {
		out = append(out, Item{ID: id, Label: g.Label(id)})
	}
	return out
}

func TestStuckError_Message(t *testing.T) {
	t.Parallel()
	err := &StuckError{Stuck: []string{"a", "b"}}
	want := "cycle detected: 2 item(s) could not be scheduled: a, b"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
