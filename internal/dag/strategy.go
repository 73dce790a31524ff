package dag

import (
	"fmt"
	"strings"
)

// ReportStrategy renders one view of a graph as Markdown. Each
// implementation presents the same underlying decisions differently so
// callers can pick the view that suits them.
type ReportStrategy interface {
	Render(g *Graph) string
}

// Strategies maps report names accepted on the command line to strategies.
var Strategies = map[string]ReportStrategy{
	"waves":    WavePlanStrategy{},
	"linear":   LinearPlanStrategy{},
	"tracks":   TrackStrategy{},
	"critical": CriticalPathStrategy{},
}

// LinearPlanStrategy renders a numbered sequence with each item's direct
// prerequisites, so the output doubles as a step-by-step checklist.
type LinearPlanStrategy struct{}

// Render produces the numbered plan.
func (LinearPlanStrategy) Render(g *Graph) string {
	plan, err := ComputeLinearPlan(g)
	if err != nil {
		return renderFailure(g, err)
	}
	if len(plan.Order) == 0 {
		return "No items in graph."
	}

	var b strings.Builder
	b.WriteString("# Plan\n\n")
	for i, id := range plan.Order {
		fmt.Fprintf(&b, "%d. %s", i+1, g.Label(id))
		if deps := labels(g, g.reverse[id]); len(deps) > 0 {
			fmt.Fprintf(&b, " [after: %s]", strings.Join(deps, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WavePlanStrategy renders the items grouped by wave.
type WavePlanStrategy struct{}

// Render produces a wave-by-wave listing.
func (WavePlanStrategy) Render(g *Graph) string {
	plan, err := ComputeWaves(g)
	if err != nil {
		return renderFailure(g, err)
	}
	if len(plan.Waves) == 0 {
		return "No items in graph."
	}

	var b strings.Builder
	b.WriteString("# Waves\n\n")
	for _, w := range plan.Waves {
		fmt.Fprintf(&b, "## Wave %d (%d item(s))\n", w.Number, len(w.ItemIDs))
		for _, id := range w.ItemIDs {
			fmt.Fprintf(&b, "  - %s\n", g.Label(id))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TrackStrategy renders independent tracks.
type TrackStrategy struct{}

// Render produces a track-by-track listing.
func (TrackStrategy) Render(g *Graph) string {
	tracks, err := ComputeTracks(g)
	if err != nil {
		return renderFailure(g, err)
	}
	if len(tracks) == 0 {
		return "No items in graph."
	}

	var b strings.Builder
	b.WriteString("# Tracks\n\n")
	fmt.Fprintf(&b, "Total tracks: %d\n\n", len(tracks))
	for _, tr := range tracks {
		fmt.Fprintf(&b, "## Track %d (%d item(s))\n", tr.ID, len(tr.ItemIDs))
		for _, id := range tr.ItemIDs {
			fmt.Fprintf(&b, "  - %s\n", g.Label(id))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CriticalPathStrategy renders the longest chain of dependent items: the
// sequence that bounds how short the plan can get no matter how much work
// runs in parallel.
type CriticalPathStrategy struct{}

// Render produces the critical path report.
func (CriticalPathStrategy) Render(g *Graph) string {
	path, err := CriticalPath(g)
	if err != nil {
		return renderFailure(g, err)
	}
	if len(path) == 0 {
		return "No items in graph."
	}

	var b strings.Builder
	b.WriteString("# Critical Path\n\n")
	fmt.Fprintf(&b, "Length: %d of %d item(s)\n\n", len(path), g.Len())
	for i, id := range path {
		arrow := ""
		if i < len(path)-1 {
			arrow = " →"
		}
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, g.Label(id), arrow)
	}
	return b.String()
}

// renderFailure explains a cycle in terms of the items involved.
func renderFailure(g *Graph, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %v\n", err)
	if report, ok := DetectCycle(g); ok {
		b.WriteString("\nCycle:\n")
		for _, e := range report.Edges {
			fmt.Fprintf(&b, "  - %s before %s\n", g.Label(e.From), g.Label(e.To))
		}
	}
	return b.String()
}

func labels(g *Graph, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Label(id)
	}
	return out
}
