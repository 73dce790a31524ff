package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidResolution is returned when a resolution name cannot be parsed.
var ErrInvalidResolution = errors.New("invalid resolution")

// Resolution is the state of one pair's precedence question, relative to the
// pair's (A, B) orientation.
type Resolution int

const (
	Unresolved Resolution = iota // no answer yet
	Forward                      // A before B
	Backward                     // B before A
	NoRelation                   // independent; neither precedes the other
)

var resolutionNames = map[Resolution]string{
	Unresolved: "unresolved",
	Forward:    "before",
	Backward:   "after",
	NoRelation: "none",
}

// String returns the CLI name of the resolution.
func (r Resolution) String() string {
	if s, ok := resolutionNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Resolved reports whether r is an answer rather than Unresolved.
func (r Resolution) Resolved() bool {
	return r == Forward || r == Backward || r == NoRelation
}

// ParseResolution accepts before/forward, after/backward, none/independent
// and clear/unresolved (case-insensitive).
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before", "forward":
		return Forward, nil
	case "after", "backward":
		return Backward, nil
	case "none", "independent":
		return NoRelation, nil
	case "clear", "unresolved":
		return Unresolved, nil
	}
	return Unresolved, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
}

// Decision is the accepted answer for one pair: either a directed
// Before → After edge, or the none-marker.
type Decision struct {
	Before string
	After  string
	None   bool
}

// Edge returns the directed edge produced by the decision. ok is false for
// the none-marker.
func (d Decision) Edge() (Edge, bool) {
	if d.None || d.Before == "" || d.After == "" {
		return Edge{}, false
	}
	return Edge{From: d.Before, To: d.After}, true
}

// Decisions indexes accepted answers by canonical pair identity, so a pair
// holds at most one decision regardless of the order its items were asked
// in. Methods never mutate the receiver; transitions return a new map.
type Decisions map[PairKey]Decision

// Clone returns an independent copy.
func (ds Decisions) Clone() Decisions {
	out := make(Decisions, len(ds))
	for k, v := range ds {
		out[k] = v
	}
	return out
}

// Resolve returns the resolution of p relative to its (A, B) orientation.
// A none-marker resolves to NoRelation whichever way the pair is oriented.
func (ds Decisions) Resolve(p Pair) Resolution {
	d, ok := ds[p.Key()]
	if !ok {
		return Unresolved
	}
	if d.None {
		return NoRelation
	}
	switch {
	case d.Before == p.A && d.After == p.B:
		return Forward
	case d.Before == p.B && d.After == p.A:
		return Backward
	}
	return Unresolved
}

// Set returns a copy of ds in which p is resolved to r. Any prior
// resolution of the same pair, in either direction or as a none-marker, is
// removed first. Setting Unresolved clears the pair.
func (ds Decisions) Set(p Pair, r Resolution) Decisions {
	out := ds.Clone()
	delete(out, p.Key())
	switch r {
	case Forward:
		out[p.Key()] = Decision{Before: p.A, After: p.B}
	case Backward:
		out[p.Key()] = Decision{Before: p.B, After: p.A}
	case NoRelation:
		out[p.Key()] = Decision{None: true}
	}
	return out
}

// Resolutions returns the resolution of every pair, index-aligned with pairs.
func (ds Decisions) Resolutions(pairs []Pair) []Resolution {
	out := make([]Resolution, len(pairs))
	for i, p := range pairs {
		out[i] = ds.Resolve(p)
	}
	return out
}

// ResolvedCount returns how many of pairs have an answer.
func (ds Decisions) ResolvedCount(pairs []Pair) int {
	n := 0
	for _, p := range pairs {
		if ds.Resolve(p).Resolved() {
			n++
		}
	}
	return n
}

// FirstUnresolved returns the index of the first unresolved pair at or after
// index k. ok is false when every pair from k onward is resolved.
func (ds Decisions) FirstUnresolved(pairs []Pair, k int) (int, bool) {
	if k < 0 {
		k = 0
	}
	for i := k; i < len(pairs); i++ {
		if !ds.Resolve(pairs[i]).Resolved() {
			return i, true
		}
	}
	return 0, false
}

// Edges returns the directed edges produced by the decisions on pairs, in
// pair order. None-markers and unresolved pairs contribute nothing, and
// decisions on pairs outside the list are ignored.
func (ds Decisions) Edges(pairs []Pair) []Edge {
	var edges []Edge
	for _, p := range pairs {
		switch ds.Resolve(p) {
		case Forward:
			edges = append(edges, Edge{From: p.A, To: p.B})
		case Backward:
			edges = append(edges, Edge{From: p.B, To: p.A})
		}
	}
	return edges
}

// Without returns a copy of ds with every decision that references id
// removed.
func (ds Decisions) Without(id string) Decisions {
	out := make(Decisions, len(ds))
	for k, v := range ds {
		if k.Lo == id || k.Hi == id {
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the decided pair keys sorted by (Lo, Hi).
func (ds Decisions) Keys() []PairKey {
	keys := make([]PairKey, 0, len(ds))
	for k := range ds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Lo != keys[j].Lo {
			return keys[i].Lo < keys[j].Lo
		}
		return keys[i].Hi < keys[j].Hi
	})
	return keys
}

// RemoveItem drops the item with the given id and every decision that
// references it. Inputs are not modified. Removing an unknown id returns
// ErrNodeNotFound.
func RemoveItem(items []Item, ds Decisions, id string) ([]Item, Decisions, error) {
	out := make([]Item, 0, len(items))
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return out, ds.Without(id), nil
}
