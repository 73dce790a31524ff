// Package session holds the state a planning session owns, the goal, the
// items and the answered precedence questions, and expresses every change
// to it as a transition that returns a new Session. The planning functions
// in internal/dag only ever see immutable snapshots taken from a Session.
package session

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/pairplan/internal/dag"
)

// Session is a planning session. The zero value is an empty session.
// Sessions are values: transitions never modify the receiver.
type Session struct {
	Goal      string
	Items     []dag.Item
	Decisions dag.Decisions
}

// New returns an empty session with the given goal.
func New(goal string) Session {
	return Session{Goal: strings.TrimSpace(goal), Decisions: dag.Decisions{}}
}

func (s Session) clone() Session {
	out := Session{Goal: s.Goal}
	out.Items = append([]dag.Item(nil), s.Items...)
	out.Decisions = s.Decisions.Clone()
	return out
}

// SetGoal returns a copy of s with a new goal.
func (s Session) SetGoal(goal string) Session {
	out := s.clone()
	out.Goal = strings.TrimSpace(goal)
	return out
}

// Item returns the item with the given id.
func (s Session) Item(id string) (dag.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return dag.Item{}, false
}

// IDs returns the item ids in session order.
func (s Session) IDs() []string {
	return dag.ItemIDs(s.Items)
}

// AddItem appends an item. The id is supplied by the caller and must be
// unique; the label must be non-empty. Adding an item changes the pair list,
// but existing answers stay attached to their pairs.
func (s Session) AddItem(it dag.Item) (Session, error) {
	it.ID = strings.TrimSpace(it.ID)
	it.Label = strings.TrimSpace(it.Label)
	it.Description = strings.TrimSpace(it.Description)
	if it.ID == "" {
		return s, ErrEmptyID
	}
	if it.Label == "" {
		return s, fmt.Errorf("%w: %s", ErrEmptyLabel, it.ID)
	}
	if _, ok := s.Item(it.ID); ok {
		return s, fmt.Errorf("%w: %s", ErrDuplicateItem, it.ID)
	}
	out := s.clone()
	out.Items = append(out.Items, it)
	return out, nil
}

// RemoveItem drops the item and every decision that references it.
func (s Session) RemoveItem(id string) (Session, error) {
	items, decisions, err := dag.RemoveItem(s.Items, s.Decisions, id)
	if err != nil {
		return s, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return Session{Goal: s.Goal, Items: items, Decisions: decisions}, nil
}

// UpdateItem replaces the label and description of an existing item. An
// empty description clears it.
func (s Session) UpdateItem(id, label, description string) (Session, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return s, fmt.Errorf("%w: %s", ErrEmptyLabel, id)
	}
	out := s.clone()
	for i := range out.Items {
		if out.Items[i].ID == id {
			out.Items[i].Label = label
			out.Items[i].Description = strings.TrimSpace(description)
			return out, nil
		}
	}
	return s, fmt.Errorf("%w: %s", ErrUnknownItem, id)
}

// Pairs returns the precedence questions for the current items in canonical
// order. Question numbers used by Decide and Clear index into this slice.
func (s Session) Pairs() []dag.Pair {
	return dag.Pairs(s.IDs())
}

// Question returns pair i.
func (s Session) Question(i int) (dag.Pair, error) {
	pairs := s.Pairs()
	if i < 0 || i >= len(pairs) {
		return dag.Pair{}, fmt.Errorf("%w: %d (have %d)", ErrQuestionOutOfRange, i, len(pairs))
	}
	return pairs[i], nil
}

// Decide answers question i, replacing any earlier answer for that pair.
// Deciding dag.Unresolved clears the question.
func (s Session) Decide(i int, r dag.Resolution) (Session, error) {
	p, err := s.Question(i)
	if err != nil {
		return s, err
	}
	out := s.clone()
	out.Decisions = s.Decisions.Set(p, r)
	return out, nil
}

// DecidePair answers the question between items a and b, with r read
// relative to (a, b): dag.Forward means a before b. The pair is found
// whichever way round it is enumerated.
func (s Session) DecidePair(a, b string, r dag.Resolution) (Session, error) {
	for _, id := range []string{a, b} {
		if _, ok := s.Item(id); !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
	}
	if a == b {
		return s, fmt.Errorf("%w: %s paired with itself", ErrDuplicateItem, a)
	}
	out := s.clone()
	out.Decisions = s.Decisions.Set(dag.Pair{A: a, B: b}, r)
	return out, nil
}

// Clear removes the answer to question i.
func (s Session) Clear(i int) (Session, error) {
	return s.Decide(i, dag.Unresolved)
}

// ClearAll removes every answer.
func (s Session) ClearAll() Session {
	out := s.clone()
	out.Decisions = dag.Decisions{}
	return out
}

// Resolutions returns the state of every question, index-aligned with Pairs.
func (s Session) Resolutions() []dag.Resolution {
	return s.Decisions.Resolutions(s.Pairs())
}

// Progress returns how many questions are answered out of the total.
func (s Session) Progress() (resolved, total int) {
	pairs := s.Pairs()
	return s.Decisions.ResolvedCount(pairs), len(pairs)
}

// Complete reports whether every question has an answer.
func (s Session) Complete() bool {
	resolved, total := s.Progress()
	return resolved == total
}

// NextQuestion returns the first unanswered question at or after from.
func (s Session) NextQuestion(from int) (int, bool) {
	return s.Decisions.FirstUnresolved(s.Pairs(), from)
}

// Edges returns the directed edges produced by the current answers, in
// question order.
func (s Session) Edges() []dag.Edge {
	return s.Decisions.Edges(s.Pairs())
}

// Graph builds the dependency graph for the current snapshot.
func (s Session) Graph() *dag.Graph {
	return dag.Build(s.Items, s.Edges())
}
