package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/pairplan/internal/dag"
)

// Mode selects the scheduler used by Plan.
type Mode string

const (
	// ModeWaves groups items into parallel waves.
	ModeWaves Mode = "waves"
	// ModeLinear produces one priority-ordered sequence.
	ModeLinear Mode = "linear"
)

// ParseMode accepts "waves" or "linear" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeWaves, ModeLinear:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (want waves or linear)", ErrInvalidMode, s)
}

// Conflict explains why a plan could not be built: the accepted answers
// contain a cycle. Questions lists the question numbers whose answers form
// the reported cycle; changing any one of them breaks it.
type Conflict struct {
	Cycle     *dag.CycleReport
	Questions []int
	Stuck     []string
}

// Result is the outcome of Plan. Exactly one of the plan fields or Conflict
// is set.
type Result struct {
	Mode     Mode
	Waves    *dag.WavePlan
	Linear   *dag.LinearPlan
	Conflict *Conflict

	// Skipped counts edges the graph ignored because they referenced
	// unknown items.
	Skipped int
}

// OK reports whether a plan was produced.
func (r Result) OK() bool {
	return r.Conflict == nil
}

// Order returns the planned sequence of item ids, or nil on conflict.
func (r Result) Order() []string {
	switch {
	case r.Waves != nil:
		return r.Waves.Order()
	case r.Linear != nil:
		return append([]string(nil), r.Linear.Order...)
	}
	return nil
}

// Plan schedules the current snapshot. Unanswered questions add no
// constraint, so a partially answered session can still be planned. When
// the answers contain a cycle, the result carries a Conflict naming the
// questions to revisit instead of a plan; only unexpected errors are
// returned as error.
func (s Session) Plan(mode Mode) (Result, error) {
	g := s.Graph()
	res := Result{Mode: mode, Skipped: len(g.Skipped())}

	var err error
	switch mode {
	case ModeWaves:
		var p dag.WavePlan
		if p, err = dag.ComputeWaves(g); err == nil {
			res.Waves = &p
		}
	case ModeLinear:
		var p dag.LinearPlan
		if p, err = dag.ComputeLinearPlan(g); err == nil {
			res.Linear = &p
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	var stuck *dag.StuckError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &stuck):
		res.Conflict = s.conflict(g, stuck.Stuck)
		return res, nil
	default:
		return Result{}, err
	}
}

// FindConflict reports the first cycle among the current answers, if any,
// without scheduling.
func (s Session) FindConflict() (*Conflict, bool) {
	g := s.Graph()
	if _, ok := dag.DetectCycle(g); !ok {
		return nil, false
	}
	var stuck []string
	if _, err := dag.ComputeWaves(g); err != nil {
		var se *dag.StuckError
		if errors.As(err, &se) {
			stuck = se.Stuck
		}
	}
	return s.conflict(g, stuck), true
}

func (s Session) conflict(g *dag.Graph, stuck []string) *Conflict {
	c := &Conflict{Stuck: stuck}
	if report, ok := dag.DetectCycle(g); ok {
		c.Cycle = report
		c.Questions = dag.CycleToPairs(report, s.Pairs())
	}
	return c
}
