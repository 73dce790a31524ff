package dag

import (
	"fmt"
	"strings"
)

// StuckError reports a scheduling run that could not place every item.
// Stuck lists, in item order, the items whose in-degree never reached zero.
// It wraps ErrCycle: a cycle is the only way a run can get stuck.
type StuckError struct {
	Stuck []string
}

// Error returns a human-readable summary of the stuck items.
func (e *StuckError) Error() string {
	return fmt.Sprintf("%s: %d item(s) could not be scheduled: %s",
		ErrCycle, len(e.Stuck), strings.Join(e.Stuck, ", "))
}

// Unwrap returns ErrCycle for use with errors.Is.
func (e *StuckError) Unwrap() error {
	return ErrCycle
}

// stuckError collects the ids with positive residual in-degree.
func stuckError(g *Graph, inDegree map[string]int) *StuckError {
	var stuck []string
	for _, id := range g.ids {
		if inDegree[id] > 0 {
			stuck = append(stuck, id)
		}
	}
	return &StuckError{Stuck: stuck}
}
