package cmd

import (
	"encoding/json"
	"io"

	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/store"
)

// planJSON is the machine-readable form of a plan or conflict.
type planJSON struct {
	Mode      string        `json:"mode"`
	OK        bool          `json:"ok"`
	Waves     [][]string    `json:"waves,omitempty"`
	Order     []string      `json:"order,omitempty"`
	Conflict  *conflictJSON `json:"conflict,omitempty"`
	Resolved  int           `json:"resolved"`
	Questions int           `json:"questions"`
	Skipped   int           `json:"skipped,omitempty"`
}

type conflictJSON struct {
	Cycle     []string `json:"cycle"`
	Partial   bool     `json:"partial,omitempty"`
	Questions []int    `json:"questions"`
	Stuck     []string `json:"stuck"`
}

func newPlanJSON(s session.Session, res session.Result) planJSON {
	out := planJSON{Mode: string(res.Mode), OK: res.OK(), Order: res.Order(), Skipped: res.Skipped}
	out.Resolved, out.Questions = s.Progress()
	if res.Waves != nil {
		out.Waves = make([][]string, len(res.Waves.Waves))
		for i, w := range res.Waves.Waves {
			out.Waves[i] = w.ItemIDs
		}
	}
	if c := res.Conflict; c != nil {
		cj := &conflictJSON{Questions: c.Questions, Stuck: c.Stuck}
		if c.Cycle != nil {
			cj.Cycle = c.Cycle.Items
			cj.Partial = c.Cycle.Partial()
		}
		out.Conflict = cj
	}
	return out
}

// writePlanJSON writes the plan result as indented JSON.
func writePlanJSON(w io.Writer, s session.Session, res session.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newPlanJSON(s, res))
}

// writeSnapshotsJSON writes a snapshot listing as indented JSON.
func writeSnapshotsJSON(w io.Writer, list []store.Snapshot) error {
	if list == nil {
		list = []store.Snapshot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
