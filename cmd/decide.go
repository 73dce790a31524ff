package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
	"github.com/papapumpkin/pairplan/internal/telemetry"
)

var decideCmd = &cobra.Command{
	Use:   "decide <file> (<question#> | <id> <id>) <before|after|none|clear>",
	Short: "Answer a precedence question",
	Long: `Records the answer to one question. The question is chosen by its number
(see "pairplan ask --all") or by naming its two items.

  before  the first item comes before the second
  after   the second item comes before the first
  none    the items are independent
  clear   forget the answer

A new answer replaces any earlier answer for the same pair. With --reset,
every answer is cleared.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.RangeArgs(3, 4)(cmd, args)
	},
	RunE: runWithApp(runDecide),
}

func init() {
	decideCmd.Flags().Bool("reset", false, "clear every answer")
	decideCmd.Flags().Bool("next", true, "show the next unanswered question afterwards")
	rootCmd.AddCommand(decideCmd)
}

func runDecide(a *app, cmd *cobra.Command, args []string) error {
	path := args[0]
	name := sessionfile.Name(path)

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if _, err := a.update(path, func(s session.Session) (session.Session, error) {
			return s.ClearAll(), nil
		}); err != nil {
			return err
		}
		a.emit(telemetry.Event{Kind: telemetry.KindDecisionSet, Session: name, Data: map[string]any{"reset": true}})
		a.printer.Success("all answers cleared")
		return nil
	}

	r, err := dag.ParseResolution(args[len(args)-1])
	if err != nil {
		return err
	}

	var question int
	s, err := a.update(path, func(s session.Session) (session.Session, error) {
		if len(args) == 4 {
			next, err := s.DecidePair(args[1], args[2], r)
			if err != nil {
				return s, err
			}
			question = dag.PairIndex(next.Pairs())[dag.KeyOf(args[1], args[2])]
			// Report relative to the pair's own orientation.
			r = next.Resolutions()[question]
			return next, nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return s, fmt.Errorf("question must be a number: %q", args[1])
		}
		question = n
		return s.Decide(n, r)
	})
	if err != nil {
		return err
	}

	a.emit(telemetry.Event{
		Kind:    telemetry.KindDecisionSet,
		Session: name,
		Data:    map[string]any{"question": question, "resolution": r.String()},
	})
	a.printer.Decided(s, question, r)

	if c, ok := s.FindConflict(); ok {
		a.emit(telemetry.Event{Kind: telemetry.KindCycleDetected, Session: name, Data: map[string]any{"questions": c.Questions}})
		a.printer.Conflict(s, c)
		return nil
	}
	if next, _ := cmd.Flags().GetBool("next"); next {
		a.printer.Questions(s, false)
	}
	return nil
}
