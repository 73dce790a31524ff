package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a session file for problems",
	Long: `Checks a session file for missing or duplicate ids, empty labels and
answers that refer to items no longer in the session. Stale answers are
warnings; they are ignored when planning. Contradictory answers are
reported as a cycle.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(runValidate),
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(a *app, _ *cobra.Command, args []string) error {
	path := args[0]
	name := sessionfile.Name(path)
	s, err := a.load(path)
	if err != nil {
		a.printer.Error(err.Error())
		return err
	}

	errs := s.Validate()
	a.printer.Validation(name, s, errs)
	if session.HasFatal(errs) {
		return fmt.Errorf("validation failed with %d problem(s)", len(errs))
	}
	if c, ok := s.FindConflict(); ok {
		a.printer.Conflict(s, c)
		return errConflict
	}
	return nil
}
