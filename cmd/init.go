package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
	"github.com/papapumpkin/pairplan/internal/telemetry"
)

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Create a new session file",
	Long: `Creates a session file with an optional goal and initial items.

Each --item value is a label; ids are derived from the labels.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(runInit),
}

func init() {
	initCmd.Flags().String("goal", "", "what the plan is for")
	initCmd.Flags().StringArray("item", nil, "item label to add (repeatable)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(a *app, cmd *cobra.Command, args []string) error {
	path := args[0]
	goal, _ := cmd.Flags().GetString("goal")
	labels, _ := cmd.Flags().GetStringArray("item")
	force, _ := cmd.Flags().GetBool("force")

	s := session.New(goal)
	for _, label := range labels {
		var err error
		if s, err = s.AddItem(newItem(s, "", label, "")); err != nil {
			return err
		}
	}
	if err := sessionfile.Create(path, s, force); err != nil {
		return err
	}

	a.emit(telemetry.Event{
		Kind:    telemetry.KindSessionSaved,
		Session: sessionfile.Name(path),
		Data:    map[string]any{"created": true, "items": len(s.Items)},
	})
	a.printer.Success(fmt.Sprintf("created %s", path))
	a.printer.SessionSummary(sessionfile.Name(path), s)
	return nil
}
