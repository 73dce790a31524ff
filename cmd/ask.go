package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/sessionfile"
)

var askCmd = &cobra.Command{
	Use:   "ask <file>",
	Short: "Show the next unanswered question",
	Long: `Shows the next unanswered precedence question. With --all, lists every
question with its current answer and marks the next one to answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(runAsk),
}

func init() {
	askCmd.Flags().Bool("all", false, "list every question")
	rootCmd.AddCommand(askCmd)
}

func runAsk(a *app, cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	s, err := a.load(args[0])
	if err != nil {
		return err
	}
	if all {
		a.printer.SessionSummary(sessionfile.Name(args[0]), s)
	}
	a.printer.Questions(s, all)
	return nil
}
