package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
	"github.com/papapumpkin/pairplan/internal/telemetry"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Add, remove, rename and inspect items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <file> <label>",
	Short: "Add an item",
	Long: `Adds an item to the session. Without --id, the id is derived from the
label, falling back to a random id when that is empty or already taken.
Existing answers are kept; the new item adds unanswered questions.`,
	Args: cobra.ExactArgs(2),
	RunE: runWithApp(runItemAdd),
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <file> <id>",
	Short: "Remove an item and every answer that mentions it",
	Args:  cobra.ExactArgs(2),
	RunE:  runWithApp(runItemRemove),
}

var itemRenameCmd = &cobra.Command{
	Use:   "rename <file> <id> <label>",
	Short: "Change an item's label and description",
	Args:  cobra.ExactArgs(3),
	RunE:  runWithApp(runItemRename),
}

var itemListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List items",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithApp(runItemList),
}

var itemShowCmd = &cobra.Command{
	Use:   "show <file> <id>",
	Short: "Show an item with what comes before and after it",
	Args:  cobra.ExactArgs(2),
	RunE:  runWithApp(runItemShow),
}

func init() {
	itemAddCmd.Flags().String("id", "", "item id (default: derived from the label)")
	itemAddCmd.Flags().StringP("description", "d", "", "longer description")
	itemRenameCmd.Flags().StringP("description", "d", "", "new description (empty clears it)")

	itemCmd.AddCommand(itemAddCmd, itemRemoveCmd, itemRenameCmd, itemListCmd, itemShowCmd)
	rootCmd.AddCommand(itemCmd)
}

// slugify lowercases label and joins its words with dashes.
func slugify(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

// newItem builds an item, choosing an id when none is given.
func newItem(s session.Session, id, label, description string) dag.Item {
	if id == "" {
		id = slugify(label)
		if _, taken := s.Item(id); taken || id == "" {
			id = uuid.NewString()[:8]
		}
	}
	return dag.Item{ID: id, Label: label, Description: description}
}

func runItemAdd(a *app, cmd *cobra.Command, args []string) error {
	path, label := args[0], args[1]
	id, _ := cmd.Flags().GetString("id")
	desc, _ := cmd.Flags().GetString("description")

	var added dag.Item
	s, err := a.update(path, func(s session.Session) (session.Session, error) {
		added = newItem(s, id, label, desc)
		return s.AddItem(added)
	})
	if err != nil {
		return err
	}

	a.emit(telemetry.Event{Kind: telemetry.KindItemAdded, Session: sessionfile.Name(path), ItemID: added.ID})
	_, total := s.Progress()
	a.printer.Success(fmt.Sprintf("added %q as %s (%d questions now)", label, added.ID, total))
	return nil
}

func runItemRemove(a *app, _ *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	before, err := a.load(path)
	if err != nil {
		return err
	}
	s, err := a.update(path, func(s session.Session) (session.Session, error) {
		return s.RemoveItem(id)
	})
	if err != nil {
		return err
	}

	dropped := len(before.Decisions) - len(s.Decisions)
	a.emit(telemetry.Event{
		Kind:    telemetry.KindItemRemoved,
		Session: sessionfile.Name(path),
		ItemID:  id,
		Data:    map[string]any{"answers_dropped": dropped},
	})
	a.printer.Success(fmt.Sprintf("removed %s and %d answer%s", id, dropped, plural(dropped)))
	return nil
}

func runItemRename(a *app, cmd *cobra.Command, args []string) error {
	path, id, label := args[0], args[1], args[2]
	desc, _ := cmd.Flags().GetString("description")
	if _, err := a.update(path, func(s session.Session) (session.Session, error) {
		return s.UpdateItem(id, label, desc)
	}); err != nil {
		return err
	}
	a.emit(telemetry.Event{Kind: telemetry.KindItemUpdated, Session: sessionfile.Name(path), ItemID: id})
	a.printer.Success(fmt.Sprintf("%s is now %q", id, label))
	return nil
}

func runItemList(a *app, _ *cobra.Command, args []string) error {
	s, err := a.load(args[0])
	if err != nil {
		return err
	}
	a.printer.SessionSummary(sessionfile.Name(args[0]), s)
	a.printer.Items(s)
	return nil
}

func runItemShow(a *app, _ *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	s, err := a.load(path)
	if err != nil {
		return err
	}
	it, ok := s.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrUnknownItem, id)
	}
	g := s.Graph()
	before, err := dag.Ancestors(g, id)
	if err != nil {
		return err
	}
	after, err := dag.Descendants(g, id)
	if err != nil {
		return err
	}
	a.printer.ItemDetail(s, it, before, after)
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
