package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/sessionfile"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Save and restore session snapshots",
	Long: `Keeps named snapshots of sessions in a local SQLite database
(store_path in .pairplan.yaml, default ~/.pairplan/sessions.db).`,
}

var storeSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Snapshot a session file",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithApp(runStoreSave),
}

var storeLoadCmd = &cobra.Command{
	Use:   "load <name> <file>",
	Short: "Restore a snapshot into a session file",
	Args:  cobra.ExactArgs(2),
	RunE:  runWithApp(runStoreLoad),
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runWithApp(runStoreList),
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithApp(runStoreDelete),
}

func init() {
	storeSaveCmd.Flags().String("name", "", "snapshot name (default: file name without extension)")
	storeLoadCmd.Flags().Bool("force", false, "overwrite an existing file")
	storeListCmd.Flags().Bool("json", false, "write the listing as JSON to stdout")

	storeCmd.AddCommand(storeSaveCmd, storeLoadCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreSave(a *app, cmd *cobra.Command, args []string) error {
	path := args[0]
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = sessionfile.Name(path)
	}
	s, err := a.load(path)
	if err != nil {
		return err
	}

	ctx := contextOf(cmd)
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.Save(ctx, name, s)
	if err != nil {
		return err
	}
	a.printer.Success(fmt.Sprintf("saved snapshot %q (%d items, %d/%d answered)",
		snap.Name, snap.Items, snap.Resolved, snap.Questions))
	return nil
}

func runStoreLoad(a *app, cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	force, _ := cmd.Flags().GetBool("force")

	ctx := contextOf(cmd)
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := st.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := sessionfile.Create(path, s, force); err != nil {
		return err
	}
	a.printer.Success(fmt.Sprintf("restored %q to %s", name, path))
	a.printer.SessionSummary(sessionfile.Name(path), s)
	return nil
}

func runStoreList(a *app, cmd *cobra.Command, _ []string) error {
	ctx := contextOf(cmd)
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List(ctx)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeSnapshotsJSON(cmd.OutOrStdout(), list)
	}
	a.printer.Snapshots(list, time.Now())
	return nil
}

func runStoreDelete(a *app, cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printer.Success(fmt.Sprintf("deleted snapshot %q", args[0]))
	return nil
}
