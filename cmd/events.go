package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/telemetry"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the JSONL telemetry stream",
	Long: `Reads and formats the telemetry file configured by telemetry_path, or the
file given with --file.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runWithApp(runEvents),
}

func init() {
	eventsCmd.Flags().String("file", "", "telemetry file (default: telemetry_path from config)")
	eventsCmd.Flags().String("session", "", "only show events for this session")
	eventsCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(a *app, cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = a.cfg.TelemetryPath
	}
	if path == "" {
		return fmt.Errorf("events: no telemetry file; set telemetry_path or pass --file")
	}
	sessionName, _ := cmd.Flags().GetString("session")
	follow, _ := cmd.Flags().GetBool("follow")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("events: open %s: %w", path, err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		printEvent(out, scanner.Text(), sessionName)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("events: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}
	return tailFollow(out, f, path, sessionName)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, f *os.File, path, sessionName string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("events: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(path); err != nil {
		return fmt.Errorf("events: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range fw.Events {
		if !event.Has(fsnotify.Write) {
			continue
		}
		for {
			line, err := reader.ReadString('\n')
			printEvent(w, line, sessionName)
			if err != nil {
				break
			}
		}
	}
	return nil
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events for other sessions are skipped when sessionName is set.
func printEvent(w io.Writer, line, sessionName string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if sessionName != "" && evt.Session != sessionName {
		return
	}

	parts := []string{fmt.Sprintf("[%s]", evt.Timestamp.Format(time.DateTime)), evt.Kind}
	if evt.Session != "" {
		parts = append(parts, "session="+evt.Session)
	}
	if evt.ItemID != "" {
		parts = append(parts, "item="+evt.ItemID)
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
