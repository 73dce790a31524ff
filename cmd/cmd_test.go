package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
)

func TestCommands_Registered(t *testing.T) {
	t.Parallel()
	want := []string{"init", "item", "ask", "decide", "plan", "validate", "store", "events"}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("expected %q subcommand to be registered on rootCmd", name)
		}
	}
}

func TestPlanCmd_Flags(t *testing.T) {
	t.Parallel()
	for _, flag := range []string{"mode", "json", "report", "graph", "tracks", "watch"} {
		if planCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on plan", flag)
		}
	}
}

func TestReportNames_MatchStrategies(t *testing.T) {
	t.Parallel()
	names := reportNames()
	if len(names) != len(dag.Strategies) {
		t.Errorf("reportNames has %d entries, dag.Strategies has %d", len(names), len(dag.Strategies))
	}
	for _, n := range names {
		if _, ok := dag.Strategies[n]; !ok {
			t.Errorf("report %q has no strategy", n)
		}
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"Build binary":     "build-binary",
		"  Write  docs!  ": "write-docs",
		"v2.0 release":     "v2-0-release",
		"???":              "",
		"Café menu":        "café-menu",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewItem_FallsBackToRandomID(t *testing.T) {
	t.Parallel()
	s := testSession(t, "build")

	if it := newItem(s, "", "Deploy", ""); it.ID != "deploy" {
		t.Errorf("ID = %q, want deploy", it.ID)
	}
	if it := newItem(s, "custom", "Build", ""); it.ID != "custom" {
		t.Errorf("explicit ID = %q, want custom", it.ID)
	}
	taken := newItem(s, "", "Build", "")
	if taken.ID == "build" || len(taken.ID) != 8 {
		t.Errorf("taken slug produced ID %q, want an 8-char random id", taken.ID)
	}
	if it := newItem(s, "", "!!!", ""); len(it.ID) != 8 {
		t.Errorf("empty slug produced ID %q, want an 8-char random id", it.ID)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		l := newLogger(tt.level, "text", &bytes.Buffer{})
		if !l.Enabled(context.Background(), tt.enabled) {
			t.Errorf("level %q: %v not enabled", tt.level, tt.enabled)
		}
		if l.Enabled(context.Background(), tt.muted) {
			t.Errorf("level %q: %v enabled", tt.level, tt.muted)
		}
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello", "k", 1)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", rec["msg"])
	}
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printEvent(&buf, `{"ts":"2026-01-02T03:04:05Z","kind":"decision_set","session":"q3","data":{"question":2,"resolution":"before"}}`, "")
	printEvent(&buf, `{"ts":"2026-01-02T03:04:06Z","kind":"item_added","session":"other","item":"x"}`, "q3")
	printEvent(&buf, "not json", "")
	printEvent(&buf, "   ", "")

	want := "[2026-01-02 03:04:05] decision_set session=q3 question=2 resolution=before\n??? not json\n"
	if buf.String() != want {
		t.Errorf("printEvent output = %q, want %q", buf.String(), want)
	}
}

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	rootCmd.SetOut(nil)
	return out.String(), err
}

func TestCLI_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "release.toml")
	events := filepath.Join(dir, "events.jsonl")
	t.Setenv("PAIRPLAN_STORE_PATH", filepath.Join(dir, "store", "sessions.db"))
	t.Setenv("PAIRPLAN_TELEMETRY_PATH", events)
	t.Setenv("PAIRPLAN_NO_COLOR", "true")

	if _, err := execute(t, "init", file, "--goal", "Ship", "--item", "Design", "--item", "Build", "--item", "Test"); err != nil {
		t.Fatalf("init: %v", err)
	}
	s, err := sessionfile.Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(s.IDs(), ","); got != "design,build,test" {
		t.Fatalf("ids = %s, want design,build,test", got)
	}

	// Questions: 0 design/build, 1 design/test, 2 build/test.
	if _, err := execute(t, "decide", file, "design", "build", "before"); err != nil {
		t.Fatalf("decide by ids: %v", err)
	}
	if _, err := execute(t, "decide", file, "2", "before"); err != nil {
		t.Fatalf("decide by number: %v", err)
	}

	out, err := execute(t, "plan", file, "--json", "--mode", "linear")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var plan planJSON
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("plan JSON: %v\nraw: %s", err, out)
	}
	if !plan.OK || strings.Join(plan.Order, ",") != "design,build,test" {
		t.Errorf("plan = %+v, want design,build,test", plan)
	}
	if plan.Resolved != 2 || plan.Questions != 3 {
		t.Errorf("progress = %d/%d, want 2/3", plan.Resolved, plan.Questions)
	}

	// Closing the loop: test before design.
	if _, err := execute(t, "decide", file, "test", "design", "before"); err != nil {
		t.Fatalf("decide closing the cycle: %v", err)
	}
	out, err = execute(t, "plan", file, "--json", "--mode", "waves")
	if !errors.Is(err, errConflict) {
		t.Fatalf("plan on cycle error = %v, want errConflict", err)
	}
	plan = planJSON{}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("conflict JSON: %v\nraw: %s", err, out)
	}
	if plan.OK || plan.Conflict == nil || len(plan.Conflict.Questions) != 3 {
		t.Errorf("conflict = %+v, want all three questions", plan.Conflict)
	}

	// Removing an item drops its answers and breaks the cycle.
	if _, err := execute(t, "item", "remove", file, "test"); err != nil {
		t.Fatalf("item remove: %v", err)
	}
	s, err = sessionfile.Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Items) != 2 || len(s.Decisions) != 1 {
		t.Errorf("after remove: %d items, %d decisions; want 2 and 1", len(s.Items), len(s.Decisions))
	}
	if _, err := execute(t, "plan", file, "--json", "--mode", "waves"); err != nil {
		t.Errorf("plan after remove: %v", err)
	}

	if _, err := execute(t, "store", "save", file); err != nil {
		t.Fatalf("store save: %v", err)
	}
	out, err = execute(t, "store", "list", "--json")
	if err != nil {
		t.Fatalf("store list: %v", err)
	}
	if !strings.Contains(out, `"name": "release"`) {
		t.Errorf("store list = %s, want the release snapshot", out)
	}
	restored := filepath.Join(dir, "restored.toml")
	if _, err := execute(t, "store", "load", "release", restored); err != nil {
		t.Fatalf("store load: %v", err)
	}
	r, err := sessionfile.Load(restored)
	if err != nil {
		t.Fatalf("Load restored: %v", err)
	}
	if r.Goal != "Ship" || len(r.Items) != 2 {
		t.Errorf("restored = %+v, want the saved session", r)
	}

	out, err = execute(t, "events", "--file", events)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	for _, kind := range []string{"session_loaded", "decision_set", "cycle_detected", "item_removed", "plan_computed"} {
		if !strings.Contains(out, kind) {
			t.Errorf("events output missing %s:\n%s", kind, out)
		}
	}

	if _, err := execute(t, "validate", file); err != nil {
		t.Errorf("validate: %v", err)
	}
	if _, err := execute(t, "decide", file, "0", "sideways"); !errors.Is(err, dag.ErrInvalidResolution) {
		t.Errorf("decide sideways error = %v, want ErrInvalidResolution", err)
	}
	if _, err := execute(t, "decide", file, "7", "before"); !errors.Is(err, session.ErrQuestionOutOfRange) {
		t.Errorf("decide 7 error = %v, want ErrQuestionOutOfRange", err)
	}
}
