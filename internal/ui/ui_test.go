package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/store"
)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWriter(&buf, true), &buf
}

// build returns a session with one item per id, labelled "Task <id>".
func build(t *testing.T, ids ...string) session.Session {
	t.Helper()
	s := session.New("Ship it")
	for _, id := range ids {
		var err error
		s, err = s.AddItem(dag.Item{ID: id, Label: "Task " + id})
		if err != nil {
			t.Fatalf("AddItem(%s): %v", id, err)
		}
	}
	return s
}

func decide(t *testing.T, s session.Session, a, b string, r dag.Resolution) session.Session {
	t.Helper()
	out, err := s.DecidePair(a, b, r)
	if err != nil {
		t.Fatalf("DecidePair(%s, %s): %v", a, b, err)
	}
	return out
}

func assertContains(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestPrinter_NoColorHasNoEscapes(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	p.Error("boom")
	p.Warn("careful")
	p.Success("done")
	p.Info("fyi")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("no-color output contains escape codes: %q", out)
	}
	assertContains(t, out, "error: boom", "warning: careful", "✓ done", "fyi")
}

func TestPrinter_ColorProfileEmitsEscapes(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	p.r.SetColorProfile(termenv.ANSI)
	p.st = newStyles(p.r)
	p.Error("boom")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestProgressLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		resolved, total int
		want            string
	}{
		{0, 10, "0/10 answered [....................]"},
		{5, 10, "5/10 answered [##########..........]"},
		{10, 10, "10/10 answered [####################]"},
		{0, 0, "0/0 answered [####################]"},
	}
	for _, tt := range tests {
		if got := ProgressLine(tt.resolved, tt.total); got != tt.want {
			t.Errorf("ProgressLine(%d, %d) = %q, want %q", tt.resolved, tt.total, got, tt.want)
		}
	}
}

func TestQuestions_NextOnly(t *testing.T) {
	t.Parallel()
	s := build(t, "a", "b", "c")
	s = decide(t, s, "a", "b", dag.Forward)

	p, buf := newTestPrinter()
	p.Questions(s, false)
	assertContains(t, buf.String(), "#1", `does "Task a" come before "Task c"?`, "decide <file> 1")
}

func TestQuestions_All(t *testing.T) {
	t.Parallel()
	s := build(t, "a", "b", "c")
	s = decide(t, s, "a", "b", dag.NoRelation)

	p, buf := newTestPrinter()
	p.Questions(s, true)
	out := buf.String()
	assertContains(t, out, "0.", "none", ">   1.", "1/3 answered")
}

func TestQuestions_AllAnswered(t *testing.T) {
	t.Parallel()
	s := decide(t, build(t, "a", "b"), "a", "b", dag.Forward)
	p, buf := newTestPrinter()
	p.Questions(s, false)
	assertContains(t, buf.String(), "all 1 question answered")
}

func TestPlan_Waves(t *testing.T) {
	t.Parallel()
	s := build(t, "a", "b", "c")
	s = decide(t, s, "a", "b", dag.Forward)
	s = decide(t, s, "a", "c", dag.Forward)
	res, err := s.Plan(session.ModeWaves)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	p, buf := newTestPrinter()
	p.Plan(s, res)
	assertContains(t, buf.String(), "plan: 2 waves", "wave 1: Task a", "wave 2: Task b, Task c", "1 question unanswered")
}

func TestPlan_Linear(t *testing.T) {
	t.Parallel()
	s := decide(t, build(t, "a", "b"), "a", "b", dag.Backward)
	res, err := s.Plan(session.ModeLinear)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	p, buf := newTestPrinter()
	p.Plan(s, res)
	assertContains(t, buf.String(), "plan: 2 steps", " 1. Task b", " 2. Task a")
}

func TestPlan_Conflict(t *testing.T) {
	t.Parallel()
	s := build(t, "A", "B", "C")
	s = decide(t, s, "A", "C", dag.Forward)
	s = decide(t, s, "C", "B", dag.Forward)
	s = decide(t, s, "B", "A", dag.Forward)
	res, err := s.Plan(session.ModeWaves)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.OK() {
		t.Fatal("expected a conflict")
	}

	p, buf := newTestPrinter()
	p.Plan(s, res)
	assertContains(t, buf.String(),
		"conflicting answers",
		"cycle: Task A → Task C → Task B → Task A",
		"#0", "#1", "#2",
		"blocked: Task A, Task B, Task C",
	)
}

func TestValidation(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	p.Validation("ok", build(t, "a"), nil)
	assertContains(t, buf.String(), `session "ok": 1 item, no problems`)

	buf.Reset()
	s := build(t, "a")
	s.Items = append(s.Items, dag.Item{ID: "a", Label: "again"})
	p.Validation("dup", s, s.Validate())
	assertContains(t, buf.String(), `session "dup": 1 error`, "[duplicate_id]")
}

func TestSnapshots(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	list := []store.Snapshot{
		{Name: "release", Items: 1200, Resolved: 3, Questions: 10, SavedAt: now.Add(-2 * time.Hour)},
		{Name: "q3", Items: 1, SavedAt: now.Add(-3 * 24 * time.Hour)},
	}
	p, buf := newTestPrinter()
	p.Snapshots(list, now)
	assertContains(t, buf.String(), "release", "1,200 items", "3/10 answered", "2 hours ago", "q3", "1 item ", "3 days ago")

	buf.Reset()
	p.Snapshots(nil, now)
	assertContains(t, buf.String(), "no saved snapshots")
}

func TestItemsAndDetail(t *testing.T) {
	t.Parallel()
	s := build(t, "a", "bb")
	s, err := s.UpdateItem("bb", "Task bb", "the second one")
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	p, buf := newTestPrinter()
	p.Items(s)
	assertContains(t, buf.String(), " 1. a   Task a", " 2. bb  Task bb", "the second one")

	buf.Reset()
	it, _ := s.Item("bb")
	p.ItemDetail(s, it, []string{"a"}, nil)
	assertContains(t, buf.String(), "Task bb (bb)", "after:  Task a", "before: (nothing)")
}

func TestTracksAndCriticalPath(t *testing.T) {
	t.Parallel()
	s := build(t, "a", "b", "c")
	s = decide(t, s, "a", "b", dag.Forward)
	g := s.Graph()
	tracks, err := dag.ComputeTracks(g)
	if err != nil {
		t.Fatalf("ComputeTracks: %v", err)
	}
	path, err := dag.CriticalPath(g)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}

	p, buf := newTestPrinter()
	p.Tracks(s, tracks)
	p.CriticalPath(s, path)
	assertContains(t, buf.String(), "2 independent tracks", "track 1: Task a → Task b", "track 2: Task c",
		"critical path (2): Task a → Task b")
}
