package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/store"
)

// --- Session output ---

// ProgressLine formats answered questions as "7/10 answered [#######...]".
// Exported for testing.
func ProgressLine(resolved, total int) string {
	const barWidth = 20
	filled := barWidth
	if total > 0 {
		filled = resolved * barWidth / total
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	return fmt.Sprintf("%d/%d answered [%s]", resolved, total, bar)
}

// SessionSummary prints the goal, item count and answer progress.
func (p *Printer) SessionSummary(name string, s session.Session) {
	p.printf("%s\n", p.st.heading.Render("session "+name))
	if s.Goal != "" {
		p.printf("  goal:      %s\n", s.Goal)
	}
	resolved, total := s.Progress()
	p.printf("  items:     %d\n", len(s.Items))
	p.printf("  questions: %s\n", ProgressLine(resolved, total))
}

// Items lists the session's items in order.
func (p *Printer) Items(s session.Session) {
	if len(s.Items) == 0 {
		p.Info("  (no items)")
		return
	}
	width := 0
	for _, it := range s.Items {
		width = max(width, len(it.ID))
	}
	for i, it := range s.Items {
		line := fmt.Sprintf("  %2d. %-*s  %s", i+1, width, it.ID, it.Label)
		if it.Description != "" {
			line += "  " + p.st.dim.Render(it.Description)
		}
		p.println(line)
	}
}

// ItemDetail prints one item with what must come before and after it.
func (p *Printer) ItemDetail(s session.Session, it dag.Item, before, after []string) {
	p.printf("%s %s\n", p.st.bold.Render(it.Label), p.st.dim.Render("("+it.ID+")"))
	if it.Description != "" {
		p.printf("  %s\n", it.Description)
	}
	p.printf("  after:  %s\n", p.labelList(s, before))
	p.printf("  before: %s\n", p.labelList(s, after))
}

func (p *Printer) labelList(s session.Session, ids []string) string {
	if len(ids) == 0 {
		return p.st.dim.Render("(nothing)")
	}
	return strings.Join(labels(s, ids), ", ")
}

func labels(s session.Session, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id
		if it, ok := s.Item(id); ok {
			out[i] = it.Label
		}
	}
	return out
}

func label(s session.Session, id string) string {
	return labels(s, []string{id})[0]
}

// QuestionText phrases pair p as a question.
func QuestionText(s session.Session, pair dag.Pair) string {
	return fmt.Sprintf("does %q come before %q?", label(s, pair.A), label(s, pair.B))
}

// Questions prints every question with its answer when all is set, and
// otherwise only the next unanswered one.
func (p *Printer) Questions(s session.Session, all bool) {
	pairs := s.Pairs()
	if len(pairs) == 0 {
		p.Info("no questions: add at least two items")
		return
	}
	if !all {
		i, ok := s.NextQuestion(0)
		if !ok {
			p.Success(fmt.Sprintf("all %d question%s answered", len(pairs), pluralS(len(pairs))))
			return
		}
		p.printf("%s %s\n", p.st.accent.Render(fmt.Sprintf("#%d", i)), QuestionText(s, pairs[i]))
		p.Info(fmt.Sprintf("answer with: pairplan decide <file> %d before|after|none", i))
		return
	}

	next, hasNext := s.NextQuestion(0)
	for i, r := range s.Resolutions() {
		status := p.st.dim.Render("?")
		if r.Resolved() {
			status = p.st.ok.Render(r.String())
		}
		marker := " "
		if hasNext && i == next {
			marker = p.st.accent.Render(">")
		}
		p.printf("%s %3d. %s  %s\n", marker, i, QuestionText(s, pairs[i]), status)
	}
	resolved, total := s.Progress()
	p.Info("  " + ProgressLine(resolved, total))
}

// Decided confirms an answer.
func (p *Printer) Decided(s session.Session, i int, r dag.Resolution) {
	pair := s.Pairs()[i]
	a, b := label(s, pair.A), label(s, pair.B)
	switch r {
	case dag.Forward:
		p.Success(fmt.Sprintf("#%d: %q before %q", i, a, b))
	case dag.Backward:
		p.Success(fmt.Sprintf("#%d: %q before %q", i, b, a))
	case dag.NoRelation:
		p.Success(fmt.Sprintf("#%d: %q and %q are independent", i, a, b))
	default:
		p.Success(fmt.Sprintf("#%d cleared", i))
	}
}

// Plan prints a computed plan, or its conflict.
func (p *Printer) Plan(s session.Session, res session.Result) {
	if !res.OK() {
		p.Conflict(s, res.Conflict)
		return
	}
	switch {
	case res.Waves != nil:
		p.printf("%s\n", p.st.heading.Render(fmt.Sprintf("plan: %d wave%s", len(res.Waves.Waves), pluralS(len(res.Waves.Waves)))))
		for _, w := range res.Waves.Waves {
			p.printf("  %s %s\n", p.st.accent.Render(fmt.Sprintf("wave %d:", w.Number)), strings.Join(labels(s, w.ItemIDs), ", "))
		}
	case res.Linear != nil:
		p.printf("%s\n", p.st.heading.Render(fmt.Sprintf("plan: %d step%s", len(res.Linear.Order), pluralS(len(res.Linear.Order)))))
		for i, id := range res.Linear.Order {
			p.printf("  %2d. %s\n", i+1, label(s, id))
		}
	}
	if len(s.Items) == 0 {
		p.Info("  (no items)")
	}
	if resolved, total := s.Progress(); resolved < total {
		p.Info(fmt.Sprintf("  %d question%s unanswered; unanswered pairs add no constraint",
			total-resolved, pluralS(total-resolved)))
	}
	if res.Skipped > 0 {
		p.Warn(fmt.Sprintf("%d answer%s referenced unknown items and were ignored", res.Skipped, pluralS(res.Skipped)))
	}
}

// Conflict explains a cycle among the answers and lists the questions
// whose answers form it.
func (p *Printer) Conflict(s session.Session, c *session.Conflict) {
	p.printf("%s conflicting answers\n", p.st.err.Render("✗"))
	if c == nil {
		return
	}
	if c.Cycle != nil && len(c.Cycle.Items) > 0 {
		chain := labels(s, c.Cycle.Items)
		chain = append(chain, chain[0])
		p.printf("  cycle: %s\n", strings.Join(chain, " → "))
		if c.Cycle.Partial() {
			p.Info("  (cycle could not be fully reconstructed)")
		}
	}
	if len(c.Questions) > 0 {
		p.println("  change one of these answers:")
		pairs := s.Pairs()
		res := s.Resolutions()
		for _, i := range c.Questions {
			p.printf("  %s %s  %s\n", p.st.warn.Render(fmt.Sprintf("#%d", i)), QuestionText(s, pairs[i]), res[i])
		}
	}
	if len(c.Stuck) > 0 {
		p.Info(fmt.Sprintf("  blocked: %s", strings.Join(labels(s, c.Stuck), ", ")))
	}
}

// Diagram draws a wave plan as boxes.
func (p *Printer) Diagram(plan dag.WavePlan, g *dag.Graph, critical []string, tracks []dag.Track) {
	d := &Diagram{
		Critical: make(map[string]bool, len(critical)),
		Tracks:   make(map[string]int),
	}
	if p.color {
		d.Renderer = p.r
	}
	for _, id := range critical {
		d.Critical[id] = true
	}
	for _, t := range tracks {
		for _, id := range t.ItemIDs {
			d.Tracks[id] = t.ID
		}
	}
	p.printf("%s", d.Render(plan, g))
}

// Tracks prints the independent groups of items.
func (p *Printer) Tracks(s session.Session, tracks []dag.Track) {
	p.printf("%s\n", p.st.heading.Render(fmt.Sprintf("%d independent track%s", len(tracks), pluralS(len(tracks)))))
	for _, t := range tracks {
		p.printf("  %s %s\n", p.st.accent.Render(fmt.Sprintf("track %d:", t.ID)), strings.Join(labels(s, t.ItemIDs), " → "))
	}
}

// CriticalPath prints the longest chain of items.
func (p *Printer) CriticalPath(s session.Session, path []string) {
	if len(path) == 0 {
		return
	}
	p.printf("%s %s\n", p.st.bold.Render(fmt.Sprintf("critical path (%d):", len(path))), strings.Join(labels(s, path), " → "))
}

// Validation prints the outcome of Session.Validate.
func (p *Printer) Validation(name string, s session.Session, errs []session.ValidationError) {
	if len(errs) == 0 {
		p.Success(fmt.Sprintf("session %q: %d item%s, no problems", name, len(s.Items), pluralS(len(s.Items))))
		return
	}
	fatal := 0
	for i := range errs {
		if errs[i].Fatal() {
			fatal++
		}
	}
	if fatal > 0 {
		p.printf("%s session %q: %d error%s\n", p.st.err.Render("✗"), name, fatal, pluralS(fatal))
	} else {
		p.printf("%s session %q: %d warning%s\n", p.st.warn.Render("!"), name, len(errs), pluralS(len(errs)))
	}
	for i := range errs {
		bullet := p.st.warn.Render("•")
		if errs[i].Fatal() {
			bullet = p.st.err.Render("•")
		}
		p.printf("  %s [%s] %s\n", bullet, errs[i].Category, errs[i].Error())
	}
}

// Snapshots lists stored snapshots with their age relative to now.
func (p *Printer) Snapshots(list []store.Snapshot, now time.Time) {
	if len(list) == 0 {
		p.Info("no saved snapshots")
		return
	}
	width := 0
	for _, s := range list {
		width = max(width, len(s.Name))
	}
	for _, s := range list {
		p.printf("  %-*s  %s item%s  %s  %s\n", width, s.Name,
			humanize.Comma(int64(s.Items)), pluralS(s.Items),
			fmt.Sprintf("%d/%d answered", s.Resolved, s.Questions),
			p.st.dim.Render("saved "+humanize.RelTime(s.SavedAt, now, "ago", "from now")))
	}
}

// Replanning announces a recomputation triggered by a file change.
func (p *Printer) Replanning(path string, at time.Time) {
	p.Info(fmt.Sprintf("── %s changed at %s, replanning ──", path, at.Format("15:04:05")))
}
