package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pairplan/internal/dag"
)

// Diagram draws a wave plan as boxes joined by Unicode connectors, one row
// per wave. Plans with more than compactThreshold items are drawn as one
// line per item instead.
type Diagram struct {
	// Width is the available terminal width in columns.
	Width int

	// Renderer styles the output. A nil Renderer draws plain text.
	Renderer *lipgloss.Renderer

	// Critical marks items on the critical path; they are drawn bold.
	Critical map[string]bool

	// Tracks maps item id to track number; each track gets its own color,
	// and items outside track 1 get double-line borders.
	Tracks map[string]int
}

const compactThreshold = 10

var trackColors = []lipgloss.Color{"4", "5", "2", "3", "6", "1"}

// Render produces the diagram for plan. Item titles and dependencies come
// from g. An empty plan renders as "".
func (d *Diagram) Render(plan dag.WavePlan, g *dag.Graph) string {
	total := 0
	for _, w := range plan.Waves {
		total += len(w.ItemIDs)
	}
	if total == 0 {
		return ""
	}
	width := d.Width
	if width <= 0 {
		width = 80
	}
	if total > compactThreshold {
		return d.renderCompact(plan, g)
	}
	return d.renderFull(plan, g, width)
}

// box is the rendered text and position of one item.
type box struct {
	id     string
	lines  []string
	width  int
	center int
}

func (d *Diagram) renderFull(plan dag.WavePlan, g *dag.Graph, width int) string {
	boxes := make(map[string]*box, g.Len())
	for _, w := range plan.Waves {
		for _, id := range w.ItemIDs {
			boxes[id] = d.buildBox(id, g.Label(id))
		}
	}

	var sb strings.Builder
	for wi, w := range plan.Waves {
		row := make([]*box, len(w.ItemIDs))
		for i, id := range w.ItemIDs {
			row[i] = boxes[id]
		}
		layoutRow(row, width)
		if wi > 0 {
			drawConnectors(&sb, plan.Waves[wi-1], w, boxes, g, width)
		}
		drawRow(&sb, row)
	}
	return sb.String()
}

// buildBox draws one item:
//
//	┌──────────────┐
//	│ Build binary │
//	│ build        │   (id line only when it differs from the label)
//	└──────────────┘
func (d *Diagram) buildBox(id, label string) *box {
	content := []string{label}
	if label != id {
		content = append(content, id)
	}

	inner := 6
	for _, line := range content {
		if w := lipgloss.Width(line); w > inner {
			inner = w
		}
	}

	b := d.border(id)
	tl, tr, bl, br, h, v := string(b[0]), string(b[1]), string(b[2]), string(b[3]), string(b[4]), string(b[5])

	lines := []string{d.colorize(tl+strings.Repeat(h, inner+2)+tr, id)}
	for _, cl := range content {
		padded := cl + strings.Repeat(" ", inner-lipgloss.Width(cl))
		lines = append(lines, d.colorize(v+" "+padded+" "+v, id))
	}
	lines = append(lines, d.colorize(bl+strings.Repeat(h, inner+2)+br, id))

	return &box{id: id, lines: lines, width: inner + 4}
}

// border returns [TL, TR, BL, BR, H, V].
func (d *Diagram) border(id string) [6]rune {
	if t, ok := d.Tracks[id]; ok && t > 1 {
		return [6]rune{'╔', '╗', '╚', '╝', '═', '║'}
	}
	return [6]rune{'┌', '┐', '└', '┘', '─', '│'}
}

func (d *Diagram) style(id string) lipgloss.Style {
	s := d.Renderer.NewStyle()
	if t, ok := d.Tracks[id]; ok && t > 0 {
		s = s.Foreground(trackColors[(t-1)%len(trackColors)])
	}
	if d.Critical[id] {
		s = s.Bold(true)
	}
	return s
}

func (d *Diagram) colorize(text, id string) string {
	if d.Renderer == nil {
		return text
	}
	return d.style(id).Render(text)
}

// layoutRow spaces boxes evenly across width.
func layoutRow(row []*box, width int) {
	n := len(row)
	if n == 0 {
		return
	}
	if n == 1 {
		row[0].center = width / 2
		return
	}

	total := 0
	for _, b := range row {
		total += b.width
	}
	gap := 2
	if total < width {
		gap = max((width-total)/(n+1), 2)
	}

	x := gap
	for _, b := range row {
		b.center = x + b.width/2
		x += b.width + gap
	}
}

func drawRow(sb *strings.Builder, row []*box) {
	maxLines := 0
	for _, b := range row {
		maxLines = max(maxLines, len(b.lines))
	}
	for li := 0; li < maxLines; li++ {
		cursor := 0
		for _, b := range row {
			if li >= len(b.lines) {
				continue
			}
			start := max(b.center-b.width/2, 0)
			if start > cursor {
				sb.WriteString(strings.Repeat(" ", start-cursor))
				cursor = start
			}
			sb.WriteString(b.lines[li])
			cursor = start + lipgloss.Width(b.lines[li])
		}
		sb.WriteByte('\n')
	}
}

// drawConnectors draws a drop line and a branch line between two adjacent
// waves. Prerequisites from older waves are drawn when no item in the
// current wave depends directly on the previous one.
func drawConnectors(sb *strings.Builder, prev, curr dag.Wave, boxes map[string]*box, g *dag.Graph, width int) {
	type link struct{ from, to int }
	var links []link

	inPrev := make(map[string]bool, len(prev.ItemIDs))
	for _, id := range prev.ItemIDs {
		inPrev[id] = true
	}
	for _, to := range curr.ItemIDs {
		for _, from := range g.Sources(to) {
			if inPrev[from] {
				links = append(links, link{boxes[from].center, boxes[to].center})
			}
		}
	}
	if len(links) == 0 {
		for _, to := range curr.ItemIDs {
			for _, from := range g.Sources(to) {
				if fb := boxes[from]; fb != nil {
					links = append(links, link{fb.center, boxes[to].center})
				}
			}
		}
	}
	if len(links) == 0 {
		return
	}

	blank := func() []rune {
		line := make([]rune, width)
		for i := range line {
			line[i] = ' '
		}
		return line
	}
	set := func(line []rune, col int, r rune) {
		if col >= 0 && col < width {
			line[col] = r
		}
	}
	span := func(line []rune, lo, hi int) {
		for col := max(lo, 0); col <= hi && col < width; col++ {
			if line[col] == ' ' {
				line[col] = '─'
			}
		}
	}

	drops := blank()
	for _, l := range links {
		set(drops, l.from, '│')
	}
	sb.WriteString(strings.TrimRight(string(drops), " "))
	sb.WriteByte('\n')

	branches := blank()

	// Fan-out from each source.
	bySource := make(map[int][]int)
	for _, l := range links {
		bySource[l.from] = append(bySource[l.from], l.to)
	}
	for _, from := range sortedKeys(bySource) {
		tos := bySource[from]
		if len(tos) == 1 && tos[0] == from {
			set(branches, from, '│')
			continue
		}
		sort.Ints(tos)
		lo, hi := min(tos[0], from), max(tos[len(tos)-1], from)
		span(branches, lo, hi)
		set(branches, from, '┴')
		for _, to := range tos {
			switch to {
			case lo:
				set(branches, to, '├')
			case hi:
				set(branches, to, '┤')
			default:
				set(branches, to, '┬')
			}
		}
	}

	// Fan-in to each target.
	byTarget := make(map[int][]int)
	for _, l := range links {
		byTarget[l.to] = append(byTarget[l.to], l.from)
	}
	for _, to := range sortedKeys(byTarget) {
		froms := byTarget[to]
		if len(froms) <= 1 {
			continue
		}
		sort.Ints(froms)
		span(branches, min(froms[0], to), max(froms[len(froms)-1], to))
		set(branches, to, '┬')
	}

	sb.WriteString(strings.TrimRight(string(branches), " "))
	sb.WriteByte('\n')
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// renderCompact draws one line per item with arrows to the items it
// unblocks, grouped by wave.
func (d *Diagram) renderCompact(plan dag.WavePlan, g *dag.Graph) string {
	var sb strings.Builder
	for wi, w := range plan.Waves {
		if wi > 0 {
			sb.WriteByte('\n')
		}
		label := fmt.Sprintf("Wave %d: ", w.Number)
		if d.Renderer != nil {
			sb.WriteString(d.Renderer.NewStyle().Faint(true).Render(label))
		} else {
			sb.WriteString(label)
		}

		for ni, id := range w.ItemIDs {
			if ni > 0 {
				sb.WriteString(strings.Repeat(" ", len(label)))
			}
			node := d.compactNode(id, g.Label(id))
			sb.WriteString(node)

			targets := append([]string(nil), g.Targets(id)...)
			sort.Strings(targets)
			for ti, next := range targets {
				sb.WriteString(" → ")
				sb.WriteString(d.compactNode(next, g.Label(next)))
				if ti < len(targets)-1 {
					sb.WriteByte('\n')
					sb.WriteString(strings.Repeat(" ", len(label)+lipgloss.Width(node)))
				}
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// compactNode renders [label]; without color, critical items get a
// trailing "*".
func (d *Diagram) compactNode(id, label string) string {
	text := "[" + label + "]"
	if d.Renderer == nil {
		if d.Critical[id] {
			return text + "*"
		}
		return text
	}
	return d.style(id).Render(text)
}
