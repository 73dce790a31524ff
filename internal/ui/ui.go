// Package ui provides stderr-based output for pairplan: plans, conflicts,
// question lists and snapshot listings, styled with lipgloss.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	bold    lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	heading lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		accent:  r.NewStyle().Foreground(lipgloss.Color("6")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

// Printer writes human-facing output. Color is used only when the writer
// is a terminal and noColor is unset.
type Printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	st    styles
	color bool
}

// New returns a Printer writing to stderr.
func New(noColor bool) *Printer {
	return NewWriter(os.Stderr, noColor)
}

// NewWriter returns a Printer writing to w.
func NewWriter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:     w,
		r:     r,
		st:    newStyles(r),
		color: r.ColorProfile() != termenv.Ascii,
	}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	p.printf("%s%s\n", p.st.err.Render("error: "), msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	p.printf("%s%s\n", p.st.warn.Render("warning: "), msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	p.println(p.st.dim.Render(msg))
}

// Success prints a check-marked line.
func (p *Printer) Success(msg string) {
	p.printf("%s %s\n", p.st.ok.Render("✓"), msg)
}

// pluralS returns "s" if n != 1, for simple English pluralization.
func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
