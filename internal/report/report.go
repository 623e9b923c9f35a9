// Package report writes the user-facing status lines printed by commands.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Status words used in item lines.
const (
	Created     = "created"
	Overwritten = "overwritten"
	Skipped     = "skipped"
	Removed     = "removed"
	Unchanged   = "unchanged"
	Changed     = "changed"
	Missing     = "missing"
	Valid       = "valid"
)

// Printer writes status lines to w. Colour is only emitted when w is a
// terminal that supports it.
type Printer struct {
	w io.Writer

	bullet  lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	faint   lipgloss.Style
	success lipgloss.Style
}

// New returns a [Printer] writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		bullet:  r.NewStyle().Foreground(lipgloss.Color("6")),
		good:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("1")),
		faint:   r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Item prints "  • path (status[, detail])".
func (p *Printer) Item(path, status string, detail ...string) {
	word := p.statusStyle(status).Render(status)
	for _, d := range detail {
		word += ", " + d
	}
	fmt.Fprintf(p.w, "  %s %s (%s)\n", p.bullet.Render("•"), path, word)
}

// Warn prints "  ⚠ message".
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.warn.Render("⚠"), fmt.Sprintf(format, args...))
}

// Fail prints "  ✗ message".
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.bad.Render("✗"), fmt.Sprintf(format, args...))
}

// Note prints "  → message".
func (p *Printer) Note(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.faint.Render("→"), fmt.Sprintf(format, args...))
}

// Success prints a blank line followed by "✓ message".
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "\n%s %s\n", p.success.Render("✓"), fmt.Sprintf(format, args...))
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) statusStyle(status string) lipgloss.Style {
	switch status {
	case Created, Valid:
		return p.good
	case Overwritten, Changed:
		return p.warn
	case Removed, Missing:
		return p.bad
	}
	return p.faint
}
