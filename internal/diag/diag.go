// Package diag renders slangc diagnostics for the terminal.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/slang-lang/slang/syntax"
)

// Color modes accepted by New.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
	colorInfo  = lipgloss.Color("#06B6D4")
)

// Printer writes diagnostics to a stream.
type Printer struct {
	w     io.Writer
	plain bool

	label  lipgloss.Style
	arrow  lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
}

// New returns a Printer for w. mode is ColorAuto, ColorAlways or ColorNever;
// auto colors only when w is a terminal.
func New(w io.Writer, mode string) (*Printer, error) {
	r := lipgloss.NewRenderer(w)
	p := &Printer{w: w}
	switch mode {
	case ColorAuto, "":
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		p.plain = true
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}

	p.label = r.NewStyle().Bold(true).Foreground(colorError)
	p.arrow = r.NewStyle().Foreground(colorInfo)
	p.gutter = r.NewStyle().Foreground(colorMuted)
	p.caret = r.NewStyle().Bold(true).Foreground(colorError)
	return p, nil
}

func (p *Printer) paint(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

// Error writes err. Scan and parse errors are shown against source with a
// caret under the offending position; other errors get a single line.
func (p *Printer) Error(err error, filename, source string) {
	if srcErr, ok := syntax.AsSourceError(err, source); ok {
		io.WriteString(p.w, p.Render(srcErr, filename))
		return
	}
	io.WriteString(p.w, p.paint(p.label, "error")+": "+err.Error()+"\n")
}

// Render formats e like SourceError.FormatWithContext, with styling and,
// when filename is set, a file:line:col location.
func (p *Printer) Render(e *syntax.SourceError, filename string) string {
	var sb strings.Builder
	if e.WriteContext(&sb, filename, p.style) {
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s: %s\n", p.paint(p.label, "error"), e.Message)
	if filename != "" {
		fmt.Fprintf(&sb, "  %s %s\n", p.paint(p.arrow, "-->"), filename)
	}
	return sb.String()
}

func (p *Printer) style(part syntax.ContextPart, s string) string {
	switch part {
	case syntax.PartLabel:
		return p.paint(p.label, s)
	case syntax.PartArrow:
		return p.paint(p.arrow, s)
	case syntax.PartCaret:
		return p.paint(p.caret, s)
	default:
		return p.paint(p.gutter, s)
	}
}
