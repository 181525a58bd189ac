package syntax

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ScanErrorKind distinguishes the two ways scanning can fail.
type ScanErrorKind uint8

const (
	// ScanUnexpectedChar reports a character that cannot start or continue a token.
	ScanUnexpectedChar ScanErrorKind = iota
	// ScanUnexpectedEOF reports input that ended in the middle of a token.
	ScanUnexpectedEOF
)

// ScanError is returned by the lexer when the source cannot be tokenized.
type ScanError struct {
	Kind ScanErrorKind
	Char rune // zero for ScanUnexpectedEOF
	Byte byte // the undecodable byte when Char is utf8.RuneError from invalid UTF-8, else zero
	Pos  Position
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.message())
}

func (e *ScanError) message() string {
	if e.Kind == ScanUnexpectedEOF {
		return "unexpected end of input"
	}
	if e.Byte != 0 {
		return fmt.Sprintf("invalid UTF-8 byte 0x%02x", e.Byte)
	}
	return fmt.Sprintf("unexpected character %q", e.Char)
}

// ParseError reports a token that does not fit the grammar at the point it
// was found, together with the token kinds that would have been accepted.
type ParseError struct {
	Token    Token
	Expected []TokenKind // sorted by spelling, no duplicates
	Limit    int         // MaxNesting when nesting stopped the parse, else zero
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Token.Span.Start, e.message())
}

func (e *ParseError) message() string {
	if e.Limit > 0 {
		return fmt.Sprintf("expression nested deeper than %d levels", e.Limit)
	}
	var got string
	if e.Token.Kind == TokenEOF {
		got = "unexpected end of input"
	} else {
		got = fmt.Sprintf("unexpected token '%s'", e.Token.Lexeme)
	}

	switch len(e.Expected) {
	case 0:
		return got
	case 1:
		return fmt.Sprintf("%s, expected '%s'", got, e.Expected[0])
	}

	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s, expected one of: %s", got, strings.Join(names, " "))
}

// Expects reports whether kind is in the expected set.
func (e *ParseError) Expects(kind TokenKind) bool {
	for _, k := range e.Expected {
		if k == kind {
			return true
		}
	}
	return false
}

// SourceError represents an error with source location information.
type SourceError struct {
	Message string
	Span    Span
	Source  string // Original source code (for context display)
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if !e.Span.Start.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// Line returns the source line the error points at, without its newline.
// ok is false when the span lies outside the source.
func (e *SourceError) Line() (line string, ok bool) {
	if e.Source == "" || !e.Span.Start.IsValid() {
		return "", false
	}
	lines := strings.Split(e.Source, "\n")
	lineNum := e.Span.Start.Line
	if lineNum < 1 || lineNum > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[lineNum-1], "\r"), true
}

// CaretColumn clamps the start column to the printable range of the line.
func (e *SourceError) CaretColumn(line string) int {
	col := e.Span.Start.Column
	if col < 1 {
		col = 1
	}
	if n := len([]rune(line)) + 1; col > n {
		col = n
	}
	return col
}

// ContextPart names a piece of a context report that a renderer may style.
type ContextPart uint8

const (
	PartLabel  ContextPart = iota // the "error" label
	PartArrow                     // the "-->" location marker
	PartGutter                    // line number column and bars
	PartCaret                     // the "^" under the error position
)

// ContextStyle decorates one piece of a context report. The source line
// itself is never passed through it.
type ContextStyle func(part ContextPart, s string) string

// WriteContext writes the report FormatWithContext returns, passing each
// decorative piece through style (nil leaves them plain). A non-empty
// filename replaces "line" in the location. It writes nothing and returns
// false when the span has no line in the source.
func (e *SourceError) WriteContext(w io.Writer, filename string, style ContextStyle) bool {
	line, ok := e.Line()
	if !ok {
		return false
	}
	if style == nil {
		style = func(_ ContextPart, s string) string { return s }
	}
	lineNum := e.Span.Start.Line
	col := e.CaretColumn(line)
	location := fmt.Sprintf("line %d:%d", lineNum, col)
	if filename != "" {
		location = fmt.Sprintf("%s:%d:%d", filename, lineNum, col)
	}

	bar := style(PartGutter, "|")
	fmt.Fprintf(w, "%s: %s\n", style(PartLabel, "error"), e.Message)
	fmt.Fprintf(w, "  %s %s\n", style(PartArrow, "-->"), location)
	fmt.Fprintf(w, "   %s\n", bar)
	fmt.Fprintf(w, "%s %s\n", style(PartGutter, fmt.Sprintf("%3d|", lineNum)), line)
	fmt.Fprintf(w, "   %s %s%s\n", bar, strings.Repeat(" ", col-1), style(PartCaret, "^"))
	return true
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	var sb strings.Builder
	if !e.WriteContext(&sb, "", nil) {
		return e.Error()
	}
	return sb.String()
}

// NewSourceError creates a new SourceError.
func NewSourceError(message string, span Span, source string) *SourceError {
	return &SourceError{
		Message: message,
		Span:    span,
		Source:  source,
	}
}

// AsSourceError extracts a *ScanError or *ParseError from err's chain and
// attaches source for context display. ok is false for any other error.
func AsSourceError(err error, source string) (*SourceError, bool) {
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return NewSourceError(scanErr.message(), Span{Start: scanErr.Pos, End: scanErr.Pos}, source), true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return NewSourceError(parseErr.message(), parseErr.Token.Span, source), true
	}
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr, true
	}
	return nil, false
}
