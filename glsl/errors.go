package glsl

import (
	"fmt"
	"strings"
)

// SourceError is a diagnostic anchored to a source span, with an optional
// caret-pointing rendering of the offending line.
type SourceError struct {
	Message string
	Span    Span
	Source  string
}

func (e *SourceError) Error() string {
	if e.Span.Start.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// FormatWithContext renders the error with the offending source line and a
// caret under the column, the same shape the teacher uses for its
// terminal diagnostics.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || e.Span.Start.Line == 0 {
		return e.Error()
	}
	lines := strings.Split(e.Source, "\n")
	lineNum := e.Span.Start.Line
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}
	line := lines[lineNum-1]
	col := e.Span.Start.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

// NewSourceError builds a SourceError.
func NewSourceError(message string, span Span, source string) *SourceError {
	return &SourceError{Message: message, Span: span, Source: source}
}

// NewSourceErrorf builds a SourceError with a formatted message.
func NewSourceErrorf(span Span, source string, format string, args ...interface{}) *SourceError {
	return &SourceError{Message: fmt.Sprintf(format, args...), Span: span, Source: source}
}

// SourceErrors is an accumulated diagnostic list.
type SourceErrors []*SourceError

func (el SourceErrors) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// FormatAll renders every error with source context, separated by blank lines.
func (el SourceErrors) FormatAll() string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.FormatWithContext())
	}
	return sb.String()
}

func (el *SourceErrors) Add(err *SourceError) { *el = append(*el, err) }

func (el *SourceErrors) AddError(message string, span Span, source string) {
	el.Add(NewSourceError(message, span, source))
}

func (el SourceErrors) Len() int { return len(el) }

func (el SourceErrors) HasErrors() bool { return len(el) > 0 }
