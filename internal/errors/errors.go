// Package errors provides the compiler's structured diagnostic type: a
// CompilerError with a severity, an E0xxx code, a source position, and a
// caret-style renderer using github.com/fatih/color.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dicec/internal/ast"
)

// Level is the severity of a CompilerError.
type Level string

const (
	Error Level = "error"
	Note  Level = "note"
)

// CompilerError is the single error type every compiler stage returns.
type CompilerError struct {
	Level    Level
	Code     string
	Message  string
	Position ast.Position
}

func (e *CompilerError) Error() string {
	if e.Position.Line > 0 {
		return fmt.Sprintf("%s: [%s] %s (%s:%d:%d)", e.Level, e.Code, e.Message, e.Position.Filename, e.Position.Line, e.Position.Column)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Level, e.Code, e.Message)
}

// New builds a CompilerError.
func New(code, message string, pos ast.Position) *CompilerError {
	return &CompilerError{Level: Error, Code: code, Message: message, Position: pos}
}

// Newf builds a CompilerError with a formatted message.
func Newf(code string, pos ast.Position, format string, args ...interface{}) *CompilerError {
	return New(code, fmt.Sprintf(format, args...), pos)
}

// Reporter renders CompilerErrors against the original source in a
// Rust-like caret style.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter creates a Reporter for a file's source text.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders one CompilerError as a multi-line diagnostic string.
func (r *Reporter) Format(e *CompilerError) string {
	var b strings.Builder
	header := color.New(color.FgRed, color.Bold)
	if e.Level == Note {
		header = color.New(color.FgCyan, color.Bold)
	}
	b.WriteString(header.Sprintf("%s[%s]: %s\n", e.Level, e.Code, e.Message))
	if e.Position.Line > 0 && e.Position.Line <= len(r.lines) {
		line := r.lines[e.Position.Line-1]
		b.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", r.filename, e.Position.Line, e.Position.Column))
		b.WriteString(fmt.Sprintf("   | %s\n", line))
		caretCol := e.Position.Column - 1
		if caretCol < 0 {
			caretCol = 0
		}
		b.WriteString("   | " + strings.Repeat(" ", caretCol) + color.RedString("^") + "\n")
	}
	return b.String()
}

// FormatAll renders a batch of errors.
func (r *Reporter) FormatAll(errs []*CompilerError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(r.Format(e))
	}
	return b.String()
}
