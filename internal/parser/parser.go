// Package parser turns dice-expression source text into an *ast.Program
// using a participle-based grammar, so the CLI is runnable end to end.
package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"dicec/internal/ast"
)

var diceParser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(DiceLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(3),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build dice parser: %w", err))
	}
	return p
}

// ParseSource parses source text into an ast.Program.
func ParseSource(filename, source string) (*ast.Program, error) {
	tree, err := diceParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return convertProgram(tree)
}

// FormatParseError renders a participle parse error in a Rust-like
// caret-style diagnostic format.
func FormatParseError(src string, err error) string {
	pe, ok := err.(participle.Error)
	if !ok {
		return fmt.Sprintf("unexpected error: %s", err)
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return fmt.Sprintf("syntax error at unknown location: %s", err)
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	return fmt.Sprintf("syntax error in %s at line %d, column %d:\n%s\n%s\n%s",
		pos.Filename, pos.Line, pos.Column, line, caret, pe.Message())
}
