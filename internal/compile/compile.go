// Package compile wires the full dicec pipeline: parse, build and resolve
// the namespace, lower to a content-addressed pool, inline, build and
// rewrite the dataflow graph, then execute it.
package compile

import (
	"github.com/alecthomas/participle/v2"

	"dicec/internal/ast"
	"dicec/internal/env"
	"dicec/internal/errors"
	"dicec/internal/graph"
	"dicec/internal/hashedpool"
	"dicec/internal/inline"
	"dicec/internal/namespace"
	"dicec/internal/parser"
	"dicec/internal/runtime"
)

// Compile parses source, validates and lowers it through every pipeline
// stage, and executes the resulting graph. It stops and returns at the
// first stage producing errors; execution only runs once every prior stage
// reports success.
func Compile(filename, source string, lookup env.Lookup) (*runtime.Report, []*errors.CompilerError) {
	prog, err := parser.ParseSource(filename, source)
	if err != nil {
		pos := ast.Position{Filename: filename}
		if pe, ok := err.(participle.Error); ok {
			p := pe.Position()
			pos = ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
		}
		return nil, []*errors.CompilerError{errors.New(errors.ErrParse, err.Error(), pos)}
	}

	ns, errs := namespace.Build(prog)
	if len(errs) > 0 {
		return nil, errs
	}

	root, funcs, consts, errs := namespace.Resolve(ns)
	if len(errs) > 0 {
		return nil, errs
	}

	pool := hashedpool.FromNamespace(root, funcs, ns.FuncOrder, consts, ns.ConstOrder)

	flat, ierrs := inline.Inline(pool, lookup)
	if len(ierrs) > 0 {
		return nil, ierrs
	}

	g := graph.Build(flat)
	graph.Rewrite(g)

	report, rerr := runtime.Evaluate(g)
	if rerr != nil {
		return nil, []*errors.CompilerError{rerr}
	}
	return report, nil
}
