// Package namespace builds the global name table from a parsed Program and
// resolves each scope (function bodies and the root analyze expression)
// into a typed BasicBlock.
package namespace

import (
	"dicec/internal/ast"
	"dicec/internal/errors"
	"dicec/internal/stdlib"
)

// Namespace is the read-only, globally-unique name table built once from
// the AST.
type Namespace struct {
	Constants map[string]*ast.ConstDecl
	Functions map[string]*ast.FuncDecl
	Analyze   *ast.AnalyzeDecl
	// FuncOrder and ConstOrder preserve declaration order for deterministic
	// iteration during later stages.
	FuncOrder  []string
	ConstOrder []string
}

// Build seeds the namespace with the stdlib signatures, then populates
// constants, functions, and the single analyze declaration, rejecting
// duplicate and stdlib-shadowing names.
func Build(prog *ast.Program) (*Namespace, []*errors.CompilerError) {
	ns := &Namespace{
		Constants: map[string]*ast.ConstDecl{},
		Functions: map[string]*ast.FuncDecl{},
	}
	var errs []*errors.CompilerError

	seen := map[string]ast.Position{}
	declare := func(name string, pos ast.Position) bool {
		if stdlib.IsStdlib(name) {
			errs = append(errs, errors.Newf(errors.ErrStdlibShadowed, pos,
				"%q shadows a standard library function", name))
			return false
		}
		if prevPos, ok := seen[name]; ok {
			errs = append(errs, errors.Newf(errors.ErrDuplicateName, pos,
				"%q is already declared at %d:%d", name, prevPos.Line, prevPos.Column))
			return false
		}
		seen[name] = pos
		return true
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ConstDecl:
			if declare(decl.Name, decl.Pos) {
				ns.Constants[decl.Name] = decl
				ns.ConstOrder = append(ns.ConstOrder, decl.Name)
			}
		case *ast.FuncDecl:
			if declare(decl.Name, decl.Pos) {
				ns.Functions[decl.Name] = decl
				ns.FuncOrder = append(ns.FuncOrder, decl.Name)
			}
		case *ast.AnalyzeDecl:
			if ns.Analyze != nil {
				errs = append(errs, errors.New(errors.ErrMultipleAnalyze,
					"only one analyze declaration is allowed", decl.Pos))
				continue
			}
			ns.Analyze = decl
		}
	}

	if ns.Analyze == nil {
		errs = append(errs, errors.New(errors.ErrMissingAnalyze,
			"program has no analyze declaration", prog.Pos))
	}

	if len(errs) > 0 {
		return ns, errs
	}
	if cycleErrs := detectRecursion(ns); len(cycleErrs) > 0 {
		return ns, cycleErrs
	}
	return ns, nil
}

// detectRecursion rejects self-referential or mutually recursive function
// call graphs up front, via a white/grey/black DFS over the call graph.
func detectRecursion(ns *Namespace) []*errors.CompilerError {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[string]int{}
	var errs []*errors.CompilerError

	var visit func(name string) bool
	visit = func(name string) bool {
		fn, ok := ns.Functions[name]
		if !ok {
			return true
		}
		switch color[name] {
		case black:
			return true
		case grey:
			errs = append(errs, errors.Newf(errors.ErrRecursiveFunction, fn.Pos,
				"function %q participates in a recursive call cycle", name))
			return false
		}
		color[name] = grey
		ok2 := true
		for _, callee := range calledFunctions(fn, ns) {
			if !visit(callee) {
				ok2 = false
			}
		}
		color[name] = black
		return ok2
	}

	for _, name := range ns.FuncOrder {
		visit(name)
	}
	return errs
}

func calledFunctions(fn *ast.FuncDecl, ns *Namespace) []string {
	var out []string
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.Call:
			if _, ok := ns.Functions[v.Callee]; ok {
				out = append(out, v.Callee)
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.Binary:
			walk(v.Left)
			walk(v.Right)
		}
	}
	for _, s := range fn.Body {
		switch stmt := s.(type) {
		case *ast.LetStmt:
			walk(stmt.Expr)
		case *ast.ReturnStmt:
			walk(stmt.Expr)
		}
	}
	return out
}
