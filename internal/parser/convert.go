package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"dicec/internal/ast"
)

// convertProgram turns the participle parse tree into the clean internal/ast
// shape that the rest of the compiler consumes.
func convertProgram(p *Program) (*ast.Program, error) {
	out := &ast.Program{Pos: convertPos(p.Pos)}
	for _, item := range p.Items {
		switch {
		case item.Const != nil:
			d, err := convertConst(item.Const)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, d)
		case item.Func != nil:
			d, err := convertFunc(item.Func)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, d)
		case item.Analyze != nil:
			e, err := convertExpr(item.Analyze.Expr)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, &ast.AnalyzeDecl{Pos: convertPos(item.Analyze.Pos), Expr: e})
		default:
			return nil, fmt.Errorf("empty top-level item at %s", item.Pos)
		}
	}
	return out, nil
}

func convertPos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func convertType(t *TypeTag) (ast.Type, error) {
	switch t.Name {
	case "int":
		return ast.TInt, nil
	case "bool":
		return ast.TBool, nil
	case "vec":
		if t.VecElem == nil {
			return ast.TInvalid, fmt.Errorf("vec type missing element type at %s", t.Pos)
		}
		switch *t.VecElem {
		case "int":
			return ast.TVecInt, nil
		case "bool":
			return ast.TVecBool, nil
		default:
			return ast.TInvalid, fmt.Errorf("unknown vec element type %q at %s", *t.VecElem, t.Pos)
		}
	default:
		return ast.TInvalid, fmt.Errorf("unknown type %q at %s", t.Name, t.Pos)
	}
}

func convertConst(c *ConstDecl) (*ast.ConstDecl, error) {
	ty, err := convertType(c.Type)
	if err != nil {
		return nil, err
	}
	e, err := convertExpr(c.Expr)
	if err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Pos: convertPos(c.Pos), Name: c.Name, Type: ty, Expr: e}, nil
}

func convertFunc(f *FuncDecl) (*ast.FuncDecl, error) {
	retTy, err := convertType(f.ReturnType)
	if err != nil {
		return nil, err
	}
	out := &ast.FuncDecl{Pos: convertPos(f.Pos), Name: f.Name, ReturnType: retTy}
	for _, p := range f.Params {
		ty, err := convertType(p.Type)
		if err != nil {
			return nil, err
		}
		out.Params = append(out.Params, &ast.Param{Pos: convertPos(p.Pos), Name: p.Name, Type: ty})
	}
	for _, s := range f.Body {
		stmt, err := convertStmt(s)
		if err != nil {
			return nil, err
		}
		out.Body = append(out.Body, stmt)
	}
	return out, nil
}

func convertStmt(s *Stmt) (ast.Stmt, error) {
	switch {
	case s.Let != nil:
		ty, err := convertType(s.Let.Type)
		if err != nil {
			return nil, err
		}
		e, err := convertExpr(s.Let.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.LetStmt{Pos: convertPos(s.Let.Pos), Name: s.Let.Name, Type: ty, Expr: e}, nil
	case s.Return != nil:
		e, err := convertExpr(s.Return.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Pos: convertPos(s.Return.Pos), Expr: e}, nil
	default:
		return nil, fmt.Errorf("empty statement at %s", s.Pos)
	}
}

var opTable = map[string]ast.Op{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv,
	"&": ast.OpAnd, "|": ast.OpOr,
	"==": ast.OpEqual, "!=": ast.OpNotEqual,
	">": ast.OpGreaterThan, "<": ast.OpLessThan,
	">=": ast.OpGreaterThanEqual, "<=": ast.OpLessThanEqual,
}

func convertExpr(e *Expr) (ast.Expr, error) {
	switch {
	case e.Paren != nil:
		left, err := convertExpr(e.Paren.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(e.Paren.Right)
		if err != nil {
			return nil, err
		}
		op, ok := opTable[e.Paren.Op]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q at %s", e.Paren.Op, e.Paren.Pos)
		}
		return &ast.Binary{Pos: convertPos(e.Paren.Pos), Left: left, Op: op, Right: right}, nil
	case e.Literal != nil:
		return convertLiteral(e.Literal)
	case e.Call != nil:
		out := &ast.Call{Pos: convertPos(e.Call.Pos), Callee: e.Call.Callee}
		for _, a := range e.Call.Args {
			ae, err := convertExpr(a)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, ae)
		}
		return out, nil
	case e.Ident != nil:
		return &ast.Ident{Pos: convertPos(e.Pos), Name: *e.Ident}, nil
	default:
		return nil, fmt.Errorf("empty expression at %s", e.Pos)
	}
}

func convertLiteral(l *Literal) (ast.Expr, error) {
	switch {
	case l.EnvInt != nil:
		return &ast.Literal{Pos: convertPos(l.Pos), Kind: ast.LitEnvInt, EnvName: *l.EnvInt}, nil
	case l.EnvBool != nil:
		return &ast.Literal{Pos: convertPos(l.Pos), Kind: ast.LitEnvBool, EnvName: *l.EnvBool}, nil
	case l.BoolLit != nil:
		return &ast.Literal{Pos: convertPos(l.Pos), Kind: ast.LitBool, BoolVal: *l.BoolLit == "true"}, nil
	case l.IntLit != nil:
		return &ast.Literal{Pos: convertPos(l.Pos), Kind: ast.LitInt, IntVal: *l.IntLit}, nil
	default:
		return nil, fmt.Errorf("empty literal at %s", l.Pos)
	}
}
