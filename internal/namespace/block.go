package namespace

import (
	"fmt"

	"dicec/internal/ast"
	"dicec/internal/errors"
	"dicec/internal/stdlib"
)

// Expr is the typed, name-resolved expression tree produced per scope. It
// is the input to the content-addressed lowering stage.
type Expr interface {
	Type() ast.Type
	isExpr()
}

// Literal is a constant or environment-backed literal.
type Literal struct {
	Pos  ast.Position
	Kind ast.LiteralKind
	Int  int64
	Bool bool
	Env  string
	T    ast.Type
}

func (l *Literal) Type() ast.Type { return l.T }
func (*Literal) isExpr()          {}

// ExternalConst references a program-level constant declaration by name.
type ExternalConst struct {
	Pos  ast.Position
	Name string
	T    ast.Type
}

func (c *ExternalConst) Type() ast.Type { return c.T }
func (*ExternalConst) isExpr()          {}

// Local references a let-bound variable within the current scope.
type Local struct {
	Pos  ast.Position
	Name string
	T    ast.Type
}

func (v *Local) Type() ast.Type { return v.T }
func (*Local) isExpr()          {}

// FunctionArg references a parameter of the enclosing function by position.
type FunctionArg struct {
	Pos      ast.Position
	Name     string
	Position int
	T        ast.Type
}

func (a *FunctionArg) Type() ast.Type { return a.T }
func (*FunctionArg) isExpr()          {}

// Func is a call to a stdlib or user-defined function.
type Func struct {
	Pos      ast.Position
	Name     string
	IsStdlib bool
	Args     []Expr
	T        ast.Type
}

func (f *Func) Type() ast.Type { return f.T }
func (*Func) isExpr()          {}

// BinOp is a binary operation over two resolved operands.
type BinOp struct {
	Pos   ast.Position
	Left  Expr
	Op    ast.Op
	Right Expr
	T     ast.Type
}

func (o *BinOp) Type() ast.Type { return o.T }
func (*BinOp) isExpr()          {}

// BasicBlock is a function body or the root analyze scope: locals in
// declaration order, parameters, and a single return expression.
type BasicBlock struct {
	Params      []*ast.Param
	LocalOrder  []string
	Locals      map[string]Expr
	Return      Expr
	FuncName    string // "" for the root block
}

// Resolve converts the namespace's constants, function bodies, and analyze
// expression into typed Exprs and BasicBlocks.
func Resolve(ns *Namespace) (root *BasicBlock, funcs map[string]*BasicBlock, consts map[string]Expr, errs []*errors.CompilerError) {
	consts = map[string]Expr{}
	for _, name := range ns.ConstOrder {
		decl := ns.Constants[name]
		r := newResolver(ns, nil, "")
		e, cerrs := r.resolveExpr(decl.Expr)
		errs = append(errs, cerrs...)
		if e == nil {
			continue
		}
		if e.Type() != decl.Type {
			r.errf(errors.ErrTypeMismatch, decl.Pos, "const %q declared as %s but expression has type %s", decl.Name, decl.Type, e.Type())
			errs = append(errs, r.errs...)
			continue
		}
		consts[name] = e
	}

	funcs = map[string]*BasicBlock{}
	for _, name := range ns.FuncOrder {
		fn := ns.Functions[name]
		block, ferrs := resolveFunc(ns, fn)
		errs = append(errs, ferrs...)
		if block != nil {
			funcs[name] = block
		}
	}

	if ns.Analyze != nil {
		r := newResolver(ns, nil, "")
		e, eerrs := r.resolveExpr(ns.Analyze.Expr)
		errs = append(errs, eerrs...)
		if e != nil {
			root = &BasicBlock{Locals: map[string]Expr{}, Return: e}
		}
	}
	return root, funcs, consts, errs
}

func resolveFunc(ns *Namespace, fn *ast.FuncDecl) (*BasicBlock, []*errors.CompilerError) {
	r := newResolver(ns, fn, fn.Name)
	block := &BasicBlock{Params: fn.Params, Locals: map[string]Expr{}, FuncName: fn.Name}

	for _, p := range fn.Params {
		if stdlib.IsStdlib(p.Name) {
			r.errf(errors.ErrStdlibShadowed, p.Pos, "parameter %q shadows a standard library function", p.Name)
		}
	}

	var returnSet bool
	for _, s := range fn.Body {
		switch stmt := s.(type) {
		case *ast.LetStmt:
			if r.isBound(stmt.Name) {
				r.errf(errors.ErrDuplicateName, stmt.Pos, "%q is already declared in this scope", stmt.Name)
				continue
			}
			e, eerrs := r.resolveExpr(stmt.Expr)
			r.errs = append(r.errs, eerrs...)
			if e == nil {
				continue
			}
			if e.Type() != stmt.Type {
				r.errf(errors.ErrTypeMismatch, stmt.Pos, "let %q declared as %s but expression has type %s", stmt.Name, stmt.Type, e.Type())
				continue
			}
			block.Locals[stmt.Name] = e
			block.LocalOrder = append(block.LocalOrder, stmt.Name)
			r.locals[stmt.Name] = stmt.Type
		case *ast.ReturnStmt:
			if returnSet {
				r.errf(errors.ErrMultipleReturns, stmt.Pos, "function %q has more than one return statement", fn.Name)
				continue
			}
			e, eerrs := r.resolveExpr(stmt.Expr)
			r.errs = append(r.errs, eerrs...)
			if e == nil {
				continue
			}
			if e.Type() != fn.ReturnType {
				r.errf(errors.ErrTypeMismatch, stmt.Pos, "function %q declared to return %s but returns %s", fn.Name, fn.ReturnType, e.Type())
				continue
			}
			block.Return = e
			returnSet = true
		}
	}
	if !returnSet {
		r.errf(errors.ErrReturnMissing, fn.Pos, "function %q has no return statement", fn.Name)
	}
	return block, r.errs
}

// resolver carries per-scope context while converting ast.Expr to Expr.
type resolver struct {
	ns         *Namespace
	fn         *ast.FuncDecl
	funcName   string
	paramIndex map[string]int
	paramType  map[string]ast.Type
	locals     map[string]ast.Type
	errs       []*errors.CompilerError
}

func newResolver(ns *Namespace, fn *ast.FuncDecl, funcName string) *resolver {
	r := &resolver{
		ns: ns, fn: fn, funcName: funcName,
		paramIndex: map[string]int{},
		paramType:  map[string]ast.Type{},
		locals:     map[string]ast.Type{},
	}
	if fn != nil {
		for i, p := range fn.Params {
			r.paramIndex[p.Name] = i
			r.paramType[p.Name] = p.Type
		}
	}
	return r
}

func (r *resolver) isBound(name string) bool {
	_, isParam := r.paramIndex[name]
	_, isLocal := r.locals[name]
	return isParam || isLocal
}

func (r *resolver) errf(code string, pos ast.Position, format string, args ...interface{}) {
	r.errs = append(r.errs, errors.Newf(code, pos, format, args...))
}

func (r *resolver) resolveExpr(e ast.Expr) (Expr, []*errors.CompilerError) {
	var errs []*errors.CompilerError
	switch v := e.(type) {
	case *ast.Literal:
		t := ast.TInt
		switch v.Kind {
		case ast.LitBool, ast.LitEnvBool:
			t = ast.TBool
		}
		return &Literal{Pos: v.Pos, Kind: v.Kind, Int: v.IntVal, Bool: v.BoolVal, Env: v.EnvName, T: t}, nil

	case *ast.Ident:
		if t, ok := r.locals[v.Name]; ok {
			return &Local{Pos: v.Pos, Name: v.Name, T: t}, nil
		}
		if idx, ok := r.paramIndex[v.Name]; ok {
			return &FunctionArg{Pos: v.Pos, Name: v.Name, Position: idx, T: r.paramType[v.Name]}, nil
		}
		if c, ok := r.ns.Constants[v.Name]; ok {
			return &ExternalConst{Pos: v.Pos, Name: v.Name, T: c.Type}, nil
		}
		errs = append(errs, errors.Newf(errors.ErrUnresolvedName, v.Pos, "unresolved name %q", v.Name))
		return nil, errs

	case *ast.Call:
		var sig stdlib.Signature
		var retType ast.Type
		isStdlib := stdlib.IsStdlib(v.Callee)
		if isStdlib {
			sig = stdlib.Signatures[v.Callee]
			retType = sig.Returns
		} else if fn, ok := r.ns.Functions[v.Callee]; ok {
			retType = fn.ReturnType
			for _, p := range fn.Params {
				sig.Params = append(sig.Params, p.Type)
			}
		} else {
			errs = append(errs, errors.Newf(errors.ErrUnresolvedName, v.Pos, "unresolved function %q", v.Callee))
			return nil, errs
		}
		if len(v.Args) != len(sig.Params) {
			errs = append(errs, errors.Newf(errors.ErrArityMismatch, v.Pos,
				"%q expects %d argument(s), got %d", v.Callee, len(sig.Params), len(v.Args)))
			return nil, errs
		}
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			ae, aerrs := r.resolveExpr(a)
			errs = append(errs, aerrs...)
			if ae == nil {
				continue
			}
			if ae.Type() != sig.Params[i] {
				errs = append(errs, errors.Newf(errors.ErrTypeMismatch, a.NodePos(),
					"argument %d of %q: expected %s, got %s", i, v.Callee, sig.Params[i], ae.Type()))
				continue
			}
			args[i] = ae
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return &Func{Pos: v.Pos, Name: v.Callee, IsStdlib: isStdlib, Args: args, T: retType}, nil

	case *ast.Binary:
		left, lerrs := r.resolveExpr(v.Left)
		errs = append(errs, lerrs...)
		right, rerrs := r.resolveExpr(v.Right)
		errs = append(errs, rerrs...)
		if left == nil || right == nil {
			return nil, errs
		}
		t, ok := typeOfOp(v.Op, left.Type(), right.Type())
		if !ok {
			errs = append(errs, errors.Newf(errors.ErrTypeMismatch, v.Pos,
				"operator %s not defined for %s and %s", v.Op, left.Type(), right.Type()))
			return nil, errs
		}
		return &BinOp{Pos: v.Pos, Left: left, Op: v.Op, Right: right, T: t}, nil

	default:
		return nil, []*errors.CompilerError{errors.New(errors.ErrUnresolvedName, fmt.Sprintf("unsupported expression node %T", e), e.NodePos())}
	}
}

// typeOfOp implements the fixed typing table: scalar op scalar, scalar op
// collection, collection op scalar; collection op collection is forbidden
// at the source level.
func typeOfOp(op ast.Op, l, r ast.Type) (ast.Type, bool) {
	isComparison := op == ast.OpEqual || op == ast.OpNotEqual ||
		op == ast.OpGreaterThan || op == ast.OpLessThan ||
		op == ast.OpGreaterThanEqual || op == ast.OpLessThanEqual

	lColl := l == ast.TVecInt || l == ast.TVecBool
	rColl := r == ast.TVecInt || r == ast.TVecBool
	if lColl && rColl {
		return ast.TInvalid, false
	}

	elemType := func(t ast.Type) ast.Type {
		switch t {
		case ast.TVecInt:
			return ast.TInt
		case ast.TVecBool:
			return ast.TBool
		default:
			return t
		}
	}
	scalarL, scalarR := elemType(l), elemType(r)

	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if scalarL != ast.TInt || scalarR != ast.TInt {
			return ast.TInvalid, false
		}
	case ast.OpAnd, ast.OpOr:
		if scalarL != ast.TBool || scalarR != ast.TBool {
			return ast.TInvalid, false
		}
	default:
		if !isComparison {
			return ast.TInvalid, false
		}
		if scalarL != scalarR {
			return ast.TInvalid, false
		}
	}

	if lColl || rColl {
		if isComparison {
			return ast.TVecBool, true
		}
		if op == ast.OpAnd || op == ast.OpOr {
			return ast.TVecBool, true
		}
		return ast.TVecInt, true
	}
	if isComparison {
		return ast.TBool, true
	}
	if op == ast.OpAnd || op == ast.OpOr {
		return ast.TBool, true
	}
	return ast.TInt, true
}
