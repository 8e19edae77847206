// Package hashedpool lowers the typed, name-resolved trees produced by
// internal/namespace into a single content-addressed pool of
// HashedExpression nodes, where structurally equal subexpressions share a
// 64-bit id (a value cache keyed by structural identity rather than by
// allocation address).
package hashedpool

import (
	"dicec/internal/ast"
	"dicec/internal/hash"
	"dicec/internal/namespace"
)

// Kind discriminates the six HashedExpression variants as a closed,
// exhaustively-switched enum.
type Kind int

const (
	KindFunctionArg Kind = iota
	KindConstantValue
	KindExternalConstant
	KindVar
	KindFunc
	KindOp
)

// Node is one entry of the content-addressed pool.
type Node struct {
	ID   uint64
	Kind Kind
	Type ast.Type

	// FunctionArg, Var: the bound name and (for FunctionArg) its position.
	Name     string
	Position int

	// ConstantValue: the literal payload, copied from namespace.Literal.
	LitKind ast.LiteralKind
	IntVal  int64
	BoolVal bool
	EnvName string

	// Func: callee name, whether it is a stdlib primitive, and argument ids
	// in positional order.
	IsStdlib bool
	Args     []uint64

	// Op: operand ids and the operator tag.
	Left  uint64
	Op    ast.Op
	Right uint64
}

// Pool is the full content-addressed node table plus the indices needed to
// resolve named references across scopes during the inliner's CallStack
// walk.
type Pool struct {
	Nodes map[uint64]*Node

	// ConstDef maps a top-level constant's name to the id of its defining
	// expression (lowered in the unscoped "" scope).
	ConstDef map[string]uint64

	// FuncLocalDef maps function name -> local name -> id of that local's
	// defining expression (lowered in that function's scope).
	FuncLocalDef map[string]map[string]uint64

	// FuncReturn maps function name -> id of its return expression.
	FuncReturn map[string]uint64

	// RootReturn is the id of the analyze expression.
	RootReturn uint64
}

// Get returns the node for id.
func (p *Pool) Get(id uint64) *Node { return p.Nodes[id] }

// GetFunctionBody returns the id of fn's return expression. dicec keeps one
// flat content-addressed pool across all scopes (ids already disjoint by
// construction), so the "per-function sub-pool" lookup collapses to this
// single entry-point id into the shared Pool.
func (p *Pool) GetFunctionBody(funcName string) (uint64, bool) {
	id, ok := p.FuncReturn[funcName]
	return id, ok
}

// FromNamespace lowers every resolved scope into one shared Pool.
func FromNamespace(root *namespace.BasicBlock, funcs map[string]*namespace.BasicBlock, funcOrder []string, consts map[string]namespace.Expr, constOrder []string) *Pool {
	p := &Pool{
		Nodes:        map[uint64]*Node{},
		ConstDef:     map[string]uint64{},
		FuncLocalDef: map[string]map[string]uint64{},
		FuncReturn:   map[string]uint64{},
	}

	for _, name := range constOrder {
		p.ConstDef[name] = p.lower("", consts[name])
	}
	for _, name := range funcOrder {
		block := funcs[name]
		locals := map[string]uint64{}
		for _, localName := range block.LocalOrder {
			locals[localName] = p.lower(name, block.Locals[localName])
		}
		p.FuncLocalDef[name] = locals
		p.FuncReturn[name] = p.lower(name, block.Return)
	}
	if root != nil {
		p.RootReturn = p.lower("", root.Return)
	}
	return p
}

func (p *Pool) insert(n *Node) uint64 {
	if existing, ok := p.Nodes[n.ID]; ok {
		_ = existing
		return n.ID
	}
	p.Nodes[n.ID] = n
	return n.ID
}

func (p *Pool) lower(scope string, e namespace.Expr) uint64 {
	switch v := e.(type) {
	case *namespace.Literal:
		id := hash.New().WriteTag(byte(KindConstantValue)).WriteTag(byte(v.Kind)).
			WriteInt64(v.Int).WriteBool(v.Bool).WriteString(v.Env).WriteTag(byte(v.T)).Sum64()
		return p.insert(&Node{ID: id, Kind: KindConstantValue, Type: v.T,
			LitKind: v.Kind, IntVal: v.Int, BoolVal: v.Bool, EnvName: v.Env})

	case *namespace.ExternalConst:
		id := hash.Global(v.Name)
		return p.insert(&Node{ID: id, Kind: KindExternalConstant, Type: v.T, Name: v.Name})

	case *namespace.Local:
		id := hash.Scoped(scope, v.Name)
		return p.insert(&Node{ID: id, Kind: KindVar, Type: v.T, Name: v.Name})

	case *namespace.FunctionArg:
		id := hash.New().WriteTag(byte(KindFunctionArg)).WriteString(hashScopeTag(scope)).
			WriteString(v.Name).WriteUint64(uint64(v.Position)).Sum64()
		return p.insert(&Node{ID: id, Kind: KindFunctionArg, Type: v.T, Name: v.Name, Position: v.Position})

	case *namespace.Func:
		argIDs := make([]uint64, len(v.Args))
		b := hash.New().WriteTag(byte(KindFunc)).WriteString(v.Name).WriteBool(v.IsStdlib)
		for i, a := range v.Args {
			argIDs[i] = p.lower(scope, a)
			b.WriteUint64(argIDs[i])
		}
		id := b.Sum64()
		return p.insert(&Node{ID: id, Kind: KindFunc, Type: v.T, Name: v.Name, IsStdlib: v.IsStdlib, Args: argIDs})

	case *namespace.BinOp:
		left := p.lower(scope, v.Left)
		right := p.lower(scope, v.Right)
		id := hash.Of(byte(KindOp), left, uint64(v.Op), right, uint64(v.T))
		return p.insert(&Node{ID: id, Kind: KindOp, Type: v.T, Left: left, Op: v.Op, Right: right})

	default:
		panic("hashedpool: unreachable expression variant")
	}
}

func hashScopeTag(scope string) string {
	if scope == "" {
		return "<root>"
	}
	return scope
}
