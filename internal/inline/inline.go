// Package inline implements the call-stack-guided inliner: it erases
// functions and local variables by substitution, resolves environment
// literals, folds constants, and lowers the hashed expression pool down to
// a flat pool of primitive InlinedExpression nodes.
package inline

import (
	"dicec/internal/ast"
	"dicec/internal/env"
	"dicec/internal/errors"
	"dicec/internal/hashedpool"
)

// Kind discriminates the primitive InlinedExpression variants.
type Kind int

const (
	KindConstantInt Kind = iota
	KindConstantBool
	KindD6
	KindD3
	KindRollRange
	KindFilter
	KindCount
	KindLen
	KindJoin
	KindSum
	KindMin
	KindMax
	KindOperation
)

// Node is one entry of the flat, primitive-only pool.
type Node struct {
	ID   uint64
	Kind Kind
	Type ast.Type

	IntVal  int64
	BoolVal bool

	// D6, D3, Count, Len, Sum, Min, Max: the single child.
	Arg uint64

	// Filter(mask, values), Join(a, b), Operation(left, _, right): the two
	// children.
	Left  uint64
	Right uint64
	Op    ast.Op

	// RollRange(min, max, count): a generalized, inclusive-range die.
	Min   uint64
	Max   uint64
	Count uint64
}

// FlatPool is the inliner's output: every reachable node is a primitive.
type FlatPool struct {
	Nodes map[uint64]*Node
	Root  uint64
}

// Get returns the node for id.
func (p *FlatPool) Get(id uint64) *Node { return p.Nodes[id] }

// frame is one CallStack entry: the function currently being walked and the
// hashed-pool argument ids of the call site that entered it, still
// unresolved and still living in the caller's scope.
type frame struct {
	Callee string
	Args   []uint64
}

type inliner struct {
	pool   *hashedpool.Pool
	lookup env.Lookup
	flat   *FlatPool
}

// Inline lowers pool's reachable nodes (from its RootReturn) into a
// FlatPool of primitive InlinedExpression nodes.
func Inline(pool *hashedpool.Pool, lookup env.Lookup) (*FlatPool, []*errors.CompilerError) {
	in := &inliner{
		pool:   pool,
		lookup: lookup,
		flat:   &FlatPool{Nodes: map[uint64]*Node{}},
	}
	root, err := in.inline(nil, pool.RootReturn)
	if err != nil {
		return nil, []*errors.CompilerError{err}
	}
	in.flat.Root = root
	return in.flat, nil
}

func pushFrame(stack []frame, callee string, args []uint64) []frame {
	next := make([]frame, len(stack)+1)
	copy(next, stack)
	next[len(stack)] = frame{Callee: callee, Args: args}
	return next
}

func currentScope(stack []frame) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].Callee
}

func (in *inliner) fail(code, message string) *errors.CompilerError {
	return errors.New(code, message, ast.Position{})
}

func (in *inliner) inline(stack []frame, id uint64) (uint64, *errors.CompilerError) {
	node := in.pool.Get(id)
	if node == nil {
		return 0, in.fail(errors.ErrUnresolvedName, "inliner: dangling hashed-pool id")
	}

	switch node.Kind {
	case hashedpool.KindConstantValue:
		return in.inlineLiteral(node)

	case hashedpool.KindExternalConstant:
		defID, ok := in.pool.ConstDef[node.Name]
		if !ok {
			return 0, in.fail(errors.ErrUnresolvedName, "unresolved constant "+node.Name)
		}
		return in.inline(stack, defID)

	case hashedpool.KindVar:
		scope := currentScope(stack)
		locals, ok := in.pool.FuncLocalDef[scope]
		if !ok {
			return 0, in.fail(errors.ErrUnresolvedName, "unresolved scope for local "+node.Name)
		}
		defID, ok := locals[node.Name]
		if !ok {
			return 0, in.fail(errors.ErrUnresolvedName, "unresolved local "+node.Name)
		}
		return in.inline(stack, defID)

	case hashedpool.KindFunctionArg:
		if len(stack) == 0 {
			return 0, in.fail(errors.ErrUnresolvedName, "function argument referenced outside any call")
		}
		top := stack[len(stack)-1]
		popped := stack[:len(stack)-1]
		if node.Position < 0 || node.Position >= len(top.Args) {
			return 0, in.fail(errors.ErrArityMismatch, "function argument position out of range")
		}
		return in.inline(popped, top.Args[node.Position])

	case hashedpool.KindFunc:
		if node.IsStdlib {
			return in.inlinePrimitive(stack, node)
		}
		bodyID, ok := in.pool.FuncReturn[node.Name]
		if !ok {
			return 0, in.fail(errors.ErrUnresolvedName, "unresolved function "+node.Name)
		}
		return in.inline(pushFrame(stack, node.Name, node.Args), bodyID)

	case hashedpool.KindOp:
		return in.inlineOp(stack, node)

	default:
		return 0, in.fail(errors.ErrUnresolvedName, "inliner: unreachable hashed-pool kind")
	}
}

