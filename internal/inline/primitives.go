package inline

import (
	"dicec/internal/ast"
	"dicec/internal/env"
	"dicec/internal/errors"
	"dicec/internal/hash"
	"dicec/internal/hashedpool"
	"dicec/internal/stdlib"
)

func (in *inliner) emit(n *Node) (uint64, *errors.CompilerError) {
	n.ID = idOf(n)
	if existing, ok := in.flat.Nodes[n.ID]; ok {
		_ = existing
		return n.ID, nil
	}
	in.flat.Nodes[n.ID] = n
	return n.ID, nil
}

func idOf(n *Node) uint64 {
	b := hash.New().WriteTag(byte(n.Kind)).WriteTag(byte(n.Type))
	switch n.Kind {
	case KindConstantInt:
		b.WriteInt64(n.IntVal)
	case KindConstantBool:
		b.WriteBool(n.BoolVal)
	case KindD6, KindD3, KindCount, KindLen, KindSum, KindMin, KindMax:
		b.WriteUint64(n.Arg)
	case KindFilter, KindJoin:
		b.WriteUint64(n.Left).WriteUint64(n.Right)
	case KindRollRange:
		b.WriteUint64(n.Min).WriteUint64(n.Max).WriteUint64(n.Count)
	case KindOperation:
		b.WriteUint64(n.Left).WriteTag(byte(n.Op)).WriteUint64(n.Right)
	}
	return b.Sum64()
}

func (in *inliner) inlineLiteral(node *hashedpool.Node) (uint64, *errors.CompilerError) {
	switch node.LitKind {
	case ast.LitInt:
		return in.emit(&Node{Kind: KindConstantInt, Type: ast.TInt, IntVal: node.IntVal})
	case ast.LitBool:
		return in.emit(&Node{Kind: KindConstantBool, Type: ast.TBool, BoolVal: node.BoolVal})
	case ast.LitEnvInt:
		v, err := in.lookup.LookupInt(node.EnvName)
		if err != nil {
			return 0, in.fail(envErrCode(err), err.Error())
		}
		return in.emit(&Node{Kind: KindConstantInt, Type: ast.TInt, IntVal: v})
	case ast.LitEnvBool:
		v, err := in.lookup.LookupBool(node.EnvName)
		if err != nil {
			return 0, in.fail(envErrCode(err), err.Error())
		}
		return in.emit(&Node{Kind: KindConstantBool, Type: ast.TBool, BoolVal: v})
	default:
		return 0, in.fail(errors.ErrUnresolvedName, "inliner: unreachable literal kind")
	}
}

func envErrCode(err error) string {
	if _, ok := err.(*env.ErrMissing); ok {
		return errors.ErrEnvironmentMissing
	}
	return errors.ErrEnvironmentParseFailed
}

func (in *inliner) inlinePrimitive(stack []frame, node *hashedpool.Node) (uint64, *errors.CompilerError) {
	arg := func(i int) (uint64, *errors.CompilerError) { return in.inline(stack, node.Args[i]) }

	switch node.Name {
	case stdlib.RollD6:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindD6, Type: node.Type, Arg: a})

	case stdlib.RollD3:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindD3, Type: node.Type, Arg: a})

	case stdlib.Roll:
		max, err := arg(0)
		if err != nil {
			return 0, err
		}
		min, err := arg(1)
		if err != nil {
			return 0, err
		}
		num, err := arg(2)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindRollRange, Type: node.Type, Min: min, Max: max, Count: num})

	case stdlib.Filter:
		mask, err := arg(0)
		if err != nil {
			return 0, err
		}
		values, err := arg(1)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindFilter, Type: node.Type, Left: mask, Right: values})

	case stdlib.Count:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindCount, Type: node.Type, Arg: a})

	case stdlib.Len:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindLen, Type: node.Type, Arg: a})

	case stdlib.Join:
		left, err := arg(0)
		if err != nil {
			return 0, err
		}
		right, err := arg(1)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindJoin, Type: node.Type, Left: left, Right: right})

	case stdlib.Sum:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindSum, Type: node.Type, Arg: a})

	case stdlib.Min:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindMin, Type: node.Type, Arg: a})

	case stdlib.Max:
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		return in.emit(&Node{Kind: KindMax, Type: node.Type, Arg: a})

	default:
		return 0, in.fail(errors.ErrUnresolvedName, "inliner: unknown stdlib function "+node.Name)
	}
}

func (in *inliner) inlineOp(stack []frame, node *hashedpool.Node) (uint64, *errors.CompilerError) {
	left, err := in.inline(stack, node.Left)
	if err != nil {
		return 0, err
	}
	right, err := in.inline(stack, node.Right)
	if err != nil {
		return 0, err
	}

	lNode, rNode := in.flat.Get(left), in.flat.Get(right)
	if folded, ok, ferr := foldConstants(lNode, node.Op, rNode); ferr != nil {
		return 0, ferr
	} else if ok {
		return in.emit(folded)
	}

	return in.emit(&Node{Kind: KindOperation, Type: node.Type, Left: left, Op: node.Op, Right: right})
}

// foldConstants implements the exact i64/bool folding table: any operation
// with two constant operands of the expected kind collapses to a constant.
// Comparisons between two integer constants fold to a boolean constant.
func foldConstants(l *Node, op ast.Op, r *Node) (*Node, bool, *errors.CompilerError) {
	if l == nil || r == nil {
		return nil, false, nil
	}

	bothInt := l.Kind == KindConstantInt && r.Kind == KindConstantInt
	bothBool := l.Kind == KindConstantBool && r.Kind == KindConstantBool

	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if !bothInt {
			return nil, false, nil
		}
		var v int64
		switch op {
		case ast.OpAdd:
			v = l.IntVal + r.IntVal
		case ast.OpSub:
			v = l.IntVal - r.IntVal
		case ast.OpMul:
			v = l.IntVal * r.IntVal
		case ast.OpDiv:
			if r.IntVal == 0 {
				return nil, false, errors.New(errors.ErrDivisionByZero, "division by zero in constant expression", ast.Position{})
			}
			v = l.IntVal / r.IntVal
		}
		return &Node{Kind: KindConstantInt, Type: ast.TInt, IntVal: v}, true, nil

	case ast.OpAnd, ast.OpOr:
		if !bothBool {
			return nil, false, nil
		}
		var v bool
		if op == ast.OpAnd {
			v = l.BoolVal && r.BoolVal
		} else {
			v = l.BoolVal || r.BoolVal
		}
		return &Node{Kind: KindConstantBool, Type: ast.TBool, BoolVal: v}, true, nil

	case ast.OpEqual, ast.OpNotEqual, ast.OpGreaterThan, ast.OpLessThan, ast.OpGreaterThanEqual, ast.OpLessThanEqual:
		if !bothInt {
			return nil, false, nil
		}
		var v bool
		switch op {
		case ast.OpEqual:
			v = l.IntVal == r.IntVal
		case ast.OpNotEqual:
			v = l.IntVal != r.IntVal
		case ast.OpGreaterThan:
			v = l.IntVal > r.IntVal
		case ast.OpLessThan:
			v = l.IntVal < r.IntVal
		case ast.OpGreaterThanEqual:
			v = l.IntVal >= r.IntVal
		case ast.OpLessThanEqual:
			v = l.IntVal <= r.IntVal
		}
		return &Node{Kind: KindConstantBool, Type: ast.TBool, BoolVal: v}, true, nil
	}
	return nil, false, nil
}
