package runtime

import (
	"dicec/internal/ast"
	"dicec/internal/errors"
)

// applyOp applies a single paired (or broadcast) operator: scalar⊕scalar,
// or collection⊕scalar with the scalar broadcast over every position.
func applyOp(l Value, op ast.Op, r Value) (Value, *errors.CompilerError) {
	switch {
	case l.Type == ast.TInt && r.Type == ast.TInt:
		return applyIntOp(l.Int, op, r.Int)
	case l.Type == ast.TBool && r.Type == ast.TBool:
		return applyBoolOp(l.Bool, op, r.Bool)
	case l.Type == ast.TVecInt && r.Type == ast.TInt:
		return broadcastIntVec(l.IntVec, op, r.Int, false)
	case l.Type == ast.TInt && r.Type == ast.TVecInt:
		return broadcastIntVec(r.IntVec, op, l.Int, true)
	case l.Type == ast.TVecBool && r.Type == ast.TBool:
		return broadcastBoolVec(l.BoolVec, op, r.Bool, false)
	case l.Type == ast.TBool && r.Type == ast.TVecBool:
		return broadcastBoolVec(r.BoolVec, op, l.Bool, true)
	default:
		return Value{}, errors.New(errors.ErrUnresolvedName, "runtime: unsupported operand types for operator", ast.Position{})
	}
}

func isComparison(op ast.Op) bool {
	switch op {
	case ast.OpEqual, ast.OpNotEqual, ast.OpGreaterThan, ast.OpLessThan, ast.OpGreaterThanEqual, ast.OpLessThanEqual:
		return true
	default:
		return false
	}
}

func intCompare(op ast.Op, l, r int64) bool {
	switch op {
	case ast.OpEqual:
		return l == r
	case ast.OpNotEqual:
		return l != r
	case ast.OpGreaterThan:
		return l > r
	case ast.OpLessThan:
		return l < r
	case ast.OpGreaterThanEqual:
		return l >= r
	default:
		return l <= r
	}
}

func applyIntOp(l int64, op ast.Op, r int64) (Value, *errors.CompilerError) {
	if isComparison(op) {
		return BoolValue(intCompare(op, l, r)), nil
	}
	switch op {
	case ast.OpAdd:
		return IntValue(l + r), nil
	case ast.OpSub:
		return IntValue(l - r), nil
	case ast.OpMul:
		return IntValue(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return Value{}, errors.New(errors.ErrDivisionByZero, "division by zero at runtime", ast.Position{})
		}
		return IntValue(l / r), nil
	default:
		return Value{}, errors.New(errors.ErrUnresolvedName, "runtime: operator not defined over int", ast.Position{})
	}
}

func applyBoolOp(l bool, op ast.Op, r bool) (Value, *errors.CompilerError) {
	switch op {
	case ast.OpAnd:
		return BoolValue(l && r), nil
	case ast.OpOr:
		return BoolValue(l || r), nil
	case ast.OpEqual:
		return BoolValue(l == r), nil
	case ast.OpNotEqual:
		return BoolValue(l != r), nil
	default:
		return Value{}, errors.New(errors.ErrUnresolvedName, "runtime: operator not defined over bool", ast.Position{})
	}
}

// broadcastIntVec applies op elementwise between vec and scalar. scalarFirst
// preserves operand order for non-commutative operators (subtraction,
// division, ordered comparisons) when the scalar appeared on the left of
// the source expression.
func broadcastIntVec(vec []int64, op ast.Op, scalar int64, scalarFirst bool) (Value, *errors.CompilerError) {
	pair := func(x int64) (Value, *errors.CompilerError) {
		if scalarFirst {
			return applyIntOp(scalar, op, x)
		}
		return applyIntOp(x, op, scalar)
	}
	if isComparison(op) {
		out := make([]bool, len(vec))
		for i, x := range vec {
			v, err := pair(x)
			if err != nil {
				return Value{}, err
			}
			out[i] = v.Bool
		}
		return BoolVecValue(out), nil
	}
	out := make([]int64, len(vec))
	for i, x := range vec {
		v, err := pair(x)
		if err != nil {
			return Value{}, err
		}
		out[i] = v.Int
	}
	return IntVecValue(out), nil
}

func broadcastBoolVec(vec []bool, op ast.Op, scalar bool, scalarFirst bool) (Value, *errors.CompilerError) {
	out := make([]bool, len(vec))
	for i, x := range vec {
		var v Value
		var err *errors.CompilerError
		if scalarFirst {
			v, err = applyBoolOp(scalar, op, x)
		} else {
			v, err = applyBoolOp(x, op, scalar)
		}
		if err != nil {
			return Value{}, err
		}
		out[i] = v.Bool
	}
	return BoolVecValue(out), nil
}
