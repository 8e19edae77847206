package runtime

import (
	"dicec/internal/ast"
	"dicec/internal/errors"
	"dicec/internal/graph"
	"dicec/internal/rational"
)

// evaluator walks an OrderedExpression graph bottom-up from Final, caching
// each node's materialised Stream by node id. Because the graph is
// content-addressed, two nodes reachable from the same id are the same
// node — the memo cache is what makes a shared subgraph "replay" its
// distribution to every consumer rather than being re-derived.
type evaluator struct {
	g           *graph.Graph
	memo        map[uint64]Stream
	lineageMemo map[uint64]uint64
}

// Evaluate evaluates the stream feeding g's Final node and accumulates it
// into a Report.
func Evaluate(g *graph.Graph) (*Report, *errors.CompilerError) {
	final := g.Get(g.Final)
	if final == nil || len(final.Sources) != 1 {
		return nil, errors.New(errors.ErrUnresolvedName, "runtime: graph has no final node", ast.Position{})
	}
	ev := &evaluator{g: g, memo: map[uint64]Stream{}, lineageMemo: map[uint64]uint64{}}
	s, err := ev.eval(final.Sources[0])
	if err != nil {
		return nil, err
	}
	return newReport(s), nil
}

func (ev *evaluator) eval(id uint64) (Stream, *errors.CompilerError) {
	if s, ok := ev.memo[id]; ok {
		return s, nil
	}
	n := ev.g.Get(id)
	if n == nil {
		return nil, errors.New(errors.ErrUnresolvedName, "runtime: dangling graph node id", ast.Position{})
	}

	var s Stream
	var err *errors.CompilerError
	switch n.Kind {
	case graph.KindConstantInt:
		s = Stream{{Value: IntValue(n.IntVal), Prob: rational.One()}}
	case graph.KindConstantBool:
		s = Stream{{Value: BoolValue(n.BoolVal), Prob: rational.One()}}
	case graph.KindD6:
		s, err = ev.evalRoll(n, 1, 6)
	case graph.KindD3:
		s, err = ev.evalRoll(n, 1, 3)
	case graph.KindRollRange:
		s, err = ev.evalRollRange(n)
	case graph.KindCount:
		s, err = ev.evalChain(n.Sources[0], reduceCount)
	case graph.KindLen:
		s, err = ev.evalChain(n.Sources[0], reduceLen)
	case graph.KindSum:
		s, err = ev.evalChain(n.Sources[0], reduceSum)
	case graph.KindMin:
		s, err = ev.evalChain(n.Sources[0], reduceMin)
	case graph.KindMax:
		s, err = ev.evalChain(n.Sources[0], reduceMax)
	case graph.KindFilter:
		s, err = ev.evalFilter(n)
	case graph.KindJoin:
		s, err = ev.evalJoin(n)
	case graph.KindOperation:
		s, err = ev.evalOperation(n)
	default:
		return nil, errors.New(errors.ErrUnresolvedName, "runtime: unreachable graph node kind", ast.Position{})
	}
	if err != nil {
		return nil, err
	}
	ev.memo[id] = s
	return s, nil
}

// constInt evaluates id and requires it to reduce to exactly one row: dice
// counts and range bounds must be compile-time-determinable, not
// themselves random. A well-typed, non-pathological program always
// satisfies this (dice counts are int-typed literals, consts, or folded
// arithmetic, never an expression that rolls dice itself).
func (ev *evaluator) constInt(id uint64) (int64, *errors.CompilerError) {
	s, err := ev.eval(id)
	if err != nil {
		return 0, err
	}
	if len(s) != 1 {
		return 0, errors.New(errors.ErrNonConstantDiceCount, "dice count or range bound must evaluate to a single constant value", ast.Position{})
	}
	return s[0].Value.Int, nil
}

func (ev *evaluator) evalRoll(n *graph.Node, min, max int64) (Stream, *errors.CompilerError) {
	k, err := ev.constInt(n.Sources[0])
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, errors.New(errors.ErrInvalidDiceRange, "dice count must not be negative", ast.Position{})
	}
	return rollStream(min, max, k), nil
}

func (ev *evaluator) evalRollRange(n *graph.Node) (Stream, *errors.CompilerError) {
	min, err := ev.constInt(n.Sources[0])
	if err != nil {
		return nil, err
	}
	max, err := ev.constInt(n.Sources[1])
	if err != nil {
		return nil, err
	}
	k, err := ev.constInt(n.Sources[2])
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, errors.New(errors.ErrInvalidDiceRange, "dice count must not be negative", ast.Position{})
	}
	if k > 0 && max < min {
		return nil, errors.New(errors.ErrInvalidDiceRange, "roll range max is below min", ast.Position{})
	}
	return rollStream(min, max, k), nil
}

// rollStream enumerates all faces^k outcomes of k independent dice with
// faces min..max, each an IntVec of length k with probability
// 1/(faces^k), in ascending-face, outer-index-slowest order. k = 0 yields
// the empty stream.
func rollStream(min, max, k int64) Stream {
	if k == 0 {
		return Stream{}
	}
	faces := max - min + 1
	total := int64(1)
	for i := int64(0); i < k; i++ {
		total *= faces
	}
	prob := rational.New(1, total)

	out := make(Stream, 0, total)
	combo := make([]int64, k)
	var gen func(pos int64)
	gen = func(pos int64) {
		if pos == k {
			vec := append([]int64(nil), combo...)
			out = append(out, Element{Value: IntVecValue(vec), Prob: prob})
			return
		}
		for f := min; f <= max; f++ {
			combo[pos] = f
			gen(pos + 1)
		}
	}
	gen(0)
	return out
}

func (ev *evaluator) evalChain(childID uint64, reduce func(Value) (Value, bool)) (Stream, *errors.CompilerError) {
	child, err := ev.eval(childID)
	if err != nil {
		return nil, err
	}
	out := make(Stream, 0, len(child))
	for _, e := range child {
		v, keep := reduce(e.Value)
		if !keep {
			continue // min/max on an empty collection drop the element.
		}
		out = append(out, Element{Value: v, Prob: e.Prob})
	}
	return out, nil
}

func reduceCount(v Value) (Value, bool) {
	var n int64
	for _, b := range v.BoolVec {
		if b {
			n++
		}
	}
	return IntValue(n), true
}

func reduceLen(v Value) (Value, bool) { return IntValue(int64(len(v.IntVec))), true }

func reduceSum(v Value) (Value, bool) {
	var sum int64
	for _, x := range v.IntVec {
		sum += x
	}
	return IntValue(sum), true
}

func reduceMin(v Value) (Value, bool) {
	if len(v.IntVec) == 0 {
		return Value{}, false
	}
	m := v.IntVec[0]
	for _, x := range v.IntVec[1:] {
		if x < m {
			m = x
		}
	}
	return IntValue(m), true
}

func reduceMax(v Value) (Value, bool) {
	if len(v.IntVec) == 0 {
		return Value{}, false
	}
	m := v.IntVec[0]
	for _, x := range v.IntVec[1:] {
		if x > m {
			m = x
		}
	}
	return IntValue(m), true
}

// lineage classifies a node by the random source it ultimately depends on,
// so the evaluator can tell whether two operands are positionally aligned
// samples of the same roll or two independent rolls that merely happen to
// produce streams of the same length. It returns 0 for a node that carries
// no randomness at all (a constant), the id of the dice-rolling node the
// value traces back to when there is a single one, and otherwise the node's
// own id (a join, or an operation/filter whose operands trace to different
// sources).
//
// A naive "zip iff equal stream length" test (tried first, see DESIGN.md)
// is unsound: roll_d6(1) and roll(6,1,1) are different nodes that each
// happen to produce a 6-row uniform stream, and zipping them produces a
// wrong, degenerate distribution instead of the correct cross product.
func (ev *evaluator) lineage(id uint64) uint64 {
	if l, ok := ev.lineageMemo[id]; ok {
		return l
	}
	n := ev.g.Get(id)
	if n == nil {
		return 0
	}

	var l uint64
	switch n.Kind {
	case graph.KindConstantInt, graph.KindConstantBool:
		l = 0
	case graph.KindD6, graph.KindD3, graph.KindRollRange:
		l = id
	case graph.KindCount, graph.KindLen, graph.KindSum, graph.KindMin, graph.KindMax:
		l = ev.lineage(n.Sources[0])
	case graph.KindJoin:
		// Join always forces independence, even between two occurrences of
		// the same roll node, so it never propagates a shared lineage.
		l = id
	case graph.KindOperation, graph.KindFilter:
		left, right := ev.lineage(n.Sources[0]), ev.lineage(n.Sources[1])
		switch {
		case left == 0:
			l = right
		case right == 0:
			l = left
		case left == right:
			l = left
		default:
			l = id
		}
	default:
		l = id
	}
	ev.lineageMemo[id] = l
	return l
}

// evalFilter zips the mask and value streams row by row when they share
// lineage — the common case, where a filter's predicate is broadcast over
// the same rolls it selects from — and cross-multiplies them otherwise,
// mirroring evalOperation.
func (ev *evaluator) evalFilter(n *graph.Node) (Stream, *errors.CompilerError) {
	mask, err := ev.eval(n.Sources[0])
	if err != nil {
		return nil, err
	}
	values, err := ev.eval(n.Sources[1])
	if err != nil {
		return nil, err
	}

	selectRow := func(m, v Value, prob rational.Rational) Element {
		limit := len(m.BoolVec)
		if len(v.IntVec) < limit {
			limit = len(v.IntVec)
		}
		kept := make([]int64, 0, limit)
		for j := 0; j < limit; j++ {
			if m.BoolVec[j] {
				kept = append(kept, v.IntVec[j])
			}
		}
		return Element{Value: IntVecValue(kept), Prob: prob}
	}

	if ev.lineage(n.Sources[0]) == ev.lineage(n.Sources[1]) {
		rows := len(mask)
		if len(values) < rows {
			rows = len(values)
		}
		out := make(Stream, 0, rows)
		for i := 0; i < rows; i++ {
			out = append(out, selectRow(mask[i].Value, values[i].Value, mask[i].Prob))
		}
		return out, nil
	}

	out := make(Stream, 0, len(mask)*len(values))
	for _, m := range mask {
		for _, v := range values {
			out = append(out, selectRow(m.Value, v.Value, m.Prob.Mul(v.Prob)))
		}
	}
	return out, nil
}

// evalJoin always treats its two operands as independent rolls, taking the
// full cartesian product of their streams and concatenating IntVecs,
// regardless of whether the two operands are the same graph node — see
// lineage's KindJoin case.
func (ev *evaluator) evalJoin(n *graph.Node) (Stream, *errors.CompilerError) {
	left, err := ev.eval(n.Sources[0])
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Sources[1])
	if err != nil {
		return nil, err
	}
	out := make(Stream, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			vec := make([]int64, 0, len(l.Value.IntVec)+len(r.Value.IntVec))
			vec = append(vec, l.Value.IntVec...)
			vec = append(vec, r.Value.IntVec...)
			out = append(out, Element{Value: IntVecValue(vec), Prob: l.Prob.Mul(r.Prob)})
		}
	}
	return out, nil
}

// evalOperation combines left and right by provenance, not stream shape:
// operands with equal lineage are zipped row for row, and all others are
// cross-multiplied. A constant operand (lineage 0) paired with a random one
// is therefore cross-multiplied, which with its single row broadcasts it;
// the wildcard treatment of constants lives in lineage, which lets the
// result keep the random operand's lineage.
func (ev *evaluator) evalOperation(n *graph.Node) (Stream, *errors.CompilerError) {
	left, err := ev.eval(n.Sources[0])
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Sources[1])
	if err != nil {
		return nil, err
	}

	if ev.lineage(n.Sources[0]) == ev.lineage(n.Sources[1]) {
		rows := len(left)
		if len(right) < rows {
			rows = len(right)
		}
		out := make(Stream, 0, rows)
		for i := 0; i < rows; i++ {
			v, cerr := applyOp(left[i].Value, n.Op, right[i].Value)
			if cerr != nil {
				return nil, cerr
			}
			out = append(out, Element{Value: v, Prob: left[i].Prob})
		}
		return out, nil
	}

	out := make(Stream, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			v, cerr := applyOp(l.Value, n.Op, r.Value)
			if cerr != nil {
				return nil, cerr
			}
			out = append(out, Element{Value: v, Prob: l.Prob.Mul(r.Prob)})
		}
	}
	return out, nil
}
