package graph

import "dicec/internal/ast"

// Rewrite drives the fixed-point peephole rewriter: it tries each rule
// against every node in ascending-id order, applies the first rule that
// fires, and restarts. A bounded-iteration safety net guards termination
// against rewriter bugs; every real rule strictly shrinks the graph or
// folds a subtree to a smaller constant, so it is never reached in
// practice.
func Rewrite(g *Graph) {
	rules := []func(*Graph, uint64) bool{
		ruleConstantFold,
		ruleLenOfRoll,
		ruleJoinOfRolls,
	}

	limit := (len(g.Nodes) + 1) * (len(rules) + 1) * 16
	for iter := 0; iter < limit; iter++ {
		fired := false
		for _, id := range g.OrderedIDs() {
			if _, ok := g.Nodes[id]; !ok {
				continue // removed by an earlier rule this pass
			}
			for _, rule := range rules {
				if rule(g, id) {
					fired = true
					break
				}
			}
			if fired {
				break
			}
		}
		if !fired {
			return
		}
	}
}

// ruleConstantFold folds Add/Sub/Mul/Div/And/Or over two constant operands
// of the expected kind into a single constant node.
func ruleConstantFold(g *Graph, id uint64) bool {
	n := g.Get(id)
	if n == nil || n.Kind != KindOperation {
		return false
	}
	l, r := g.Get(n.Sources[0]), g.Get(n.Sources[1])
	if l == nil || r == nil {
		return false
	}

	var folded *Node
	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if l.Kind != KindConstantInt || r.Kind != KindConstantInt {
			return false
		}
		if n.Op == ast.OpDiv && r.IntVal == 0 {
			return false // division by zero already reported by the inliner
		}
		var v int64
		switch n.Op {
		case ast.OpAdd:
			v = l.IntVal + r.IntVal
		case ast.OpSub:
			v = l.IntVal - r.IntVal
		case ast.OpMul:
			v = l.IntVal * r.IntVal
		case ast.OpDiv:
			v = l.IntVal / r.IntVal
		}
		folded = newConstInt(v)
	case ast.OpAnd, ast.OpOr:
		if l.Kind != KindConstantBool || r.Kind != KindConstantBool {
			return false
		}
		var v bool
		if n.Op == ast.OpAnd {
			v = l.BoolVal && r.BoolVal
		} else {
			v = l.BoolVal || r.BoolVal
		}
		folded = newConstBool(v)
	default:
		return false
	}

	newID := g.Insert(folded)
	rewireSinks(g, id, newID)
	g.RemoveSink(n.Sources[0], id)
	g.RemoveSink(n.Sources[1], id)
	removeIfOrphaned(g, n.Sources[0])
	removeIfOrphaned(g, n.Sources[1])
	g.Remove(id)
	return true
}

// ruleLenOfRoll implements len(roll_dN(k)) -> k when k is a constant.
func ruleLenOfRoll(g *Graph, id uint64) bool {
	n := g.Get(id)
	if n == nil || n.Kind != KindLen {
		return false
	}
	roll := g.Get(n.Sources[0])
	if roll == nil || (roll.Kind != KindD6 && roll.Kind != KindD3) {
		return false
	}
	k := g.Get(roll.Sources[0])
	if k == nil || k.Kind != KindConstantInt {
		return false
	}

	rewireSinks(g, id, k.ID)
	g.RemoveSink(roll.ID, id)
	removeIfOrphaned(g, roll.ID)
	g.Remove(id)
	return true
}

// ruleJoinOfRolls implements join(roll_dN(a), roll_dN(b)) -> roll_dN(a+b)
// when both sides roll the same die and both counts are constants.
func ruleJoinOfRolls(g *Graph, id uint64) bool {
	n := g.Get(id)
	if n == nil || n.Kind != KindJoin {
		return false
	}
	left, right := g.Get(n.Sources[0]), g.Get(n.Sources[1])
	if left == nil || right == nil || left.Kind != right.Kind {
		return false
	}
	if left.Kind != KindD6 && left.Kind != KindD3 {
		return false
	}
	aNode, bNode := g.Get(left.Sources[0]), g.Get(right.Sources[0])
	if aNode == nil || bNode == nil || aNode.Kind != KindConstantInt || bNode.Kind != KindConstantInt {
		return false
	}

	sumID := g.Insert(newConstInt(aNode.IntVal + bNode.IntVal))
	rollNodeID := g.Insert(newRoll(left.Kind, n.Type, sumID))
	g.AddSink(sumID, rollNodeID)

	rewireSinks(g, id, rollNodeID)
	g.RemoveSink(left.ID, id)
	g.RemoveSink(right.ID, id)
	removeIfOrphaned(g, left.ID)
	removeIfOrphaned(g, right.ID)
	g.Remove(id)
	return true
}

// removeIfOrphaned deletes node if it has no remaining sinks, first
// propagating the refcount decrement to its own sources.
func removeIfOrphaned(g *Graph, id uint64) {
	n := g.Get(id)
	if n == nil || len(n.Sinks) > 0 {
		return
	}
	for _, s := range n.Sources {
		g.RemoveSink(s, id)
		removeIfOrphaned(g, s)
	}
	g.Remove(id)
}

// rewireSinks moves every consumer of from onto to, replacing the source
// edge each consumer holds and registering the new sink.
func rewireSinks(g *Graph, from, to uint64) {
	n := g.Get(from)
	if n == nil {
		return
	}
	for _, sink := range n.Sinks {
		g.SwapSource(sink, from, to)
		g.AddSink(to, sink)
	}
	if g.Final == from {
		g.Final = to
	}
}
