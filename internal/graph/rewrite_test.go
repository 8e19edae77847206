package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicec/internal/ast"
	"dicec/internal/graph"
)

// wire derives Sinks from each node's Sources, mirroring how graph.Build
// wires a freshly constructed node table.
func wire(nodes map[uint64]*graph.Node) {
	for id, n := range nodes {
		for _, s := range n.Sources {
			src := nodes[s]
			src.Sinks = append(src.Sinks, id)
		}
	}
}

func TestRewriteFoldsConstantAddition(t *testing.T) {
	const (
		left  uint64 = 1
		right uint64 = 2
		op    uint64 = 3
		final uint64 = 4
	)
	nodes := map[uint64]*graph.Node{
		left:  {Match: graph.Match{ID: left, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 3},
		right: {Match: graph.Match{ID: right, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 5},
		op: {Match: graph.Match{ID: op, Type: ast.TInt}, Kind: graph.KindOperation,
			Op: ast.OpAdd, Sources: []uint64{left, right}},
		final: {Match: graph.Match{ID: final, Type: ast.TInt}, Kind: graph.KindFinal, Sources: []uint64{op}},
	}
	wire(nodes)
	g := &graph.Graph{Nodes: nodes, Final: final}

	graph.Rewrite(g)

	result := g.Get(g.Get(g.Final).Sources[0])
	if result == nil {
		t.Fatalf("final node has no source after rewrite")
	}
	assert.Equal(t, graph.KindConstantInt, result.Kind)
	assert.Equal(t, int64(8), result.IntVal)
	// the folded operands are now unreachable and must have been pruned
	assert.Nil(t, g.Get(op))
	assert.Nil(t, g.Get(left))
	assert.Nil(t, g.Get(right))
}

func TestRewriteLenOfRollToConstant(t *testing.T) {
	const (
		count uint64 = 1
		roll  uint64 = 2
		length uint64 = 3
		final  uint64 = 4
	)
	nodes := map[uint64]*graph.Node{
		count:  {Match: graph.Match{ID: count, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 5},
		roll:   {Match: graph.Match{ID: roll, Type: ast.TVecInt}, Kind: graph.KindD6, Sources: []uint64{count}},
		length: {Match: graph.Match{ID: length, Type: ast.TInt}, Kind: graph.KindLen, Sources: []uint64{roll}},
		final:  {Match: graph.Match{ID: final, Type: ast.TInt}, Kind: graph.KindFinal, Sources: []uint64{length}},
	}
	wire(nodes)
	g := &graph.Graph{Nodes: nodes, Final: final}

	graph.Rewrite(g)

	result := g.Get(g.Get(g.Final).Sources[0])
	if result == nil {
		t.Fatalf("final node has no source after rewrite")
	}
	assert.Equal(t, graph.KindConstantInt, result.Kind)
	assert.Equal(t, int64(5), result.IntVal)
	assert.Nil(t, g.Get(roll))
	assert.Nil(t, g.Get(length))
}

func TestRewriteJoinOfRollsMerges(t *testing.T) {
	const (
		countA uint64 = 1
		countB uint64 = 2
		rollA  uint64 = 3
		rollB  uint64 = 4
		join   uint64 = 5
		final  uint64 = 6
	)
	nodes := map[uint64]*graph.Node{
		countA: {Match: graph.Match{ID: countA, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 2},
		countB: {Match: graph.Match{ID: countB, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 3},
		rollA:  {Match: graph.Match{ID: rollA, Type: ast.TVecInt}, Kind: graph.KindD6, Sources: []uint64{countA}},
		rollB:  {Match: graph.Match{ID: rollB, Type: ast.TVecInt}, Kind: graph.KindD6, Sources: []uint64{countB}},
		join: {Match: graph.Match{ID: join, Type: ast.TVecInt}, Kind: graph.KindJoin,
			Sources: []uint64{rollA, rollB}},
		final: {Match: graph.Match{ID: final, Type: ast.TVecInt}, Kind: graph.KindFinal, Sources: []uint64{join}},
	}
	wire(nodes)
	g := &graph.Graph{Nodes: nodes, Final: final}

	graph.Rewrite(g)

	result := g.Get(g.Get(g.Final).Sources[0])
	if result == nil {
		t.Fatalf("final node has no source after rewrite")
	}
	assert.Equal(t, graph.KindD6, result.Kind)
	assert.Len(t, result.Sources, 1)
	countNode := g.Get(result.Sources[0])
	if countNode == nil {
		t.Fatalf("merged roll node has no count source")
	}
	assert.Equal(t, int64(5), countNode.IntVal)
	assert.Nil(t, g.Get(join))
}
