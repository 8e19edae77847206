package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicec/internal/ast"
	"dicec/internal/graph"
	"dicec/internal/rational"
	"dicec/internal/runtime"
)

// buildFilterGraph constructs, by hand, the OrderedExpression graph for
// "sum(filter(dice > 3, dice))" where dice = roll_d6(3), with the mask and
// value arguments to filter both sourced from the same roll node, exercising
// filter's positional correspondence explicitly.
func buildFilterGraph() *graph.Graph {
	const (
		constCount  uint64 = 1
		rollNode    uint64 = 2
		constThresh uint64 = 3
		maskNode    uint64 = 4
		filterNode  uint64 = 5
		sumNode     uint64 = 6
		finalNode   uint64 = 7
	)
	nodes := map[uint64]*graph.Node{
		constCount: {Match: graph.Match{ID: constCount, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 3},
		rollNode:   {Match: graph.Match{ID: rollNode, Type: ast.TVecInt}, Kind: graph.KindD6, Sources: []uint64{constCount}},
		constThresh: {Match: graph.Match{ID: constThresh, Type: ast.TInt}, Kind: graph.KindConstantInt, IntVal: 3},
		maskNode: {Match: graph.Match{ID: maskNode, Type: ast.TVecBool}, Kind: graph.KindOperation,
			Op: ast.OpGreaterThan, Sources: []uint64{rollNode, constThresh}},
		filterNode: {Match: graph.Match{ID: filterNode, Type: ast.TVecInt}, Kind: graph.KindFilter,
			Sources: []uint64{maskNode, rollNode}},
		sumNode:   {Match: graph.Match{ID: sumNode, Type: ast.TInt}, Kind: graph.KindSum, Sources: []uint64{filterNode}},
		finalNode: {Match: graph.Match{ID: finalNode, Type: ast.TInt}, Kind: graph.KindFinal, Sources: []uint64{sumNode}},
	}
	return &graph.Graph{Nodes: nodes, Final: finalNode}
}

func TestFilterPositionalCorrespondence(t *testing.T) {
	g := buildFilterGraph()
	report, err := runtime.Evaluate(g)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	byValue := map[int64]rational.Rational{}
	total := rational.Zero()
	for _, e := range report.Entries {
		byValue[e.Value.Int] = e.Prob
		total = total.Add(e.Prob)
	}

	// All three dice <= 3: mask is all-false, filter yields the empty
	// vector, sum of empty is 0. 3^3 = 27 of the 216 outcomes.
	zero, ok := byValue[0]
	if !ok {
		t.Fatalf("expected a sum=0 entry in the report")
	}
	assert.Equal(t, 0, zero.Cmp(rational.New(27, 216)))

	// Sum = 18 only from (6,6,6): every die is kept and they sum to 18.
	eighteen, ok := byValue[18]
	if !ok {
		t.Fatalf("expected a sum=18 entry in the report")
	}
	assert.Equal(t, 0, eighteen.Cmp(rational.New(1, 216)))

	assert.Equal(t, 0, total.Cmp(rational.One()))
}
