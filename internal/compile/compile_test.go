package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicec/internal/compile"
	"dicec/internal/env"
	"dicec/internal/rational"
)

func mustCompile(t *testing.T, source string) map[int64]rational.Rational {
	t.Helper()
	report, errs := compile.Compile("test.dice", source, env.MapLookup{})
	if len(errs) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs)
	}
	out := map[int64]rational.Rational{}
	total := rational.Zero()
	for _, e := range report.Entries {
		out[e.Value.Int] = e.Prob
		total = total.Add(e.Prob)
	}
	assert.Equal(t, 0, total.Cmp(rational.One()), "report probabilities must sum to 1")
	return out
}

func TestOneDieSum(t *testing.T) {
	byValue := mustCompile(t, `analyze sum(roll_d6(1));`)
	assert.Len(t, byValue, 6)
	for face := int64(1); face <= 6; face++ {
		p, ok := byValue[face]
		if !ok {
			t.Fatalf("missing face %d", face)
		}
		assert.Equal(t, 0, p.Cmp(rational.New(1, 6)))
	}
}

func TestTwoDiceSumDistribution(t *testing.T) {
	byValue := mustCompile(t, `analyze sum(roll_d6(2));`)
	assert.Equal(t, 0, byValue[2].Cmp(rational.New(1, 36)))
	assert.Equal(t, 0, byValue[7].Cmp(rational.New(6, 36)))
	assert.Equal(t, 0, byValue[12].Cmp(rational.New(1, 36)))
}

func TestJoinForcesIndependence(t *testing.T) {
	// join(roll_d6(1), roll_d6(1)) must behave as two independent dice even
	// though both arguments are the same content-addressed roll node: the
	// resulting sum distribution matches sum(roll_d6(2)) exactly.
	byValue := mustCompile(t, `analyze sum(join(roll_d6(1), roll_d6(1)));`)
	assert.Equal(t, 0, byValue[2].Cmp(rational.New(1, 36)))
	assert.Equal(t, 0, byValue[7].Cmp(rational.New(6, 36)))
	assert.Equal(t, 0, byValue[12].Cmp(rational.New(1, 36)))
}

func TestSharedAncestrySumMinusMax(t *testing.T) {
	// dice is a single shared roll node feeding both sum and max; the two
	// results must stay positionally aligned instead of being treated as
	// independent, or the combinatorics below would not hold.
	byValue := mustCompile(t, `const dice: vec<int> = roll_d6(3);
analyze (sum(dice) - max(dice));`)
	p, ok := byValue[2]
	if !ok {
		t.Fatalf("missing value 2 in report")
	}
	assert.Equal(t, 0, p.Cmp(rational.New(16, 216)))
}

func TestIndependentEqualLengthStreamsCrossMultiply(t *testing.T) {
	// roll_d6(1) and roll(6,1,1) are different content-addressed nodes that
	// each happen to produce a 6-row uniform {1..6} stream. They share no
	// lineage, so the difference of their sums must be the full triangular
	// distribution over -5..5, not the degenerate "always 0" result a
	// length-based zip heuristic would produce.
	byValue := mustCompile(t, `analyze (sum(roll_d6(1)) - sum(roll(6,1,1)));`)
	assert.Len(t, byValue, 11)
	for diff := int64(-5); diff <= 5; diff++ {
		p, ok := byValue[diff]
		if !ok {
			t.Fatalf("missing difference %d in report", diff)
		}
		weight := int64(6 - abs(diff))
		assert.Equal(t, 0, p.Cmp(rational.New(weight, 36)))
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func TestConstantFolding(t *testing.T) {
	byValue := mustCompile(t, `const A: int = 5;
const B: int = 5;
const C: int = 10;
analyze ((A + B) + C);`)
	assert.Len(t, byValue, 1)
	assert.Equal(t, 0, byValue[20].Cmp(rational.One()))
}

func TestFunctionInliningWithSharedArguments(t *testing.T) {
	byValue := mustCompile(t, `fn f(x: int, y: int) -> int { return ((x + y) + 10); }
analyze f(5, f(5, 5));`)
	assert.Len(t, byValue, 1)
	assert.Equal(t, 0, byValue[35].Cmp(rational.One()))
}

func TestLenOfRollPeephole(t *testing.T) {
	byValue := mustCompile(t, `analyze len(roll_d6(5));`)
	assert.Len(t, byValue, 1)
	assert.Equal(t, 0, byValue[5].Cmp(rational.One()))
}

func TestDeterminism(t *testing.T) {
	const source = `analyze sum(roll_d6(2));`
	first := mustCompile(t, source)
	second := mustCompile(t, source)
	assert.Equal(t, len(first), len(second))
	for v, p := range first {
		q, ok := second[v]
		if !ok {
			t.Fatalf("value %d missing on second compile", v)
		}
		assert.Equal(t, 0, p.Cmp(q))
	}
}
