package runtime

import (
	"sort"

	"dicec/internal/rational"
)

// Element is the unit of a runtime stream: a Datum paired with the
// probability of that datum occurring.
type Element struct {
	Value Value
	Prob  rational.Rational
}

// Stream is a finite, materialised sequence of Elements. dicec always fully
// materialises a distribution rather than iterating it lazily, since the
// full joint distribution has to be computed in any case before it can be
// coalesced and reported.
//
// A binary primitive (an operator, join, or filter) combines two Streams
// either by zipping them row-for-row or by taking their full cartesian
// product with probabilities multiplied pairwise. Which one applies is not
// a property of the Streams themselves — it depends on whether the two
// operands trace back to the same upstream random source or to genuinely
// independent ones. The evaluator (eval.go) decides this from graph
// provenance, not from stream shape; see its lineage function.
type Stream []Element

// Coalesce reifies a Stream into a restartable producer: it materialises
// every element, groups by canonicalised datum, and sums probabilities, so
// the same distribution can be replayed by more than one consumer without
// re-deriving it. dicec's evaluator achieves the "replay" side of this
// directly via its node-id memoisation cache (eval.go); this function
// performs the grouping half on demand wherever a node's raw element stream
// (pre-grouping) must be condensed into a distribution, such as final
// report accumulation.
func Coalesce(s Stream) Stream {
	totals := map[string]rational.Rational{}
	sample := map[string]Value{}
	order := make([]string, 0, len(s))

	for _, e := range s {
		canon := e.Value.Canonical()
		k := canon.key()
		if _, ok := totals[k]; !ok {
			totals[k] = rational.Zero()
			sample[k] = canon
			order = append(order, k)
		}
		totals[k] = totals[k].Add(e.Prob)
	}

	out := make(Stream, 0, len(order))
	for _, k := range order {
		out = append(out, Element{Value: sample[k], Prob: totals[k]})
	}
	sortStream(out)
	return out
}

func sortStream(s Stream) {
	sort.Slice(s, func(i, j int) bool { return compareValues(s[i].Value, s[j].Value) < 0 })
}
