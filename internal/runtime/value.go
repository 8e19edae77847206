// Package runtime executes an OrderedExpression graph: it walks each node
// to a materialised Stream, memoised by content-addressed id, recursively
// from Final, and accumulates the resulting elements into a Report.
package runtime

import (
	"fmt"
	"sort"
	"strings"

	"dicec/internal/ast"
)

// Value is a runtime Datum: a Bool, Int, IntVec, or BoolVec, tagged by its
// static type.
type Value struct {
	Type    ast.Type
	Int     int64
	Bool    bool
	IntVec  []int64
	BoolVec []bool
}

// IntValue builds a scalar int Datum.
func IntValue(v int64) Value { return Value{Type: ast.TInt, Int: v} }

// BoolValue builds a scalar bool Datum.
func BoolValue(v bool) Value { return Value{Type: ast.TBool, Bool: v} }

// IntVecValue builds a vec<int> Datum, taking ownership of vec.
func IntVecValue(vec []int64) Value { return Value{Type: ast.TVecInt, IntVec: vec} }

// BoolVecValue builds a vec<bool> Datum, taking ownership of vec.
func BoolVecValue(vec []bool) Value { return Value{Type: ast.TVecBool, BoolVec: vec} }

// Canonical returns a copy with any vector sorted ascending, so that
// permutations of the same multiset collide under Coalesce and Report
// accumulation.
func (v Value) Canonical() Value {
	switch v.Type {
	case ast.TVecInt:
		vec := append([]int64(nil), v.IntVec...)
		sort.Slice(vec, func(i, j int) bool { return vec[i] < vec[j] })
		return Value{Type: v.Type, IntVec: vec}
	case ast.TVecBool:
		vec := append([]bool(nil), v.BoolVec...)
		sort.Slice(vec, func(i, j int) bool { return !vec[i] && vec[j] })
		return Value{Type: v.Type, BoolVec: vec}
	default:
		return v
	}
}

// key returns a string uniquely identifying v's datum, for use as a map key
// during coalescing. Canonicalize before calling key if permutations should
// collide.
func (v Value) key() string {
	switch v.Type {
	case ast.TInt:
		return fmt.Sprintf("i:%d", v.Int)
	case ast.TBool:
		return fmt.Sprintf("b:%t", v.Bool)
	case ast.TVecInt:
		parts := make([]string, len(v.IntVec))
		for i, x := range v.IntVec {
			parts[i] = fmt.Sprintf("%d", x)
		}
		return "vi:[" + strings.Join(parts, ",") + "]"
	case ast.TVecBool:
		parts := make([]string, len(v.BoolVec))
		for i, x := range v.BoolVec {
			parts[i] = fmt.Sprintf("%t", x)
		}
		return "vb:[" + strings.Join(parts, ",") + "]"
	default:
		return "?"
	}
}

// Render formats a datum: booleans as true/false, integers as base-10,
// collections as "[v1, v2, …]" in ascending order. v must already be
// canonical for a collection rendering to be ascending.
func (v Value) Render() string {
	switch v.Type {
	case ast.TInt:
		return fmt.Sprintf("%d", v.Int)
	case ast.TBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ast.TVecInt:
		parts := make([]string, len(v.IntVec))
		for i, x := range v.IntVec {
			parts[i] = fmt.Sprintf("%d", x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.TVecBool:
		parts := make([]string, len(v.BoolVec))
		for i, x := range v.BoolVec {
			if x {
				parts[i] = "true"
			} else {
				parts[i] = "false"
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// compareValues orders two canonical Values for Report's final sort:
// numerically/lexically by kind, then by value, then element-by-element for
// collections, shorter first.
func compareValues(a, b Value) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	switch a.Type {
	case ast.TInt:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case ast.TBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	case ast.TVecInt:
		for i := 0; i < len(a.IntVec) && i < len(b.IntVec); i++ {
			if a.IntVec[i] != b.IntVec[i] {
				return int(a.IntVec[i] - b.IntVec[i])
			}
		}
		return len(a.IntVec) - len(b.IntVec)
	case ast.TVecBool:
		for i := 0; i < len(a.BoolVec) && i < len(b.BoolVec); i++ {
			if a.BoolVec[i] != b.BoolVec[i] {
				if !a.BoolVec[i] {
					return -1
				}
				return 1
			}
		}
		return len(a.BoolVec) - len(b.BoolVec)
	default:
		return 0
	}
}
