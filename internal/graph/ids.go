package graph

import (
	"dicec/internal/ast"
	"dicec/internal/hash"
)

// nodeID computes the content-addressed id for a freshly-built node, using
// the same field-encoding convention as the inliner so that rewriting never
// produces an id collision with a structurally different node.
func nodeID(n *Node) uint64 {
	b := hash.New().WriteTag(byte(n.Kind)).WriteTag(byte(n.Type))
	switch n.Kind {
	case KindConstantInt:
		b.WriteInt64(n.IntVal)
	case KindConstantBool:
		b.WriteBool(n.BoolVal)
	case KindD6, KindD3, KindCount, KindLen, KindSum, KindMin, KindMax:
		b.WriteUint64(n.Sources[0])
	case KindFilter, KindJoin:
		b.WriteUint64(n.Sources[0]).WriteUint64(n.Sources[1])
	case KindOperation:
		b.WriteUint64(n.Sources[0]).WriteTag(byte(n.Op)).WriteUint64(n.Sources[1])
	case KindRollRange:
		b.WriteUint64(n.Sources[0]).WriteUint64(n.Sources[1]).WriteUint64(n.Sources[2])
	}
	return b.Sum64()
}

func newConstInt(v int64) *Node {
	n := &Node{Match: Match{Type: ast.TInt}, Kind: KindConstantInt, IntVal: v}
	n.ID = nodeID(n)
	return n
}

func newConstBool(v bool) *Node {
	n := &Node{Match: Match{Type: ast.TBool}, Kind: KindConstantBool, BoolVal: v}
	n.ID = nodeID(n)
	return n
}

func newRoll(kind Kind, resultType ast.Type, countID uint64) *Node {
	n := &Node{Match: Match{Type: resultType}, Kind: kind, Sources: []uint64{countID}}
	n.ID = nodeID(n)
	return n
}
