// Package graph builds the dataflow graph of primitive operations out of a
// flat inlined pool, and rewrites it to a fixed point with a small set of
// local peephole transforms.
package graph

import (
	"sort"

	"dicec/internal/ast"
	"dicec/internal/hash"
	"dicec/internal/inline"
)

// Kind mirrors inline.Kind's primitive variants and adds the distinguished
// Final sentinel.
type Kind int

const (
	KindConstantInt Kind = iota
	KindConstantBool
	KindD6
	KindD3
	KindRollRange
	KindFilter
	KindCount
	KindLen
	KindJoin
	KindSum
	KindMin
	KindMax
	KindOperation
	KindFinal
)

// Match identifies a node by its content-addressed id and static type.
type Match struct {
	ID   uint64
	Type ast.Type
}

// Node is one OrderedExpression: a primitive operation plus its positional
// source edges and its unordered sink (consumer) list.
type Node struct {
	Match
	Kind Kind

	IntVal  int64
	BoolVal bool
	Op      ast.Op

	// Sources lists argument node ids in positional order, per Kind:
	//   D6, D3, Count, Len, Sum, Min, Max: [arg]
	//   Filter: [mask, values]; Join, Operation: [left, right]
	//   RollRange: [min, max, count]; Final: [analyze result]
	//   ConstantInt, ConstantBool: none
	Sources []uint64
	Sinks   []uint64
}

// Graph is the mutable node table plus the Final sentinel's id.
type Graph struct {
	Nodes map[uint64]*Node
	Final uint64
}

func kindFromInline(k inline.Kind) Kind {
	return Kind(k) // the two enums are declared in the same order by construction.
}

// Build converts every flat-pool node reachable from flat.Root into an
// OrderedExpression, wires sink edges from the source lists, and appends
// the Final sentinel.
func Build(flat *inline.FlatPool) *Graph {
	g := &Graph{Nodes: map[uint64]*Node{}}
	visited := map[uint64]bool{}

	var walk func(id uint64)
	walk = func(id uint64) {
		if visited[id] {
			return
		}
		visited[id] = true
		src := flat.Get(id)
		n := &Node{
			Match:   Match{ID: id, Type: src.Type},
			Kind:    kindFromInline(src.Kind),
			IntVal:  src.IntVal,
			BoolVal: src.BoolVal,
			Op:      src.Op,
		}
		n.Sources = sourcesOf(src)
		g.Nodes[id] = n
		for _, s := range n.Sources {
			walk(s)
		}
	}
	walk(flat.Root)

	for id, n := range g.Nodes {
		for _, s := range n.Sources {
			g.addSinkRaw(s, id)
		}
	}

	finalID := g.NextFreeID(map[uint64]bool{flat.Root: true})
	g.Nodes[finalID] = &Node{
		Match:   Match{ID: finalID, Type: g.Nodes[flat.Root].Type},
		Kind:    KindFinal,
		Sources: []uint64{flat.Root},
	}
	g.addSinkRaw(flat.Root, finalID)
	g.Final = finalID
	return g
}

func sourcesOf(n *inline.Node) []uint64 {
	switch n.Kind {
	case inline.KindD6, inline.KindD3, inline.KindCount, inline.KindLen, inline.KindSum, inline.KindMin, inline.KindMax:
		return []uint64{n.Arg}
	case inline.KindFilter, inline.KindJoin, inline.KindOperation:
		return []uint64{n.Left, n.Right}
	case inline.KindRollRange:
		return []uint64{n.Min, n.Max, n.Count}
	default:
		return nil
	}
}

// Get returns the node for id, or nil.
func (g *Graph) Get(id uint64) *Node { return g.Nodes[id] }

// Insert adds n to the graph, merging into any content-equal survivor.
func (g *Graph) Insert(n *Node) uint64 {
	if existing, ok := g.Nodes[n.ID]; ok {
		return existing.ID
	}
	g.Nodes[n.ID] = n
	return n.ID
}

// Remove deletes a node with no remaining sinks.
func (g *Graph) Remove(id uint64) {
	delete(g.Nodes, id)
}

func (g *Graph) addSinkRaw(on, sink uint64) {
	n, ok := g.Nodes[on]
	if !ok {
		return
	}
	for _, s := range n.Sinks {
		if s == sink {
			return
		}
	}
	n.Sinks = append(n.Sinks, sink)
}

// AddSink records that sink consumes on.
func (g *Graph) AddSink(on, sink uint64) { g.addSinkRaw(on, sink) }

// RemoveSink drops sink from on's consumer list.
func (g *Graph) RemoveSink(on, sink uint64) {
	n, ok := g.Nodes[on]
	if !ok {
		return
	}
	out := n.Sinks[:0]
	for _, s := range n.Sinks {
		if s != sink {
			out = append(out, s)
		}
	}
	n.Sinks = out
}

// SwapSource replaces old with next in on's source list, in place.
func (g *Graph) SwapSource(on uint64, old, next uint64) {
	n, ok := g.Nodes[on]
	if !ok {
		return
	}
	for i, s := range n.Sources {
		if s == old {
			n.Sources[i] = next
		}
	}
}

// NextFreeID returns an id disjoint from both the current node set and the
// caller-supplied avoid set, by probing a counter-derived hash.
func (g *Graph) NextFreeID(avoid map[uint64]bool) uint64 {
	var i uint64
	for {
		candidate := hash.Of('#', i)
		if _, taken := g.Nodes[candidate]; !taken && !avoid[candidate] {
			return candidate
		}
		i++
	}
}

// OrderedIDs returns every node id in ascending order, for the rewriter's
// deterministic driver loop.
func (g *Graph) OrderedIDs() []uint64 {
	ids := make([]uint64, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
