package search

import (
	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// Vertex of a consistency graph: a candidate assignment of one object to
// one parameter position.
type Vertex struct {
	ID     int
	Param  int
	Object formalism.Index
}

// Edge of a consistency graph: a pair of vertices over distinct
// parameters whose joint assignment is consistent with every static
// precondition literal mentioning both.
type Edge struct {
	Src int
	Dst int
}

// ConsistencyGraph is the k-partite graph of statically consistent
// parameter assignments of one schema: k partitions, one per parameter,
// whose k-cliques are exactly the bindings surviving binary static
// consistency. Built once per schema against the problem's static atoms;
// vertices and edges are filtered further per query state by the fluent
// and derived assignment sets.
type ConsistencyGraph struct {
	Vertices        []Vertex
	Edges           []Edge
	VerticesByParam [][]int
}

// newConsistencyGraph builds the graph for a condition block with the
// given parameter positions. params lists the absolute parameter
// positions of the partitions (0..arity-1 for a schema precondition,
// the quantified positions for a universal effect).
func newConsistencyGraph(problem *formalism.Problem, params []int, staticConds []*formalism.Literal, staticAS *AssignmentSet) *ConsistencyGraph {
	g := &ConsistencyGraph{
		VerticesByParam: make([][]int, len(params)),
	}

	for pi, param := range params {
		for _, obj := range problem.Objects {
			if staticAS.LiteralsConsistent(staticConds, vertexAssignment(param, obj.Idx)) {
				id := len(g.Vertices)
				g.Vertices = append(g.Vertices, Vertex{ID: id, Param: param, Object: obj.Idx})
				g.VerticesByParam[pi] = append(g.VerticesByParam[pi], id)
			}
		}
	}

	for pi := 0; pi < len(params); pi++ {
		for pj := pi + 1; pj < len(params); pj++ {
			for _, vi := range g.VerticesByParam[pi] {
				for _, vj := range g.VerticesByParam[pj] {
					src, dst := g.Vertices[vi], g.Vertices[vj]
					if staticAS.LiteralsConsistent(staticConds,
						edgeAssignment(src.Param, src.Object, dst.Param, dst.Object)) {
						g.Edges = append(g.Edges, Edge{Src: vi, Dst: vj})
					}
				}
			}
		}
	}

	return g
}

// ObjectsByParam returns the candidate object indices per partition, used
// to expand universal effects by Cartesian product.
func (g *ConsistencyGraph) ObjectsByParam() [][]formalism.Index {
	out := make([][]formalism.Index, len(g.VerticesByParam))
	for pi, ids := range g.VerticesByParam {
		objs := make([]formalism.Index, len(ids))
		for i, id := range ids {
			objs[i] = g.Vertices[id].Object
		}
		out[pi] = objs
	}
	return out
}

// adjacencyMatrix materializes the edges surviving a per-state filter as
// a symmetric bitset matrix over vertex ids.
func (g *ConsistencyGraph) adjacencyMatrix(keep func(src, dst Vertex) bool) []*bitset.BitSet {
	n := uint(len(g.Vertices))
	adj := make([]*bitset.BitSet, n)
	for i := range adj {
		adj[i] = bitset.New(n)
	}
	for _, e := range g.Edges {
		if keep(g.Vertices[e.Src], g.Vertices[e.Dst]) {
			adj[e.Src].Set(uint(e.Dst))
			adj[e.Dst].Set(uint(e.Src))
		}
	}
	return adj
}
