package search

import (
	"sort"

	"symplan/internal/formalism"
)

// AxiomPartition is one stratum: the axioms whose head predicates share a
// layer of the stratification. Lower partitions are saturated before
// higher ones.
type AxiomPartition struct {
	members map[*formalism.Axiom]struct{}
	Order   []*formalism.Axiom
}

// Contains reports whether the axiom belongs to this partition.
func (p *AxiomPartition) Contains(ax *formalism.Axiom) bool {
	_, ok := p.members[ax]
	return ok
}

// stratifyAxioms partitions the problem's axioms by the strongly
// connected components of the derived-predicate dependency graph, in
// topological order. A negative dependency inside a component means the
// axioms have no stratified semantics and yields a StratificationError.
func stratifyAxioms(problem *formalism.Problem) ([]AxiomPartition, error) {
	n := problem.Factories.PredicateCount(formalism.Derived)
	if n == 0 || len(problem.Axioms) == 0 {
		return nil, nil
	}

	type edge struct {
		to       int
		negative bool
	}
	adj := make([][]edge, n)
	for _, ax := range problem.Axioms {
		head := int(ax.Head.Atom.Predicate.Idx)
		for _, body := range ax.DerivedConditions {
			from := int(body.Atom.Predicate.Idx)
			adj[from] = append(adj[from], edge{to: head, negative: body.Negated})
		}
	}

	// Tarjan's algorithm; predicates are visited in ascending index
	// order so component numbering is deterministic.
	const unvisited = -1
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp := make([]int, n)
	for i := range index {
		index[i] = unvisited
		comp[i] = unvisited
	}
	var stack []int
	counter := 0
	numComps := 0

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		for _, e := range adj[v] {
			if index[e.to] == unvisited {
				strongConnect(e.to)
				if low[e.to] < low[v] {
					low[v] = low[e.to]
				}
			} else if onStack[e.to] && index[e.to] < low[v] {
				low[v] = index[e.to]
			}
		}
		if low[v] == index[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = numComps
				if w == v {
					break
				}
			}
			numComps++
		}
	}
	for v := 0; v < n; v++ {
		if index[v] == unvisited {
			strongConnect(v)
		}
	}

	// A negative edge within a component is a negative cycle.
	for v := 0; v < n; v++ {
		for _, e := range adj[v] {
			if e.negative && comp[v] == comp[e.to] {
				return nil, &StratificationError{
					Predicate: problem.Factories.Predicate(formalism.Derived, formalism.Index(e.to)),
				}
			}
		}
	}

	// Topological order of the condensation, smallest member predicate
	// first among ready components for a deterministic layering.
	indegree := make([]int, numComps)
	compAdj := make([][]int, numComps)
	for v := 0; v < n; v++ {
		for _, e := range adj[v] {
			if comp[v] != comp[e.to] {
				compAdj[comp[v]] = append(compAdj[comp[v]], comp[e.to])
				indegree[comp[e.to]]++
			}
		}
	}
	minMember := make([]int, numComps)
	for c := range minMember {
		minMember[c] = n
	}
	for v := 0; v < n; v++ {
		if v < minMember[comp[v]] {
			minMember[comp[v]] = v
		}
	}

	var ready []int
	for c := 0; c < numComps; c++ {
		if indegree[c] == 0 {
			ready = append(ready, c)
		}
	}
	var order []int
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return minMember[ready[i]] < minMember[ready[j]] })
		c := ready[0]
		ready = ready[1:]
		order = append(order, c)
		for _, d := range compAdj[c] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	partitions := make([]AxiomPartition, 0, numComps)
	for _, c := range order {
		p := AxiomPartition{members: make(map[*formalism.Axiom]struct{})}
		for _, ax := range problem.Axioms {
			if comp[int(ax.Head.Atom.Predicate.Idx)] == c {
				p.members[ax] = struct{}{}
				p.Order = append(p.Order, ax)
			}
		}
		if len(p.Order) == 0 {
			continue
		}
		sort.Slice(p.Order, func(i, j int) bool { return p.Order[i].Idx < p.Order[j].Idx })
		partitions = append(partitions, p)
	}
	return partitions, nil
}
