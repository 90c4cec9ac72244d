package search

import (
	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// AxiomEvaluator computes the derived-atom bitset of a state as the
// stratified fixed point of ground axiom application. It reuses the
// consistency-graph machinery of the lifted generator: per stratum it
// enumerates candidate bindings against the current fluent and derived
// atoms, grounds each axiom at most once per binding, and sets the head
// bit of every applicable instance until nothing changes.
type AxiomEvaluator struct {
	problem   *formalism.Problem
	factories *formalism.Factories
	handler   EventHandler

	partitions []AxiomPartition
	staticAS   *AssignmentSet
	graphs     map[*formalism.Axiom]*ConsistencyGraph

	axioms []*GroundAxiom
	cache  map[*formalism.Axiom]map[string]*GroundAxiom

	applicableSeen  *bitset.BitSet
	applicableOrder []*GroundAxiom
}

func newAxiomEvaluator(problem *formalism.Problem, handler EventHandler, staticAS *AssignmentSet) (*AxiomEvaluator, error) {
	partitions, err := stratifyAxioms(problem)
	if err != nil {
		return nil, err
	}
	e := &AxiomEvaluator{
		problem:        problem,
		factories:      problem.Factories,
		handler:        handler,
		partitions:     partitions,
		staticAS:       staticAS,
		graphs:         make(map[*formalism.Axiom]*ConsistencyGraph, len(problem.Axioms)),
		cache:          make(map[*formalism.Axiom]map[string]*GroundAxiom),
		applicableSeen: bitset.New(0),
	}
	for _, ax := range problem.Axioms {
		params := make([]int, ax.Arity())
		for i := range params {
			params[i] = i
		}
		e.graphs[ax] = newConsistencyGraph(problem, params, ax.StaticConditions, staticAS)
	}
	return e, nil
}

// Partitions returns the stratification, lowest stratum first.
func (e *AxiomEvaluator) Partitions() []AxiomPartition { return e.partitions }

// Axiom returns the ground axiom with the given dense id.
func (e *AxiomEvaluator) Axiom(id uint32) *GroundAxiom { return e.axioms[id] }

// ApplicableAxioms returns every grounding that tested applicable at
// least once, in first-seen order.
func (e *AxiomEvaluator) ApplicableAxioms() []*GroundAxiom { return e.applicableOrder }

// GroundAxiom grounds an axiom under a binding, at most once per pair.
func (e *AxiomEvaluator) GroundAxiom(ax *formalism.Axiom, binding []*formalism.Object) *GroundAxiom {
	cache := e.cache[ax]
	if cache == nil {
		cache = make(map[string]*GroundAxiom)
		e.cache[ax] = cache
	}
	key := bindingKey(binding)
	if a, ok := cache[key]; ok {
		e.handler.OnGroundAxiomCacheHit(ax, binding)
		return a
	}
	e.handler.OnGroundAxiomCacheMiss(ax, binding)

	a := &GroundAxiom{
		id:      uint32(len(e.axioms)),
		axiom:   ax,
		binding: append([]*formalism.Object(nil), binding...),
		pre:     newStripsPrecondition(),
	}
	e.factories.GroundIntoBitsets(ax.StaticConditions, a.pre.PosStatic, a.pre.NegStatic, a.binding)
	e.factories.GroundIntoBitsets(ax.FluentConditions, a.pre.PosFluent, a.pre.NegFluent, a.binding)
	e.factories.GroundIntoBitsets(ax.DerivedConditions, a.pre.PosDerived, a.pre.NegDerived, a.binding)

	head := e.factories.GroundLiteralOf(ax.Head, a.binding)
	a.effectAtom = head.Atom.Idx

	e.axioms = append(e.axioms, a)
	cache[key] = a
	return a
}

// Evaluate saturates the derived bitset against the fluent bitset,
// stratum by stratum. Within a stratum the derived bitset grows
// monotonically and is bounded by the derived-atom count, so each
// fixed-point loop terminates.
func (e *AxiomEvaluator) Evaluate(fluent, derived *bitset.BitSet) error {
	static := e.problem.StaticPositive
	for pi := range e.partitions {
		partition := &e.partitions[pi]
		for {
			changed := false

			fluentAS := NewAssignmentSet(e.problem, formalism.Fluent, func(fn func(*formalism.GroundAtom)) {
				for i, ok := fluent.NextSet(0); ok; i, ok = fluent.NextSet(i + 1) {
					fn(e.factories.GroundAtom(formalism.Fluent, formalism.Index(i)))
				}
			})
			derivedAS := NewAssignmentSet(e.problem, formalism.Derived, func(fn func(*formalism.GroundAtom)) {
				for i, ok := derived.NextSet(0); ok; i, ok = derived.NextSet(i + 1) {
					fn(e.factories.GroundAtom(formalism.Derived, formalism.Index(i)))
				}
			})

			for _, ax := range partition.Order {
				if !nullaryAxiomConditionsHold(e.problem, fluent, derived, ax) {
					continue
				}
				e.eachCandidateBinding(ax, fluentAS, derivedAS, func(binding []*formalism.Object) {
					ga := e.GroundAxiom(ax, binding)
					if !ga.IsApplicable(fluent, derived, static) {
						e.handler.OnInapplicableAxiom(ga)
						return
					}
					e.markApplicable(ga)
					if !derived.Test(uint(ga.effectAtom)) {
						derived.Set(uint(ga.effectAtom))
						changed = true
					}
				})
			}

			if !changed {
				break
			}
		}
	}
	return nil
}

func (e *AxiomEvaluator) markApplicable(a *GroundAxiom) {
	if !e.applicableSeen.Test(uint(a.id)) {
		e.applicableSeen.Set(uint(a.id))
		e.applicableOrder = append(e.applicableOrder, a)
	}
}

func nullaryAxiomConditionsHold(problem *formalism.Problem, fluent, derived *bitset.BitSet, ax *formalism.Axiom) bool {
	check := func(lits []*formalism.Literal, bits *bitset.BitSet) bool {
		for _, lit := range lits {
			if !atomIsGround(lit.Atom) {
				continue
			}
			gl := problem.Factories.GroundLiteralOf(lit, nil)
			if bits.Test(uint(gl.Atom.Idx)) == gl.Negated {
				return false
			}
		}
		return true
	}
	return check(ax.FluentConditions, fluent) && check(ax.DerivedConditions, derived)
}

// eachCandidateBinding enumerates bindings of an axiom consistent with
// the static graph and the current fluent/derived assignment sets, in the
// same nullary/unary/general split as actions.
func (e *AxiomEvaluator) eachCandidateBinding(ax *formalism.Axiom, fluentAS, derivedAS *AssignmentSet, emit func([]*formalism.Object)) {
	if ax.Arity() == 0 {
		emit(nil)
		return
	}

	graph := e.graphs[ax]

	if ax.Arity() == 1 {
		for _, v := range graph.Vertices {
			pa := vertexAssignment(v.Param, v.Object)
			if !fluentAS.LiteralsConsistent(ax.FluentConditions, pa) ||
				!derivedAS.LiteralsConsistent(ax.DerivedConditions, pa) {
				continue
			}
			emit([]*formalism.Object{e.factories.Object(v.Object)})
		}
		return
	}

	adj := graph.adjacencyMatrix(func(src, dst Vertex) bool {
		pa := edgeAssignment(src.Param, src.Object, dst.Param, dst.Object)
		return fluentAS.LiteralsConsistent(ax.FluentConditions, pa) &&
			derivedAS.LiteralsConsistent(ax.DerivedConditions, pa)
	})

	binding := make([]*formalism.Object, ax.Arity())
	findAllKCliquesInKPartiteGraph(adj, graph.VerticesByParam, func(clique []int) {
		for _, vid := range clique {
			v := graph.Vertices[vid]
			binding[v.Param] = e.factories.Object(v.Object)
		}
		emit(binding)
	})
}
