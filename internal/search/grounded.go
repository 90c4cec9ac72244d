package search

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// GroundedGenerator pre-grounds every reachable action and axiom by
// delete-relaxed exploration and indexes them in match trees, answering
// applicability queries by a tree walk over the state's fluent bitset.
// It owns a lifted generator over the unrelaxed problem for grounding and
// for the axiom stratification.
type GroundedGenerator struct {
	problem *formalism.Problem
	handler EventHandler
	lifted  *LiftedGenerator

	actionTree *MatchTree[*GroundAction]
	axiomTree  *MatchTree[*GroundAxiom]

	actionScratch []*GroundAction
	axiomScratch  []*GroundAxiom
}

// NewGroundedGenerator runs the full setup: delete-relaxed exploration to
// the reachable atom set, re-grounding of the unrelaxed schemas with the
// bindings found, and match-tree construction over the probe order.
func NewGroundedGenerator(problem *formalism.Problem, handler EventHandler) (*GroundedGenerator, error) {
	if handler == nil {
		handler = NewMinimalEventHandler()
	}

	lifted, err := NewLiftedGenerator(problem, handler)
	if err != nil {
		return nil, err
	}
	g := &GroundedGenerator{
		problem: problem,
		handler: handler,
		lifted:  lifted,
	}

	// Delete-relaxed exploration. The relaxed generator runs on a silent
	// handler; its cache traffic is setup cost, not search cost.
	relaxation := deleteRelax(problem)
	relaxedGen, err := NewLiftedGenerator(relaxation.problem, NewMinimalEventHandler())
	if err != nil {
		return nil, err
	}
	relaxedSSG := NewSuccessorStateGenerator(relaxedGen)

	initial, err := relaxedSSG.GetOrCreateInitialState()
	if err != nil {
		return nil, err
	}
	fluentUnion := initial.FluentAtoms().Clone()
	derivedUnion := initial.DerivedAtoms().Clone()

	var actions []*GroundAction
	for {
		before := fluentUnion.Count()

		// Query against a snapshot: newly generated actions may still
		// fire conditional effects in a later round, so applicability is
		// re-checked against the grown union every iteration.
		query := &State{
			fluent:  fluentUnion.Clone(),
			derived: derivedUnion.Clone(),
			problem: relaxation.problem,
		}
		actions, err = relaxedGen.GenerateApplicableActions(query, actions[:0])
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			successor, _, err := relaxedSSG.GetOrCreateSuccessorState(query, a)
			if err != nil {
				return nil, err
			}
			fluentUnion.InPlaceUnion(successor.FluentAtoms())
		}

		if err := relaxedGen.ApplyAxioms(fluentUnion, derivedUnion); err != nil {
			return nil, err
		}

		if fluentUnion.Count() == before {
			break
		}
	}

	order := computeGroundAtomOrder(fluentUnion, problem.Factories)

	// Ground the unrelaxed schemas with the bindings the relaxed
	// exploration found applicable, dropping statically violated
	// groundings before tree construction.
	var groundActions []*GroundAction
	for _, relaxed := range relaxedGen.ApplicableActions() {
		unrelaxed := relaxation.toUnrelaxedAction[relaxed.Schema()]
		a, err := lifted.GroundAction(unrelaxed, relaxed.Binding())
		if err != nil {
			return nil, err
		}
		if a.IsStaticallyApplicable(problem.StaticPositive) {
			groundActions = append(groundActions, a)
		}
	}
	g.actionTree = NewMatchTree(groundActions, order)

	var groundAxioms []*GroundAxiom
	for _, relaxed := range relaxedGen.AxiomEvaluator().ApplicableAxioms() {
		for _, unrelaxed := range relaxation.toUnrelaxedAxioms[relaxed.Axiom()] {
			ax := lifted.AxiomEvaluator().GroundAxiom(unrelaxed, relaxed.Binding())
			if ax.IsStaticallyApplicable(problem.StaticPositive) {
				groundAxioms = append(groundAxioms, ax)
			}
		}
	}
	g.axiomTree = NewMatchTree(groundAxioms, order)

	return g, nil
}

// computeGroundAtomOrder groups the reachable fluent atoms by predicate,
// orders groups by decreasing size (large groups are candidate mutex
// clusters and split the tree early), and sorts atoms within a group by
// their textual representation so the order is independent of interning
// history. Ties between equal-sized groups break on predicate name.
func computeGroundAtomOrder(atoms *bitset.BitSet, f *formalism.Factories) []uint {
	groups := make(map[*formalism.Predicate][]*formalism.GroundAtom)
	for i, ok := atoms.NextSet(0); ok; i, ok = atoms.NextSet(i + 1) {
		atom := f.GroundAtom(formalism.Fluent, formalism.Index(i))
		groups[atom.Predicate] = append(groups[atom.Predicate], atom)
	}

	sorted := make([][]*formalism.GroundAtom, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].String() < group[j].String() })
		sorted = append(sorted, group)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i][0].Predicate.Name < sorted[j][0].Predicate.Name
	})

	var order []uint
	for _, group := range sorted {
		for _, atom := range group {
			order = append(order, uint(atom.Idx))
		}
	}
	return order
}

// Problem returns the generator's problem.
func (g *GroundedGenerator) Problem() *formalism.Problem { return g.problem }

// Action returns the ground action with the given dense id.
func (g *GroundedGenerator) Action(id uint32) *GroundAction { return g.lifted.Action(id) }

// ActionMatchTree exposes the action tree for size reporting.
func (g *GroundedGenerator) ActionMatchTree() *MatchTree[*GroundAction] { return g.actionTree }

// AxiomMatchTree exposes the axiom tree for size reporting.
func (g *GroundedGenerator) AxiomMatchTree() *MatchTree[*GroundAxiom] { return g.axiomTree }

// GenerateApplicableActions walks the action match tree over the state's
// fluent bitset and verifies the derived and static precondition parts of
// every candidate, which the tree does not encode.
func (g *GroundedGenerator) GenerateApplicableActions(s *State, buf []*GroundAction) ([]*GroundAction, error) {
	g.actionScratch = g.actionTree.Query(s.fluent, g.actionScratch[:0])
	for _, a := range g.actionScratch {
		if a.IsApplicable(s) {
			buf = append(buf, a)
		} else {
			g.handler.OnInapplicableAction(a)
		}
	}
	return buf, nil
}

// ApplyAxioms saturates the derived bitset through the axiom match tree,
// stratum by stratum, using the lifted generator's stratification. The
// fluent bitset never changes during saturation, so every pass re-queries
// the tree and gets the same candidates; only the derived verification
// outcome changes between passes.
func (g *GroundedGenerator) ApplyAxioms(fluent, derived *bitset.BitSet) error {
	static := g.problem.StaticPositive
	for _, partition := range g.lifted.AxiomPartitions() {
		for {
			changed := false
			g.axiomScratch = g.axiomTree.Query(fluent, g.axiomScratch[:0])
			for _, ax := range g.axiomScratch {
				if !partition.Contains(ax.Axiom()) {
					continue
				}
				if !ax.IsApplicable(fluent, derived, static) {
					continue
				}
				if !derived.Test(uint(ax.EffectAtom())) {
					derived.Set(uint(ax.EffectAtom()))
					changed = true
				}
			}
			if !changed {
				break
			}
		}
	}
	return nil
}

// OnFinishFLayer is a generator-side bookkeeping hook; the grounded
// generator has none.
func (g *GroundedGenerator) OnFinishFLayer() {}

// OnEndSearch is a generator-side bookkeeping hook; see OnFinishFLayer.
func (g *GroundedGenerator) OnEndSearch() {}
