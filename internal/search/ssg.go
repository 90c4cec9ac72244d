package search

import (
	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// SuccessorStateGenerator canonicalizes states and computes successors.
// Every published state is interned in a set keyed by (problem, fluent
// bitset); observationally equal states share one packed instance, and a
// state's derived bitset is always the axiom fixed point of its fluent
// bitset before publication.
type SuccessorStateGenerator struct {
	gen     Generator
	problem *formalism.Problem

	states   []*State
	byFluent map[string]*State

	// scratch is the reusable successor builder; insertion into the
	// canonical set happens last, so a cancelled search never observes a
	// partial state.
	scratch *bitset.BitSet
}

// NewSuccessorStateGenerator returns an empty canonical state store over
// the generator.
func NewSuccessorStateGenerator(gen Generator) *SuccessorStateGenerator {
	return &SuccessorStateGenerator{
		gen:      gen,
		problem:  gen.Problem(),
		byFluent: make(map[string]*State),
		scratch:  bitset.New(0),
	}
}

// StateCount returns the number of published states.
func (sg *SuccessorStateGenerator) StateCount() int { return len(sg.states) }

// State returns the published state with the given id.
func (sg *SuccessorStateGenerator) State(id uint32) *State { return sg.states[id] }

// GetOrCreateInitialState builds the canonical initial state: the
// problem's positive fluent initial literals, saturated by the axioms.
func (sg *SuccessorStateGenerator) GetOrCreateInitialState() (*State, error) {
	fluent := bitset.New(uint(sg.problem.Factories.GroundAtomCount(formalism.Fluent)))
	for _, lit := range sg.problem.FluentInit {
		fluent.Set(uint(lit.Atom.Idx))
	}
	state, _, err := sg.publish(fluent)
	return state, err
}

// GetOrCreateSuccessorState applies a ground action to a state: the
// STRIPS effect first, then every conditional effect in declared order,
// each tested against the pre-application state so an effect cannot
// trigger on an effect of the same action. The second result reports
// whether the successor is newly published.
func (sg *SuccessorStateGenerator) GetOrCreateSuccessorState(s *State, a *GroundAction) (*State, bool, error) {
	sg.scratch.ClearAll()
	sg.scratch.InPlaceUnion(s.fluent)

	sg.scratch.InPlaceDifference(a.effect.Neg)
	sg.scratch.InPlaceUnion(a.effect.Pos)

	static := sg.problem.StaticPositive
	for i := range a.conditional {
		ce := &a.conditional[i]
		if !ce.Pre.HoldsIn(s.fluent, s.derived, static) {
			continue
		}
		if ce.Effect.Negated {
			sg.scratch.Clear(uint(ce.Effect.Atom))
		} else {
			sg.scratch.Set(uint(ce.Effect.Atom))
		}
	}

	return sg.publish(sg.scratch)
}

// publish canonicalizes the fluent bitset: a cache hit returns the
// existing state, otherwise the axioms are evaluated, the next id
// assigned, and the state inserted.
func (sg *SuccessorStateGenerator) publish(fluent *bitset.BitSet) (*State, bool, error) {
	key := bitsetKey(fluent)
	if existing, ok := sg.byFluent[key]; ok {
		return existing, false, nil
	}

	frozen := fluent.Clone()
	derived := bitset.New(uint(sg.problem.Factories.GroundAtomCount(formalism.Derived)))
	if err := sg.gen.ApplyAxioms(frozen, derived); err != nil {
		return nil, false, err
	}

	state := &State{
		id:      uint32(len(sg.states)),
		fluent:  frozen,
		derived: derived,
		problem: sg.problem,
	}
	sg.states = append(sg.states, state)
	sg.byFluent[key] = state
	return state, true, nil
}
