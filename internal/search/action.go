package search

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// StripsPrecondition carries positive and negative precondition bitsets
// per category. The same shape serves actions, axioms, and conditional
// effects, so one applicability test covers all three.
type StripsPrecondition struct {
	PosFluent  *bitset.BitSet
	NegFluent  *bitset.BitSet
	PosStatic  *bitset.BitSet
	NegStatic  *bitset.BitSet
	PosDerived *bitset.BitSet
	NegDerived *bitset.BitSet
}

func newStripsPrecondition() StripsPrecondition {
	return StripsPrecondition{
		PosFluent:  bitset.New(0),
		NegFluent:  bitset.New(0),
		PosStatic:  bitset.New(0),
		NegStatic:  bitset.New(0),
		PosDerived: bitset.New(0),
		NegDerived: bitset.New(0),
	}
}

// HoldsIn tests the full applicability predicate: positive bits must be a
// subset of the corresponding state bits, negative bits must be disjoint
// from them.
func (p *StripsPrecondition) HoldsIn(fluent, derived, static *bitset.BitSet) bool {
	return fluent.IsSuperSet(p.PosFluent) &&
		p.NegFluent.IntersectionCardinality(fluent) == 0 &&
		derived.IsSuperSet(p.PosDerived) &&
		p.NegDerived.IntersectionCardinality(derived) == 0 &&
		static.IsSuperSet(p.PosStatic) &&
		p.NegStatic.IntersectionCardinality(static) == 0
}

// HoldsStatically tests only the static part, used to discard unreachable
// groundings before match-tree construction.
func (p *StripsPrecondition) HoldsStatically(static *bitset.BitSet) bool {
	return static.IsSuperSet(p.PosStatic) &&
		p.NegStatic.IntersectionCardinality(static) == 0
}

// StripsEffect is the unconditional fluent add/delete pair of a ground
// action.
type StripsEffect struct {
	Pos *bitset.BitSet
	Neg *bitset.BitSet
}

// SimpleEffect is a single fluent-atom flip.
type SimpleEffect struct {
	Atom    formalism.Index
	Negated bool
}

// ConditionalEffect is a grounded when-clause: the simple effect fires in
// the successor iff the precondition holds in the pre-application state.
type ConditionalEffect struct {
	Pre    StripsPrecondition
	Effect SimpleEffect
}

// GroundAction is an action schema under a full object binding, packed for
// the applicability inner loop. Identity is (schema, binding); instances
// are produced at most once per pair by the grounding cache and are
// immutable after construction.
type GroundAction struct {
	id      uint32
	cost    float64
	schema  *formalism.ActionSchema
	binding []*formalism.Object

	pre         StripsPrecondition
	effect      StripsEffect
	conditional []ConditionalEffect
}

// ID returns the action's dense identifier.
func (a *GroundAction) ID() uint32 { return a.id }

// Cost returns the action's evaluated cost.
func (a *GroundAction) Cost() float64 { return a.cost }

// Schema returns the lifted schema this action grounds.
func (a *GroundAction) Schema() *formalism.ActionSchema { return a.schema }

// Binding returns the object binding. Callers must not mutate it.
func (a *GroundAction) Binding() []*formalism.Object { return a.binding }

// Precondition returns the STRIPS precondition bitsets.
func (a *GroundAction) Precondition() *StripsPrecondition { return &a.pre }

// Effect returns the STRIPS effect bitsets.
func (a *GroundAction) Effect() *StripsEffect { return &a.effect }

// ConditionalEffects returns the grounded conditional effects in their
// declared order. The successor state generator applies them in this
// order.
func (a *GroundAction) ConditionalEffects() []ConditionalEffect { return a.conditional }

// IsApplicable tests the action against a state per the applicability
// predicate: fluent, derived, and static positive preconditions must be
// contained and negative ones disjoint.
func (a *GroundAction) IsApplicable(s *State) bool {
	return a.pre.HoldsIn(s.fluent, s.derived, s.problem.StaticPositive)
}

// IsStaticallyApplicable tests only the static precondition against the
// problem's initial static atoms.
func (a *GroundAction) IsStaticallyApplicable(static *bitset.BitSet) bool {
	return a.pre.HoldsStatically(static)
}

// String renders the action as "(name obj1 obj2 ...)" using only the
// schema's original parameter positions.
func (a *GroundAction) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(a.schema.Name)
	n := a.schema.OriginalArity
	if n > len(a.binding) {
		n = len(a.binding)
	}
	for _, obj := range a.binding[:n] {
		sb.WriteByte(' ')
		sb.WriteString(obj.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}
