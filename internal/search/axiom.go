package search

import (
	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// GroundAxiom is an axiom under a full object binding: the same packed
// precondition shape as a ground action, a single always-positive derived
// effect, and no cost. Identity is (axiom, binding).
type GroundAxiom struct {
	id      uint32
	axiom   *formalism.Axiom
	binding []*formalism.Object

	pre StripsPrecondition

	// EffectAtom is the derived-atom index set when the axiom fires.
	effectAtom formalism.Index
}

// ID returns the axiom instance's dense identifier.
func (a *GroundAxiom) ID() uint32 { return a.id }

// Axiom returns the lifted axiom this instance grounds.
func (a *GroundAxiom) Axiom() *formalism.Axiom { return a.axiom }

// Binding returns the object binding. Callers must not mutate it.
func (a *GroundAxiom) Binding() []*formalism.Object { return a.binding }

// Precondition returns the packed body bitsets.
func (a *GroundAxiom) Precondition() *StripsPrecondition { return &a.pre }

// EffectAtom returns the derived-atom index the axiom derives.
func (a *GroundAxiom) EffectAtom() formalism.Index { return a.effectAtom }

// IsApplicable tests the axiom body against fluent and derived bitsets and
// the problem's static atoms.
func (a *GroundAxiom) IsApplicable(fluent, derived, static *bitset.BitSet) bool {
	return a.pre.HoldsIn(fluent, derived, static)
}

// IsStaticallyApplicable tests only the static part of the body.
func (a *GroundAxiom) IsStaticallyApplicable(static *bitset.BitSet) bool {
	return a.pre.HoldsStatically(static)
}
