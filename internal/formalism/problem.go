package formalism

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// EqualityPredicateName is the hidden static predicate whose initial atoms
// are the reflexive pairs over the object universe.
const EqualityPredicateName = "="

// InitialStateError reports invalid initial-state input: a negated initial
// literal, which the engine does not support.
type InitialStateError struct {
	Literal *GroundLiteral
}

func (e *InitialStateError) Error() string {
	return fmt.Sprintf("negative literal %s in the initial state is not supported", e.Literal)
}

// Problem is a concrete instance over a domain. It exclusively owns its
// factories; every entity view handed out by the problem borrows from them
// and is valid for the problem's lifetime.
type Problem struct {
	Name    string
	Domain  *Domain
	Objects []*Object

	StaticInit []*GroundLiteral
	FluentInit []*GroundLiteral

	NumericFluents []*NumericFluent

	StaticGoal  []*GroundLiteral
	FluentGoal  []*GroundLiteral
	DerivedGoal []*GroundLiteral

	Metric *OptimizationMetric

	// Axioms is the union of domain and instance axioms.
	Axioms []*Axiom

	Factories *Factories

	// StaticPositive holds the indices of static ground atoms true in the
	// initial state; static atoms are evaluated once here and never
	// modified afterwards.
	StaticPositive *bitset.BitSet

	// EqualityPredicate is the hidden "=" predicate of this problem.
	EqualityPredicate *Predicate
}

// finalize validates initial literals, materializes the hidden equality
// atoms, and freezes the static bitset. Called once by the builder.
func (p *Problem) finalize() error {
	for _, lit := range p.StaticInit {
		if lit.Negated {
			return &InitialStateError{Literal: lit}
		}
	}
	for _, lit := range p.FluentInit {
		if lit.Negated {
			return &InitialStateError{Literal: lit}
		}
	}

	eq := p.Factories.GetOrCreatePredicate(Static, EqualityPredicateName, 2)
	eq.Hidden = true
	p.EqualityPredicate = eq

	p.StaticPositive = bitset.New(uint(p.Factories.GroundAtomCount(Static)) + uint(len(p.Objects)) + 1)
	for _, lit := range p.StaticInit {
		p.StaticPositive.Set(uint(lit.Atom.Idx))
	}
	for _, obj := range p.Objects {
		atom := p.Factories.GetOrCreateGroundAtom(eq, []*Object{obj, obj})
		p.StaticPositive.Set(uint(atom.Idx))
	}
	return nil
}

// StaticLiteralHolds evaluates a static ground literal against the
// problem's fixed static atoms.
func (p *Problem) StaticLiteralHolds(lit *GroundLiteral) bool {
	return p.StaticPositive.Test(uint(lit.Atom.Idx)) != lit.Negated
}

// StaticLiteralsHold evaluates a conjunction of static ground literals.
func (p *Problem) StaticLiteralsHold(lits []*GroundLiteral) bool {
	for _, lit := range lits {
		if !p.StaticLiteralHolds(lit) {
			return false
		}
	}
	return true
}

// StaticPredicates returns the domain's static predicates including the
// problem's hidden equality predicate.
func (p *Problem) StaticPredicates() []*Predicate {
	preds := append([]*Predicate(nil), p.Domain.Predicates[Static]...)
	return append(preds, p.EqualityPredicate)
}
