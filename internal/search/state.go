package search

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// State is the packed representation of a planning state: a 32-bit id, the
// fluent-atom bitset, the derived-atom bitset, and a back-pointer to the
// problem. States are published by the successor state generator and are
// immutable afterwards; two states are equal iff their (problem, fluent
// bitset) pairs are equal, so equality between published states
// short-circuits to pointer identity.
type State struct {
	id      uint32
	fluent  *bitset.BitSet
	derived *bitset.BitSet
	problem *formalism.Problem
}

// ID returns the state's dense identifier.
func (s *State) ID() uint32 { return s.id }

// Problem returns the owning problem.
func (s *State) Problem() *formalism.Problem { return s.problem }

// FluentAtoms returns the fluent bitset. Callers must not mutate it.
func (s *State) FluentAtoms() *bitset.BitSet { return s.fluent }

// DerivedAtoms returns the derived bitset. Callers must not mutate it.
func (s *State) DerivedAtoms() *bitset.BitSet { return s.derived }

// Contains reports whether the ground atom holds in the state. Static
// atoms resolve against the problem's fixed static bitset.
func (s *State) Contains(atom *formalism.GroundAtom) bool {
	switch atom.Predicate.Category {
	case formalism.Fluent:
		return s.fluent.Test(uint(atom.Idx))
	case formalism.Derived:
		return s.derived.Test(uint(atom.Idx))
	default:
		return s.problem.StaticPositive.Test(uint(atom.Idx))
	}
}

// LiteralHolds reports whether the ground literal holds in the state.
func (s *State) LiteralHolds(lit *formalism.GroundLiteral) bool {
	return s.Contains(lit.Atom) != lit.Negated
}

// LiteralsHold reports whether the conjunction of ground literals holds.
func (s *State) LiteralsHold(lits []*formalism.GroundLiteral) bool {
	for _, lit := range lits {
		if !s.LiteralHolds(lit) {
			return false
		}
	}
	return true
}

// EachFluentAtom yields the set fluent-atom indices in ascending order.
func (s *State) EachFluentAtom(fn func(idx formalism.Index)) {
	for i, ok := s.fluent.NextSet(0); ok; i, ok = s.fluent.NextSet(i + 1) {
		fn(formalism.Index(i))
	}
}

// String renders the fluent atoms of the state, sorted by their text.
func (s *State) String() string {
	var parts []string
	s.EachFluentAtom(func(idx formalism.Index) {
		parts = append(parts, s.problem.Factories.GroundAtom(formalism.Fluent, idx).String())
	})
	sort.Strings(parts)
	return "{" + strings.Join(parts, " ") + "}"
}

// bitsetKey builds a canonical map key for a bitset: the set words with
// trailing zero words trimmed, so bitsets of different capacity but equal
// content key identically.
func bitsetKey(b *bitset.BitSet) string {
	words := b.Bytes()
	n := len(words)
	for n > 0 && words[n-1] == 0 {
		n--
	}
	var sb strings.Builder
	sb.Grow(n * 8)
	for _, w := range words[:n] {
		for shift := 0; shift < 64; shift += 8 {
			sb.WriteByte(byte(w >> shift))
		}
	}
	return sb.String()
}
