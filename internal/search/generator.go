package search

import (
	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// Generator is the applicable-action interface the search algorithms and
// the successor state generator drive. Two implementations exist: the
// lifted generator grounds on demand, the grounded generator pre-grounds
// everything into match trees.
type Generator interface {
	// Problem returns the problem the generator was built for.
	Problem() *formalism.Problem

	// GenerateApplicableActions appends every ground action applicable
	// in s to buf and returns the extended slice. The result order is
	// deterministic for a deterministic problem.
	GenerateApplicableActions(s *State, buf []*GroundAction) ([]*GroundAction, error)

	// ApplyAxioms computes the derived fixed point of the fluent bitset
	// into derived, stratum by stratum.
	ApplyAxioms(fluent, derived *bitset.BitSet) error

	// Action returns the ground action with the given dense id.
	Action(id uint32) *GroundAction

	// OnFinishFLayer and OnEndSearch forward search milestones to the
	// generator's own event handler.
	OnFinishFLayer()
	OnEndSearch()
}
