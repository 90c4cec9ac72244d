// Package search implements the planning engine core: packed states and
// ground actions, lifted and grounded applicable-action generation, axiom
// evaluation, successor state generation, and the search algorithms.
package search

import (
	"fmt"

	"symplan/internal/formalism"
)

// EvaluationError reports a numeric-fluent lookup miss while evaluating a
// schema's cost expression at grounding time. It is fatal: the problem's
// numeric fluents do not cover a ground function the cost mentions.
type EvaluationError struct {
	Function *formalism.GroundFunction
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("no numeric fluent available to determine cost for ground function %s", e.Function)
}

// StratificationError reports a negative cycle in the derived-predicate
// dependency graph; such a problem has no stratified axiom semantics.
type StratificationError struct {
	Predicate *formalism.Predicate
}

func (e *StratificationError) Error() string {
	return fmt.Sprintf("derived predicate %s participates in a negative cycle; the axioms are not stratifiable", e.Predicate)
}
