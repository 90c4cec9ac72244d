package search

import "strings"

// Plan is a solution: the ground action sequence from the initial state
// to a goal state, and the summed action cost.
type Plan struct {
	Actions []*GroundAction
	Cost    float64
}

// Length returns the number of actions.
func (p *Plan) Length() int { return len(p.Actions) }

// String renders the plan one action per line, each as
// "(schema-name obj1 obj2 ...)" over the schema's original parameters.
func (p *Plan) String() string {
	var sb strings.Builder
	for _, a := range p.Actions {
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
