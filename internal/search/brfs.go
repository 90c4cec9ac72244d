package search

// costSearchNode is one cell of the growable search-node table, indexed
// by state id. Absent ids materialize with default values on demand.
type costSearchNode struct {
	status   nodeStatus
	g        int32
	parent   int32
	creating int32
}

const noParent = -1

// nodeTable is the growable per-state bookkeeping of a search. Parent
// chains reference states by id, never by pointer, so the table can be
// resized without invalidating back-references.
type nodeTable struct {
	nodes []costSearchNode
}

func (t *nodeTable) at(id uint32) *costSearchNode {
	for uint32(len(t.nodes)) <= id {
		t.nodes = append(t.nodes, costSearchNode{status: statusNew, g: -1, parent: noParent, creating: noParent})
	}
	return &t.nodes[id]
}

// extractPlan reconstructs the action sequence by walking parent pointers
// from the goal state's node back to the root, then reversing.
func (t *nodeTable) extractPlan(gen Generator, id uint32, out *Plan) {
	out.Actions = out.Actions[:0]
	out.Cost = 0
	node := t.at(id)
	for node.parent != noParent {
		action := gen.Action(uint32(node.creating))
		out.Actions = append(out.Actions, action)
		out.Cost += action.Cost()
		node = t.at(uint32(node.parent))
	}
	for i, j := 0, len(out.Actions)-1; i < j; i, j = i+1, j-1 {
		out.Actions[i], out.Actions[j] = out.Actions[j], out.Actions[i]
	}
}

// BreadthFirstSearch explores the state space layer by layer. On
// unit-cost problems the first goal state popped is optimal; duplicate
// successors keep their first-visit bookkeeping.
type BreadthFirstSearch struct {
	gen     Generator
	ssg     *SuccessorStateGenerator
	handler EventHandler
	budget  *Budget
}

// NewBreadthFirstSearch wires a search over a generator and successor
// state generator. A nil handler counts silently; a nil budget never
// cancels.
func NewBreadthFirstSearch(gen Generator, ssg *SuccessorStateGenerator, handler EventHandler, budget *Budget) *BreadthFirstSearch {
	if handler == nil {
		handler = NewMinimalEventHandler()
	}
	if budget == nil {
		budget = &Budget{}
	}
	return &BreadthFirstSearch{gen: gen, ssg: ssg, handler: handler, budget: budget}
}

// FindSolution runs the search and writes the plan into out on success.
// Non-fatal outcomes are statuses; a fatal grounding failure surfaces as
// an error with StatusFailed.
func (s *BreadthFirstSearch) FindSolution(out *Plan) (SearchStatus, error) {
	problem := s.gen.Problem()

	initial, err := s.ssg.GetOrCreateInitialState()
	if err != nil {
		return StatusFailed, err
	}
	s.handler.OnStartSearch(initial)

	staticGoalHolds := problem.StaticLiteralsHold(problem.StaticGoal)
	isGoal := func(st *State) bool {
		return staticGoalHolds &&
			st.LiteralsHold(problem.FluentGoal) &&
			st.LiteralsHold(problem.DerivedGoal)
	}

	var table nodeTable
	root := table.at(initial.ID())
	root.status = statusOpen
	root.g = 0

	queue := []*State{initial}
	var layer int32
	var actions []*GroundAction

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		if isGoal(state) {
			table.extractPlan(s.gen, state.ID(), out)
			s.handler.OnEndSearch()
			s.gen.OnEndSearch()
			s.handler.OnSolved(out)
			return StatusSolved, nil
		}

		node := table.at(state.ID())
		node.status = statusClosed

		if node.g > layer {
			layer = node.g
			s.handler.OnFinishFLayer(uint64(layer), s.ssg.StateCount())
			s.gen.OnFinishFLayer()
		}

		if status := s.budget.Exceeded(); status != StatusNone {
			s.handler.OnEndSearch()
			s.gen.OnEndSearch()
			return status, nil
		}

		s.handler.OnExpandState(state)

		actions, err = s.gen.GenerateApplicableActions(state, actions[:0])
		if err != nil {
			return StatusFailed, err
		}
		g := node.g
		for _, action := range actions {
			successor, created, err := s.ssg.GetOrCreateSuccessorState(state, action)
			if err != nil {
				return StatusFailed, err
			}
			s.handler.OnGenerateState(action, successor)

			if created {
				succNode := table.at(successor.ID())
				succNode.status = statusOpen
				succNode.g = g + 1
				succNode.parent = int32(state.ID())
				succNode.creating = int32(action.ID())
				queue = append(queue, successor)
			}
		}
	}

	s.handler.OnEndSearch()
	s.gen.OnEndSearch()
	s.handler.OnExhausted()
	return StatusExhausted, nil
}
