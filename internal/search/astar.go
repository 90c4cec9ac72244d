package search

import (
	"container/heap"
)

// astarNode is the per-state bookkeeping of A*: real-valued g, and the
// same parent chain as breadth-first search.
type astarNode struct {
	status   nodeStatus
	g        float64
	parent   int32
	creating int32
}

type astarTable struct {
	nodes []astarNode
}

func (t *astarTable) at(id uint32) *astarNode {
	for uint32(len(t.nodes)) <= id {
		t.nodes = append(t.nodes, astarNode{status: statusNew, g: -1, parent: noParent, creating: noParent})
	}
	return &t.nodes[id]
}

func (t *astarTable) extractPlan(gen Generator, id uint32, out *Plan) {
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

// openEntry is one priority-queue element. Stale entries are skipped at
// pop time (lazy deletion); order is the insertion counter, making
// tie-breaking deterministic.
type openEntry struct {
	state *State
	f     float64
	order uint64
}

type openList []openEntry

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].order < o[j].order
}
func (o openList) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)        { *o = append(*o, x.(openEntry)) }
func (o *openList) Pop() any {
	old := *o
	n := len(old)
	entry := old[n-1]
	*o = old[:n-1]
	return entry
}

// AStarSearch expands states by ascending f = g + h under a pluggable
// heuristic. With an admissible and consistent heuristic the first goal
// state popped carries a cost-minimal plan; the search does not enforce
// those conditions. The blind heuristic degrades it to uniform-cost
// search.
type AStarSearch struct {
	gen       Generator
	ssg       *SuccessorStateGenerator
	heuristic Heuristic
	handler   EventHandler
	budget    *Budget
}

// NewAStarSearch wires an A* search; a nil heuristic means blind.
func NewAStarSearch(gen Generator, ssg *SuccessorStateGenerator, heuristic Heuristic, handler EventHandler, budget *Budget) *AStarSearch {
	if heuristic == nil {
		heuristic = BlindHeuristic{}
	}
	if handler == nil {
		handler = NewMinimalEventHandler()
	}
	if budget == nil {
		budget = &Budget{}
	}
	return &AStarSearch{gen: gen, ssg: ssg, heuristic: heuristic, handler: handler, budget: budget}
}

// FindSolution runs the search and writes the plan into out on success.
func (s *AStarSearch) FindSolution(out *Plan) (SearchStatus, error) {
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

	var table astarTable
	var open openList
	var order uint64

	h0 := s.heuristic.Compute(initial)
	root := table.at(initial.ID())
	if h0 == DeadEnd {
		root.status = statusDeadEnd
	} else {
		root.status = statusOpen
		root.g = 0
		heap.Push(&open, openEntry{state: initial, f: h0, order: order})
		order++
	}

	fLayer := -1.0
	var actions []*GroundAction

	for open.Len() > 0 {
		entry := heap.Pop(&open).(openEntry)
		state := entry.state
		node := table.at(state.ID())
		if node.status == statusClosed {
			// Stale entry superseded by a cheaper path.
			continue
		}

		if isGoal(state) {
			table.extractPlan(s.gen, state.ID(), out)
			s.handler.OnEndSearch()
			s.gen.OnEndSearch()
			s.handler.OnSolved(out)
			return StatusSolved, nil
		}

		node.status = statusClosed

		if entry.f > fLayer {
			fLayer = entry.f
			s.handler.OnFinishFLayer(uint64(fLayer), s.ssg.StateCount())
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

			succNode := table.at(successor.ID())
			if succNode.status == statusDeadEnd {
				continue
			}
			tentative := g + action.Cost()
			if succNode.status != statusNew && tentative >= succNode.g {
				continue
			}
			if created || succNode.status == statusNew {
				h := s.heuristic.Compute(successor)
				if h == DeadEnd {
					succNode.status = statusDeadEnd
					continue
				}
				succNode.status = statusOpen
				succNode.g = tentative
				succNode.parent = int32(state.ID())
				succNode.creating = int32(action.ID())
				heap.Push(&open, openEntry{state: successor, f: tentative + h, order: order})
				order++
				continue
			}
			// Cheaper path to a known state: reopen it.
			succNode.status = statusOpen
			succNode.g = tentative
			succNode.parent = int32(state.ID())
			succNode.creating = int32(action.ID())
			h := s.heuristic.Compute(successor)
			heap.Push(&open, openEntry{state: successor, f: tentative + h, order: order})
			order++
		}
	}

	s.handler.OnEndSearch()
	s.gen.OnEndSearch()
	s.handler.OnExhausted()
	return StatusExhausted, nil
}
