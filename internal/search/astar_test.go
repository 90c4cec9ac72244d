package search

import (
	"testing"

	"symplan/internal/formalism"
)

func TestAStar_BlindAgreesWithBrFSOnUnitCosts(t *testing.T) {
	problem, _, _ := twoSwitchProblem(t)

	genA, ssgA := newLiftedPipeline(t, problem)
	var bfsPlan Plan
	status, err := NewBreadthFirstSearch(genA, ssgA, nil, nil).FindSolution(&bfsPlan)
	if err != nil || status != StatusSolved {
		t.Fatalf("bfs: %v %s", err, status)
	}

	genB, ssgB := newLiftedPipeline(t, problem)
	var astarPlan Plan
	status, err = NewAStarSearch(genB, ssgB, BlindHeuristic{}, nil, nil).FindSolution(&astarPlan)
	if err != nil || status != StatusSolved {
		t.Fatalf("astar: %v %s", err, status)
	}

	if bfsPlan.Length() != astarPlan.Length() {
		t.Errorf("blind A* must match BFS length on unit costs: %d vs %d",
			bfsPlan.Length(), astarPlan.Length())
	}
	if bfsPlan.Cost != astarPlan.Cost {
		t.Errorf("costs differ: %g vs %g", bfsPlan.Cost, astarPlan.Cost)
	}
}

// TestAStar_PrefersCheapAction builds two routes to the goal: a single
// expensive action and a two-step cheap route. Uniform-cost search must
// return the cheap route even though it is longer.
func TestAStar_PrefersCheapAction(t *testing.T) {
	db := formalism.NewDomainBuilder("tolls")
	mid := db.Predicate(formalism.Fluent, "mid", 0)
	goal := db.Predicate(formalism.Fluent, "goal", 0)

	db.Action("highway", nil).
		Effect(db.Pos(goal)).
		Cost(&formalism.FexprNumber{Value: 10}).
		Build()
	db.Action("back-road", nil).
		Pre(db.Neg(mid)).
		Effect(db.Pos(mid)).
		Cost(&formalism.FexprNumber{Value: 2}).
		Build()
	db.Action("last-mile", nil).
		Pre(db.Pos(mid)).
		Effect(db.Pos(goal)).
		Cost(&formalism.FexprNumber{Value: 3}).
		Build()

	pb := db.NewProblem("tolls-1")
	pb.Goal(pb.GroundPos(goal))
	problem, err := pb.Build()
	if err != nil {
		t.Fatal(err)
	}

	gen, ssg := newLiftedPipeline(t, problem)
	var plan Plan
	status, err := NewAStarSearch(gen, ssg, BlindHeuristic{}, nil, nil).FindSolution(&plan)
	if err != nil || status != StatusSolved {
		t.Fatalf("astar: %v %s", err, status)
	}
	if plan.Cost != 5 {
		t.Errorf("expected the cost-5 route, got cost %g with %d actions", plan.Cost, plan.Length())
	}
	if plan.Length() != 2 {
		t.Errorf("expected the two-step route, got %d actions", plan.Length())
	}
}

func TestAStar_DeadEndHeuristicExhausts(t *testing.T) {
	problem, _, _ := twoSwitchProblem(t)
	gen, ssg := newLiftedPipeline(t, problem)

	var plan Plan
	status, err := NewAStarSearch(gen, ssg, deadEndHeuristic{}, nil, nil).FindSolution(&plan)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusExhausted {
		t.Fatalf("an all-dead-end heuristic must exhaust, got %s", status)
	}
}

type deadEndHeuristic struct{}

func (deadEndHeuristic) Compute(*State) float64 { return DeadEnd }
