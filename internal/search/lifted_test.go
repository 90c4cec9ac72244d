package search

import (
	"testing"

	"symplan/internal/domains"
	"symplan/internal/formalism"
)

// bruteForceApplicable grounds every binding of every schema on a fresh
// generator and filters by the applicability predicate. This is the
// reference for soundness and completeness of the clique-based
// enumeration.
func bruteForceApplicable(t *testing.T, problem *formalism.Problem, s *State) map[string]bool {
	t.Helper()
	ref, err := NewLiftedGenerator(problem, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := make(map[string]bool)
	for _, schema := range problem.Domain.Actions {
		bindings := allBindings(problem.Objects, schema.Arity())
		for _, binding := range bindings {
			a, err := ref.GroundAction(schema, binding)
			if err != nil {
				t.Fatal(err)
			}
			if a.IsApplicable(s) {
				out[a.String()] = true
			}
		}
	}
	return out
}

func allBindings(objects []*formalism.Object, arity int) [][]*formalism.Object {
	if arity == 0 {
		return [][]*formalism.Object{nil}
	}
	shorter := allBindings(objects, arity-1)
	var out [][]*formalism.Object
	for _, prefix := range shorter {
		for _, obj := range objects {
			binding := append(append([]*formalism.Object(nil), prefix...), obj)
			out = append(out, binding)
		}
	}
	return out
}

func TestLifted_SoundAndCompleteOnGripper(t *testing.T) {
	problem, err := domains.Gripper()
	if err != nil {
		t.Fatal(err)
	}
	gen, ssg := newLiftedPipeline(t, problem)

	state, err := ssg.GetOrCreateInitialState()
	if err != nil {
		t.Fatal(err)
	}

	// Walk a few layers and compare against brute force at each state.
	states := []*State{state}
	for layer := 0; layer < 2; layer++ {
		var next []*State
		for _, s := range states {
			actions, err := gen.GenerateApplicableActions(s, nil)
			if err != nil {
				t.Fatal(err)
			}
			got := actionNames(actions)
			want := bruteForceApplicable(t, problem, s)

			for name := range got {
				if !want[name] {
					t.Errorf("state %d: generator returned inapplicable action %s", s.ID(), name)
				}
			}
			for name := range want {
				if !got[name] {
					t.Errorf("state %d: generator missed applicable action %s", s.ID(), name)
				}
			}

			for _, a := range actions {
				if !a.IsApplicable(s) {
					t.Errorf("soundness: %s not applicable in state %d", a, s.ID())
				}
				succ, created, err := ssg.GetOrCreateSuccessorState(s, a)
				if err != nil {
					t.Fatal(err)
				}
				if created {
					next = append(next, succ)
				}
			}
		}
		states = next
	}
}

func TestGrounded_MatchesLiftedPerState(t *testing.T) {
	for _, name := range domains.Names() {
		t.Run(name, func(t *testing.T) {
			problem, err := domains.Build(name)
			if err != nil {
				t.Fatal(err)
			}
			lifted, liftedSSG := newLiftedPipeline(t, problem)

			grounded, err := NewGroundedGenerator(problem, nil)
			if err != nil {
				t.Fatal(err)
			}
			groundedSSG := NewSuccessorStateGenerator(grounded)

			ls, err := liftedSSG.GetOrCreateInitialState()
			if err != nil {
				t.Fatal(err)
			}
			gs, err := groundedSSG.GetOrCreateInitialState()
			if err != nil {
				t.Fatal(err)
			}
			if bitsetKey(ls.FluentAtoms()) != bitsetKey(gs.FluentAtoms()) {
				t.Fatal("initial states differ between pipelines")
			}
			if bitsetKey(ls.DerivedAtoms()) != bitsetKey(gs.DerivedAtoms()) {
				t.Fatal("derived bitsets differ between pipelines")
			}

			// BFS over the lifted pipeline; at every expanded state the
			// grounded generator must return the same action set.
			frontier := []*State{ls}
			checked := 0
			for len(frontier) > 0 && checked < 50 {
				s := frontier[0]
				frontier = frontier[1:]
				checked++

				liftedActions, err := lifted.GenerateApplicableActions(s, nil)
				if err != nil {
					t.Fatal(err)
				}
				// The grounded generator answers against its own
				// problem's states; fluent bitsets are namespace-equal,
				// so querying with the lifted state is valid.
				groundedActions, err := grounded.GenerateApplicableActions(s, nil)
				if err != nil {
					t.Fatal(err)
				}

				got := actionNames(groundedActions)
				want := actionNames(liftedActions)
				if len(got) != len(want) {
					t.Fatalf("state %d: grounded %d actions, lifted %d", s.ID(), len(got), len(want))
				}
				for name := range want {
					if !got[name] {
						t.Errorf("state %d: grounded generator missed %s", s.ID(), name)
					}
				}

				for _, a := range liftedActions {
					succ, created, err := liftedSSG.GetOrCreateSuccessorState(s, a)
					if err != nil {
						t.Fatal(err)
					}
					if created {
						frontier = append(frontier, succ)
					}
				}
			}
		})
	}
}
