package planner

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"symplan/internal/domains"
	"symplan/internal/search"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPlanner_SolveGripper(t *testing.T) {
	problem, err := domains.Gripper()
	if err != nil {
		t.Fatal(err)
	}

	result, err := New(problem, DefaultOptions()).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != search.StatusSolved {
		t.Fatalf("expected solved, got %s", result.Status)
	}
	if result.Plan.Length() != 5 {
		t.Errorf("expected plan length 5, got %d", result.Plan.Length())
	}
	if result.RunID.String() == "" {
		t.Error("result must carry a run id")
	}
}

func TestPlanner_LiftedAndGroundedAgree(t *testing.T) {
	for _, name := range domains.Names() {
		t.Run(name, func(t *testing.T) {
			var lengths []int
			for _, gen := range []GeneratorKind{GeneratorLifted, GeneratorGrounded} {
				problem, err := domains.Build(name)
				if err != nil {
					t.Fatal(err)
				}
				opts := DefaultOptions()
				opts.Generator = gen
				result, err := New(problem, opts).Solve(context.Background())
				if err != nil {
					t.Fatalf("%s: %v", gen, err)
				}
				if result.Status != search.StatusSolved {
					t.Fatalf("%s: %s", gen, result.Status)
				}
				lengths = append(lengths, result.Plan.Length())
			}
			if diff := cmp.Diff(lengths[0], lengths[1]); diff != "" {
				t.Errorf("plan lengths diverge between variants (-lifted +grounded):\n%s", diff)
			}
		})
	}
}

func TestPlanner_TimeoutReturnsOutOfTimeOrSolved(t *testing.T) {
	problem, err := domains.Ferry()
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Timeout = time.Nanosecond

	result, err := New(problem, opts).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// The watchdog races the (tiny) search; either outcome is legal, but
	// a nanosecond budget must never report anything else.
	if result.Status != search.StatusOutOfTime && result.Status != search.StatusSolved {
		t.Fatalf("expected out-of-time or solved, got %s", result.Status)
	}
}

func TestPortfolio_RunsInstancesIndependently(t *testing.T) {
	var instances []Instance
	for _, name := range domains.Names() {
		problem, err := domains.Build(name)
		if err != nil {
			t.Fatal(err)
		}
		instances = append(instances, Instance{Problem: problem, Options: DefaultOptions()})
	}

	results, err := SolvePortfolio(context.Background(), instances)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(instances) {
		t.Fatalf("expected %d results, got %d", len(instances), len(results))
	}
	for i, r := range results {
		if r.Status != search.StatusSolved {
			t.Errorf("instance %s: expected solved, got %s", instances[i].Problem.Name, r.Status)
		}
		if r.Problem != instances[i].Problem.Name {
			t.Errorf("result order mismatch at %d: %s", i, r.Problem)
		}
	}
}
