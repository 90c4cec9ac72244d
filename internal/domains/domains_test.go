package domains

import (
	"testing"

	"symplan/internal/formalism"
)

func TestBuild_AllInstances(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			problem, err := Build(name)
			if err != nil {
				t.Fatalf("Build(%q): %v", name, err)
			}
			if problem.Factories == nil {
				t.Fatal("problem must own its factories")
			}
			if len(problem.Objects) == 0 {
				t.Error("instance must declare objects")
			}
			if len(problem.FluentGoal)+len(problem.DerivedGoal)+len(problem.StaticGoal) == 0 {
				t.Error("instance must declare a goal")
			}
			for _, lit := range problem.FluentInit {
				if lit.Negated {
					t.Error("initial literals must be positive")
				}
			}
		})
	}
}

func TestBuild_UnknownName(t *testing.T) {
	if _, err := Build("no-such-domain"); err == nil {
		t.Fatal("expected an error for an unknown instance")
	}
}

func TestMiconicADL_HasDerivedMachinery(t *testing.T) {
	problem, err := Build("miconic-adl")
	if err != nil {
		t.Fatal(err)
	}
	if len(problem.Axioms) != 2 {
		t.Fatalf("expected 2 axioms, got %d", len(problem.Axioms))
	}
	if len(problem.DerivedGoal) != 1 {
		t.Fatalf("expected a derived goal literal, got %d", len(problem.DerivedGoal))
	}
	if got := problem.Factories.PredicateCount(formalism.Derived); got != 2 {
		t.Errorf("expected 2 derived predicates, got %d", got)
	}
}

func TestGripper_SeparateFactoriesPerBuild(t *testing.T) {
	p1, err := Gripper()
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Gripper()
	if err != nil {
		t.Fatal(err)
	}
	if p1.Factories == p2.Factories {
		t.Error("each build must own fresh factories")
	}
}
