package search

import (
	"testing"

	"symplan/internal/formalism"
)

func assignmentFixture(t *testing.T) (*formalism.Problem, *formalism.DomainBuilder, *formalism.Predicate, []*formalism.Object) {
	t.Helper()
	db := formalism.NewDomainBuilder("d")
	edge := db.Predicate(formalism.Static, "edge", 2)
	pb := db.NewProblem("p")
	objs := pb.Objects("a", "b", "c")
	pb.Init(
		pb.GroundPos(edge, objs[0], objs[1]),
		pb.GroundPos(edge, objs[1], objs[2]),
	)
	problem, err := pb.Build()
	if err != nil {
		t.Fatal(err)
	}
	return problem, db, edge, objs
}

func staticAssignmentSet(problem *formalism.Problem) *AssignmentSet {
	return NewAssignmentSet(problem, formalism.Static, func(fn func(*formalism.GroundAtom)) {
		for i, ok := problem.StaticPositive.NextSet(0); ok; i, ok = problem.StaticPositive.NextSet(i + 1) {
			fn(problem.Factories.GroundAtom(formalism.Static, formalism.Index(i)))
		}
	})
}

func TestAssignmentSet_PositiveLiteralConsistency(t *testing.T) {
	problem, db, edge, objs := assignmentFixture(t)
	as := staticAssignmentSet(problem)

	p := db.Params("?x", "?y")
	lit := db.Pos(edge, formalism.VarTerm(p[0]), formalism.VarTerm(p[1]))
	lits := []*formalism.Literal{lit}

	// (edge a _) exists, (edge c _) does not.
	if !as.LiteralsConsistent(lits, vertexAssignment(0, objs[0].Idx)) {
		t.Error("x=a must be consistent: (edge a b) exists")
	}
	if as.LiteralsConsistent(lits, vertexAssignment(0, objs[2].Idx)) {
		t.Error("x=c must be inconsistent: no edge starts at c")
	}

	// Pair checks.
	if !as.LiteralsConsistent(lits, edgeAssignment(0, objs[0].Idx, 1, objs[1].Idx)) {
		t.Error("x=a,y=b must be consistent")
	}
	if as.LiteralsConsistent(lits, edgeAssignment(0, objs[0].Idx, 1, objs[2].Idx)) {
		t.Error("x=a,y=c must be inconsistent: (edge a c) absent")
	}
}

func TestAssignmentSet_NegativeLiteralPrunesFullGroundings(t *testing.T) {
	problem, db, edge, objs := assignmentFixture(t)
	as := staticAssignmentSet(problem)

	p := db.Params("?x", "?y")
	neg := []*formalism.Literal{db.Neg(edge, formalism.VarTerm(p[0]), formalism.VarTerm(p[1]))}

	// A full negative grounding that IS in the set must be rejected.
	if as.LiteralsConsistent(neg, edgeAssignment(0, objs[0].Idx, 1, objs[1].Idx)) {
		t.Error("x=a,y=b must violate (not (edge x y))")
	}
	// Absent atom satisfies the negation.
	if !as.LiteralsConsistent(neg, edgeAssignment(0, objs[1].Idx, 1, objs[0].Idx)) {
		t.Error("x=b,y=a must satisfy (not (edge x y))")
	}
	// Partial assignments never prune a negative literal.
	if !as.LiteralsConsistent(neg, vertexAssignment(0, objs[0].Idx)) {
		t.Error("a partial assignment must not prune a negative literal")
	}
}

func TestAssignmentSet_ConstantsCountAsAssigned(t *testing.T) {
	problem, db, edge, objs := assignmentFixture(t)
	as := staticAssignmentSet(problem)

	p := db.Params("?x")
	// (edge ?x c): only x=b extends to an atom in the set.
	lit := []*formalism.Literal{db.Pos(edge, formalism.VarTerm(p[0]), formalism.ObjTerm(objs[2]))}

	if !as.LiteralsConsistent(lit, vertexAssignment(0, objs[1].Idx)) {
		t.Error("x=b must be consistent with (edge ?x c)")
	}
	if as.LiteralsConsistent(lit, vertexAssignment(0, objs[0].Idx)) {
		t.Error("x=a must be inconsistent with (edge ?x c)")
	}
}
