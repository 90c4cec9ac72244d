package domains

import (
	"symplan/internal/formalism"
)

// Miconic builds the STRIPS elevator with one passenger: the lift starts
// on the destination floor, so it must descend, board, ascend, and let
// the passenger depart, for four actions.
func Miconic() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("miconic")

	origin := db.Predicate(formalism.Static, "origin", 2)
	destin := db.Predicate(formalism.Static, "destin", 2)
	above := db.Predicate(formalism.Static, "above", 2)
	liftAt := db.Predicate(formalism.Fluent, "lift-at", 1)
	boarded := db.Predicate(formalism.Fluent, "boarded", 1)
	served := db.Predicate(formalism.Fluent, "served", 1)

	{
		p := db.Params("?f1", "?f2")
		f1, f2 := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("up", p).
			Pre(db.Pos(liftAt, f1), db.Pos(above, f1, f2)).
			Effect(db.Pos(liftAt, f2), db.Neg(liftAt, f1)).
			Build()
	}
	{
		p := db.Params("?f1", "?f2")
		f1, f2 := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("down", p).
			Pre(db.Pos(liftAt, f1), db.Pos(above, f2, f1)).
			Effect(db.Pos(liftAt, f2), db.Neg(liftAt, f1)).
			Build()
	}
	{
		p := db.Params("?f", "?p")
		f, pas := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("board", p).
			Pre(db.Pos(liftAt, f), db.Pos(origin, pas, f)).
			Effect(db.Pos(boarded, pas)).
			Build()
	}
	{
		p := db.Params("?f", "?p")
		f, pas := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("depart", p).
			Pre(db.Pos(liftAt, f), db.Pos(destin, pas, f), db.Pos(boarded, pas)).
			Effect(db.Pos(served, pas), db.Neg(boarded, pas)).
			Build()
	}

	pb := db.NewProblem("miconic-1")
	floors := pb.Objects("f1", "f2")
	passengers := pb.Objects("p1")

	pb.Init(
		pb.GroundPos(above, floors[0], floors[1]),
		pb.GroundPos(origin, passengers[0], floors[0]),
		pb.GroundPos(destin, passengers[0], floors[1]),
		pb.GroundPos(liftAt, floors[1]),
	)
	pb.Goal(pb.GroundPos(served, passengers[0]))

	return pb.Build()
}
