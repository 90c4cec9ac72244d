package domains

import (
	"symplan/internal/formalism"
)

// Ferry builds the one-car ferry with two cars waiting on the same bank.
// The ferry carries one car at a time, so the optimal plan sails three
// times: board, sail, debark, sail back, board, sail, debark.
func Ferry() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("ferry")

	eq := db.Equality()
	car := db.Predicate(formalism.Static, "car", 1)
	location := db.Predicate(formalism.Static, "location", 1)
	atFerry := db.Predicate(formalism.Fluent, "at-ferry", 1)
	at := db.Predicate(formalism.Fluent, "at", 2)
	on := db.Predicate(formalism.Fluent, "on", 1)
	emptyFerry := db.Predicate(formalism.Fluent, "empty-ferry", 0)

	{
		p := db.Params("?from", "?to")
		from, to := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("sail", p).
			Pre(db.Pos(location, from), db.Pos(location, to), db.Neg(eq, from, to),
				db.Pos(atFerry, from)).
			Effect(db.Pos(atFerry, to), db.Neg(atFerry, from)).
			Build()
	}
	{
		p := db.Params("?car", "?loc")
		c, loc := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("board", p).
			Pre(db.Pos(car, c), db.Pos(location, loc),
				db.Pos(at, c, loc), db.Pos(atFerry, loc), db.Pos(emptyFerry)).
			Effect(db.Pos(on, c), db.Neg(at, c, loc), db.Neg(emptyFerry)).
			Build()
	}
	{
		p := db.Params("?car", "?loc")
		c, loc := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("debark", p).
			Pre(db.Pos(car, c), db.Pos(location, loc),
				db.Pos(on, c), db.Pos(atFerry, loc)).
			Effect(db.Pos(at, c, loc), db.Pos(emptyFerry), db.Neg(on, c)).
			Build()
	}

	pb := db.NewProblem("ferry-2")
	locs := pb.Objects("la", "lb")
	cars := pb.Objects("c1", "c2")

	pb.Init(
		pb.GroundPos(location, locs[0]), pb.GroundPos(location, locs[1]),
		pb.GroundPos(car, cars[0]), pb.GroundPos(car, cars[1]),
		pb.GroundPos(at, cars[0], locs[0]), pb.GroundPos(at, cars[1], locs[0]),
		pb.GroundPos(atFerry, locs[0]),
		pb.GroundPos(emptyFerry),
	)
	pb.Goal(
		pb.GroundPos(at, cars[0], locs[1]),
		pb.GroundPos(at, cars[1], locs[1]),
	)

	return pb.Build()
}
