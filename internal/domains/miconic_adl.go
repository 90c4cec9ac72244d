package domains

import (
	"symplan/internal/formalism"
)

// MiconicADL builds the ADL elevator: a single stop action whose
// universal effects board and serve every eligible passenger at the
// current floor, and a two-stratum axiom pair deriving the "everyone
// served" goal. Boarding and serving in the same stop cannot cascade
// because conditional effects are evaluated against the state before the
// action.
func MiconicADL() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("miconic-adl")

	origin := db.Predicate(formalism.Static, "origin", 2)
	destin := db.Predicate(formalism.Static, "destin", 2)
	above := db.Predicate(formalism.Static, "above", 2)
	passengerPred := db.Predicate(formalism.Static, "passenger", 1)
	liftAt := db.Predicate(formalism.Fluent, "lift-at", 1)
	boarded := db.Predicate(formalism.Fluent, "boarded", 1)
	served := db.Predicate(formalism.Fluent, "served", 1)
	notAllServed := db.Predicate(formalism.Derived, "not-all-served", 0)
	allServed := db.Predicate(formalism.Derived, "all-served", 0)

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
		p := db.Params("?f")
		f := formalism.VarTerm(p[0])
		q := db.ParamsAt(1, "?p")
		pas := formalism.VarTerm(q[0])
		db.Action("stop", p).
			Pre(db.Pos(liftAt, f)).
			ForAll(q,
				[]*formalism.Literal{db.Pos(boarded, pas), db.Pos(destin, pas, f)},
				db.Pos(served, pas)).
			ForAll(q,
				[]*formalism.Literal{db.Pos(boarded, pas), db.Pos(destin, pas, f)},
				db.Neg(boarded, pas)).
			ForAll(q,
				[]*formalism.Literal{
					db.Pos(passengerPred, pas), db.Pos(origin, pas, f),
					db.Neg(served, pas), db.Neg(boarded, pas),
				},
				db.Pos(boarded, pas)).
			Build()
	}

	// Stratum 1: someone is unserved. Stratum 2 negates it, so the
	// layers must be saturated in order.
	{
		p := db.Params("?p")
		pas := formalism.VarTerm(p[0])
		db.Axiom(p, db.Pos(notAllServed),
			db.Pos(passengerPred, pas), db.Neg(served, pas))
	}
	db.Axiom(nil, db.Pos(allServed), db.Neg(notAllServed))

	pb := db.NewProblem("miconic-adl-1")
	floors := pb.Objects("f1", "f2")
	passengers := pb.Objects("p1")

	pb.Init(
		pb.GroundPos(above, floors[0], floors[1]),
		pb.GroundPos(passengerPred, passengers[0]),
		pb.GroundPos(origin, passengers[0], floors[1]),
		pb.GroundPos(destin, passengers[0], floors[0]),
		pb.GroundPos(liftAt, floors[0]),
	)
	pb.Goal(pb.GroundPos(allServed))

	return pb.Build()
}
