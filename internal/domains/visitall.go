package domains

import (
	"symplan/internal/formalism"
)

// Visitall builds a 2x2 grid the robot must fully visit starting from one
// corner. Three moves cover the remaining cells.
func Visitall() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("visitall")

	connected := db.Predicate(formalism.Static, "connected", 2)
	atRobot := db.Predicate(formalism.Fluent, "at-robot", 1)
	visited := db.Predicate(formalism.Fluent, "visited", 1)

	{
		p := db.Params("?from", "?to")
		from, to := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("move", p).
			Pre(db.Pos(atRobot, from), db.Pos(connected, from, to)).
			Effect(db.Pos(atRobot, to), db.Pos(visited, to), db.Neg(atRobot, from)).
			Build()
	}

	pb := db.NewProblem("visitall-2x2")
	cells := pb.Objects("c11", "c12", "c21", "c22")
	c11, c12, c21, c22 := cells[0], cells[1], cells[2], cells[3]

	edges := [][2]*formalism.Object{
		{c11, c12}, {c12, c11},
		{c21, c22}, {c22, c21},
		{c11, c21}, {c21, c11},
		{c12, c22}, {c22, c12},
	}
	init := []*formalism.GroundLiteral{
		pb.GroundPos(atRobot, c11),
		pb.GroundPos(visited, c11),
	}
	for _, e := range edges {
		init = append(init, pb.GroundPos(connected, e[0], e[1]))
	}
	pb.Init(init...)

	pb.Goal(
		pb.GroundPos(visited, c11), pb.GroundPos(visited, c12),
		pb.GroundPos(visited, c21), pb.GroundPos(visited, c22),
	)

	return pb.Build()
}
