package domains

import (
	"symplan/internal/formalism"
)

// Gripper builds the two-ball gripper instance: a robot with two grippers
// moves both balls from room A to room B. The optimal plan picks both
// balls, moves once, and drops both, for five actions.
func Gripper() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("gripper")

	room := db.Predicate(formalism.Static, "room", 1)
	ball := db.Predicate(formalism.Static, "ball", 1)
	gripper := db.Predicate(formalism.Static, "gripper", 1)
	atRobby := db.Predicate(formalism.Fluent, "at-robby", 1)
	at := db.Predicate(formalism.Fluent, "at", 2)
	free := db.Predicate(formalism.Fluent, "free", 1)
	carry := db.Predicate(formalism.Fluent, "carry", 2)

	{
		p := db.Params("?from", "?to")
		from, to := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("move", p).
			Pre(db.Pos(room, from), db.Pos(room, to), db.Pos(atRobby, from)).
			Effect(db.Pos(atRobby, to), db.Neg(atRobby, from)).
			Build()
	}
	{
		p := db.Params("?obj", "?room", "?gripper")
		obj, rm, g := formalism.VarTerm(p[0]), formalism.VarTerm(p[1]), formalism.VarTerm(p[2])
		db.Action("pick", p).
			Pre(db.Pos(ball, obj), db.Pos(room, rm), db.Pos(gripper, g),
				db.Pos(at, obj, rm), db.Pos(atRobby, rm), db.Pos(free, g)).
			Effect(db.Pos(carry, obj, g), db.Neg(at, obj, rm), db.Neg(free, g)).
			Build()
	}
	{
		p := db.Params("?obj", "?room", "?gripper")
		obj, rm, g := formalism.VarTerm(p[0]), formalism.VarTerm(p[1]), formalism.VarTerm(p[2])
		db.Action("drop", p).
			Pre(db.Pos(ball, obj), db.Pos(room, rm), db.Pos(gripper, g),
				db.Pos(carry, obj, g), db.Pos(atRobby, rm)).
			Effect(db.Pos(at, obj, rm), db.Pos(free, g), db.Neg(carry, obj, g)).
			Build()
	}

	pb := db.NewProblem("gripper-2")
	rooms := pb.Objects("rooma", "roomb")
	balls := pb.Objects("ball1", "ball2")
	grippers := pb.Objects("left", "right")

	pb.Init(
		pb.GroundPos(room, rooms[0]), pb.GroundPos(room, rooms[1]),
		pb.GroundPos(ball, balls[0]), pb.GroundPos(ball, balls[1]),
		pb.GroundPos(gripper, grippers[0]), pb.GroundPos(gripper, grippers[1]),
		pb.GroundPos(atRobby, rooms[0]),
		pb.GroundPos(free, grippers[0]), pb.GroundPos(free, grippers[1]),
		pb.GroundPos(at, balls[0], rooms[0]), pb.GroundPos(at, balls[1], rooms[0]),
	)
	pb.Goal(
		pb.GroundPos(at, balls[0], rooms[1]),
		pb.GroundPos(at, balls[1], rooms[1]),
	)

	return pb.Build()
}
