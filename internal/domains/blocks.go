package domains

import (
	"symplan/internal/formalism"
)

// Blocks builds the three-operator blocksworld: moving a block between
// blocks and to or from the table. The instance reverses a three-block
// tower, which takes three moves. Block distinctness uses the hidden
// equality predicate as a negative static precondition.
func Blocks() (*formalism.Problem, error) {
	db := formalism.NewDomainBuilder("blocks")

	eq := db.Equality()
	block := db.Predicate(formalism.Static, "block", 1)
	on := db.Predicate(formalism.Fluent, "on", 2)
	ontable := db.Predicate(formalism.Fluent, "ontable", 1)
	clear := db.Predicate(formalism.Fluent, "clear", 1)

	{
		p := db.Params("?b", "?from", "?to")
		b, from, to := formalism.VarTerm(p[0]), formalism.VarTerm(p[1]), formalism.VarTerm(p[2])
		db.Action("move-b-to-b", p).
			Pre(db.Pos(block, b), db.Pos(block, from), db.Pos(block, to),
				db.Neg(eq, b, to), db.Neg(eq, b, from), db.Neg(eq, from, to),
				db.Pos(clear, b), db.Pos(on, b, from), db.Pos(clear, to)).
			Effect(db.Pos(on, b, to), db.Pos(clear, from),
				db.Neg(on, b, from), db.Neg(clear, to)).
			Build()
	}
	{
		p := db.Params("?b", "?from")
		b, from := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("move-b-to-t", p).
			Pre(db.Pos(block, b), db.Pos(block, from), db.Neg(eq, b, from),
				db.Pos(clear, b), db.Pos(on, b, from)).
			Effect(db.Pos(ontable, b), db.Pos(clear, from), db.Neg(on, b, from)).
			Build()
	}
	{
		p := db.Params("?b", "?to")
		b, to := formalism.VarTerm(p[0]), formalism.VarTerm(p[1])
		db.Action("move-t-to-b", p).
			Pre(db.Pos(block, b), db.Pos(block, to), db.Neg(eq, b, to),
				db.Pos(clear, b), db.Pos(ontable, b), db.Pos(clear, to)).
			Effect(db.Pos(on, b, to), db.Neg(ontable, b), db.Neg(clear, to)).
			Build()
	}

	pb := db.NewProblem("blocks-3")
	blocks := pb.Objects("a", "b", "c")
	a, b, c := blocks[0], blocks[1], blocks[2]

	pb.Init(
		pb.GroundPos(block, a), pb.GroundPos(block, b), pb.GroundPos(block, c),
		pb.GroundPos(on, a, b), pb.GroundPos(on, b, c),
		pb.GroundPos(ontable, c), pb.GroundPos(clear, a),
	)
	pb.Goal(
		pb.GroundPos(on, c, b),
		pb.GroundPos(on, b, a),
	)

	return pb.Build()
}
