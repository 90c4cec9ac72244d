package search

import (
	"symplan/internal/formalism"
)

// AssignmentSet answers, in O(1), whether some ground atom of a category
// is consistent with a partial parameter assignment of a schema: one table
// for single (predicate, position, object) assignments and one for pairs.
// The lifted generator keeps a static instance for the problem's lifetime
// and rebuilds fluent and derived instances per query state.
type AssignmentSet struct {
	category   formalism.Category
	numObjects int

	// single[pred][pos*numObjects+obj]
	single [][]bool
	// pair[pred][((pos1*arity)+pos2)*numObjects*numObjects + obj1*numObjects + obj2], pos1 < pos2
	pair [][]bool

	arities []int
}

// NewAssignmentSet builds the tables for the given category over the
// ground atoms yielded by each. Table sizes follow the factories'
// predicate namespace of the category.
func NewAssignmentSet(problem *formalism.Problem, category formalism.Category, each func(func(*formalism.GroundAtom))) *AssignmentSet {
	f := problem.Factories
	numPreds := f.PredicateCount(category)
	as := &AssignmentSet{
		category:   category,
		numObjects: f.ObjectCount(),
		single:     make([][]bool, numPreds),
		pair:       make([][]bool, numPreds),
		arities:    make([]int, numPreds),
	}
	for i := 0; i < numPreds; i++ {
		arity := f.Predicate(category, formalism.Index(i)).Arity
		as.arities[i] = arity
		as.single[i] = make([]bool, arity*as.numObjects)
		as.pair[i] = make([]bool, arity*arity*as.numObjects*as.numObjects)
	}
	each(as.insert)
	return as
}

func (as *AssignmentSet) insert(atom *formalism.GroundAtom) {
	pred := atom.Predicate.Idx
	single := as.single[pred]
	pair := as.pair[pred]
	arity := as.arities[pred]
	n := as.numObjects
	for i, oi := range atom.Objects {
		single[i*n+int(oi.Idx)] = true
		for j := i + 1; j < len(atom.Objects); j++ {
			oj := atom.Objects[j]
			pair[((i*arity)+j)*n*n+int(oi.Idx)*n+int(oj.Idx)] = true
		}
	}
}

func (as *AssignmentSet) hasSingle(pred formalism.Index, pos int, obj formalism.Index) bool {
	return as.single[pred][pos*as.numObjects+int(obj)]
}

func (as *AssignmentSet) hasPair(pred formalism.Index, pos1 int, obj1 formalism.Index, pos2 int, obj2 formalism.Index) bool {
	if pos1 > pos2 {
		pos1, pos2 = pos2, pos1
		obj1, obj2 = obj2, obj1
	}
	n := as.numObjects
	return as.pair[pred][((pos1*as.arities[pred])+pos2)*n*n+int(obj1)*n+int(obj2)]
}

// partialAssignment maps parameter positions to objects; -1 means
// unassigned. At most two positions are ever assigned (a vertex or an
// edge of the consistency graph).
type partialAssignment struct {
	param1 int
	obj1   formalism.Index
	param2 int
	obj2   formalism.Index
}

func vertexAssignment(param int, obj formalism.Index) partialAssignment {
	return partialAssignment{param1: param, obj1: obj, param2: -1}
}

func edgeAssignment(p1 int, o1 formalism.Index, p2 int, o2 formalism.Index) partialAssignment {
	return partialAssignment{param1: p1, obj1: o1, param2: p2, obj2: o2}
}

// lookup resolves a term under the partial assignment; ok is false when
// the term is a parameter the assignment leaves open.
func (pa partialAssignment) lookup(t formalism.Term) (formalism.Index, bool) {
	if t.Object != nil {
		return t.Object.Idx, true
	}
	switch t.Variable.Parameter {
	case pa.param1:
		return pa.obj1, true
	case pa.param2:
		return pa.obj2, true
	}
	return 0, false
}

// LiteralsConsistent reports whether every literal of the category could
// still be satisfied under the partial assignment. Positive literals
// require a witnessing single/pair entry for every assigned position;
// negative literals prune only when the assignment fully grounds an atom
// of arity at most two, where the tables answer exact membership. The
// check is sound: it never rejects an assignment that extends to a
// satisfying full binding.
func (as *AssignmentSet) LiteralsConsistent(lits []*formalism.Literal, pa partialAssignment) bool {
	for _, lit := range lits {
		if !as.literalConsistent(lit, pa) {
			return false
		}
	}
	return true
}

func (as *AssignmentSet) literalConsistent(lit *formalism.Literal, pa partialAssignment) bool {
	atom := lit.Atom
	pred := atom.Predicate.Idx
	arity := atom.Arity()
	if arity == 0 {
		// Nullary literals are tested directly against the state.
		return true
	}

	var positions [2]int
	var objects [2]formalism.Index
	assigned := 0
	total := 0
	for i, t := range atom.Terms {
		obj, ok := pa.lookup(t)
		if !ok {
			continue
		}
		total++
		if assigned < 2 {
			positions[assigned] = i
			objects[assigned] = obj
			assigned++
		}
	}

	if lit.Negated {
		if total == arity && arity == 1 {
			return !as.hasSingle(pred, positions[0], objects[0])
		}
		if total == arity && arity == 2 && assigned == 2 {
			return !as.hasPair(pred, positions[0], objects[0], positions[1], objects[1])
		}
		return true
	}

	switch assigned {
	case 0:
		return true
	case 1:
		return as.hasSingle(pred, positions[0], objects[0])
	default:
		return as.hasSingle(pred, positions[0], objects[0]) &&
			as.hasSingle(pred, positions[1], objects[1]) &&
			as.hasPair(pred, positions[0], objects[0], positions[1], objects[1])
	}
}
