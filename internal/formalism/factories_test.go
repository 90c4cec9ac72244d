package formalism

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
)

func TestFactories_ObjectInterning(t *testing.T) {
	f := NewFactories()

	a := f.GetOrCreateObject("a")
	b := f.GetOrCreateObject("b")
	a2 := f.GetOrCreateObject("a")

	if a != a2 {
		t.Error("expected structural dedup to return the same object")
	}
	if a.Idx != 0 || b.Idx != 1 {
		t.Errorf("expected dense indices 0,1, got %d,%d", a.Idx, b.Idx)
	}
	if f.ObjectCount() != 2 {
		t.Errorf("expected 2 objects, got %d", f.ObjectCount())
	}
	if f.Object(1) != b {
		t.Error("index lookup must return the interned instance")
	}
}

func TestFactories_CategorySegregation(t *testing.T) {
	f := NewFactories()

	ps := f.GetOrCreatePredicate(Static, "p", 1)
	pf := f.GetOrCreatePredicate(Fluent, "p", 1)
	pd := f.GetOrCreatePredicate(Derived, "p", 1)

	// Same name, separate namespaces: each gets index 0 in its category.
	if ps.Idx != 0 || pf.Idx != 0 || pd.Idx != 0 {
		t.Errorf("expected index 0 in each category namespace, got %d/%d/%d", ps.Idx, pf.Idx, pd.Idx)
	}

	obj := f.GetOrCreateObject("o")
	gs := f.GetOrCreateGroundAtom(ps, []*Object{obj})
	gf := f.GetOrCreateGroundAtom(pf, []*Object{obj})
	if gs.Idx != 0 || gf.Idx != 0 {
		t.Errorf("ground atom namespaces must be per category, got %d/%d", gs.Idx, gf.Idx)
	}
	if f.GroundAtomCount(Static) != 1 || f.GroundAtomCount(Fluent) != 1 || f.GroundAtomCount(Derived) != 0 {
		t.Error("ground atom counts must be per category")
	}
}

func TestFactories_GroundAtomDedup(t *testing.T) {
	f := NewFactories()
	p := f.GetOrCreatePredicate(Fluent, "at", 2)
	a := f.GetOrCreateObject("a")
	b := f.GetOrCreateObject("b")

	g1 := f.GetOrCreateGroundAtom(p, []*Object{a, b})
	g2 := f.GetOrCreateGroundAtom(p, []*Object{a, b})
	g3 := f.GetOrCreateGroundAtom(p, []*Object{b, a})

	if g1 != g2 {
		t.Error("equal ground atoms must intern to one instance")
	}
	if g1 == g3 {
		t.Error("ordered object lists must distinguish ground atoms")
	}
	if g1.String() != "(at a b)" {
		t.Errorf("unexpected rendering %q", g1.String())
	}
}

func TestGroundIntoBitsets(t *testing.T) {
	db := NewDomainBuilder("d")
	pred := db.Predicate(Fluent, "p", 1)
	params := db.Params("?x")
	pos := db.Pos(pred, VarTerm(params[0]))
	neg := db.Neg(pred, VarTerm(params[0]))

	f := db.Factories()
	a := f.GetOrCreateObject("a")
	b := f.GetOrCreateObject("b")

	posBits, negBits := bitset.New(0), bitset.New(0)
	f.GroundIntoBitsets([]*Literal{pos}, posBits, negBits, []*Object{a})
	f.GroundIntoBitsets([]*Literal{neg}, posBits, negBits, []*Object{b})

	pa := f.GetOrCreateGroundAtom(pred, []*Object{a})
	pb := f.GetOrCreateGroundAtom(pred, []*Object{b})
	if !posBits.Test(uint(pa.Idx)) || posBits.Count() != 1 {
		t.Error("positive literal must set only its atom bit")
	}
	if !negBits.Test(uint(pb.Idx)) || negBits.Count() != 1 {
		t.Error("negative literal must set only its atom bit in the negative set")
	}
}

func TestProblemBuilder_EqualityAtoms(t *testing.T) {
	db := NewDomainBuilder("d")
	pb := db.NewProblem("p")
	objs := pb.Objects("a", "b")

	problem, err := pb.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	eq := problem.EqualityPredicate
	if eq == nil || !eq.Hidden {
		t.Fatal("expected a hidden equality predicate")
	}
	for _, o := range objs {
		atom := problem.Factories.GetOrCreateGroundAtom(eq, []*Object{o, o})
		if !problem.StaticPositive.Test(uint(atom.Idx)) {
			t.Errorf("reflexive equality atom for %s must hold", o)
		}
	}
	cross := problem.Factories.GetOrCreateGroundAtom(eq, []*Object{objs[0], objs[1]})
	if problem.StaticPositive.Test(uint(cross.Idx)) {
		t.Error("non-reflexive equality atom must not hold")
	}
}

func TestProblemBuilder_RejectsNegatedInitialLiteral(t *testing.T) {
	db := NewDomainBuilder("d")
	pred := db.Predicate(Fluent, "p", 1)
	pb := db.NewProblem("p")
	objs := pb.Objects("a")
	pb.Init(pb.GroundNeg(pred, objs[0]))

	_, err := pb.Build()
	if err == nil {
		t.Fatal("expected an error for a negated initial literal")
	}
	if _, ok := err.(*InitialStateError); !ok {
		t.Fatalf("expected *InitialStateError, got %T", err)
	}
}

func TestProblem_StaticLiteralsHold(t *testing.T) {
	db := NewDomainBuilder("d")
	pred := db.Predicate(Static, "s", 1)
	pb := db.NewProblem("p")
	objs := pb.Objects("a", "b")
	pb.Init(pb.GroundPos(pred, objs[0]))

	problem, err := pb.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	holds := pb.GroundPos(pred, objs[0])
	missing := pb.GroundPos(pred, objs[1])
	negMissing := pb.GroundNeg(pred, objs[1])

	if !problem.StaticLiteralHolds(holds) {
		t.Error("initial static atom must hold")
	}
	if problem.StaticLiteralHolds(missing) {
		t.Error("absent static atom must not hold")
	}
	if !problem.StaticLiteralsHold([]*GroundLiteral{holds, negMissing}) {
		t.Error("conjunction with a negated absent atom must hold")
	}
}
