package search

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
)

func matchTreeElement(id uint32, pos, neg []uint) *GroundAction {
	a := &GroundAction{id: id, pre: newStripsPrecondition()}
	for _, i := range pos {
		a.pre.PosFluent.Set(i)
	}
	for _, i := range neg {
		a.pre.NegFluent.Set(i)
	}
	return a
}

func fluentState(atoms ...uint) *bitset.BitSet {
	b := bitset.New(8)
	for _, i := range atoms {
		b.Set(i)
	}
	return b
}

// linearScan is the reference semantics: an element matches iff its
// positive fluent precondition is contained and its negative one
// disjoint.
func linearScan(elements []*GroundAction, fluent *bitset.BitSet) map[uint32]bool {
	out := make(map[uint32]bool)
	for _, e := range elements {
		if fluent.IsSuperSet(e.pre.PosFluent) && e.pre.NegFluent.IntersectionCardinality(fluent) == 0 {
			out[e.id] = true
		}
	}
	return out
}

func queryIDs(t *MatchTree[*GroundAction], fluent *bitset.BitSet) map[uint32]bool {
	out := make(map[uint32]bool)
	for _, e := range t.Query(fluent, nil) {
		out[e.id] = true
	}
	return out
}

func TestMatchTree_EquivalentToLinearScan(t *testing.T) {
	elements := []*GroundAction{
		matchTreeElement(0, []uint{0}, nil),
		matchTreeElement(1, []uint{0, 1}, nil),
		matchTreeElement(2, nil, []uint{0}),
		matchTreeElement(3, []uint{2}, []uint{1}),
		matchTreeElement(4, nil, nil),
		matchTreeElement(5, []uint{1, 2}, []uint{3}),
	}
	order := []uint{0, 1, 2, 3}

	tree := NewMatchTree(elements, order)

	states := []*bitset.BitSet{
		fluentState(),
		fluentState(0),
		fluentState(0, 1),
		fluentState(1, 2),
		fluentState(0, 1, 2),
		fluentState(1, 2, 3),
		fluentState(0, 1, 2, 3),
		fluentState(2),
	}
	for _, s := range states {
		got := queryIDs(tree, s)
		want := linearScan(elements, s)
		if len(got) != len(want) {
			t.Errorf("state %v: got %v matches, want %v", s, got, want)
			continue
		}
		for id := range want {
			if !got[id] {
				t.Errorf("state %v: missing element %d", s, id)
			}
		}
	}
}

func TestMatchTree_DontCareAtomsAreSkipped(t *testing.T) {
	// No element constrains atoms 1 and 2, so the tree needs exactly one
	// selector (atom 0) regardless of the order's length.
	elements := []*GroundAction{
		matchTreeElement(0, []uint{0}, nil),
		matchTreeElement(1, nil, []uint{0}),
	}
	tree := NewMatchTree(elements, []uint{1, 0, 2})

	if tree.NumNodes() != 1 {
		t.Errorf("expected 1 selector node, got %d", tree.NumNodes())
	}
	if tree.NumLeaves() != 2 {
		t.Errorf("expected 2 leaves, got %d", tree.NumLeaves())
	}
}

func TestMatchTree_EmptyElements(t *testing.T) {
	tree := NewMatchTree[*GroundAction](nil, []uint{0, 1})
	if got := tree.Query(fluentState(0), nil); len(got) != 0 {
		t.Errorf("empty tree must match nothing, got %d", len(got))
	}
}
