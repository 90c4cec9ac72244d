package search

import "github.com/bits-and-blooms/bitset"

// matchElement is anything a match tree can index: a precondition-bearing
// ground instance.
type matchElement interface {
	Precondition() *StripsPrecondition
}

// MatchTree is a decision tree over ground-atom bits. Each internal node
// probes one fluent atom and has three children: elements requiring the
// atom present, elements requiring it absent, and elements indifferent to
// it. A query walks the state's fluent bitset and accumulates the
// elements of every reachable leaf. For mutex-rich domains the tree size
// stays linear in the element count.
type MatchTree[T matchElement] struct {
	root      mtNode[T]
	numNodes  int
	numLeaves int
	numElems  int
}

type mtNode[T matchElement] interface {
	visit(state *bitset.BitSet, out *[]T)
}

type mtSelector[T matchElement] struct {
	atom     uint
	present  mtNode[T]
	absent   mtNode[T]
	dontCare mtNode[T]
}

func (n *mtSelector[T]) visit(state *bitset.BitSet, out *[]T) {
	if state.Test(n.atom) {
		if n.present != nil {
			n.present.visit(state, out)
		}
	} else if n.absent != nil {
		n.absent.visit(state, out)
	}
	if n.dontCare != nil {
		n.dontCare.visit(state, out)
	}
}

type mtLeaf[T matchElement] struct {
	elements []T
}

func (n *mtLeaf[T]) visit(_ *bitset.BitSet, out *[]T) {
	*out = append(*out, n.elements...)
}

// NewMatchTree builds the tree top-down over the probe order: at each
// atom the elements split by how their fluent precondition constrains it;
// atoms no remaining element constrains are skipped.
func NewMatchTree[T matchElement](elements []T, order []uint) *MatchTree[T] {
	t := &MatchTree[T]{numElems: len(elements)}
	t.root = t.build(elements, order, 0)
	return t
}

func (t *MatchTree[T]) build(elements []T, order []uint, depth int) mtNode[T] {
	if len(elements) == 0 {
		return nil
	}

	// Skip probe positions no element constrains.
	for depth < len(order) {
		atom := order[depth]
		constrained := false
		for _, e := range elements {
			pre := e.Precondition()
			if pre.PosFluent.Test(atom) || pre.NegFluent.Test(atom) {
				constrained = true
				break
			}
		}
		if constrained {
			break
		}
		depth++
	}

	if depth == len(order) {
		t.numLeaves++
		return &mtLeaf[T]{elements: elements}
	}

	atom := order[depth]
	var present, absent, dontCare []T
	for _, e := range elements {
		pre := e.Precondition()
		switch {
		case pre.PosFluent.Test(atom):
			present = append(present, e)
		case pre.NegFluent.Test(atom):
			absent = append(absent, e)
		default:
			dontCare = append(dontCare, e)
		}
	}

	t.numNodes++
	return &mtSelector[T]{
		atom:     atom,
		present:  t.build(present, order, depth+1),
		absent:   t.build(absent, order, depth+1),
		dontCare: t.build(dontCare, order, depth+1),
	}
}

// Query appends the elements of every leaf reachable under the state's
// fluent bitset. Elements whose derived or static precondition the tree
// does not encode still need verification by the caller.
func (t *MatchTree[T]) Query(fluent *bitset.BitSet, buf []T) []T {
	if t.root == nil {
		return buf
	}
	t.root.visit(fluent, &buf)
	return buf
}

// NumNodes returns the number of internal selector nodes.
func (t *MatchTree[T]) NumNodes() int { return t.numNodes }

// NumLeaves returns the number of leaves.
func (t *MatchTree[T]) NumLeaves() int { return t.numLeaves }

// NumElements returns the number of indexed elements.
func (t *MatchTree[T]) NumElements() int { return t.numElems }
