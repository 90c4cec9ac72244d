package formalism

import (
	"github.com/bits-and-blooms/bitset"
)

// GroundTerms substitutes a binding into a term list. A variable resolves
// through its parameter position; binding must cover every parameter
// position mentioned.
func (f *Factories) GroundTerms(terms []Term, binding []*Object) []*Object {
	out := make([]*Object, len(terms))
	for i, t := range terms {
		if t.Variable != nil {
			out[i] = binding[t.Variable.Parameter]
		} else {
			out[i] = t.Object
		}
	}
	return out
}

// GroundAtomOf grounds an atom under a binding, interning the result.
func (f *Factories) GroundAtomOf(atom *Atom, binding []*Object) *GroundAtom {
	return f.GetOrCreateGroundAtom(atom.Predicate, f.GroundTerms(atom.Terms, binding))
}

// GroundLiteralOf grounds a literal under a binding, interning the result.
func (f *Factories) GroundLiteralOf(lit *Literal, binding []*Object) *GroundLiteral {
	return f.GetOrCreateGroundLiteral(f.GroundAtomOf(lit.Atom, binding), lit.Negated)
}

// GroundFunctionOf grounds a function term under a binding, interning the
// result.
func (f *Factories) GroundFunctionOf(fn *Function, binding []*Object) *GroundFunction {
	return f.GetOrCreateGroundFunction(fn.Skeleton, f.GroundTerms(fn.Terms, binding))
}

// GroundIntoBitsets grounds each literal under the binding and sets the
// resulting atom index in pos or neg according to the literal's sign.
func (f *Factories) GroundIntoBitsets(lits []*Literal, pos, neg *bitset.BitSet, binding []*Object) {
	for _, lit := range lits {
		gl := f.GroundLiteralOf(lit, binding)
		if gl.Negated {
			neg.Set(uint(gl.Atom.Idx))
		} else {
			pos.Set(uint(gl.Atom.Idx))
		}
	}
}
