// Package formalism defines the planning data model: objects, predicates,
// atoms, literals, action schemas, axioms, and the interning factories that
// assign every entity a dense stable index. The engine in internal/search
// never compares entities structurally on the hot path; it compares indices
// handed out here.
package formalism

import "strings"

// Index is the dense identifier assigned to every interned entity.
// Indices are contiguous from zero and stable for the lifetime of the
// owning Factories.
type Index = uint32

// Category partitions predicates and their ground atoms into separate
// index namespaces. Static atoms are fixed by the initial state, fluent
// atoms are modified by actions, derived atoms are defined by axioms.
type Category int

const (
	Static Category = iota
	Fluent
	Derived

	numCategories = 3
)

func (c Category) String() string {
	switch c {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	}
	return "unknown"
}

// Object is a domain constant.
type Object struct {
	Idx  Index
	Name string
}

func (o *Object) String() string { return o.Name }

// Variable is a schema parameter. Parameter is the position of the
// variable in its schema's parameter list.
type Variable struct {
	Idx       Index
	Name      string
	Parameter int
}

func (v *Variable) String() string { return v.Name }

// Term is either a variable or an object; exactly one field is non-nil.
type Term struct {
	Variable *Variable
	Object   *Object
}

// IsVariable reports whether the term is a schema parameter.
func (t Term) IsVariable() bool { return t.Variable != nil }

func (t Term) String() string {
	if t.Variable != nil {
		return t.Variable.Name
	}
	return t.Object.Name
}

// VarTerm wraps a variable as a term.
func VarTerm(v *Variable) Term { return Term{Variable: v} }

// ObjTerm wraps an object as a term.
func ObjTerm(o *Object) Term { return Term{Object: o} }

// Predicate is a relation symbol. Its index lives in the namespace of its
// category. Hidden predicates (the built-in "=") are excluded from domain
// listings and plan output.
type Predicate struct {
	Idx      Index
	Name     string
	Arity    int
	Category Category
	Hidden   bool
}

func (p *Predicate) String() string { return p.Name }

// Atom is a predicate applied to terms.
type Atom struct {
	Idx       Index
	Predicate *Predicate
	Terms     []Term
}

func (a *Atom) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(a.Predicate.Name)
	for _, t := range a.Terms {
		sb.WriteByte(' ')
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Arity returns the number of terms of the atom.
func (a *Atom) Arity() int { return len(a.Terms) }

// Literal is an atom with a sign.
type Literal struct {
	Idx     Index
	Atom    *Atom
	Negated bool
}

func (l *Literal) String() string {
	if l.Negated {
		return "(not " + l.Atom.String() + ")"
	}
	return l.Atom.String()
}

// GroundAtom is a predicate applied to objects. Its index lives in the
// namespace of the predicate's category.
type GroundAtom struct {
	Idx       Index
	Predicate *Predicate
	Objects   []*Object
}

func (a *GroundAtom) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(a.Predicate.Name)
	for _, o := range a.Objects {
		sb.WriteByte(' ')
		sb.WriteString(o.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// GroundLiteral is a ground atom with a sign.
type GroundLiteral struct {
	Idx     Index
	Atom    *GroundAtom
	Negated bool
}

func (l *GroundLiteral) String() string {
	if l.Negated {
		return "(not " + l.Atom.String() + ")"
	}
	return l.Atom.String()
}

// FunctionSkeleton declares a numeric function symbol.
type FunctionSkeleton struct {
	Idx   Index
	Name  string
	Arity int
}

// Function is a function skeleton applied to terms.
type Function struct {
	Idx      Index
	Skeleton *FunctionSkeleton
	Terms    []Term
}

// GroundFunction is a function skeleton applied to objects.
type GroundFunction struct {
	Idx      Index
	Skeleton *FunctionSkeleton
	Objects  []*Object
}

func (f *GroundFunction) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(f.Skeleton.Name)
	for _, o := range f.Objects {
		sb.WriteByte(' ')
		sb.WriteString(o.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// NumericFluent assigns an initial value to a ground function.
type NumericFluent struct {
	Function *GroundFunction
	Value    float64
}

// OptimizationMetric is the single supported metric: minimize a function
// expression (in practice, total-cost).
type OptimizationMetric struct {
	Expression FunctionExpression
}

// EffectSimple is an unconditional fluent effect of an action schema.
type EffectSimple struct {
	Effect *Literal
}

// EffectConditional is a when-clause: the effect fires only in states
// satisfying the split condition.
type EffectConditional struct {
	StaticConditions  []*Literal
	FluentConditions  []*Literal
	DerivedConditions []*Literal
	Effect            *Literal
}

// EffectUniversal is a forall-clause. Parameters extend the schema's own
// parameters; grounding expands the clause into one conditional effect per
// full binding of the quantified variables.
type EffectUniversal struct {
	Parameters        []*Variable
	StaticConditions  []*Literal
	FluentConditions  []*Literal
	DerivedConditions []*Literal
	Effect            *Literal
}

// Arity returns the number of quantified variables.
func (e *EffectUniversal) Arity() int { return len(e.Parameters) }

// ActionSchema is a parametric action. OriginalArity records the arity
// before normalization introduced auxiliary parameters; only the original
// parameters appear in a plan's textual form.
type ActionSchema struct {
	Idx           Index
	Name          string
	Parameters    []*Variable
	OriginalArity int

	StaticConditions  []*Literal
	FluentConditions  []*Literal
	DerivedConditions []*Literal

	SimpleEffects      []*EffectSimple
	ConditionalEffects []*EffectConditional
	UniversalEffects   []*EffectUniversal

	// Cost is evaluated under the binding at grounding time; nil means
	// the default unit cost.
	Cost FunctionExpression
}

// Arity returns the current number of parameters.
func (a *ActionSchema) Arity() int { return len(a.Parameters) }

// Axiom defines a derived predicate: whenever the body holds, the head
// atom is derived. The head literal is always positive.
type Axiom struct {
	Idx        Index
	Parameters []*Variable
	Head       *Literal

	StaticConditions  []*Literal
	FluentConditions  []*Literal
	DerivedConditions []*Literal
}

// Arity returns the number of parameters.
func (a *Axiom) Arity() int { return len(a.Parameters) }

// Domain is the schema-level half of a planning task.
type Domain struct {
	Name       string
	Predicates [numCategories][]*Predicate
	Functions  []*FunctionSkeleton
	Actions    []*ActionSchema
	Axioms     []*Axiom
}
