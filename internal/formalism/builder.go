package formalism

import (
	"strconv"
	"strings"
)

// DomainBuilder assembles a Domain inside a fresh set of factories. It is
// the parser-facing surface: a front-end that has normalized its input
// drives the builder to intern the domain, then hands the factories to a
// ProblemBuilder.
type DomainBuilder struct {
	factories *Factories
	domain    *Domain
}

// NewDomainBuilder starts a domain with its own factories.
func NewDomainBuilder(name string) *DomainBuilder {
	return &DomainBuilder{
		factories: NewFactories(),
		domain:    &Domain{Name: name},
	}
}

// Factories exposes the factories backing this domain.
func (b *DomainBuilder) Factories() *Factories { return b.factories }

// Predicate interns a predicate and records it in the domain listing.
func (b *DomainBuilder) Predicate(cat Category, name string, arity int) *Predicate {
	p := b.factories.GetOrCreatePredicate(cat, name, arity)
	for _, existing := range b.domain.Predicates[cat] {
		if existing == p {
			return p
		}
	}
	b.domain.Predicates[cat] = append(b.domain.Predicates[cat], p)
	return p
}

// Equality returns the hidden "=" predicate, so schemas can mention it in
// static preconditions. Its reflexive atoms are materialized per problem.
func (b *DomainBuilder) Equality() *Predicate {
	p := b.factories.GetOrCreatePredicate(Static, EqualityPredicateName, 2)
	p.Hidden = true
	return p
}

// Function interns a function skeleton and records it in the domain.
func (b *DomainBuilder) Function(name string, arity int) *FunctionSkeleton {
	s := b.factories.GetOrCreateFunctionSkeleton(name, arity)
	for _, existing := range b.domain.Functions {
		if existing == s {
			return s
		}
	}
	b.domain.Functions = append(b.domain.Functions, s)
	return s
}

// Params interns one variable per name, assigning parameter positions in
// order.
func (b *DomainBuilder) Params(names ...string) []*Variable {
	vars := make([]*Variable, len(names))
	for i, name := range names {
		vars[i] = b.factories.GetOrCreateVariable(name, i)
	}
	return vars
}

// ParamsAt interns variables starting at the given parameter position,
// used for quantified variables that extend a schema's binding.
func (b *DomainBuilder) ParamsAt(start int, names ...string) []*Variable {
	vars := make([]*Variable, len(names))
	for i, name := range names {
		vars[i] = b.factories.GetOrCreateVariable(name, start+i)
	}
	return vars
}

// Pos interns a positive literal over the given predicate and terms.
func (b *DomainBuilder) Pos(pred *Predicate, terms ...Term) *Literal {
	return b.factories.GetOrCreateLiteral(b.factories.GetOrCreateAtom(pred, terms), false)
}

// Neg interns a negative literal over the given predicate and terms.
func (b *DomainBuilder) Neg(pred *Predicate, terms ...Term) *Literal {
	return b.factories.GetOrCreateLiteral(b.factories.GetOrCreateAtom(pred, terms), true)
}

// splitByCategory appends each literal to the bucket of its predicate's
// category.
func splitByCategory(lits []*Literal, static, fluent, derived *[]*Literal) {
	for _, lit := range lits {
		switch lit.Atom.Predicate.Category {
		case Static:
			*static = append(*static, lit)
		case Fluent:
			*fluent = append(*fluent, lit)
		case Derived:
			*derived = append(*derived, lit)
		}
	}
}

// ActionBuilder assembles one action schema.
type ActionBuilder struct {
	db     *DomainBuilder
	schema *ActionSchema
}

// Action starts a schema with the given parameters. The original arity
// defaults to the full parameter count; a normalizer that introduced
// auxiliary parameters overrides it with OriginalArity.
func (b *DomainBuilder) Action(name string, params []*Variable) *ActionBuilder {
	return &ActionBuilder{
		db: b,
		schema: &ActionSchema{
			Name:          name,
			Parameters:    params,
			OriginalArity: len(params),
		},
	}
}

// OriginalArity overrides the plan-visible parameter count.
func (ab *ActionBuilder) OriginalArity(n int) *ActionBuilder {
	ab.schema.OriginalArity = n
	return ab
}

// Pre adds precondition literals, split by predicate category.
func (ab *ActionBuilder) Pre(lits ...*Literal) *ActionBuilder {
	splitByCategory(lits,
		&ab.schema.StaticConditions, &ab.schema.FluentConditions, &ab.schema.DerivedConditions)
	return ab
}

// Effect adds unconditional fluent effect literals.
func (ab *ActionBuilder) Effect(lits ...*Literal) *ActionBuilder {
	for _, lit := range lits {
		ab.schema.SimpleEffects = append(ab.schema.SimpleEffects, &EffectSimple{Effect: lit})
	}
	return ab
}

// When adds a conditional effect with the given condition literals.
func (ab *ActionBuilder) When(conditions []*Literal, effect *Literal) *ActionBuilder {
	ce := &EffectConditional{Effect: effect}
	splitByCategory(conditions,
		&ce.StaticConditions, &ce.FluentConditions, &ce.DerivedConditions)
	ab.schema.ConditionalEffects = append(ab.schema.ConditionalEffects, ce)
	return ab
}

// ForAll adds a universal effect quantified over params, whose parameter
// positions must extend the schema's own (see ParamsAt).
func (ab *ActionBuilder) ForAll(params []*Variable, conditions []*Literal, effect *Literal) *ActionBuilder {
	ue := &EffectUniversal{Parameters: params, Effect: effect}
	splitByCategory(conditions,
		&ue.StaticConditions, &ue.FluentConditions, &ue.DerivedConditions)
	ab.schema.UniversalEffects = append(ab.schema.UniversalEffects, ue)
	return ab
}

// Cost sets the schema's cost expression; absent means unit cost.
func (ab *ActionBuilder) Cost(expr FunctionExpression) *ActionBuilder {
	ab.schema.Cost = expr
	return ab
}

// Build interns the schema and records it in the domain.
func (ab *ActionBuilder) Build() *ActionSchema {
	schema := ab.db.factories.RegisterAction(func(idx Index) *ActionSchema {
		ab.schema.Idx = idx
		return ab.schema
	}, ab.schema.Name)
	if schema == ab.schema {
		ab.db.domain.Actions = append(ab.db.domain.Actions, schema)
	}
	return schema
}

// Axiom interns an axiom defining head whenever body holds. The head must
// be a positive derived literal.
func (b *DomainBuilder) Axiom(params []*Variable, head *Literal, body ...*Literal) *Axiom {
	ax := &Axiom{Parameters: params, Head: head}
	splitByCategory(body,
		&ax.StaticConditions, &ax.FluentConditions, &ax.DerivedConditions)

	var key strings.Builder
	key.WriteString(strconv.FormatUint(uint64(head.Idx), 36))
	for _, lit := range body {
		key.WriteByte(':')
		key.WriteString(strconv.Itoa(int(lit.Atom.Predicate.Category)))
		key.WriteByte('.')
		key.WriteString(strconv.FormatUint(uint64(lit.Idx), 36))
	}
	interned := b.factories.RegisterAxiom(func(idx Index) *Axiom {
		ax.Idx = idx
		return ax
	}, key.String())
	if interned == ax {
		b.domain.Axioms = append(b.domain.Axioms, interned)
	}
	return interned
}

// Domain returns the assembled domain.
func (b *DomainBuilder) Domain() *Domain { return b.domain }

// ProblemBuilder assembles a Problem over a built domain, reusing the
// domain's factories.
type ProblemBuilder struct {
	db      *DomainBuilder
	problem *Problem
}

// NewProblem starts an instance of the builder's domain.
func (b *DomainBuilder) NewProblem(name string) *ProblemBuilder {
	return &ProblemBuilder{
		db: b,
		problem: &Problem{
			Name:      name,
			Domain:    b.domain,
			Factories: b.factories,
		},
	}
}

// Objects interns instance objects by name.
func (pb *ProblemBuilder) Objects(names ...string) []*Object {
	objs := make([]*Object, len(names))
	for i, name := range names {
		objs[i] = pb.db.factories.GetOrCreateObject(name)
	}
	pb.problem.Objects = append(pb.problem.Objects, objs...)
	return objs
}

// GroundPos interns a positive ground literal.
func (pb *ProblemBuilder) GroundPos(pred *Predicate, objects ...*Object) *GroundLiteral {
	f := pb.db.factories
	return f.GetOrCreateGroundLiteral(f.GetOrCreateGroundAtom(pred, objects), false)
}

// GroundNeg interns a negative ground literal.
func (pb *ProblemBuilder) GroundNeg(pred *Predicate, objects ...*Object) *GroundLiteral {
	f := pb.db.factories
	return f.GetOrCreateGroundLiteral(f.GetOrCreateGroundAtom(pred, objects), true)
}

// Init adds initial-state literals, split into static and fluent parts by
// predicate category.
func (pb *ProblemBuilder) Init(lits ...*GroundLiteral) *ProblemBuilder {
	for _, lit := range lits {
		switch lit.Atom.Predicate.Category {
		case Static:
			pb.problem.StaticInit = append(pb.problem.StaticInit, lit)
		default:
			pb.problem.FluentInit = append(pb.problem.FluentInit, lit)
		}
	}
	return pb
}

// NumericFluent records the initial value of a ground function.
func (pb *ProblemBuilder) NumericFluent(skeleton *FunctionSkeleton, objects []*Object, value float64) *ProblemBuilder {
	gf := pb.db.factories.GetOrCreateGroundFunction(skeleton, objects)
	pb.problem.NumericFluents = append(pb.problem.NumericFluents, &NumericFluent{Function: gf, Value: value})
	return pb
}

// Goal adds goal literals, split three ways by predicate category.
func (pb *ProblemBuilder) Goal(lits ...*GroundLiteral) *ProblemBuilder {
	for _, lit := range lits {
		switch lit.Atom.Predicate.Category {
		case Static:
			pb.problem.StaticGoal = append(pb.problem.StaticGoal, lit)
		case Fluent:
			pb.problem.FluentGoal = append(pb.problem.FluentGoal, lit)
		case Derived:
			pb.problem.DerivedGoal = append(pb.problem.DerivedGoal, lit)
		}
	}
	return pb
}

// Minimize sets the optimization metric.
func (pb *ProblemBuilder) Minimize(expr FunctionExpression) *ProblemBuilder {
	pb.problem.Metric = &OptimizationMetric{Expression: expr}
	return pb
}

// Build finalizes the problem: validates initial literals, materializes
// the hidden equality atoms, freezes the static bitset, and collects the
// axiom list.
func (pb *ProblemBuilder) Build() (*Problem, error) {
	pb.problem.Axioms = append([]*Axiom(nil), pb.problem.Domain.Axioms...)
	if err := pb.problem.finalize(); err != nil {
		return nil, err
	}
	return pb.problem, nil
}
