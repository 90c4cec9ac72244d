package search

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"symplan/internal/formalism"
)

// bindingKey builds the grounding-cache key for an object binding.
func bindingKey(binding []*formalism.Object) string {
	var sb strings.Builder
	for i, o := range binding {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(strconv.FormatUint(uint64(o.Idx), 36))
	}
	return sb.String()
}

// evalCostExpression folds a schema's cost expression under a binding.
// Function terms resolve against the problem's numeric fluents; a missing
// ground function is an EvaluationError. A nil expression is the default
// unit cost.
func evalCostExpression(f *formalism.Factories, expr formalism.FunctionExpression, binding []*formalism.Object, values map[*formalism.GroundFunction]float64) (float64, error) {
	if expr == nil {
		return 1, nil
	}
	switch e := expr.(type) {
	case *formalism.FexprNumber:
		return e.Value, nil
	case *formalism.FexprBinary:
		left, err := evalCostExpression(f, e.Left, binding, values)
		if err != nil {
			return 0, err
		}
		right, err := evalCostExpression(f, e.Right, binding, values)
		if err != nil {
			return 0, err
		}
		return formalism.EvalBinary(e.Op, left, right), nil
	case *formalism.FexprMulti:
		result, err := evalCostExpression(f, e.Exprs[0], binding, values)
		if err != nil {
			return 0, err
		}
		for _, sub := range e.Exprs[1:] {
			v, err := evalCostExpression(f, sub, binding, values)
			if err != nil {
				return 0, err
			}
			result = formalism.EvalBinary(e.Op, result, v)
		}
		return result, nil
	case *formalism.FexprNegate:
		v, err := evalCostExpression(f, e.Expr, binding, values)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *formalism.FexprFunction:
		gf := f.GroundFunctionOf(e.Function, binding)
		v, ok := values[gf]
		if !ok {
			return 0, &EvaluationError{Function: gf}
		}
		return v, nil
	}
	return 0, nil
}

// schemaGraphs bundles a schema's static consistency graph with the
// per-universal-effect quantifier domains.
type schemaGraphs struct {
	precondition *ConsistencyGraph

	// universalObjects[i][k] lists the candidate objects of the k-th
	// quantified variable of the i-th universal effect, filtered by the
	// effect's static conditions.
	universalObjects [][][]formalism.Index
}

// LiftedGenerator enumerates applicable ground actions by restricting
// each schema's static consistency graph with per-state assignment sets
// and searching the restricted k-partite graph for k-cliques. Groundings
// are cached per (schema, binding) and produced at most once.
type LiftedGenerator struct {
	problem   *formalism.Problem
	factories *formalism.Factories
	handler   EventHandler

	groundFunctionValues map[*formalism.GroundFunction]float64

	staticAS *AssignmentSet
	graphs   map[*formalism.ActionSchema]*schemaGraphs

	axiomEvaluator *AxiomEvaluator

	actions     []*GroundAction
	actionCache map[*formalism.ActionSchema]map[string]*GroundAction

	applicableSeen  *bitset.BitSet
	applicableOrder []*GroundAction
}

// NewLiftedGenerator prepares the per-problem structures: the ground
// function value table, the static assignment set, one consistency graph
// per schema and universal effect, and the stratified axiom evaluator.
func NewLiftedGenerator(problem *formalism.Problem, handler EventHandler) (*LiftedGenerator, error) {
	if handler == nil {
		handler = NewMinimalEventHandler()
	}
	for _, lit := range problem.FluentInit {
		if lit.Negated {
			return nil, &formalism.InitialStateError{Literal: lit}
		}
	}
	for _, lit := range problem.StaticInit {
		if lit.Negated {
			return nil, &formalism.InitialStateError{Literal: lit}
		}
	}

	g := &LiftedGenerator{
		problem:              problem,
		factories:            problem.Factories,
		handler:              handler,
		groundFunctionValues: make(map[*formalism.GroundFunction]float64, len(problem.NumericFluents)),
		graphs:               make(map[*formalism.ActionSchema]*schemaGraphs, len(problem.Domain.Actions)),
		actionCache:          make(map[*formalism.ActionSchema]map[string]*GroundAction),
		applicableSeen:       bitset.New(0),
	}
	for _, nf := range problem.NumericFluents {
		g.groundFunctionValues[nf.Function] = nf.Value
	}

	g.staticAS = NewAssignmentSet(problem, formalism.Static, func(fn func(*formalism.GroundAtom)) {
		for i, ok := problem.StaticPositive.NextSet(0); ok; i, ok = problem.StaticPositive.NextSet(i + 1) {
			fn(problem.Factories.GroundAtom(formalism.Static, formalism.Index(i)))
		}
	})

	for _, schema := range problem.Domain.Actions {
		params := make([]int, schema.Arity())
		for i := range params {
			params[i] = i
		}
		sg := &schemaGraphs{
			precondition: newConsistencyGraph(problem, params, schema.StaticConditions, g.staticAS),
		}
		for _, ue := range schema.UniversalEffects {
			uparams := make([]int, ue.Arity())
			for i, v := range ue.Parameters {
				uparams[i] = v.Parameter
			}
			ug := newConsistencyGraph(problem, uparams, ue.StaticConditions, g.staticAS)
			sg.universalObjects = append(sg.universalObjects, ug.ObjectsByParam())
		}
		g.graphs[schema] = sg
	}

	evaluator, err := newAxiomEvaluator(problem, handler, g.staticAS)
	if err != nil {
		return nil, err
	}
	g.axiomEvaluator = evaluator

	return g, nil
}

// Problem returns the generator's problem.
func (g *LiftedGenerator) Problem() *formalism.Problem { return g.problem }

// Action returns the ground action with the given dense id.
func (g *LiftedGenerator) Action(id uint32) *GroundAction { return g.actions[id] }

// ActionCount returns the number of distinct groundings produced so far.
func (g *LiftedGenerator) ActionCount() int { return len(g.actions) }

// ApplicableActions returns every grounding that tested applicable in at
// least one queried state, in first-seen order. The grounded generator
// consumes this after delete-relaxed exploration.
func (g *LiftedGenerator) ApplicableActions() []*GroundAction { return g.applicableOrder }

// AxiomPartitions exposes the stratification, shared with the grounded
// generator's match-tree evaluation.
func (g *LiftedGenerator) AxiomPartitions() []AxiomPartition { return g.axiomEvaluator.Partitions() }

// AxiomEvaluator exposes the lifted axiom evaluator.
func (g *LiftedGenerator) AxiomEvaluator() *AxiomEvaluator { return g.axiomEvaluator }

// GroundAction grounds a schema under a binding, at most once per
// (schema, binding) pair across the generator's lifetime.
func (g *LiftedGenerator) GroundAction(schema *formalism.ActionSchema, binding []*formalism.Object) (*GroundAction, error) {
	cache := g.actionCache[schema]
	if cache == nil {
		cache = make(map[string]*GroundAction)
		g.actionCache[schema] = cache
	}
	key := bindingKey(binding)
	if a, ok := cache[key]; ok {
		g.handler.OnGroundActionCacheHit(schema, binding)
		return a, nil
	}
	g.handler.OnGroundActionCacheMiss(schema, binding)

	cost, err := evalCostExpression(g.factories, schema.Cost, binding, g.groundFunctionValues)
	if err != nil {
		return nil, err
	}

	a := &GroundAction{
		id:      uint32(len(g.actions)),
		cost:    cost,
		schema:  schema,
		binding: append([]*formalism.Object(nil), binding...),
		pre:     newStripsPrecondition(),
		effect: StripsEffect{
			Pos: bitset.New(0),
			Neg: bitset.New(0),
		},
	}

	g.groundConditions(&a.pre, schema.StaticConditions, schema.FluentConditions, schema.DerivedConditions, a.binding)

	for _, eff := range schema.SimpleEffects {
		gl := g.factories.GroundLiteralOf(eff.Effect, a.binding)
		if gl.Negated {
			a.effect.Neg.Set(uint(gl.Atom.Idx))
		} else {
			a.effect.Pos.Set(uint(gl.Atom.Idx))
		}
	}

	for _, ce := range schema.ConditionalEffects {
		cond := ConditionalEffect{Pre: newStripsPrecondition()}
		g.groundConditions(&cond.Pre, ce.StaticConditions, ce.FluentConditions, ce.DerivedConditions, a.binding)
		gl := g.factories.GroundLiteralOf(ce.Effect, a.binding)
		cond.Effect = SimpleEffect{Atom: gl.Atom.Idx, Negated: gl.Negated}
		a.conditional = append(a.conditional, cond)
	}

	// Universal effects expand into one conditional effect per full
	// binding of the quantified variables. The cache key stays the
	// schema binding; the extended binding exists only during grounding.
	sg := g.graphs[schema]
	for i, ue := range schema.UniversalEffects {
		objects := sg.universalObjects[i]
		extended := append(append([]*formalism.Object(nil), a.binding...), make([]*formalism.Object, ue.Arity())...)
		g.eachCombination(objects, func(combo []*formalism.Object) {
			copy(extended[len(a.binding):], combo)
			cond := ConditionalEffect{Pre: newStripsPrecondition()}
			g.groundConditions(&cond.Pre, ue.StaticConditions, ue.FluentConditions, ue.DerivedConditions, extended)
			gl := g.factories.GroundLiteralOf(ue.Effect, extended)
			cond.Effect = SimpleEffect{Atom: gl.Atom.Idx, Negated: gl.Negated}
			a.conditional = append(a.conditional, cond)
		})
	}

	g.actions = append(g.actions, a)
	cache[key] = a
	return a, nil
}

func (g *LiftedGenerator) groundConditions(pre *StripsPrecondition, static, fluent, derived []*formalism.Literal, binding []*formalism.Object) {
	g.factories.GroundIntoBitsets(static, pre.PosStatic, pre.NegStatic, binding)
	g.factories.GroundIntoBitsets(fluent, pre.PosFluent, pre.NegFluent, binding)
	g.factories.GroundIntoBitsets(derived, pre.PosDerived, pre.NegDerived, binding)
}

// eachCombination walks the Cartesian product of the per-parameter object
// lists in odometer order. An empty list anywhere yields no combinations.
func (g *LiftedGenerator) eachCombination(objects [][]formalism.Index, fn func([]*formalism.Object)) {
	for _, list := range objects {
		if len(list) == 0 {
			return
		}
	}
	combo := make([]*formalism.Object, len(objects))
	indices := make([]int, len(objects))
	for {
		for i, j := range indices {
			combo[i] = g.factories.Object(objects[i][j])
		}
		fn(combo)
		pos := len(indices) - 1
		for ; pos >= 0; pos-- {
			indices[pos]++
			if indices[pos] < len(objects[pos]) {
				break
			}
			indices[pos] = 0
		}
		if pos < 0 {
			return
		}
	}
}

// nullaryConditionsHold grounds and tests the precondition literals that
// mention no variables.
func nullaryConditionsHold(s *State, groups ...[]*formalism.Literal) bool {
	for _, lits := range groups {
		for _, lit := range lits {
			if !atomIsGround(lit.Atom) {
				continue
			}
			gl := s.problem.Factories.GroundLiteralOf(lit, nil)
			if !s.LiteralHolds(gl) {
				return false
			}
		}
	}
	return true
}

func atomIsGround(atom *formalism.Atom) bool {
	for _, t := range atom.Terms {
		if t.IsVariable() {
			return false
		}
	}
	return true
}

// GenerateApplicableActions implements Generator: it builds the fluent
// and derived assignment sets for the state and runs the nullary, unary,
// or general (k-clique) case per schema.
func (g *LiftedGenerator) GenerateApplicableActions(s *State, buf []*GroundAction) ([]*GroundAction, error) {
	fluentAS := NewAssignmentSet(g.problem, formalism.Fluent, func(fn func(*formalism.GroundAtom)) {
		s.EachFluentAtom(func(idx formalism.Index) {
			fn(g.factories.GroundAtom(formalism.Fluent, idx))
		})
	})
	derivedAS := NewAssignmentSet(g.problem, formalism.Derived, func(fn func(*formalism.GroundAtom)) {
		derived := s.DerivedAtoms()
		for i, ok := derived.NextSet(0); ok; i, ok = derived.NextSet(i + 1) {
			fn(g.factories.GroundAtom(formalism.Derived, formalism.Index(i)))
		}
	})

	for _, schema := range g.problem.Domain.Actions {
		if !nullaryConditionsHold(s, schema.FluentConditions, schema.DerivedConditions) {
			continue
		}
		var err error
		buf, err = g.generateForSchema(schema, s, fluentAS, derivedAS, buf)
		if err != nil {
			return buf, err
		}
	}
	return buf, nil
}

func (g *LiftedGenerator) generateForSchema(schema *formalism.ActionSchema, s *State, fluentAS, derivedAS *AssignmentSet, buf []*GroundAction) ([]*GroundAction, error) {
	emit := func(binding []*formalism.Object) (*GroundAction, error) {
		a, err := g.GroundAction(schema, binding)
		if err != nil {
			return nil, err
		}
		if a.IsApplicable(s) {
			g.markApplicable(a)
			return a, nil
		}
		g.handler.OnInapplicableAction(a)
		return nil, nil
	}

	if schema.Arity() == 0 {
		a, err := emit(nil)
		if err != nil {
			return buf, err
		}
		if a != nil {
			buf = append(buf, a)
		}
		return buf, nil
	}

	graph := g.graphs[schema].precondition

	if schema.Arity() == 1 {
		for _, v := range graph.Vertices {
			pa := vertexAssignment(v.Param, v.Object)
			if !fluentAS.LiteralsConsistent(schema.FluentConditions, pa) ||
				!derivedAS.LiteralsConsistent(schema.DerivedConditions, pa) {
				continue
			}
			a, err := emit([]*formalism.Object{g.factories.Object(v.Object)})
			if err != nil {
				return buf, err
			}
			if a != nil {
				buf = append(buf, a)
			}
		}
		return buf, nil
	}

	// General case: restrict the static graph by the state's assignment
	// sets and enumerate k-cliques of the restriction.
	adj := graph.adjacencyMatrix(func(src, dst Vertex) bool {
		pa := edgeAssignment(src.Param, src.Object, dst.Param, dst.Object)
		return fluentAS.LiteralsConsistent(schema.FluentConditions, pa) &&
			derivedAS.LiteralsConsistent(schema.DerivedConditions, pa)
	})

	binding := make([]*formalism.Object, schema.Arity())
	var emitErr error
	findAllKCliquesInKPartiteGraph(adj, graph.VerticesByParam, func(clique []int) {
		if emitErr != nil {
			return
		}
		for _, vid := range clique {
			v := graph.Vertices[vid]
			binding[v.Param] = g.factories.Object(v.Object)
		}
		a, err := emit(binding)
		if err != nil {
			emitErr = err
			return
		}
		if a != nil {
			buf = append(buf, a)
		}
	})
	return buf, emitErr
}

func (g *LiftedGenerator) markApplicable(a *GroundAction) {
	if !g.applicableSeen.Test(uint(a.id)) {
		g.applicableSeen.Set(uint(a.id))
		g.applicableOrder = append(g.applicableOrder, a)
	}
}

// ApplyAxioms implements Generator by delegating to the lifted axiom
// evaluator.
func (g *LiftedGenerator) ApplyAxioms(fluent, derived *bitset.BitSet) error {
	return g.axiomEvaluator.Evaluate(fluent, derived)
}

// OnFinishFLayer is a generator-side bookkeeping hook; the lifted
// generator has none, its handler already observes search milestones.
func (g *LiftedGenerator) OnFinishFLayer() {}

// OnEndSearch is a generator-side bookkeeping hook; see OnFinishFLayer.
func (g *LiftedGenerator) OnEndSearch() {}
