package search

import (
	"strconv"
	"strings"

	"symplan/internal/formalism"
)

// relaxedKeySuffix separates relaxed copies from their originals in the
// schema and axiom factories; the NUL byte cannot appear in a real name.
const relaxedKeySuffix = "\x00delete-relaxed"

// deleteRelaxation is a delete-relaxed copy of a problem inside the same
// factories: negative fluent and derived preconditions are dropped,
// delete effects are dropped, and conditional effects that only delete
// disappear. Actions and axioms left with empty effects are kept, since
// their groundings must still be mapped back to the unrelaxed schemas.
type deleteRelaxation struct {
	problem *formalism.Problem

	toUnrelaxedAction map[*formalism.ActionSchema]*formalism.ActionSchema

	// Distinct axioms can relax to the same structure and intern to one
	// instance, so the reverse mapping is one-to-many.
	toUnrelaxedAxioms map[*formalism.Axiom][]*formalism.Axiom
}

func positiveLiterals(lits []*formalism.Literal) []*formalism.Literal {
	out := make([]*formalism.Literal, 0, len(lits))
	for _, lit := range lits {
		if !lit.Negated {
			out = append(out, lit)
		}
	}
	return out
}

func deleteRelax(p *formalism.Problem) *deleteRelaxation {
	f := p.Factories
	r := &deleteRelaxation{
		toUnrelaxedAction: make(map[*formalism.ActionSchema]*formalism.ActionSchema, len(p.Domain.Actions)),
		toUnrelaxedAxioms: make(map[*formalism.Axiom][]*formalism.Axiom, len(p.Axioms)),
	}

	domain := &formalism.Domain{
		Name:       p.Domain.Name,
		Predicates: p.Domain.Predicates,
		Functions:  p.Domain.Functions,
	}

	for _, schema := range p.Domain.Actions {
		relaxed := &formalism.ActionSchema{
			Name:              schema.Name,
			Parameters:        schema.Parameters,
			OriginalArity:     schema.OriginalArity,
			StaticConditions:  schema.StaticConditions,
			FluentConditions:  positiveLiterals(schema.FluentConditions),
			DerivedConditions: positiveLiterals(schema.DerivedConditions),
			Cost:              schema.Cost,
		}
		for _, eff := range schema.SimpleEffects {
			if !eff.Effect.Negated {
				relaxed.SimpleEffects = append(relaxed.SimpleEffects, eff)
			}
		}
		for _, ce := range schema.ConditionalEffects {
			if ce.Effect.Negated {
				continue
			}
			relaxed.ConditionalEffects = append(relaxed.ConditionalEffects, &formalism.EffectConditional{
				StaticConditions:  ce.StaticConditions,
				FluentConditions:  positiveLiterals(ce.FluentConditions),
				DerivedConditions: positiveLiterals(ce.DerivedConditions),
				Effect:            ce.Effect,
			})
		}
		for _, ue := range schema.UniversalEffects {
			if ue.Effect.Negated {
				continue
			}
			relaxed.UniversalEffects = append(relaxed.UniversalEffects, &formalism.EffectUniversal{
				Parameters:        ue.Parameters,
				StaticConditions:  ue.StaticConditions,
				FluentConditions:  positiveLiterals(ue.FluentConditions),
				DerivedConditions: positiveLiterals(ue.DerivedConditions),
				Effect:            ue.Effect,
			})
		}
		interned := f.RegisterAction(func(idx formalism.Index) *formalism.ActionSchema {
			relaxed.Idx = idx
			return relaxed
		}, schema.Name+relaxedKeySuffix)
		domain.Actions = append(domain.Actions, interned)
		r.toUnrelaxedAction[interned] = schema
	}

	var axioms []*formalism.Axiom
	for _, ax := range p.Axioms {
		relaxed := &formalism.Axiom{
			Parameters:        ax.Parameters,
			Head:              ax.Head,
			StaticConditions:  ax.StaticConditions,
			FluentConditions:  positiveLiterals(ax.FluentConditions),
			DerivedConditions: positiveLiterals(ax.DerivedConditions),
		}
		interned := f.RegisterAxiom(func(idx formalism.Index) *formalism.Axiom {
			relaxed.Idx = idx
			return relaxed
		}, relaxedAxiomKey(relaxed))
		if len(r.toUnrelaxedAxioms[interned]) == 0 {
			axioms = append(axioms, interned)
		}
		r.toUnrelaxedAxioms[interned] = append(r.toUnrelaxedAxioms[interned], ax)
	}
	domain.Axioms = axioms

	relaxedProblem := *p
	relaxedProblem.Domain = domain
	relaxedProblem.Axioms = axioms
	r.problem = &relaxedProblem

	return r
}

func relaxedAxiomKey(ax *formalism.Axiom) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(ax.Head.Idx), 36))
	for _, groups := range [][]*formalism.Literal{ax.StaticConditions, ax.FluentConditions, ax.DerivedConditions} {
		for _, lit := range groups {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(int(lit.Atom.Predicate.Category)))
			sb.WriteByte('.')
			sb.WriteString(strconv.FormatUint(uint64(lit.Idx), 36))
		}
	}
	sb.WriteString(relaxedKeySuffix)
	return sb.String()
}
