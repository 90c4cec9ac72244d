package search

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"symplan/internal/formalism"
)

// EventHandler observes the engine: the search loop reports expansion and
// generation, the generators report grounding cache traffic and grounded
// instances that fail the full applicability test. Implementations
// accumulate a Statistics record. Handlers are not safe for concurrent
// use; each search owns its handler.
type EventHandler interface {
	OnStartSearch(initial *State)
	OnExpandState(s *State)
	OnGenerateState(action *GroundAction, successor *State)
	OnFinishFLayer(f uint64, stateCount int)

	OnGroundActionCacheHit(schema *formalism.ActionSchema, binding []*formalism.Object)
	OnGroundActionCacheMiss(schema *formalism.ActionSchema, binding []*formalism.Object)
	OnGroundAxiomCacheHit(axiom *formalism.Axiom, binding []*formalism.Object)
	OnGroundAxiomCacheMiss(axiom *formalism.Axiom, binding []*formalism.Object)
	OnInapplicableAction(action *GroundAction)
	OnInapplicableAxiom(axiom *GroundAxiom)

	OnEndSearch()
	OnSolved(plan *Plan)
	OnExhausted()

	Statistics() *Statistics
}

// statisticsCollector implements the counting half of EventHandler; the
// concrete handlers embed it and add their output behavior.
type statisticsCollector struct {
	stats Statistics
}

func (c *statisticsCollector) OnStartSearch(*State) { c.stats.startSearch() }
func (c *statisticsCollector) OnExpandState(*State) { c.stats.Expanded++ }
func (c *statisticsCollector) OnGenerateState(*GroundAction, *State) {
	c.stats.Generated++
}
func (c *statisticsCollector) OnFinishFLayer(uint64, int) { c.stats.finishLayer() }

func (c *statisticsCollector) OnGroundActionCacheHit(*formalism.ActionSchema, []*formalism.Object) {
	c.stats.GroundActionCacheHits++
}
func (c *statisticsCollector) OnGroundActionCacheMiss(*formalism.ActionSchema, []*formalism.Object) {
	c.stats.GroundActionCacheMisses++
}
func (c *statisticsCollector) OnGroundAxiomCacheHit(*formalism.Axiom, []*formalism.Object) {
	c.stats.GroundAxiomCacheHits++
}
func (c *statisticsCollector) OnGroundAxiomCacheMiss(*formalism.Axiom, []*formalism.Object) {
	c.stats.GroundAxiomCacheMisses++
}
func (c *statisticsCollector) OnInapplicableAction(*GroundAction) { c.stats.InapplicableActions++ }
func (c *statisticsCollector) OnInapplicableAxiom(*GroundAxiom)   { c.stats.InapplicableAxioms++ }

func (c *statisticsCollector) OnEndSearch()    { c.stats.endSearch() }
func (c *statisticsCollector) OnSolved(*Plan)  {}
func (c *statisticsCollector) OnExhausted()    {}
func (c *statisticsCollector) Statistics() *Statistics { return &c.stats }

// MinimalEventHandler counts events and emits nothing.
type MinimalEventHandler struct {
	statisticsCollector
}

// NewMinimalEventHandler returns a counting-only handler.
func NewMinimalEventHandler() *MinimalEventHandler { return &MinimalEventHandler{} }

// DefaultEventHandler counts events and writes one progress line per
// finished f-layer plus a final status line.
type DefaultEventHandler struct {
	statisticsCollector
	out io.Writer
}

// NewDefaultEventHandler returns the default handler writing to w;
// a nil w means standard output.
func NewDefaultEventHandler(w io.Writer) *DefaultEventHandler {
	if w == nil {
		w = os.Stdout
	}
	return &DefaultEventHandler{out: w}
}

// OnFinishFLayer reports cumulative totals at the end of a layer.
func (h *DefaultEventHandler) OnFinishFLayer(f uint64, stateCount int) {
	h.statisticsCollector.OnFinishFLayer(f, stateCount)
	fmt.Fprintf(h.out, "[f=%d] expanded: %d, generated: %d, states: %d\n",
		f, h.stats.Expanded, h.stats.Generated, stateCount)
}

// OnSolved reports the plan length and cost.
func (h *DefaultEventHandler) OnSolved(plan *Plan) {
	fmt.Fprintf(h.out, "solved: plan length %d, cost %g [expanded: %d, generated: %d, time: %s]\n",
		len(plan.Actions), plan.Cost, h.stats.Expanded, h.stats.Generated, h.stats.SearchTime)
}

// OnExhausted reports a closed search space.
func (h *DefaultEventHandler) OnExhausted() {
	fmt.Fprintf(h.out, "exhausted: no solution [expanded: %d, generated: %d, time: %s]\n",
		h.stats.Expanded, h.stats.Generated, h.stats.SearchTime)
}

// DebugEventHandler counts events and traces them through a zap logger,
// including per-state expansion and ground-action cache misses. Action
// cache hits and axiom cache hits and misses are counted but not traced.
type DebugEventHandler struct {
	statisticsCollector
	log *zap.Logger
}

// NewDebugEventHandler returns a tracing handler; a nil logger means
// zap.NewNop.
func NewDebugEventHandler(log *zap.Logger) *DebugEventHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DebugEventHandler{log: log}
}

func (h *DebugEventHandler) OnStartSearch(initial *State) {
	h.statisticsCollector.OnStartSearch(initial)
	h.log.Debug("start search", zap.Uint32("initial_state", initial.ID()))
}

func (h *DebugEventHandler) OnExpandState(s *State) {
	h.statisticsCollector.OnExpandState(s)
	h.log.Debug("expand", zap.Uint32("state", s.ID()))
}

func (h *DebugEventHandler) OnGenerateState(action *GroundAction, successor *State) {
	h.statisticsCollector.OnGenerateState(action, successor)
	h.log.Debug("generate",
		zap.String("action", action.String()),
		zap.Uint32("successor", successor.ID()))
}

func (h *DebugEventHandler) OnFinishFLayer(f uint64, stateCount int) {
	h.statisticsCollector.OnFinishFLayer(f, stateCount)
	h.log.Debug("finish f-layer",
		zap.Uint64("f", f),
		zap.Uint64("expanded", h.stats.Expanded),
		zap.Uint64("generated", h.stats.Generated),
		zap.Int("states", stateCount))
}

func (h *DebugEventHandler) OnGroundActionCacheMiss(schema *formalism.ActionSchema, binding []*formalism.Object) {
	h.statisticsCollector.OnGroundActionCacheMiss(schema, binding)
	h.log.Debug("ground action", zap.String("schema", schema.Name), zap.Int("arity", len(binding)))
}

func (h *DebugEventHandler) OnInapplicableAction(action *GroundAction) {
	h.statisticsCollector.OnInapplicableAction(action)
	h.log.Debug("inapplicable grounded action", zap.String("action", action.String()))
}

func (h *DebugEventHandler) OnInapplicableAxiom(axiom *GroundAxiom) {
	h.statisticsCollector.OnInapplicableAxiom(axiom)
	h.log.Debug("inapplicable grounded axiom", zap.Uint32("axiom", axiom.ID()))
}

func (h *DebugEventHandler) OnEndSearch() {
	h.statisticsCollector.OnEndSearch()
	h.log.Debug("end search", zap.Duration("time", h.stats.SearchTime))
}

func (h *DebugEventHandler) OnSolved(plan *Plan) {
	h.log.Info("solved",
		zap.Int("plan_length", len(plan.Actions)),
		zap.Float64("cost", plan.Cost),
		zap.Uint64("expanded", h.stats.Expanded),
		zap.Uint64("generated", h.stats.Generated))
}

func (h *DebugEventHandler) OnExhausted() {
	h.log.Info("exhausted",
		zap.Uint64("expanded", h.stats.Expanded),
		zap.Uint64("generated", h.stats.Generated))
}
