// Package planner is the embedder surface of the engine: it wires a
// generator flavor, a successor state generator, and a search algorithm
// over one problem, and runs independent instances concurrently as a
// portfolio. Parallelism stops at the instance boundary; factories and
// generators are never shared across goroutines.
package planner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"symplan/internal/formalism"
	"symplan/internal/search"
)

// GeneratorKind selects the applicable-action generator flavor.
type GeneratorKind string

const (
	GeneratorLifted   GeneratorKind = "lifted"
	GeneratorGrounded GeneratorKind = "grounded"
)

// AlgorithmKind selects the search algorithm.
type AlgorithmKind string

const (
	AlgorithmBrFS  AlgorithmKind = "brfs"
	AlgorithmAStar AlgorithmKind = "astar"
)

// Options configures one planner run.
type Options struct {
	Generator GeneratorKind
	Algorithm AlgorithmKind
	Heuristic search.Heuristic
	Handler   search.EventHandler
	Timeout   time.Duration

	// MaxMemoryMB bounds the process heap; zero means unbounded. The
	// watchdog samples usage and trips the budget, which the search
	// observes at the next expansion boundary.
	MaxMemoryMB int
}

// DefaultOptions is grounded breadth-first search with no timeout.
func DefaultOptions() Options {
	return Options{
		Generator: GeneratorGrounded,
		Algorithm: AlgorithmBrFS,
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID      uuid.UUID
	Problem    string
	Status     search.SearchStatus
	Plan       *search.Plan
	Statistics *search.Statistics
	SetupTime  time.Duration
	TotalTime  time.Duration
}

// Planner owns the per-problem pipeline for one run.
type Planner struct {
	problem *formalism.Problem
	opts    Options
}

// New returns a planner for the problem.
func New(problem *formalism.Problem, opts Options) *Planner {
	return &Planner{problem: problem, opts: opts}
}

// Solve builds the pipeline and runs the search. Context cancellation and
// the timeout option both feed the cooperative budget the search polls at
// expansion boundaries.
func (p *Planner) Solve(ctx context.Context) (*Result, error) {
	start := time.Now()
	handler := p.opts.Handler
	if handler == nil {
		handler = search.NewMinimalEventHandler()
	}

	var gen search.Generator
	var err error
	switch p.opts.Generator {
	case GeneratorLifted:
		gen, err = search.NewLiftedGenerator(p.problem, handler)
	case GeneratorGrounded, "":
		gen, err = search.NewGroundedGenerator(p.problem, handler)
	default:
		err = fmt.Errorf("unknown generator kind %q", p.opts.Generator)
	}
	if err != nil {
		return nil, fmt.Errorf("generator setup: %w", err)
	}
	setup := time.Since(start)

	ssg := search.NewSuccessorStateGenerator(gen)

	// External watchdog: the search never blocks, it polls the budget
	// flag at expansion boundaries.
	budget := &search.Budget{}
	watchCtx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		watchCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-watchCtx.Done():
			budget.CancelTime()
		case <-stop:
		}
	}()
	if p.opts.MaxMemoryMB > 0 {
		go watchMemory(budget, p.opts.MaxMemoryMB, stop)
	}

	var status search.SearchStatus
	plan := &search.Plan{}
	switch p.opts.Algorithm {
	case AlgorithmAStar:
		status, err = search.NewAStarSearch(gen, ssg, p.opts.Heuristic, handler, budget).FindSolution(plan)
	case AlgorithmBrFS, "":
		status, err = search.NewBreadthFirstSearch(gen, ssg, handler, budget).FindSolution(plan)
	default:
		err = fmt.Errorf("unknown algorithm kind %q", p.opts.Algorithm)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:      uuid.New(),
		Problem:    p.problem.Name,
		Status:     status,
		Plan:       plan,
		Statistics: handler.Statistics(),
		SetupTime:  setup,
		TotalTime:  time.Since(start),
	}, nil
}

// watchMemory samples heap usage and trips the memory budget when it
// crosses the limit. Sampling stays outside the engine: the search only
// ever polls the atomic flag.
func watchMemory(budget *search.Budget, limitMB int, stop <-chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			if ms.HeapAlloc > uint64(limitMB)*1024*1024 {
				budget.CancelMemory()
				return
			}
		case <-stop:
			return
		}
	}
}

// Instance names one portfolio entry: an independent problem with its own
// factories, paired with run options.
type Instance struct {
	Problem *formalism.Problem
	Options Options
}

// SolvePortfolio runs each instance on its own goroutine. Instances must
// not share factories; everything inside one pipeline stays
// single-threaded. Results are returned in instance order.
func SolvePortfolio(ctx context.Context, instances []Instance) ([]*Result, error) {
	results := make([]*Result, len(instances))
	g, ctx := errgroup.WithContext(ctx)
	for i, inst := range instances {
		g.Go(func() error {
			r, err := New(inst.Problem, inst.Options).Solve(ctx)
			if err != nil {
				return fmt.Errorf("instance %q: %w", inst.Problem.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
