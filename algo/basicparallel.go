package algo

import (
	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// BasicParallelSearch runs a heterogeneous bag of independently
// configured Searches concurrently, each starting from its own copy of
// the same initial solution, and reports whichever stage ends with the
// best valid best-so-far (spec.md §4.7). Stopping one stage (its own
// StopCriterion, or an algorithm-internal stop) does not stop the
// others; Stop() on the BasicParallelSearch itself cascades to every
// stage before they've each finished on their own.
type BasicParallelSearch[S search.Solution[S]] struct {
	Stages []*search.Search[S]
	Algos  []search.Algorithm[S]
}

// NewBasicParallelSearch returns a BasicParallelSearch over the given
// stage/algorithm pairs. len(stages) must equal len(algos) and be >= 1.
func NewBasicParallelSearch[S search.Solution[S]](stages []*search.Search[S], algos []search.Algorithm[S]) (*BasicParallelSearch[S], error) {
	if len(stages) == 0 || len(stages) != len(algos) {
		return nil, &errs.ConfigurationError{Component: "BasicParallelSearch", Field: "Stages,Algos", Reason: "must supply equal, non-empty lists"}
	}
	return &BasicParallelSearch[S]{Stages: stages, Algos: algos}, nil
}

// Stop cascades to every stage.
func (p *BasicParallelSearch[S]) Stop() {
	for _, s := range p.Stages {
		s.Stop()
	}
}

// Run seeds every stage with its own copy of initial, runs all stages to
// completion concurrently, and returns the best valid best-so-far across
// every stage under the first stage's Problem's orientation (all stages
// must share the same Problem orientation for the comparison to be
// meaningful).
func (p *BasicParallelSearch[S]) Run(initial S) (sol S, eval search.Evaluation, val search.Validation, ok bool, err error) {
	var g errgroup.Group
	for i, stage := range p.Stages {
		i, stage := i, stage
		g.Go(func() error {
			if err := stage.SetCurrentSolution(initial); err != nil {
				return err
			}
			return stage.Start(p.Algos[i])
		})
	}
	if err := g.Wait(); err != nil {
		return sol, nil, nil, false, err
	}

	minimizing := p.Stages[0].Problem().IsMinimizing()
	var found bool
	for _, stage := range p.Stages {
		s, e, v, hasBest := stage.BestSolution()
		if !hasBest {
			continue
		}
		if !found || search.Better(minimizing, e, eval) {
			sol, eval, val, found = s, e, v, true
		}
	}
	return sol, eval, val, found, nil
}
