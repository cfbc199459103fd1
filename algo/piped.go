package algo

import (
	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// PipedLocalSearch runs a sequence of searches one after another, each
// starting from the previous stage's final current solution (spec.md
// §4.7). It is not itself an Algorithm — composing independently
// lifecycle-managed Searches inside a single Step would violate each
// stage's own IDLE/RUNNING state machine — so Run drives the whole
// pipeline directly rather than being installed as another Search's
// algorithm.
type PipedLocalSearch[S search.Solution[S]] struct {
	Stages []*search.Search[S]
}

// NewPipedLocalSearch returns a PipedLocalSearch over the given stages,
// each already bound to its own Algorithm via its own Start call site.
// At least one stage is required.
func NewPipedLocalSearch[S search.Solution[S]](stages ...*search.Search[S]) (*PipedLocalSearch[S], error) {
	if len(stages) == 0 {
		return nil, &errs.ConfigurationError{Component: "PipedLocalSearch", Field: "Stages", Reason: "must supply at least one"}
	}
	return &PipedLocalSearch[S]{Stages: stages}, nil
}

// Run seeds the first stage with initial via SetCurrentSolution if
// hasInitial is set (otherwise each stage creates its own random start),
// starts each stage's algorithm in turn, and threads each stage's final
// current solution into the next stage's starting point. It returns the
// last stage's best solution.
func (p *PipedLocalSearch[S]) Run(initial S, hasInitial bool, algos []search.Algorithm[S]) (sol S, eval search.Evaluation, val search.Validation, ok bool, err error) {
	cur := initial

	for i, stage := range p.Stages {
		if hasInitial {
			if err := stage.SetCurrentSolution(cur); err != nil {
				return sol, nil, nil, false, err
			}
		}
		if err := stage.Start(algos[i]); err != nil {
			return sol, nil, nil, false, err
		}
		cur, _, _, hasInitial = stage.CurrentSolution()
	}

	last := p.Stages[len(p.Stages)-1]
	sol, eval, val, ok = last.BestSolution()
	return sol, eval, val, ok, nil
}
