package algo

import (
	"math"

	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// MetropolisSearch draws one random move per step; an invalid move is
// rejected outright. A valid move with a non-negative signed delta
// (an improvement or a tie) is always accepted; a worsening move is
// accepted with probability exp(delta / Temperature), drawn from the
// search's own RNG. Step stops (local optimum, by convention) only once
// the neighbourhood is exhausted.
type MetropolisSearch[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
	Temperature float64
}

// NewMetropolisSearch returns a MetropolisSearch at the given fixed
// temperature (> 0).
func NewMetropolisSearch[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S], temperature float64) (*MetropolisSearch[S], error) {
	if temperature <= 0 {
		return nil, &errs.ConfigurationError{Component: "MetropolisSearch", Field: "Temperature", Reason: "must be > 0"}
	}
	base := search.New(problem, nil)
	return &MetropolisSearch[S]{
		NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, nh),
		Temperature:         temperature,
	}, nil
}

func (a *MetropolisSearch[S]) Init(*search.Search[S]) error { return nil }

func (a *MetropolisSearch[S]) Step(s *search.Search[S]) (bool, error) {
	cur, curEval, curVal, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	move, has := a.Neighbourhood.RandomMove(cur, s.RNG())
	if !has {
		return true, nil
	}

	val, err := a.Problem().ValidateDelta(move, cur, curVal)
	if err != nil {
		return false, err
	}
	if !val.Passed() {
		a.Reject()
		return false, nil
	}

	eval, err := a.Problem().EvaluateDelta(move, cur, curEval)
	if err != nil {
		return false, err
	}
	delta := search.Delta(a.Problem().IsMinimizing(), eval, curEval)

	accept := delta >= 0
	if !accept {
		prob := math.Exp(delta / a.Temperature)
		accept = s.RNG().Float64() < prob
	}
	if accept {
		if _, err := a.Accept(move); err != nil {
			return false, err
		}
	} else {
		a.Reject()
	}
	return false, nil
}
