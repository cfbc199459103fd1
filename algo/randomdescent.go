// Package algo implements the concrete search algorithms of spec.md §4.7:
// skeletons built on search.NeighbourhoodSearch that decide, per step,
// which move to draw and whether to accept it.
package algo

import (
	"github.com/elektrokombinacija/trajectory/search"
)

// RandomDescent draws one random move per step and accepts it iff it is
// an improvement; otherwise it rejects and continues. It terminates
// internally (Step reports stop == true) only once the neighbourhood is
// exhausted for the current solution.
type RandomDescent[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
}

// NewRandomDescent returns a RandomDescent over problem and nh.
func NewRandomDescent[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S]) *RandomDescent[S] {
	base := search.New(problem, nil)
	return &RandomDescent[S]{NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, nh)}
}

func (a *RandomDescent[S]) Init(*search.Search[S]) error { return nil }

func (a *RandomDescent[S]) Step(s *search.Search[S]) (bool, error) {
	cur, _, _, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	move, has := a.Neighbourhood.RandomMove(cur, s.RNG())
	if !has {
		return true, nil
	}
	improves, err := a.IsImprovement(move)
	if err != nil {
		return false, err
	}
	if improves {
		if _, err := a.Accept(move); err != nil {
			return false, err
		}
	} else {
		a.Reject()
	}
	return false, nil
}
