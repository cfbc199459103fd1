package algo

import "github.com/elektrokombinacija/trajectory/search"

// SteepestDescent enumerates every move each step and accepts the most
// improving one; if none improves, it stops (a local optimum has been
// reached).
type SteepestDescent[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
}

// NewSteepestDescent returns a SteepestDescent over problem and nh.
func NewSteepestDescent[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S]) *SteepestDescent[S] {
	base := search.New(problem, nil)
	return &SteepestDescent[S]{NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, nh)}
}

func (a *SteepestDescent[S]) Init(*search.Search[S]) error { return nil }

func (a *SteepestDescent[S]) Step(s *search.Search[S]) (bool, error) {
	cur, _, _, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	moves := a.Neighbourhood.AllMoves(cur)
	best, _, err := a.GetBestMove(moves, true, false, nil)
	if err != nil {
		return false, err
	}
	if best == nil {
		return true, nil // local optimum
	}
	if _, err := a.Accept(best); err != nil {
		return false, err
	}
	return false, nil
}
