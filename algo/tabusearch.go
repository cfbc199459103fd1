package algo

import (
	"github.com/elektrokombinacija/trajectory/search"
)

// TabuSearch enumerates every move each step, asks its TabuMemory whether
// each would be tabu from the current solution, and picks the best move
// among those that are either non-tabu or admitted by the aspiration
// criterion: a tabu move is still admissible if the solution it leads to
// would beat the search's best-so-far. Every accepted move is reported to
// the memory via RememberAccepted, tabu or not. Step stops once no move
// is admissible (valid and, tabu-or-aspirational).
type TabuSearch[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
	Memory TabuMemory[S]
}

// NewTabuSearch returns a TabuSearch over problem and nh, consulting memory.
func NewTabuSearch[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S], memory TabuMemory[S]) *TabuSearch[S] {
	base := search.New(problem, nil)
	return &TabuSearch[S]{NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, nh), Memory: memory}
}

func (a *TabuSearch[S]) Init(*search.Search[S]) error { return nil }

type tabuCandidate[S search.Solution[S]] struct {
	move  search.Move[S]
	eval  search.Evaluation
	delta float64
}

func (a *TabuSearch[S]) Step(s *search.Search[S]) (bool, error) {
	cur, curEval, curVal, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	bestEval, hasBest := s.BestEvaluation()

	var best *tabuCandidate[S]
	for _, move := range a.Neighbourhood.AllMoves(cur) {
		val, err := a.Problem().ValidateDelta(move, cur, curVal)
		if err != nil {
			return false, err
		}
		if !val.Passed() {
			continue
		}
		eval, err := a.Problem().EvaluateDelta(move, cur, curEval)
		if err != nil {
			return false, err
		}
		delta := search.Delta(a.Problem().IsMinimizing(), eval, curEval)

		if a.Memory.IsTabu(move, cur) {
			aspirational := hasBest && search.Better(a.Problem().IsMinimizing(), eval, bestEval)
			if !aspirational {
				continue
			}
		}
		if best == nil || delta > best.delta {
			best = &tabuCandidate[S]{move: move, eval: eval, delta: delta}
		}
	}
	if best == nil {
		return true, nil
	}
	if _, err := a.Accept(best.move); err != nil {
		return false, err
	}
	next, _, _, _ := s.CurrentSolution()
	a.Memory.RememberAccepted(best.move, next)
	return false, nil
}
