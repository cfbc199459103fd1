package algo

import (
	"github.com/elektrokombinacija/trajectory/search"
)

// FirstBestAdmissibleTabuSearch is TabuSearch's first-improvement variant:
// each step it shuffles the move list and accepts the first admissible
// move (non-tabu, or tabu-but-aspirational) that strictly improves on the
// current evaluation. If no admissible move improves, it falls back to
// ordinary TabuSearch semantics — the best admissible move overall,
// improving or not — so it only stops once no move is admissible at all.
type FirstBestAdmissibleTabuSearch[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
	Memory TabuMemory[S]
}

func NewFirstBestAdmissibleTabuSearch[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S], memory TabuMemory[S]) *FirstBestAdmissibleTabuSearch[S] {
	base := search.New(problem, nil)
	return &FirstBestAdmissibleTabuSearch[S]{NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, nh), Memory: memory}
}

func (a *FirstBestAdmissibleTabuSearch[S]) Init(*search.Search[S]) error { return nil }

func (a *FirstBestAdmissibleTabuSearch[S]) admissible(s *search.Search[S], move search.Move[S], cur S, curEval search.Evaluation, curVal search.Validation, bestEval search.Evaluation, hasBest bool) (ok bool, eval search.Evaluation, delta float64, err error) {
	val, err := a.Problem().ValidateDelta(move, cur, curVal)
	if err != nil || !val.Passed() {
		return false, nil, 0, err
	}
	eval, err = a.Problem().EvaluateDelta(move, cur, curEval)
	if err != nil {
		return false, nil, 0, err
	}
	delta = search.Delta(a.Problem().IsMinimizing(), eval, curEval)
	if a.Memory.IsTabu(move, cur) {
		if !(hasBest && search.Better(a.Problem().IsMinimizing(), eval, bestEval)) {
			return false, eval, delta, nil
		}
	}
	return true, eval, delta, nil
}

func (a *FirstBestAdmissibleTabuSearch[S]) Step(s *search.Search[S]) (bool, error) {
	cur, curEval, curVal, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	bestEval, hasBest := s.BestEvaluation()

	moves := a.Neighbourhood.AllMoves(cur)
	order := s.RNG().Perm(len(moves))

	var bestAdmissible *tabuCandidate[S]
	for _, idx := range order {
		move := moves[idx]
		ok, eval, delta, err := a.admissible(s, move, cur, curEval, curVal, bestEval, hasBest)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if delta > 0 {
			if _, err := a.Accept(move); err != nil {
				return false, err
			}
			next, _, _, _ := s.CurrentSolution()
			a.Memory.RememberAccepted(move, next)
			return false, nil
		}
		if bestAdmissible == nil || delta > bestAdmissible.delta {
			bestAdmissible = &tabuCandidate[S]{move: move, eval: eval, delta: delta}
		}
	}
	if bestAdmissible == nil {
		return true, nil
	}
	if _, err := a.Accept(bestAdmissible.move); err != nil {
		return false, err
	}
	next, _, _, _ := s.CurrentSolution()
	a.Memory.RememberAccepted(bestAdmissible.move, next)
	return false, nil
}
