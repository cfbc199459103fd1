package subset

import (
	"sort"

	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// LRSearch is the greedy (L, R) subset construction heuristic of
// spec.md §4.7: starting from the empty subset (L > R) or the full
// subset (R > L), each step scores every currently-eligible addition and
// deletion by its single-item delta evaluation, takes the L best
// additions and R best deletions, and commits them together as one
// GeneralSubsetMove — a net change of (L - R) items per step. Each side
// contributes fewer than its quota when fewer candidates are eligible. It
// converges (Step reports stop == true) once the additions and deletions
// it would commit are equally many, i.e. once a step would no longer
// change the subset's size.
type LRSearch struct {
	*search.NeighbourhoodSearch[*Solution]
	L, R     int
	Filter   Filter
	Universe []ID
	Cmp      Comparator
}

// NewLRSearch returns an LRSearch over problem, seeded from universe. L
// must differ from R; ConfigurationError is returned otherwise.
func NewLRSearch(problem *search.Problem[*Solution], universe []ID, cmp Comparator, l, r int, filter Filter) (*LRSearch, error) {
	if l == r {
		return nil, &errs.ConfigurationError{Component: "LRSearch", Field: "L,R", Reason: "L must differ from R"}
	}
	base := search.New(problem, nil)
	return &LRSearch{
		NeighbourhoodSearch: search.NewNeighbourhoodSearch[*Solution](base, nil),
		L:                   l,
		R:                   r,
		Filter:              filter,
		Universe:            universe,
		Cmp:                 cmp,
	}, nil
}

// Init seeds the current solution with the empty subset when L > R (net
// growth) or the full subset when R > L (net shrinkage), unless the
// caller already installed one via SetCurrentSolution.
func (a *LRSearch) Init(s *search.Search[*Solution]) error {
	if _, _, _, ok := s.CurrentSolution(); ok {
		return nil
	}
	start := New(a.Universe, a.Cmp)
	if a.R > a.L {
		for _, id := range a.Universe {
			if err := start.Select(id); err != nil {
				return err
			}
		}
	}
	a.UpdateCurrentSolution(start)
	return nil
}

type scoredID struct {
	id    ID
	delta float64
}

// topAdditions/topDeletions return the best up-to-n candidates available,
// clamping to however many are actually eligible: a side with fewer
// candidates than its quota still contributes what it can rather than
// blocking the other side's progress.
func (a *LRSearch) topAdditions(cur *Solution, curEval search.Evaluation, n int) ([]ID, error) {
	cands := eligible(cur.UnselectedIDsOrdered(), a.Filter)
	scored := make([]scoredID, 0, len(cands))
	for _, id := range cands {
		eval, err := a.Problem().EvaluateDelta(AdditionMove{Add: id}, cur, curEval)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredID{id, search.Delta(a.Problem().IsMinimizing(), eval, curEval)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].delta > scored[j].delta })
	if n > len(scored) {
		n = len(scored)
	}
	out := make([]ID, n)
	for i := 0; i < n; i++ {
		out[i] = scored[i].id
	}
	return out, nil
}

func (a *LRSearch) topDeletions(cur *Solution, curEval search.Evaluation, n int) ([]ID, error) {
	cands := eligible(cur.SelectedIDsOrdered(), a.Filter)
	scored := make([]scoredID, 0, len(cands))
	for _, id := range cands {
		eval, err := a.Problem().EvaluateDelta(DeletionMove{Del: id}, cur, curEval)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredID{id, search.Delta(a.Problem().IsMinimizing(), eval, curEval)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].delta > scored[j].delta })
	if n > len(scored) {
		n = len(scored)
	}
	out := make([]ID, n)
	for i := 0; i < n; i++ {
		out[i] = scored[i].id
	}
	return out, nil
}

// Step implements search.Algorithm[*Solution].
func (a *LRSearch) Step(s *search.Search[*Solution]) (bool, error) {
	cur, curEval, _, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}
	additions, err := a.topAdditions(cur, curEval, a.L)
	if err != nil {
		return false, err
	}
	deletions, err := a.topDeletions(cur, curEval, a.R)
	if err != nil {
		return false, err
	}
	if len(additions) == len(deletions) {
		return true, nil // net size change is zero: size has converged
	}
	move := GeneralSubsetMove{AddSet: additions, DelSet: deletions}
	next := cur.Copy()
	move.Apply(next)
	a.UpdateCurrentSolution(next)
	return false, nil
}
