package algo

import (
	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// VariableNeighbourhoodSearch cycles through a prioritized list of
// neighbourhoods (spec.md §4.7). At level ℓ (starting at 0) it shakes by
// applying ℓ+1 successive random moves drawn from Neighbourhoods[ℓ] to
// the same solution, then runs its embedded SteepestDescent local search
// from the shaken solution over the first (most local) neighbourhood. If
// the local search's outcome improves on the pre-shake solution, VNS
// accepts it and resets ℓ to 0; otherwise it rejects the shake, restores
// the pre-shake solution, and advances to the next neighbourhood level
// (wrapping back to 0 after the last one).
type VariableNeighbourhoodSearch[S search.Solution[S]] struct {
	*search.NeighbourhoodSearch[S]
	Neighbourhoods []search.Neighbourhood[S]
	local          *SteepestDescent[S]
	level          int
}

// NewVariableNeighbourhoodSearch returns a VNS over problem with the
// given prioritized neighbourhood list; the first entry also serves as
// the embedded local search's neighbourhood. At least one neighbourhood
// is required.
func NewVariableNeighbourhoodSearch[S search.Solution[S]](problem *search.Problem[S], neighbourhoods []search.Neighbourhood[S]) (*VariableNeighbourhoodSearch[S], error) {
	if len(neighbourhoods) == 0 {
		return nil, &errs.ConfigurationError{Component: "VariableNeighbourhoodSearch", Field: "Neighbourhoods", Reason: "must supply at least one"}
	}
	base := search.New(problem, nil)
	return &VariableNeighbourhoodSearch[S]{
		NeighbourhoodSearch: search.NewNeighbourhoodSearch(base, neighbourhoods[0]),
		Neighbourhoods:      neighbourhoods,
		local:               NewSteepestDescent(problem, neighbourhoods[0]),
	}, nil
}

func (a *VariableNeighbourhoodSearch[S]) Init(*search.Search[S]) error { return nil }

func (a *VariableNeighbourhoodSearch[S]) Step(s *search.Search[S]) (bool, error) {
	cur, curEval, _, ok := s.CurrentSolution()
	if !ok {
		return true, nil
	}

	shakeNh := a.Neighbourhoods[a.level]
	shaken := cur.Copy()
	applied := 0
	for i := 0; i <= a.level; i++ {
		move, has := shakeNh.RandomMove(shaken, s.RNG())
		if !has {
			break
		}
		move.Apply(shaken)
		applied++
	}
	if applied == 0 {
		a.level = (a.level + 1) % len(a.Neighbourhoods)
		return false, nil
	}

	if err := a.local.Search.SetCurrentSolution(shaken); err != nil {
		return false, err
	}
	for {
		stop, err := a.local.Step(a.local.Search)
		if err != nil {
			return false, err
		}
		if stop {
			break
		}
	}
	refined, refinedEval, refinedVal, _ := a.local.CurrentSolution()

	if refinedVal.Passed() && search.Delta(a.Problem().IsMinimizing(), refinedEval, curEval) > 0 {
		a.UpdateCurrentSolution(refined)
		a.level = 0
	} else {
		a.level = (a.level + 1) % len(a.Neighbourhoods)
	}
	return false, nil
}
