package subset

import (
	"math/rand"

	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// SumObjective scores a subset by the sum of its selected IDs. Minimizing
// selects the orientation; scenario tests in spec.md §8 use the
// maximising form.
type SumObjective struct {
	Minimizing bool
}

func (o *SumObjective) IsMinimizing() bool { return o.Minimizing }

func (o *SumObjective) Evaluate(s *Solution, data any) search.Evaluation {
	var total float64
	for _, id := range s.SelectedIDsOrdered() {
		total += float64(id)
	}
	return search.SimpleEvaluation(total)
}

func (o *SumObjective) EvaluateDelta(move search.Move[*Solution], curSol *Solution, curEval search.Evaluation, data any) (search.Evaluation, error) {
	base := curEval.Value()
	switch m := move.(type) {
	case AdditionMove:
		return search.SimpleEvaluation(base + float64(m.Add)), nil
	case DeletionMove:
		return search.SimpleEvaluation(base - float64(m.Del)), nil
	case SwapMove:
		return search.SimpleEvaluation(base + float64(m.Add) - float64(m.Del)), nil
	case GeneralSubsetMove:
		for _, id := range m.AddSet {
			base += float64(id)
		}
		for _, id := range m.DelSet {
			base -= float64(id)
		}
		return search.SimpleEvaluation(base), nil
	default:
		return nil, &errs.IncompatibleDeltaError{Evaluator: "subset.SumObjective", MoveType: typeName(move)}
	}
}

// SizeConstraint enforces Min <= |Selected| <= Max (Max <= 0 means
// unbounded).
type SizeConstraint struct {
	Min, Max int
}

func (c *SizeConstraint) Validate(s *Solution, data any) search.Validation {
	return search.SimpleValidation(boundsOK(s.Size(), c.Min, c.Max))
}

func (c *SizeConstraint) ValidateDelta(move search.Move[*Solution], curSol *Solution, curVal search.Validation, data any) (search.Validation, error) {
	newSize := curSol.Size() + sizeDelta(move)
	if newSize < 0 {
		return nil, &errs.IncompatibleDeltaError{Evaluator: "subset.SizeConstraint", MoveType: typeName(move)}
	}
	return search.SimpleValidation(boundsOK(newSize, c.Min, c.Max)), nil
}

func sizeDelta(move search.Move[*Solution]) int {
	switch m := move.(type) {
	case AdditionMove:
		return 1
	case DeletionMove:
		return -1
	case SwapMove:
		return 0
	case GeneralSubsetMove:
		return len(m.AddSet) - len(m.DelSet)
	default:
		return 0
	}
}

func typeName(move any) string {
	switch move.(type) {
	case AdditionMove:
		return "subset.AdditionMove"
	case DeletionMove:
		return "subset.DeletionMove"
	case SwapMove:
		return "subset.SwapMove"
	case GeneralSubsetMove:
		return "subset.GeneralSubsetMove"
	default:
		return "unknown"
	}
}

// ForbiddenIDPenalty is a soft constraint: each forbidden ID present in
// the selection contributes Penalty to the evaluated score (see
// spec.md §8 scenario 4), without invalidating the solution outright.
type ForbiddenIDPenalty struct {
	Forbidden map[ID]struct{}
	Penalty   float64
}

func (c *ForbiddenIDPenalty) violationCount(s *Solution) int {
	n := 0
	for id := range c.Forbidden {
		if s.IsSelected(id) {
			n++
		}
	}
	return n
}

func (c *ForbiddenIDPenalty) Validate(s *Solution, data any) search.Validation {
	return c.ValidatePenalizing(s, data)
}

func (c *ForbiddenIDPenalty) ValidatePenalizing(s *Solution, data any) search.PenalizingValidation {
	n := c.violationCount(s)
	return search.PenalizingValidation{OK: n == 0, Penalty: float64(n) * c.Penalty}
}

func (c *ForbiddenIDPenalty) ValidateDelta(move search.Move[*Solution], curSol *Solution, curVal search.Validation, data any) (search.Validation, error) {
	prior, _ := curVal.(search.PenalizingValidation)
	updated, err := c.ValidatePenalizingDelta(move, curSol, prior, data)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *ForbiddenIDPenalty) ValidatePenalizingDelta(move search.Move[*Solution], curSol *Solution, curVal search.PenalizingValidation, data any) (search.PenalizingValidation, error) {
	delta := 0
	addDelta := func(id ID, sign int) {
		if _, forbidden := c.Forbidden[id]; forbidden {
			delta += sign
		}
	}
	switch m := move.(type) {
	case AdditionMove:
		addDelta(m.Add, 1)
	case DeletionMove:
		addDelta(m.Del, -1)
	case SwapMove:
		addDelta(m.Add, 1)
		addDelta(m.Del, -1)
	case GeneralSubsetMove:
		for _, id := range m.AddSet {
			addDelta(id, 1)
		}
		for _, id := range m.DelSet {
			addDelta(id, -1)
		}
	default:
		return search.PenalizingValidation{}, &errs.IncompatibleDeltaError{Evaluator: "subset.ForbiddenIDPenalty", MoveType: typeName(move)}
	}
	violations := 0
	if c.Penalty != 0 {
		violations = int(curVal.Penalty/c.Penalty + 0.5)
	}
	violations += delta
	return search.PenalizingValidation{OK: violations == 0, Penalty: float64(violations) * c.Penalty}, nil
}

// FixedSizeRandomGenerator produces random subsets of exactly Size
// selected IDs drawn uniformly from Universe.
type FixedSizeRandomGenerator struct {
	Universe []ID
	Size     int
	Cmp      Comparator
}

func (g *FixedSizeRandomGenerator) Create(rng *rand.Rand, data any) *Solution {
	s := New(g.Universe, g.Cmp)
	for _, id := range reservoirSample(g.Universe, g.Size, rng) {
		_ = s.Select(id)
	}
	return s
}
