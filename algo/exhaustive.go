package algo

import (
	"github.com/elektrokombinacija/trajectory/search"
)

// SolutionIterator enumerates a problem's entire solution space (or a
// problem-defined subset of it) one solution at a time. HasNext/Next
// follow the teacher corpus's priority-queue-driven enumeration pattern
// (internal/algo/solver.go's container/heap frontier) generalised from a
// single best-first pop to an arbitrary exhaustive order.
type SolutionIterator[S search.Solution[S]] interface {
	HasNext() bool
	Next() S
}

// ExhaustiveSearch drains a problem-supplied SolutionIterator one
// solution per Step, evaluating and validating each in full (no delta
// protocol applies — there is no "current solution" being incrementally
// modified) and tracking the best valid one seen via the base Search's
// ordinary best-so-far accounting. It stops once the iterator is
// exhausted.
type ExhaustiveSearch[S search.Solution[S]] struct {
	*search.Search[S]
	Iterator SolutionIterator[S]
}

// NewExhaustiveSearch returns an ExhaustiveSearch over problem, draining it.
func NewExhaustiveSearch[S search.Solution[S]](problem *search.Problem[S], it SolutionIterator[S]) *ExhaustiveSearch[S] {
	return &ExhaustiveSearch[S]{Search: search.New(problem, nil), Iterator: it}
}

func (a *ExhaustiveSearch[S]) Init(*search.Search[S]) error { return nil }

func (a *ExhaustiveSearch[S]) Step(s *search.Search[S]) (bool, error) {
	if !a.Iterator.HasNext() {
		return true, nil
	}
	candidate := a.Iterator.Next()
	val := a.Problem().Validate(candidate)
	eval := a.Problem().Evaluate(candidate)
	s.ReportExternalBest(candidate, eval, val)
	return !a.Iterator.HasNext(), nil
}
