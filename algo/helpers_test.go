package algo_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

func universe(n int) []subset.ID {
	ids := make([]subset.ID, n)
	for i := range ids {
		ids[i] = subset.ID(i)
	}
	return ids
}

func newSumProblem(t *testing.T, minimizing bool, u []subset.ID) *search.Problem[*subset.Solution] {
	objective := &subset.SumObjective{Minimizing: minimizing}
	generator := &subset.FixedSizeRandomGenerator{Universe: u, Size: 3}
	p, err := search.NewProblem[*subset.Solution](nil, objective, nil, nil, generator)
	require.NoError(t, err)
	return p
}

func selection(u []subset.ID, selected ...subset.ID) *subset.Solution {
	s := subset.New(u, nil)
	for _, id := range selected {
		if err := s.Select(id); err != nil {
			panic(err)
		}
	}
	return s
}

// stopAfterSteps stops s once it has completed n steps, letting tests
// bound algorithms (MetropolisSearch, ParallelTempering) that have no
// internal stopping condition of their own.
type stopAfterSteps[S search.Solution[S]] struct {
	search.NoOpListener[S]
	s *search.Search[S]
	n int64
}

func (l *stopAfterSteps[S]) StepCompleted(_ *search.Search[S], steps int64) {
	if steps >= l.n {
		l.s.Stop()
	}
}

func seededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
