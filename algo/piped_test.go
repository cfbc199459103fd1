package algo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/trajectory/algo"
	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

func TestNewPipedLocalSearchRejectsEmptyStages(t *testing.T) {
	_, err := algo.NewPipedLocalSearch[*subset.Solution]()
	require.Error(t, err)
}

// TestPipedLocalSearchThreadsEachStagesOutputIntoTheNext runs a
// RandomDescent stage followed by a SteepestDescent stage, each a
// freshly-constructed Search, and checks the pipeline's reported best
// comes from the final (steepest-descent) stage having continued from
// wherever the first stage left off.
func TestPipedLocalSearchThreadsEachStagesOutputIntoTheNext(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	first := algo.NewRandomDescent(p, nh)
	require.NoError(t, first.AddListener(&stopAfterSteps[*subset.Solution]{s: first.Search, n: 1}))
	second := algo.NewSteepestDescent(p, nh)

	pipe, err := algo.NewPipedLocalSearch[*subset.Solution](first.Search, second.Search)
	require.NoError(t, err)

	start := selection(u, 0, 1, 2)
	_, eval, val, ok, err := pipe.Run(start, true, []search.Algorithm[*subset.Solution]{first, second})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, val.Passed())
	assert.Equal(t, float64(24), eval.Value(), "the final SteepestDescent stage must finish the job regardless of where the first stage stopped")
}
