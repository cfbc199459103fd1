package algo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/trajectory/algo"
	"github.com/elektrokombinacija/trajectory/subset"
)

// fixedSizeSubsetIterator enumerates every size-k subset of a universe,
// by index over combinations, in lexicographic order of the chosen
// indices.
type fixedSizeSubsetIterator struct {
	universe []subset.ID
	k        int
	idx      []int
	done     bool
}

func newFixedSizeSubsetIterator(universe []subset.ID, k int) *fixedSizeSubsetIterator {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	return &fixedSizeSubsetIterator{universe: universe, k: k, idx: idx, done: k > len(universe)}
}

func (it *fixedSizeSubsetIterator) HasNext() bool { return !it.done }

func (it *fixedSizeSubsetIterator) Next() *subset.Solution {
	s := subset.New(it.universe, nil)
	for _, i := range it.idx {
		_ = s.Select(it.universe[i])
	}
	it.advance()
	return s
}

func (it *fixedSizeSubsetIterator) advance() {
	n := len(it.universe)
	i := it.k - 1
	for i >= 0 && it.idx[i] == n-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return
	}
	it.idx[i]++
	for j := i + 1; j < it.k; j++ {
		it.idx[j] = it.idx[j-1] + 1
	}
}

// TestExhaustiveSearchFindsTheGlobalOptimumOverASmallUniverse drains
// every size-3 subset of {0..9} and confirms the reported best matches
// the same optimum RandomDescent and SteepestDescent converge to.
func TestExhaustiveSearchFindsTheGlobalOptimumOverASmallUniverse(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	it := newFixedSizeSubsetIterator(u, 3)

	a := algo.NewExhaustiveSearch[*subset.Solution](p, it)
	require.NoError(t, a.Start(a))

	best, eval, val, ok := a.BestSolution()
	require.True(t, ok)
	assert.True(t, val.Passed())
	assert.Equal(t, float64(24), eval.Value())
	for _, id := range []subset.ID{7, 8, 9} {
		assert.True(t, best.IsSelected(id))
	}
}

func TestExhaustiveSearchStopsOnceTheIteratorIsExhausted(t *testing.T) {
	u := universe(5)
	p := newSumProblem(t, false, u)
	it := newFixedSizeSubsetIterator(u, 2)

	a := algo.NewExhaustiveSearch[*subset.Solution](p, it)
	require.NoError(t, a.Start(a))

	// C(5,2) == 10 candidates evaluated, one per step.
	assert.Equal(t, int64(10), a.TotalSteps())
}
