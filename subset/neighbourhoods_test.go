package subset_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

func TestSingleAdditionRespectsMaxSize(t *testing.T) {
	s := subset.New(universe(3), nil)
	require.NoError(t, s.Select(0))
	require.NoError(t, s.Select(1))

	n := subset.SingleAddition{MinSize: 0, MaxSize: 2}
	assert.Empty(t, n.AllMoves(s), "already at MaxSize, no addition should be offered")

	n2 := subset.SingleAddition{MinSize: 0, MaxSize: 3}
	moves := n2.AllMoves(s)
	require.Len(t, moves, 1)
	assert.Equal(t, subset.AdditionMove{Add: 2}, moves[0])
}

func TestSingleDeletionRespectsMinSize(t *testing.T) {
	s := subset.New(universe(3), nil)
	require.NoError(t, s.Select(0))

	n := subset.SingleDeletion{MinSize: 1, MaxSize: 0}
	assert.Empty(t, n.AllMoves(s), "already at MinSize, no deletion should be offered")
}

func TestFilterExcludesFixedIDs(t *testing.T) {
	s := subset.New(universe(4), nil)
	filter := subset.Filter{Fixed: map[subset.ID]struct{}{0: {}, 1: {}}}

	n := subset.SingleAddition{MinSize: 0, MaxSize: 0, Filter: filter}
	moves := n.AllMoves(s)
	for _, m := range moves {
		add := m.(subset.AdditionMove).Add
		assert.NotEqual(t, subset.ID(0), add)
		assert.NotEqual(t, subset.ID(1), add)
	}
	assert.Len(t, moves, 2) // IDs 2 and 3 remain eligible
}

func TestSingleSwapPairsEveryAddDel(t *testing.T) {
	s := subset.New(universe(3), nil)
	require.NoError(t, s.Select(0))

	n := subset.SingleSwap{}
	moves := n.AllMoves(s)
	require.Len(t, moves, 2) // {1,2} unselected x {0} selected
	for _, m := range moves {
		sw := m.(subset.SwapMove)
		assert.Equal(t, subset.ID(0), sw.Del)
	}
}

func TestSinglePerturbationRandomMoveAlwaysReturnsAnApplicableMove(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := subset.New(universe(10), nil)
	require.NoError(t, s.Select(0))

	n := subset.SinglePerturbation{MinSize: 0, MaxSize: 10}
	for i := 0; i < 200; i++ {
		move, has := n.RandomMove(s, rng)
		require.True(t, has)
		before := s.Size()
		move.Apply(s)
		move.Undo(s)
		assert.Equal(t, before, s.Size(), "apply followed by undo must be a no-op")
	}
}

func TestMultiAdditionRequiresAtLeastKCandidates(t *testing.T) {
	s := subset.New(universe(3), nil)
	n := subset.MultiAddition{K: 4, MinSize: 0, MaxSize: 0}
	assert.Nil(t, n.AllMoves(s), "fewer than K candidates must yield no moves")

	n2 := subset.MultiAddition{K: 2, MinSize: 0, MaxSize: 0}
	moves := n2.AllMoves(s)
	assert.Len(t, moves, 3) // C(3,2)
}

func TestNeighbourhoodSatisfiesInterface(t *testing.T) {
	var _ search.Neighbourhood[*subset.Solution] = subset.SingleAddition{}
	var _ search.Neighbourhood[*subset.Solution] = subset.SingleDeletion{}
	var _ search.Neighbourhood[*subset.Solution] = subset.SingleSwap{}
	var _ search.Neighbourhood[*subset.Solution] = subset.SinglePerturbation{}
	var _ search.Neighbourhood[*subset.Solution] = subset.MultiAddition{}
	var _ search.Neighbourhood[*subset.Solution] = subset.MultiDeletion{}
	var _ search.Neighbourhood[*subset.Solution] = subset.MultiSwap{}
}
