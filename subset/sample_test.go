package subset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func idRange(n int) []ID {
	out := make([]ID, n)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

func TestReservoirSampleReturnsExactlyKDistinctIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := idRange(20)

	sample := reservoirSample(ids, 5, rng)
	assert.Len(t, sample, 5)

	seen := make(map[ID]struct{})
	for _, id := range sample {
		_, dup := seen[id]
		assert.False(t, dup, "reservoir sample must not repeat an ID")
		seen[id] = struct{}{}
	}
}

func TestReservoirSampleReturnsAllWhenKExceedsLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := idRange(3)

	sample := reservoirSample(ids, 10, rng)
	assert.ElementsMatch(t, ids, sample)
}

func TestUniformElementAlwaysReturnsAMemberOfIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := idRange(5)
	for i := 0; i < 50; i++ {
		got := uniformElement(ids, rng)
		assert.Contains(t, ids, got)
	}
}
