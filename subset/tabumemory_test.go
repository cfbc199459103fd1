package subset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/trajectory/subset"
)

func TestIDSetTabuMemoryMarksTouchedIDsTabu(t *testing.T) {
	mem := subset.NewIDSetTabuMemory(2)
	s := subset.New(universe(5), nil)

	move := subset.AdditionMove{Add: 1}
	assert.False(t, mem.IsTabu(move, s))

	mem.RememberAccepted(move, s)
	assert.True(t, mem.IsTabu(move, s), "the same ID is tabu right after being accepted")
	assert.False(t, mem.IsTabu(subset.AdditionMove{Add: 2}, s), "an untouched ID is never tabu")
}

func TestIDSetTabuMemoryEvictsOldestBeyondCapacity(t *testing.T) {
	mem := subset.NewIDSetTabuMemory(1)
	s := subset.New(universe(5), nil)

	mem.RememberAccepted(subset.AdditionMove{Add: 1}, s)
	mem.RememberAccepted(subset.AdditionMove{Add: 2}, s)

	assert.False(t, mem.IsTabu(subset.AdditionMove{Add: 1}, s), "evicted once capacity 1 is exceeded")
	assert.True(t, mem.IsTabu(subset.AdditionMove{Add: 2}, s), "most recent ID remains tabu")
}

func TestIDSetTabuMemorySwapTouchesBothIDs(t *testing.T) {
	mem := subset.NewIDSetTabuMemory(4)
	s := subset.New(universe(5), nil)

	mem.RememberAccepted(subset.SwapMove{Add: 1, Del: 2}, s)
	assert.True(t, mem.IsTabu(subset.AdditionMove{Add: 1}, s))
	assert.True(t, mem.IsTabu(subset.DeletionMove{Del: 2}, s))
}
