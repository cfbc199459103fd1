package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

// blockingAlgo keeps stepping (stop == false) until externally told to
// stop, letting the StopCriterionChecker's background ticker be the only
// thing that ends the run.
type blockingAlgo struct {
	steps int
}

func (a *blockingAlgo) Init(*search.Search[*subset.Solution]) error { return nil }

func (a *blockingAlgo) Step(*search.Search[*subset.Solution]) (bool, error) {
	a.steps++
	time.Sleep(time.Millisecond)
	return false, nil
}

func TestStopCriterionCheckerStopsOnMaxSteps(t *testing.T) {
	p := newTestProblem(problemUniverse(5))
	checker := search.NewStopCriterionChecker[*subset.Solution](10*time.Millisecond, search.MaxSteps[*subset.Solution]{N: 5})
	s := search.New(p, checker)

	algo := &unboundedAlgo{}
	require.NoError(t, s.Start(algo))
	assert.GreaterOrEqual(t, s.TotalSteps(), int64(5))
}

// unboundedAlgo never reports stop itself; only an external StopCriterion
// or Search.Stop can end the run.
type unboundedAlgo struct{}

func (unboundedAlgo) Init(*search.Search[*subset.Solution]) error           { return nil }
func (unboundedAlgo) Step(*search.Search[*subset.Solution]) (bool, error) { return false, nil }

func TestMaxRuntimeStopsARunningSearch(t *testing.T) {
	p := newTestProblem(problemUniverse(5))
	checker := search.NewStopCriterionChecker[*subset.Solution](5*time.Millisecond, search.MaxRuntime[*subset.Solution]{Duration: 20 * time.Millisecond})
	s := search.New(p, checker)

	require.NoError(t, s.Start(&blockingAlgo{}))
	assert.Equal(t, search.Idle, s.Status())
	assert.Greater(t, s.TotalSteps(), int64(0))
}

func TestMaxStepsShouldStop(t *testing.T) {
	p := newTestProblem(problemUniverse(5))
	s := search.New(p, nil)
	require.NoError(t, s.Start(&countingAlgo{n: 5}))

	assert.True(t, search.MaxSteps[*subset.Solution]{N: 5}.ShouldStop(s))
	assert.False(t, search.MaxSteps[*subset.Solution]{N: 6}.ShouldStop(s))
}

func TestMaxStepsWithoutImprovementShouldStop(t *testing.T) {
	p := newTestProblem(problemUniverse(5))
	s := search.New(p, nil)

	initial := subset.New(problemUniverse(5), nil)
	require.NoError(t, s.SetCurrentSolution(initial)) // records the first improvement

	require.NoError(t, s.Start(&countingAlgo{n: 10}))
	assert.True(t, search.MaxStepsWithoutImprovement[*subset.Solution]{N: 1}.ShouldStop(s))
}

func TestTargetValueReachedRespectsOrientation(t *testing.T) {
	uMax := problemUniverse(5)
	pMax := newTestProblem(uMax)
	sMax := search.New(pMax, nil)
	full := subset.New(uMax, nil)
	for _, id := range uMax {
		require.NoError(t, full.Select(id))
	}
	require.NoError(t, sMax.SetCurrentSolution(full))

	assert.True(t, search.TargetValueReached[*subset.Solution]{Target: 5}.ShouldStop(sMax), "maximising: best >= target")
	assert.False(t, search.TargetValueReached[*subset.Solution]{Target: 1000}.ShouldStop(sMax))
}

func TestTargetValueReachedFalseWithNoBestYet(t *testing.T) {
	p := newTestProblem(problemUniverse(5))
	s := search.New(p, nil)
	assert.False(t, search.TargetValueReached[*subset.Solution]{Target: 0}.ShouldStop(s))
}

func TestNewStopCriterionCheckerDefaultsInterval(t *testing.T) {
	c := search.NewStopCriterionChecker[*subset.Solution](0)
	_ = c // interval defaulting is exercised indirectly; no public getter to assert against directly
}
