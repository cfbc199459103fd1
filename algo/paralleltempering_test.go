package algo_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/elektrokombinacija/trajectory/algo"
	"github.com/elektrokombinacija/trajectory/search"
	"github.com/elektrokombinacija/trajectory/subset"
)

func TestNewParallelTemperingRejectsInvalidConfiguration(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	_, err := algo.NewParallelTempering[*subset.Solution](p, nh, 0, 1, 10, nil, 0)
	require.Error(t, err, "N must be >= 1")

	_, err = algo.NewParallelTempering[*subset.Solution](p, nh, 4, 0, 10, nil, 0)
	require.Error(t, err, "Tmin must be > 0")

	_, err = algo.NewParallelTempering[*subset.Solution](p, nh, 4, 10, 1, nil, 0)
	require.Error(t, err, "Tmin must be <= Tmax")

	_, err = algo.NewParallelTempering[*subset.Solution](p, nh, 1, 1, 10, nil, 0)
	require.Error(t, err, "N == 1 requires Tmin == Tmax")

	_, err = algo.NewParallelTempering[*subset.Solution](p, nh, 1, 5, 5, nil, 0)
	require.NoError(t, err, "N == 1 with Tmin == Tmax is a valid single fixed-temperature replica")
}

func TestNewParallelTemperingDefaultsFactoryAndReplicaStepsWhenNotProvided(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 3, 1, 50, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(algo.DefaultReplicaSteps), pt.ReplicaSteps())

	custom, err := algo.NewParallelTempering[*subset.Solution](p, nh, 3, 1, 50, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), custom.ReplicaSteps())
}

// TestParallelTemperingUsesTheGivenReplicaFactory checks that a custom
// ReplicaFactory, not NewMetropolisSearch, is actually what builds each
// replica — proven by the factory's own temperature-doubling behaviour
// showing up in Replicas().
func TestParallelTemperingUsesTheGivenReplicaFactory(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	var built []float64
	factory := func(problem *search.Problem[*subset.Solution], nh search.Neighbourhood[*subset.Solution], temperature float64) (*algo.MetropolisSearch[*subset.Solution], error) {
		built = append(built, temperature)
		return algo.NewMetropolisSearch[*subset.Solution](problem, nh, temperature*2)
	}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 3, 1, 50, factory, 0)
	require.NoError(t, err)
	require.Len(t, built, 3)
	for i, r := range pt.Replicas() {
		assert.Equal(t, built[i]*2, r.Temperature)
	}
}

// TestParallelTemperingStepRunsTheFullReplicaBudgetBeforeSwapping checks
// that each global Step drives every replica through exactly
// replicaSteps internal Metropolis steps (spec.md §4.8's batch-then-swap
// protocol) rather than just one, by counting each replica's own
// accept/reject totals after a single global step.
func TestParallelTemperingStepRunsTheFullReplicaBudgetBeforeSwapping(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	const budget = 5
	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 2, 1, 10, nil, budget)
	require.NoError(t, err)
	require.NoError(t, pt.SetRNG(seededRNG(41)))
	for i, r := range pt.Replicas() {
		require.NoError(t, r.SetRNG(seededRNG(int64(i)+1)))
	}

	stopper := &stopAfterSteps[*subset.Solution]{s: pt.Search, n: 1}
	require.NoError(t, pt.AddListener(stopper))
	require.NoError(t, pt.Start(pt))

	for _, r := range pt.Replicas() {
		assert.Equal(t, int64(budget), r.Accepted()+r.Rejected(), "every replica must exhaust its own step budget before the swap phase runs")
	}
}

func TestParallelTemperingReplicaTemperaturesAreEvenlySpaced(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 4, 1, 100, nil, 0)
	require.NoError(t, err)

	want := []float64{1, 34, 67, 100}
	for i, r := range pt.Replicas() {
		assert.InDelta(t, want[i], r.Temperature, 1e-9)
	}
}

// TestParallelTemperingConvergesToTheGlobalOptimum is spec.md §8
// scenario 5: 4 replicas spanning Tmin=1..Tmax=100 on the same
// maximising sum-of-IDs subset problem, run for enough total replica
// steps, finds the same optimum SteepestDescent finds: {7,8,9}, eval 24.
func TestParallelTemperingConvergesToTheGlobalOptimum(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 4, 1, 100, nil, 0)
	require.NoError(t, err)
	require.NoError(t, pt.SetRNG(seededRNG(17)))
	for _, r := range pt.Replicas() {
		require.NoError(t, r.SetRNG(seededRNG(int64(r.Temperature*1000))))
	}

	stopper := &stopAfterSteps[*subset.Solution]{s: pt.Search, n: 500}
	require.NoError(t, pt.AddListener(stopper))

	require.NoError(t, pt.Start(pt))

	_, eval, val, ok := pt.BestSolution()
	require.True(t, ok)
	assert.True(t, val.Passed())
	assert.Equal(t, float64(24), eval.Value())

	require.NoError(t, pt.Dispose())
}

// noMoveNeighbourhood offers no move for any solution, freezing every
// replica's own per-step evaluation so a test can isolate the swap
// phase's effect in ParallelTempering.Step.
type noMoveNeighbourhood struct{}

func (noMoveNeighbourhood) RandomMove(*subset.Solution, *rand.Rand) (search.Move[*subset.Solution], bool) {
	return nil, false
}

func (noMoveNeighbourhood) AllMoves(*subset.Solution) []search.Move[*subset.Solution] { return nil }

// TestParallelTemperingSwapAlwaysOccursWhenDeltaIsNonNegative exercises
// the unconditional half of spec.md §4.8's swap rule: the colder replica
// (Tmin) starts stuck at the worse (minimizing) energy and the hotter
// replica (Tmax) starts at the better one, making the swap delta >= 0,
// so the exchange must happen on the very first global step regardless
// of the random draw.
func TestParallelTemperingSwapAlwaysOccursWhenDeltaIsNonNegative(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, true, u) // minimizing: lower sum is better
	nh := noMoveNeighbourhood{}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 2, 1, 10, nil, 0)
	require.NoError(t, err)

	cold, hot := pt.Replicas()[0], pt.Replicas()[1]
	require.NoError(t, cold.SetCurrentSolution(selection(u, 7, 8, 9))) // worse for minimizing
	require.NoError(t, hot.SetCurrentSolution(selection(u, 0, 1, 2)))  // better for minimizing

	stopper := &stopAfterSteps[*subset.Solution]{s: pt.Search, n: 1}
	require.NoError(t, pt.AddListener(stopper))
	require.NoError(t, pt.Start(pt))

	_, coldEval, _, _ := cold.CurrentSolution()
	_, hotEval, _, _ := hot.CurrentSolution()
	assert.Equal(t, float64(3), coldEval.Value(), "the better energy must have moved to the colder replica")
	assert.Equal(t, float64(24), hotEval.Value(), "the worse energy must have moved to the hotter replica")
}

func TestParallelTemperingInitSeedsEveryReplicaWhenNoneProvided(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, false, u)
	nh := subset.SingleSwap{}

	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 3, 1, 50, nil, 0)
	require.NoError(t, err)

	stopper := &stopAfterSteps[*subset.Solution]{s: pt.Search, n: 1}
	require.NoError(t, pt.AddListener(stopper))
	require.NoError(t, pt.Start(pt))

	for _, r := range pt.Replicas() {
		_, _, _, ok := r.CurrentSolution()
		assert.True(t, ok)
	}
}

// swapRateObserver resets a frozen two-replica ParallelTempering to the
// same pair of starting solutions after every odd-numbered step, and
// records whether that step's swap phase exchanged them, turning a long
// run into a series of independent repeated trials of the same single
// swap decision. Even-numbered steps use pair base 1, which has no pair
// among two replicas, so they attempt no swap and are not recorded.
type swapRateObserver struct {
	search.NoOpListener[*subset.Solution]
	cold, hot           *search.Search[*subset.Solution]
	coldStart, hotStart *subset.Solution
	outcomes            []float64
}

func (o *swapRateObserver) StepCompleted(_ *search.Search[*subset.Solution], steps int64) {
	if steps%2 == 0 {
		return
	}
	_, coldEval, _, _ := o.cold.CurrentSolution()
	if coldEval.Value() != mustEvaluate(o.coldStart) {
		o.outcomes = append(o.outcomes, 1)
	} else {
		o.outcomes = append(o.outcomes, 0)
	}
	must(o.cold.SetCurrentSolution(o.coldStart))
	must(o.hot.SetCurrentSolution(o.hotStart))
}

func mustEvaluate(s *subset.Solution) float64 {
	sum := 0
	for _, id := range s.SelectedIDsOrdered() {
		sum += int(id)
	}
	return float64(sum)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// TestParallelTemperingSwapRateConvergesToTheClosedFormProbability is
// spec.md §8's statistical swap-acceptance property: when delta < 0 the
// empirical swap rate over many independent trials of the same decision
// converges to exp((1/Tcold - 1/Thot) * delta) within statistical
// tolerance. Each replica's own per-step move is frozen with
// noMoveNeighbourhood, isolating the swap phase, and the pair is reset to
// the same starting solutions before every trial so the draws are i.i.d.
func TestParallelTemperingSwapRateConvergesToTheClosedFormProbability(t *testing.T) {
	u := universe(10)
	p := newSumProblem(t, true, u) // minimizing
	nh := noMoveNeighbourhood{}

	const tCold, tHot = 2.0, 6.0
	pt, err := algo.NewParallelTempering[*subset.Solution](p, nh, 2, tCold, tHot, nil, 0)
	require.NoError(t, err)
	require.NoError(t, pt.SetRNG(seededRNG(99)))

	cold, hot := pt.Replicas()[0], pt.Replicas()[1]
	coldStart := selection(u, 0, 1, 2) // sum 3, the colder replica's own energy
	hotStart := selection(u, 0, 1, 4)  // sum 5, worse for the colder replica to inherit
	require.NoError(t, cold.SetCurrentSolution(coldStart))
	require.NoError(t, hot.SetCurrentSolution(hotStart))

	delta := (1/tCold - 1/tHot) * (mustEvaluate(coldStart) - mustEvaluate(hotStart))
	require.Less(t, delta, 0.0, "the trial must exercise the probabilistic branch of the swap rule")
	wantP := math.Exp(delta)

	observer := &swapRateObserver{cold: cold.Search, hot: hot.Search, coldStart: coldStart, hotStart: hotStart}
	require.NoError(t, pt.AddListener(observer))

	const trials = 4000
	// Only every other global step considers the pair, so the run takes
	// twice as many steps as there are trials.
	stopper := &stopAfterSteps[*subset.Solution]{s: pt.Search, n: 2 * trials}
	require.NoError(t, pt.AddListener(stopper))
	require.NoError(t, pt.Start(pt))

	require.Len(t, observer.outcomes, trials)
	gotP := stat.Mean(observer.outcomes, nil)
	sd := stat.StdDev(observer.outcomes, nil)
	tolerance := 6 * sd / math.Sqrt(float64(trials))

	assert.InDelta(t, wantP, gotP, tolerance, "empirical swap rate must converge to exp((1/Tcold-1/Thot)*delta)")
}

var _ search.Algorithm[*subset.Solution] = (*algo.ParallelTempering[*subset.Solution])(nil)
