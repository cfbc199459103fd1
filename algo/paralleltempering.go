package algo

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/trajectory/errs"
	"github.com/elektrokombinacija/trajectory/search"
)

// ReplicaFactory builds one temperature replica for NewParallelTempering.
// The default, used when the caller passes nil, is NewMetropolisSearch
// with the shared problem and neighbourhood; a custom factory lets the
// caller swap in a differently-configured MetropolisSearch per replica
// (spec.md §4.8's "optional replica factory").
type ReplicaFactory[S search.Solution[S]] func(problem *search.Problem[S], nh search.Neighbourhood[S], temperature float64) (*MetropolisSearch[S], error)

// DefaultReplicaSteps is the per-replica step budget spec.md §4.8 names
// when the caller doesn't supply a custom one.
const DefaultReplicaSteps = 500

// ParallelTempering runs N MetropolisSearch replicas at temperatures
// evenly spaced between Tmin and Tmax, evolving them concurrently and
// periodically exchanging solutions between adjacent-temperature
// replicas (spec.md §5, detailed in §4.8). It is itself an Algorithm
// over a parent Search whose best-so-far accumulates the best solution
// any replica ever visits — each replica reports into it via
// ReportExternalBest as soon as it beats its own prior best.
type ParallelTempering[S search.Solution[S]] struct {
	*search.Search[S]
	replicas     []*MetropolisSearch[S]
	replicaSteps int64
	base         bool
}

// bestForwarder relays a replica's NewBestSolution events into the
// parent Search's best-so-far accounting.
type bestForwarder[S search.Solution[S]] struct {
	search.NoOpListener[S]
	parent *search.Search[S]
}

func (f *bestForwarder[S]) NewBestSolution(_ *search.Search[S], sol S, eval search.Evaluation, val search.Validation) {
	f.parent.ReportExternalBest(sol, eval, val)
}

// NewParallelTempering returns a ParallelTempering with n replicas at
// temperatures Tmin, Tmin + step, ..., Tmax. n must be >= 1 and both
// temperatures positive; n > 1 requires Tmin < Tmax, and n == 1 requires
// Tmin == Tmax (a single fixed-temperature replica). factory may be nil, defaulting to
// NewMetropolisSearch; replicaSteps may be <= 0, defaulting to
// DefaultReplicaSteps.
func NewParallelTempering[S search.Solution[S]](problem *search.Problem[S], nh search.Neighbourhood[S], n int, tmin, tmax float64, factory ReplicaFactory[S], replicaSteps int64) (*ParallelTempering[S], error) {
	if n < 1 {
		return nil, &errs.ConfigurationError{Component: "ParallelTempering", Field: "N", Reason: "must be >= 1"}
	}
	if tmin <= 0 || tmax <= 0 || tmin > tmax {
		return nil, &errs.ConfigurationError{Component: "ParallelTempering", Field: "Tmin,Tmax", Reason: "require 0 < Tmin <= Tmax"}
	}
	if n == 1 && tmin != tmax {
		return nil, &errs.ConfigurationError{Component: "ParallelTempering", Field: "N", Reason: "N == 1 requires Tmin == Tmax"}
	}
	if n > 1 && tmin == tmax {
		return nil, &errs.ConfigurationError{Component: "ParallelTempering", Field: "Tmin,Tmax", Reason: "N > 1 requires Tmin < Tmax"}
	}
	if factory == nil {
		factory = NewMetropolisSearch[S]
	}
	if replicaSteps <= 0 {
		replicaSteps = DefaultReplicaSteps
	}

	parent := search.New(problem, nil)
	pt := &ParallelTempering[S]{Search: parent, replicaSteps: replicaSteps}

	for i := 0; i < n; i++ {
		temp := tmin
		if n > 1 {
			temp = tmin + float64(i)*(tmax-tmin)/float64(n-1)
		}
		replica, err := factory(problem, nh, temp)
		if err != nil {
			return nil, err
		}
		if err := replica.Search.AddListener(&bestForwarder[S]{parent: parent}); err != nil {
			return nil, err
		}
		pt.replicas = append(pt.replicas, replica)
	}
	return pt, nil
}

// ReplicaSteps returns the per-replica step budget each global Step
// runs before attempting a swap.
func (pt *ParallelTempering[S]) ReplicaSteps() int64 { return pt.replicaSteps }

// Replicas exposes the underlying per-temperature MetropolisSearches, for
// introspection (e.g. a metrics listener that wants per-replica gauges).
func (pt *ParallelTempering[S]) Replicas() []*MetropolisSearch[S] { return pt.replicas }

// Init seeds every replica with an independent random solution from the
// shared problem, unless the caller already populated one via
// replica.Search.SetCurrentSolution.
func (pt *ParallelTempering[S]) Init(s *search.Search[S]) error {
	for _, r := range pt.replicas {
		if _, _, _, ok := r.CurrentSolution(); ok {
			continue
		}
		if err := r.Search.SetCurrentSolution(pt.Problem().CreateRandom(s.RNG())); err != nil {
			return err
		}
	}
	return nil
}

// Step runs each replica's own internal loop concurrently — up to
// replicaSteps Metropolis steps, stopping early if a replica's
// neighbourhood is exhausted — then attempts one exchange per adjacent
// replica pair, alternating which parity of pairs is considered each
// call so that every boundary gets a chance to exchange over time. It
// never reports algorithm-internal termination; the caller's
// StopCriterion or Stop() ends the run.
func (pt *ParallelTempering[S]) Step(s *search.Search[S]) (bool, error) {
	var g errgroup.Group
	for _, r := range pt.replicas {
		r := r
		g.Go(func() error {
			for i := int64(0); i < pt.replicaSteps; i++ {
				stop, err := r.Step(r.Search)
				if err != nil {
					return err
				}
				if stop {
					break
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, &errs.SearchException{Stage: "ParallelTempering.Step", Cause: err}
	}

	start := 0
	if pt.base {
		start = 1
	}
	pt.base = !pt.base

	minimizing := pt.Problem().IsMinimizing()
	for i := start; i+1 < len(pt.replicas); i += 2 {
		pt.maybeSwap(s, i, i+1, minimizing)
	}
	return false, nil
}

func effectiveEnergy(minimizing bool, eval search.Evaluation) float64 {
	if minimizing {
		return eval.Value()
	}
	return -eval.Value()
}

// Dispose disposes every replica's Search along with the parent's own.
func (pt *ParallelTempering[S]) Dispose() error {
	for _, r := range pt.replicas {
		if err := r.Search.Dispose(); err != nil {
			return err
		}
	}
	return pt.Search.Dispose()
}

func (pt *ParallelTempering[S]) maybeSwap(s *search.Search[S], i, j int, minimizing bool) {
	ri, rj := pt.replicas[i], pt.replicas[j]
	_, evalI, _, okI := ri.CurrentSolution()
	_, evalJ, _, okJ := rj.CurrentSolution()
	if !okI || !okJ {
		return
	}
	ei, ej := effectiveEnergy(minimizing, evalI), effectiveEnergy(minimizing, evalJ)
	delta := (1/ri.Temperature - 1/rj.Temperature) * (ei - ej)
	if delta >= 0 || s.RNG().Float64() < math.Exp(delta) {
		ri.Search.SwapCurrentState(rj.Search)
	}
}
