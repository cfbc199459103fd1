// Package metrics provides a ready-made search.SearchListener implementation
// against github.com/prometheus/client_golang, so embedding applications get
// a dashboard-ready instrumentation point without hand-rolling one, the way
// jinterlante1206-AleutianLocal and scttfrdmn-agenkit-go instrument their own
// long-running loops.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elektrokombinacija/trajectory/search"
)

// PromListener records a Search's lifecycle events as Prometheus
// counters and gauges, labelled by the Search's UUID so multiple
// concurrently-instrumented runs (e.g. ParallelTempering replicas, or a
// BasicParallelSearch's stage bag) stay distinguishable in aggregate.
type PromListener[S search.Solution[S]] struct {
	search.NoOpListener[S]

	steps        *prometheus.CounterVec
	accepted     *prometheus.GaugeVec
	rejected     *prometheus.GaugeVec
	bestValue    *prometheus.GaugeVec
	stopChecks   *prometheus.CounterVec
	searchStarts *prometheus.CounterVec
	searchStops  *prometheus.CounterVec
}

// NewPromListener creates and registers the listener's metrics against
// reg. namespace/subsystem follow client_golang's usual naming
// convention (e.g. namespace="trajectory", subsystem="search").
func NewPromListener[S search.Solution[S]](reg prometheus.Registerer, namespace, subsystem string) (*PromListener[S], error) {
	l := &PromListener[S]{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "steps_total",
			Help: "Total number of completed search steps.",
		}, []string{"search_id"}),
		accepted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "accepted_total",
			Help: "Cumulative number of accepted moves.",
		}, []string{"search_id"}),
		rejected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "rejected_total",
			Help: "Cumulative number of rejected moves.",
		}, []string{"search_id"}),
		bestValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "best_value",
			Help: "Objective value of the best-so-far solution.",
		}, []string{"search_id"}),
		stopChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "stop_criterion_checks_total",
			Help: "Total number of stop-criterion poll cycles.",
		}, []string{"search_id"}),
		searchStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "starts_total",
			Help: "Total number of Start calls.",
		}, []string{"search_id"}),
		searchStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: "stops_total",
			Help: "Total number of completed Start calls.",
		}, []string{"search_id"}),
	}
	collectors := []prometheus.Collector{l.steps, l.accepted, l.rejected, l.bestValue, l.stopChecks, l.searchStarts, l.searchStops}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
		}
	}
	return l, nil
}

func (l *PromListener[S]) SearchStarted(s *search.Search[S]) {
	l.searchStarts.WithLabelValues(s.ID.String()).Inc()
}

func (l *PromListener[S]) SearchStopped(s *search.Search[S]) {
	l.searchStops.WithLabelValues(s.ID.String()).Inc()
}

func (l *PromListener[S]) NewBestSolution(s *search.Search[S], _ S, eval search.Evaluation, _ search.Validation) {
	l.bestValue.WithLabelValues(s.ID.String()).Set(eval.Value())
}

func (l *PromListener[S]) StepCompleted(s *search.Search[S], _ int64) {
	l.steps.WithLabelValues(s.ID.String()).Inc()
	l.accepted.WithLabelValues(s.ID.String()).Set(float64(s.Accepted()))
	l.rejected.WithLabelValues(s.ID.String()).Set(float64(s.Rejected()))
}

func (l *PromListener[S]) StopCriterionChecked(s *search.Search[S]) {
	l.stopChecks.WithLabelValues(s.ID.String()).Inc()
}
