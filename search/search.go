package search

import (
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/trajectory/errs"
)

// Invalid is the sentinel returned by counters that have no meaningful
// value yet (before the first step completes).
const Invalid int64 = -1

// InvalidDuration is the sentinel returned by duration-valued counters
// that have no meaningful value yet.
const InvalidDuration time.Duration = -1

// Algorithm is the abstract skeleton every concrete search algorithm
// implements. Init runs once during INITIALIZING, before the base Search
// checks for a current solution: if neither the caller (via
// SetCurrentSolution) nor Init installed one, a random one is then
// created via the Problem. The status is INITIALIZING while Init runs, so
// IDLE-only calls such as SetCurrentSolution are refused there. Step runs once
// per loop iteration; stop == true signals an algorithm-internal
// termination (a local optimum, an exhausted neighbourhood, a converged
// construction) distinct from an externally polled StopCriterion.
type Algorithm[S Solution[S]] interface {
	Init(s *Search[S]) error
	Step(s *Search[S]) (stop bool, err error)
}

// Search is the base lifecycle engine shared by every algorithm in this
// module: the IDLE -> INITIALIZING -> RUNNING -> TERMINATING -> IDLE
// state machine, stop-criterion polling, listener dispatch and
// best-so-far accounting (spec.md §4.4).
type Search[S Solution[S]] struct {
	ID      uuid.UUID
	Logger  *slog.Logger
	problem *Problem[S]
	rng     *rand.Rand

	statusMu sync.Mutex
	status   Status

	hasCurrent  bool
	current     S
	currentEval Evaluation
	currentVal  Validation

	bestMu   sync.Mutex
	hasBest  bool
	best     S
	bestEval Evaluation
	bestVal  Validation

	totalSteps int64
	accepted   int64
	rejected   int64

	minStepTime int64 // nanoseconds, atomic
	maxStepTime int64 // nanoseconds, atomic

	startTime time.Time

	stepsSinceImprovement int64
	lastImprovementTime   time.Time
	lastImprovementDelta  float64
	haveImprovement       bool

	listeners     multiListener[S]
	checker       *StopCriterionChecker[S]
	stopRequested atomic.Bool
}

// New returns a Search bound to problem. checker may be nil, in which
// case a checker with no criteria is installed (the loop never stops on
// its own; rely on Algorithm.Step returning stop == true or an explicit
// Stop() call).
func New[S Solution[S]](problem *Problem[S], checker *StopCriterionChecker[S]) *Search[S] {
	if checker == nil {
		checker = NewStopCriterionChecker[S](DefaultCheckInterval)
	}
	return &Search[S]{
		ID:          uuid.New(),
		problem:     problem,
		rng:         NewRNG(),
		status:      Idle,
		checker:     checker,
		minStepTime: int64(InvalidDuration),
		maxStepTime: int64(InvalidDuration),
	}
}

// Problem returns the bound problem.
func (s *Search[S]) Problem() *Problem[S] { return s.problem }

// Status returns the current lifecycle status, synchronised against
// concurrent transitions.
func (s *Search[S]) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

func (s *Search[S]) transition(to Status) error {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if !transitionAllowed(s.status, to) {
		return &errs.StatusError{Operation: "transition to " + to.String(), Required: "a state reachable from " + s.status.String(), Actual: s.status.String()}
	}
	s.status = to
	return nil
}

func (s *Search[S]) requireStatus(op string, want Status) error {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if s.status != want {
		return &errs.StatusError{Operation: op, Required: want.String(), Actual: s.status.String()}
	}
	return nil
}

// SetRNG installs rng as this Search's generator. Only permitted while
// IDLE.
func (s *Search[S]) SetRNG(rng *rand.Rand) error {
	if err := s.requireStatus("SetRNG", Idle); err != nil {
		return err
	}
	s.rng = rng
	return nil
}

// RNG returns this Search's generator.
func (s *Search[S]) RNG() *rand.Rand { return s.rng }

// AddListener registers l. Only permitted while IDLE.
func (s *Search[S]) AddListener(l SearchListener[S]) error {
	if err := s.requireStatus("AddListener", Idle); err != nil {
		return err
	}
	s.listeners.add(l)
	return nil
}

// SetCurrentSolution installs a copy of sol as the current solution,
// computing its full evaluation and validation, and updates best-so-far
// if sol is valid and better. Only permitted while IDLE.
func (s *Search[S]) SetCurrentSolution(sol S) error {
	if err := s.requireStatus("SetCurrentSolution", Idle); err != nil {
		return err
	}
	s.installCurrent(sol.Copy())
	return nil
}

func (s *Search[S]) installCurrent(sol S) {
	val := s.problem.Validate(sol)
	eval := s.problem.Evaluate(sol)
	s.current = sol
	s.currentEval = eval
	s.currentVal = val
	s.hasCurrent = true
	s.considerBest(sol, eval, val)
}

// CurrentSolution returns a copy of the current solution together with
// its evaluation and validation, and whether one exists yet.
func (s *Search[S]) CurrentSolution() (sol S, eval Evaluation, val Validation, ok bool) {
	if !s.hasCurrent {
		return sol, nil, nil, false
	}
	return s.current.Copy(), s.currentEval, s.currentVal, true
}

// BestSolution returns a copy of the best-so-far solution together with
// its evaluation and validation, and whether one has been observed yet.
func (s *Search[S]) BestSolution() (sol S, eval Evaluation, val Validation, ok bool) {
	s.bestMu.Lock()
	defer s.bestMu.Unlock()
	if !s.hasBest {
		return sol, nil, nil, false
	}
	return s.best.Copy(), s.bestEval, s.bestVal, true
}

// BestEvaluation returns the best-so-far evaluation, if any.
func (s *Search[S]) BestEvaluation() (Evaluation, bool) {
	s.bestMu.Lock()
	defer s.bestMu.Unlock()
	if !s.hasBest {
		return nil, false
	}
	return s.bestEval, true
}

// considerBest implements spec.md §4.4's best-solution accounting: a
// valid candidate strictly better than the current best (or any valid
// candidate, if no best is set yet) replaces best with a copy and fires
// NewBestSolution. Ties never replace. Safe to call from any goroutine;
// ParallelTempering's replica listeners call this under the same lock
// that guards the parent's best-so-far, per spec.md §5.
func (s *Search[S]) considerBest(sol S, eval Evaluation, val Validation) {
	if !val.Passed() {
		return
	}
	s.bestMu.Lock()
	replace := !s.hasBest || Better(s.problem.IsMinimizing(), eval, s.bestEval)
	var delta float64
	if s.hasBest {
		delta = Delta(s.problem.IsMinimizing(), eval, s.bestEval)
	}
	if replace {
		s.best = sol.Copy()
		s.bestEval = eval
		s.bestVal = val
		s.hasBest = true
	}
	s.bestMu.Unlock()
	if replace {
		atomic.StoreInt64(&s.stepsSinceImprovement, 0)
		s.lastImprovementTime = time.Now()
		s.lastImprovementDelta = delta
		s.haveImprovement = true
		s.listeners.newBestSolution(s, sol, eval, val)
	}
}

// Dispose transitions the Search to DISPOSED, its terminal state; it is
// permitted from any status except RUNNING. A disposed Search cannot be
// Start-ed again, and disposing it twice returns a StatusError.
func (s *Search[S]) Dispose() error {
	return s.transition(Disposed)
}

// SwapCurrentState exchanges the current solution, evaluation and
// validation with other's in place, without recomputing either. It is
// the mechanism ParallelTempering's replica-exchange phase (spec.md §5)
// uses to move a solution between adjacent-temperature replicas at zero
// evaluation cost. Callers are responsible for ensuring neither Search is
// concurrently stepping.
func (s *Search[S]) SwapCurrentState(other *Search[S]) {
	s.current, other.current = other.current, s.current
	s.currentEval, other.currentEval = other.currentEval, s.currentEval
	s.currentVal, other.currentVal = other.currentVal, s.currentVal
}

// ReportExternalBest lets a cooperating Search (ParallelTempering's
// replicas, spec.md §5) feed a candidate into this Search's best-so-far
// accounting without going through its own current-solution/step loop.
// It is exactly considerBest made safe to call from any goroutine at any
// lifecycle stage.
func (s *Search[S]) ReportExternalBest(sol S, eval Evaluation, val Validation) {
	s.considerBest(sol, eval, val)
}

// updateCurrent replaces the current solution handle, firing
// NewCurrentSolution.
func (s *Search[S]) updateCurrent(sol S, eval Evaluation, val Validation) {
	s.current = sol
	s.currentEval = eval
	s.currentVal = val
	s.hasCurrent = true
	s.listeners.newCurrentSolution(s, sol, eval, val)
}

// Stop requests cooperative termination. Idempotent and safe from any
// goroutine; the search is guaranteed to stop before its next searchStep
// begins. The flag is cleared when a run ends, so a Stop issued before
// Start takes effect at the top of that run's first iteration.
func (s *Search[S]) Stop() {
	s.stopRequested.Store(true)
}

// Start drives one full run: INITIALIZING (Algorithm.Init, then
// searchStarted), then loop { poll stop criteria and the cooperative Stop
// flag; if neither fired, run one Algorithm.Step; notify listeners;
// repeat } until a stop fires, Step reports stop == true, or Step returns
// an error. On any of these, the Search transitions to TERMINATING, fires
// searchStopped, and returns to IDLE.
func (s *Search[S]) Start(algo Algorithm[S]) error {
	if err := s.transition(Initializing); err != nil {
		return err
	}

	if err := algo.Init(s); err != nil {
		s.statusMu.Lock()
		s.status = Idle
		s.statusMu.Unlock()
		return &errs.SearchException{Stage: "Init", Cause: err}
	}
	if !s.hasCurrent {
		s.installCurrent(s.problem.CreateRandom(s.rng))
	}

	s.startTime = time.Now()
	s.checker.start(s)
	defer s.checker.stop()

	if err := s.transition(Running); err != nil {
		return err
	}
	s.listeners.searchStarted(s)

	var runErr error
	for {
		if s.checker.peek() || s.stopRequested.Load() {
			break
		}
		stepStart := time.Now()
		stop, err := algo.Step(s)
		elapsed := time.Since(stepStart)
		s.recordStepTime(elapsed)
		atomic.AddInt64(&s.totalSteps, 1)
		atomic.AddInt64(&s.stepsSinceImprovement, 1)
		if err != nil {
			runErr = asSearchException(err)
			break
		}
		s.listeners.stepCompleted(s, atomic.LoadInt64(&s.totalSteps))
		if stop {
			break
		}
	}
	s.stopRequested.Store(false)

	_ = s.transition(Terminating)
	s.listeners.searchStopped(s)
	_ = s.transition(Idle)
	return runErr
}

func asSearchException(err error) error {
	switch err.(type) {
	case *errs.IncompatibleDeltaError, *errs.SearchException:
		return err
	default:
		return &errs.SearchException{Stage: "Step", Cause: err}
	}
}

func (s *Search[S]) recordStepTime(d time.Duration) {
	nanos := int64(d)
	for {
		cur := atomic.LoadInt64(&s.minStepTime)
		if cur != int64(InvalidDuration) && cur <= nanos {
			break
		}
		if atomic.CompareAndSwapInt64(&s.minStepTime, cur, nanos) {
			break
		}
	}
	for {
		cur := atomic.LoadInt64(&s.maxStepTime)
		if cur != int64(InvalidDuration) && cur >= nanos {
			break
		}
		if atomic.CompareAndSwapInt64(&s.maxStepTime, cur, nanos) {
			break
		}
	}
}

// TotalSteps returns the number of completed steps, or Invalid before
// the first step completes.
func (s *Search[S]) TotalSteps() int64 {
	n := atomic.LoadInt64(&s.totalSteps)
	if n == 0 {
		return Invalid
	}
	return n
}

// Accepted returns the number of accepted moves.
func (s *Search[S]) Accepted() int64 { return atomic.LoadInt64(&s.accepted) }

// Rejected returns the number of rejected moves.
func (s *Search[S]) Rejected() int64 { return atomic.LoadInt64(&s.rejected) }

// MinStepTime returns the fastest observed step duration, or
// InvalidDuration before the first step completes.
func (s *Search[S]) MinStepTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&s.minStepTime))
}

// MaxStepTime returns the slowest observed step duration, or
// InvalidDuration before the first step completes.
func (s *Search[S]) MaxStepTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&s.maxStepTime))
}

// Runtime returns total wall-clock runtime since the current (or most
// recent) Start call.
func (s *Search[S]) Runtime() time.Duration {
	if s.startTime.IsZero() {
		return InvalidDuration
	}
	return time.Since(s.startTime)
}

// StepsSinceLastImprovement returns the number of steps completed since
// the last new best solution, or Invalid if no improvement has been
// observed yet.
func (s *Search[S]) StepsSinceLastImprovement() int64 {
	if !s.haveImprovement {
		return Invalid
	}
	return atomic.LoadInt64(&s.stepsSinceImprovement)
}

// TimeSinceLastImprovement returns the wall-clock time since the last new
// best solution, or InvalidDuration if no improvement has been observed
// yet.
func (s *Search[S]) TimeSinceLastImprovement() time.Duration {
	if !s.haveImprovement {
		return InvalidDuration
	}
	return time.Since(s.lastImprovementTime)
}

// LastImprovementDelta returns the magnitude of the most recent
// improvement (0 for the first best solution, which has nothing to
// improve on), or float64(Invalid), i.e. -1, if none has been observed
// yet.
func (s *Search[S]) LastImprovementDelta() float64 {
	if !s.haveImprovement {
		return float64(Invalid)
	}
	return s.lastImprovementDelta
}

func (s *Search[S]) incAccepted() { atomic.AddInt64(&s.accepted, 1) }
func (s *Search[S]) incRejected() { atomic.AddInt64(&s.rejected, 1) }
