package search

import (
	"fmt"
	"math/rand"

	"github.com/elektrokombinacija/trajectory/errs"
)

// Problem composes problem data D with an Objective, mandatory and
// penalising constraint lists, and a RandomSolutionGenerator. It answers
// the four queries of spec.md §4.1, preferring delta variants and
// short-circuiting the mandatory-constraint scan on first failure.
type Problem[S Solution[S]] struct {
	Data       any
	Objective  Objective[S]
	Mandatory  []Constraint[S]
	Penalizing []PenalizingConstraint[S]
	Generator  RandomSolutionGenerator[S]
}

// NewProblem validates its collaborators and returns an assembled
// Problem. A nil Objective or Generator is a programmer error, signalled
// immediately as a *errs.ConfigurationError instead of deferred to first
// use.
func NewProblem[S Solution[S]](data any, objective Objective[S], mandatory []Constraint[S], penalizing []PenalizingConstraint[S], generator RandomSolutionGenerator[S]) (*Problem[S], error) {
	if objective == nil {
		return nil, &errs.ConfigurationError{Component: "Problem", Field: "Objective", Reason: "must not be nil"}
	}
	if generator == nil {
		return nil, &errs.ConfigurationError{Component: "Problem", Field: "Generator", Reason: "must not be nil"}
	}
	return &Problem[S]{Data: data, Objective: objective, Mandatory: mandatory, Penalizing: penalizing, Generator: generator}, nil
}

// CreateRandom delegates to the Generator.
func (p *Problem[S]) CreateRandom(rng *rand.Rand) S {
	return p.Generator.Create(rng, p.Data)
}

// IsMinimizing delegates to the Objective.
func (p *Problem[S]) IsMinimizing() bool {
	return p.Objective.IsMinimizing()
}

// Validate answers whether s satisfies every mandatory constraint,
// short-circuiting on the first failure.
func (p *Problem[S]) Validate(s S) Validation {
	switch len(p.Mandatory) {
	case 0:
		return Passed
	case 1:
		return p.Mandatory[0].Validate(s, p.Data)
	default:
		agg := NewUnanimousValidation()
		for _, c := range p.Mandatory {
			sub := c.Validate(s, p.Data)
			agg.Record(constraintID(c), sub)
			if !sub.Passed() {
				break
			}
		}
		return agg
	}
}

// ValidateDelta is the delta form of Validate. In the aggregate case, for
// each mandatory constraint it looks up the prior sub-validation in
// curVal; if absent (because curVal itself short-circuited before
// reaching that constraint), it first recomputes the constraint's full
// validation against curSol to obtain the prior value, then calls the
// constraint's ValidateDelta. It short-circuits on the first failure.
func (p *Problem[S]) ValidateDelta(move Move[S], curSol S, curVal Validation) (Validation, error) {
	switch len(p.Mandatory) {
	case 0:
		return Passed, nil
	case 1:
		return p.Mandatory[0].ValidateDelta(move, curSol, curVal, p.Data)
	default:
		prevAgg, _ := curVal.(*UnanimousValidation)
		agg := NewUnanimousValidation()
		for _, c := range p.Mandatory {
			id := constraintID(c)
			var prior Validation
			if prevAgg != nil {
				if sub, ok := prevAgg.SubValidation(id); ok {
					prior = sub
				}
			}
			if prior == nil {
				prior = c.Validate(curSol, p.Data)
			}
			sub, err := c.ValidateDelta(move, curSol, prior, p.Data)
			if err != nil {
				return nil, err
			}
			agg.Record(id, sub)
			if !sub.Passed() {
				break
			}
		}
		return agg, nil
	}
}

// Evaluate answers the numeric score of s, wrapping the Objective's base
// evaluation in a PenalizedEvaluation when penalising constraints exist.
func (p *Problem[S]) Evaluate(s S) Evaluation {
	base := p.Objective.Evaluate(s, p.Data)
	if len(p.Penalizing) == 0 {
		return base
	}
	penalties := make(map[any]PenalizingValidation, len(p.Penalizing))
	for _, pc := range p.Penalizing {
		penalties[constraintID(pc)] = pc.ValidatePenalizing(s, p.Data)
	}
	return PenalizedEvaluation{Base: base, Penalties: penalties, Minimizing: p.Objective.IsMinimizing()}
}

// EvaluateDelta is the delta form of Evaluate.
func (p *Problem[S]) EvaluateDelta(move Move[S], curSol S, curEval Evaluation) (Evaluation, error) {
	if len(p.Penalizing) == 0 {
		return p.Objective.EvaluateDelta(move, curSol, curEval, p.Data)
	}
	prevPen, _ := curEval.(PenalizedEvaluation)
	baseCur := curEval
	if prevPen.Base != nil {
		baseCur = prevPen.Base
	}
	newBase, err := p.Objective.EvaluateDelta(move, curSol, baseCur, p.Data)
	if err != nil {
		return nil, err
	}
	penalties := make(map[any]PenalizingValidation, len(p.Penalizing))
	for _, pc := range p.Penalizing {
		id := constraintID(pc)
		var prior PenalizingValidation
		if prevPen.Penalties != nil {
			if v, ok := prevPen.Penalties[id]; ok {
				prior = v
			} else {
				prior = pc.ValidatePenalizing(curSol, p.Data)
			}
		} else {
			prior = pc.ValidatePenalizing(curSol, p.Data)
		}
		updated, err := pc.ValidatePenalizingDelta(move, curSol, prior, p.Data)
		if err != nil {
			return nil, err
		}
		penalties[id] = updated
	}
	return PenalizedEvaluation{Base: newBase, Penalties: penalties, Minimizing: p.Objective.IsMinimizing()}, nil
}

// GetViolatedConstraints scans mandatory and penalising constraints and
// returns those whose Validate does not pass.
func (p *Problem[S]) GetViolatedConstraints(s S) []Constraint[S] {
	var violated []Constraint[S]
	for _, c := range p.Mandatory {
		if !c.Validate(s, p.Data).Passed() {
			violated = append(violated, c)
		}
	}
	for _, pc := range p.Penalizing {
		if !pc.Validate(s, p.Data).Passed() {
			violated = append(violated, pc)
		}
	}
	return violated
}

// constraintID derives a map key for a constraint from its %p
// formatting. For a pointer-shaped constraint that is its address, so
// each constraint instance gets its own key. A constraint held by value
// does not panic here, but its key is a formatted string of its contents,
// so two equal value-typed constraints share one key.
func constraintID[S Solution[S]](c Constraint[S]) any {
	return fmt.Sprintf("%p", c)
}
