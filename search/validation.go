package search

// Validation answers "did the solution pass its constraints?". It is
// immutable once returned to the search engine.
type Validation interface {
	Passed() bool
}

// SimpleValidation is the constant PASSED / FAILED variant.
type SimpleValidation bool

func (v SimpleValidation) Passed() bool { return bool(v) }

const (
	Passed SimpleValidation = true
	Failed SimpleValidation = false
)

// UnanimousValidation aggregates the sub-validations of several
// constraints. Passed() reports true iff every recorded sub-validation
// passed. The mapping may be partial: the Problem short-circuits on the
// first failing constraint and never records the remainder.
type UnanimousValidation struct {
	order []any
	subs  map[any]Validation
}

// NewUnanimousValidation returns an empty aggregate ready to be built up
// by Record during a short-circuiting scan.
func NewUnanimousValidation() *UnanimousValidation {
	return &UnanimousValidation{subs: make(map[any]Validation)}
}

// Record appends constraintID's sub-validation. constraintID is typically
// the constraint's own pointer identity, used later by SubValidation to
// recover a prior result without recomputation.
func (v *UnanimousValidation) Record(constraintID any, sub Validation) {
	if _, exists := v.subs[constraintID]; !exists {
		v.order = append(v.order, constraintID)
	}
	v.subs[constraintID] = sub
}

// SubValidation returns the previously recorded sub-validation for
// constraintID, if any. Absence means the constraint was never reached
// because an earlier constraint in the mandatory list failed first.
func (v *UnanimousValidation) SubValidation(constraintID any) (Validation, bool) {
	sub, ok := v.subs[constraintID]
	return sub, ok
}

// Passed reports true iff every recorded sub-validation passed. An
// aggregate built by short-circuiting scan is, by construction, PASSED
// only when it recorded every constraint and all of them passed.
func (v *UnanimousValidation) Passed() bool {
	for _, id := range v.order {
		if !v.subs[id].Passed() {
			return false
		}
	}
	return true
}

// PenalizingValidation strengthens Validation with a non-negative penalty
// magnitude: a solution may fail the underlying constraint (Passed()
// false) while still contributing a penalty, or it may pass with a zero
// penalty — concrete constraints decide.
type PenalizingValidation struct {
	OK      bool
	Penalty float64
}

func (v PenalizingValidation) Passed() bool { return v.OK }

// SubsetValidation pairs a size-feasibility validation with a
// constraint-feasibility validation; the aggregate passes iff both pass.
type SubsetValidation struct {
	SizeValid             Validation
	ConstraintValidation  Validation
}

func (v SubsetValidation) Passed() bool {
	return v.SizeValid.Passed() && v.ConstraintValidation.Passed()
}
