package search

// Solution is the contract every candidate-answer type must satisfy to be
// driven by this module's algorithms. S is the concrete solution type
// itself (the usual Go self-referencing generic idiom), so Copy and
// Equals are typed precisely instead of returning the Solution interface.
//
// Invariant: for every s of type S, s.Copy() == s (by Equals) and
// mutating the copy must never observably change s.
type Solution[S any] interface {
	// Copy returns an independent deep copy. Mutating the result must
	// never mutate the receiver.
	Copy() S

	// Equals reports content equality, not identity.
	Equals(other S) bool

	// Hash returns a stable hash consistent with Equals: equal solutions
	// hash equally. Used by set-based tabu memories and test helpers.
	Hash() uint64

	// String renders the solution for logs and diagnostics.
	String() string
}
