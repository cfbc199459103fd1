package search

import "math/rand"

// Neighbourhood is a factory over moves applicable to a given solution.
//
// Invariant: RandomMove reports ok == false iff AllMoves(s) is empty for
// that solution. Moves returned by either method must be applicable to
// the solution they were generated for. Enumeration order in AllMoves is
// unspecified unless a concrete neighbourhood documents otherwise (the
// subset package's neighbourhoods document a stable insertion order).
type Neighbourhood[S Solution[S]] interface {
	RandomMove(s S, rng *rand.Rand) (Move[S], bool)
	AllMoves(s S) []Move[S]
}
