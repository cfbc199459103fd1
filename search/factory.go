package search

// SearchFactory constructs a Search-driving Algorithm bound to problem.
// Embedding applications that want to build a fresh algorithm instance
// per run (e.g. one per BasicParallelSearch member) implement this
// instead of hand-threading constructor arguments through call sites.
type SearchFactory[S Solution[S]] func(problem *Problem[S]) (*Search[S], Algorithm[S])

// LocalSearchFactory tightens SearchFactory's return type to a
// NeighbourhoodSearch-based algorithm, the common case for every
// algorithm in package algo.
type LocalSearchFactory[S Solution[S]] func(problem *Problem[S]) (*NeighbourhoodSearch[S], Algorithm[S])
