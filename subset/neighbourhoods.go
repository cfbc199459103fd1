package subset

import (
	"math/rand"

	"github.com/elektrokombinacija/trajectory/search"
)

// Filter excludes a set of IDs from ever being considered for addition,
// deletion or swap by any neighbourhood in this package.
type Filter struct {
	Fixed map[ID]struct{}
}

func (f Filter) excluded(id ID) bool {
	if f.Fixed == nil {
		return false
	}
	_, ok := f.Fixed[id]
	return ok
}

func eligible(ids []ID, f Filter) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if !f.excluded(id) {
			out = append(out, id)
		}
	}
	return out
}

// boundsOK reports whether size n lies within [min, max]. max <= 0 means
// unbounded.
func boundsOK(n, min, max int) bool {
	if n < min {
		return false
	}
	if max > 0 && n > max {
		return false
	}
	return true
}

// SingleAddition selects one unselected, non-fixed ID, provided the
// resulting size does not exceed MaxSize (MaxSize <= 0 means unbounded).
type SingleAddition struct {
	MinSize, MaxSize int
	Filter           Filter
}

func (n SingleAddition) candidates(s *Solution) []ID {
	if !boundsOK(s.Size()+1, n.MinSize, n.MaxSize) {
		return nil
	}
	return eligible(s.UnselectedIDsOrdered(), n.Filter)
}

func (n SingleAddition) AllMoves(s *Solution) []search.Move[*Solution] {
	cands := n.candidates(s)
	moves := make([]search.Move[*Solution], 0, len(cands))
	for _, id := range cands {
		moves = append(moves, AdditionMove{Add: id})
	}
	return moves
}

func (n SingleAddition) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	cands := n.candidates(s)
	if len(cands) == 0 {
		return nil, false
	}
	return AdditionMove{Add: uniformElement(cands, rng)}, true
}

// SingleDeletion deselects one selected, non-fixed ID, provided the
// resulting size does not fall below MinSize.
type SingleDeletion struct {
	MinSize, MaxSize int
	Filter           Filter
}

func (n SingleDeletion) candidates(s *Solution) []ID {
	if !boundsOK(s.Size()-1, n.MinSize, n.MaxSize) {
		return nil
	}
	return eligible(s.SelectedIDsOrdered(), n.Filter)
}

func (n SingleDeletion) AllMoves(s *Solution) []search.Move[*Solution] {
	cands := n.candidates(s)
	moves := make([]search.Move[*Solution], 0, len(cands))
	for _, id := range cands {
		moves = append(moves, DeletionMove{Del: id})
	}
	return moves
}

func (n SingleDeletion) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	cands := n.candidates(s)
	if len(cands) == 0 {
		return nil, false
	}
	return DeletionMove{Del: uniformElement(cands, rng)}, true
}

// SingleSwap considers every (add, del) pair of non-fixed IDs. Only
// meaningful for fixed-size subsets, since a swap never changes size.
type SingleSwap struct {
	Filter Filter
}

func (n SingleSwap) candidateSets(s *Solution) (adds, dels []ID) {
	return eligible(s.UnselectedIDsOrdered(), n.Filter), eligible(s.SelectedIDsOrdered(), n.Filter)
}

func (n SingleSwap) AllMoves(s *Solution) []search.Move[*Solution] {
	adds, dels := n.candidateSets(s)
	moves := make([]search.Move[*Solution], 0, len(adds)*len(dels))
	for _, a := range adds {
		for _, d := range dels {
			moves = append(moves, SwapMove{Add: a, Del: d})
		}
	}
	return moves
}

func (n SingleSwap) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	adds, dels := n.candidateSets(s)
	if len(adds) == 0 || len(dels) == 0 {
		return nil, false
	}
	return SwapMove{Add: uniformElement(adds, rng), Del: uniformElement(dels, rng)}, true
}

// SinglePerturbation is the union of SingleAddition, SingleDeletion and
// SingleSwap, restricted to moves whose resulting size stays within
// [MinSize, MaxSize]. RandomMove first determines which of the three
// kinds currently has a non-empty candidate set, picks a kind uniformly
// among those, then picks a uniform candidate within that kind.
type SinglePerturbation struct {
	MinSize, MaxSize int
	Filter           Filter
}

func (n SinglePerturbation) addition() SingleAddition { return SingleAddition{n.MinSize, n.MaxSize, n.Filter} }
func (n SinglePerturbation) deletion() SingleDeletion { return SingleDeletion{n.MinSize, n.MaxSize, n.Filter} }
func (n SinglePerturbation) swap() SingleSwap         { return SingleSwap{n.Filter} }

func (n SinglePerturbation) AllMoves(s *Solution) []search.Move[*Solution] {
	var moves []search.Move[*Solution]
	moves = append(moves, n.addition().AllMoves(s)...)
	moves = append(moves, n.deletion().AllMoves(s)...)
	moves = append(moves, n.swap().AllMoves(s)...)
	return moves
}

func (n SinglePerturbation) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	type kind struct {
		pick func() (search.Move[*Solution], bool)
	}
	var kinds []kind
	if cands := n.addition().candidates(s); len(cands) > 0 {
		kinds = append(kinds, kind{func() (search.Move[*Solution], bool) { return n.addition().RandomMove(s, rng) }})
	}
	if cands := n.deletion().candidates(s); len(cands) > 0 {
		kinds = append(kinds, kind{func() (search.Move[*Solution], bool) { return n.deletion().RandomMove(s, rng) }})
	}
	if adds, dels := n.swap().candidateSets(s); len(adds) > 0 && len(dels) > 0 {
		kinds = append(kinds, kind{func() (search.Move[*Solution], bool) { return n.swap().RandomMove(s, rng) }})
	}
	if len(kinds) == 0 {
		return nil, false
	}
	return kinds[rng.Intn(len(kinds))].pick()
}

// MultiAddition performs K independent SingleAddition moves in one step,
// aggregated into a GeneralSubsetMove.
type MultiAddition struct {
	K                int
	MinSize, MaxSize int
	Filter           Filter
}

func (n MultiAddition) candidates(s *Solution) []ID {
	if !boundsOK(s.Size()+n.K, n.MinSize, n.MaxSize) {
		return nil
	}
	return eligible(s.UnselectedIDsOrdered(), n.Filter)
}

func (n MultiAddition) AllMoves(s *Solution) []search.Move[*Solution] {
	cands := n.candidates(s)
	if len(cands) < n.K {
		return nil
	}
	var moves []search.Move[*Solution]
	forEachCombination(cands, n.K, func(combo []ID) {
		moves = append(moves, GeneralSubsetMove{AddSet: append([]ID(nil), combo...)})
	})
	return moves
}

func (n MultiAddition) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	cands := n.candidates(s)
	if len(cands) < n.K {
		return nil, false
	}
	return GeneralSubsetMove{AddSet: reservoirSample(cands, n.K, rng)}, true
}

// MultiDeletion performs K independent SingleDeletion moves in one step.
type MultiDeletion struct {
	K                int
	MinSize, MaxSize int
	Filter           Filter
}

func (n MultiDeletion) candidates(s *Solution) []ID {
	if !boundsOK(s.Size()-n.K, n.MinSize, n.MaxSize) {
		return nil
	}
	return eligible(s.SelectedIDsOrdered(), n.Filter)
}

func (n MultiDeletion) AllMoves(s *Solution) []search.Move[*Solution] {
	cands := n.candidates(s)
	if len(cands) < n.K {
		return nil
	}
	var moves []search.Move[*Solution]
	forEachCombination(cands, n.K, func(combo []ID) {
		moves = append(moves, GeneralSubsetMove{DelSet: append([]ID(nil), combo...)})
	})
	return moves
}

func (n MultiDeletion) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	cands := n.candidates(s)
	if len(cands) < n.K {
		return nil, false
	}
	return GeneralSubsetMove{DelSet: reservoirSample(cands, n.K, rng)}, true
}

// MultiSwap performs K independent SingleSwap moves in one step.
type MultiSwap struct {
	K      int
	Filter Filter
}

func (n MultiSwap) candidateSets(s *Solution) (adds, dels []ID) {
	return eligible(s.UnselectedIDsOrdered(), n.Filter), eligible(s.SelectedIDsOrdered(), n.Filter)
}

func (n MultiSwap) AllMoves(s *Solution) []search.Move[*Solution] {
	adds, dels := n.candidateSets(s)
	if len(adds) < n.K || len(dels) < n.K {
		return nil
	}
	var moves []search.Move[*Solution]
	forEachCombination(adds, n.K, func(addCombo []ID) {
		forEachCombination(dels, n.K, func(delCombo []ID) {
			moves = append(moves, GeneralSubsetMove{
				AddSet: append([]ID(nil), addCombo...),
				DelSet: append([]ID(nil), delCombo...),
			})
		})
	})
	return moves
}

func (n MultiSwap) RandomMove(s *Solution, rng *rand.Rand) (search.Move[*Solution], bool) {
	adds, dels := n.candidateSets(s)
	if len(adds) < n.K || len(dels) < n.K {
		return nil, false
	}
	return GeneralSubsetMove{
		AddSet: reservoirSample(adds, n.K, rng),
		DelSet: reservoirSample(dels, n.K, rng),
	}, true
}

// forEachCombination invokes fn once per k-combination of ids, in
// lexicographic order over the supplied slice.
func forEachCombination(ids []ID, k int, fn func(combo []ID)) {
	n := len(ids)
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	combo := make([]ID, k)
	for {
		for i, j := range idx {
			combo[i] = ids[j]
		}
		fn(combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
