package subset

import (
	"github.com/elektrokombinacija/trajectory/search"
)

// IDSetTabuMemory is the subset-specific tabu memory variant of
// spec.md §4.7(b): a FIFO of recently added/removed IDs. A move is tabu
// if any ID it would move between the two sets was itself moved within
// the last Capacity accepted moves.
type IDSetTabuMemory struct {
	Capacity int
	recent   []ID
	index    map[ID]struct{}
}

// NewIDSetTabuMemory returns an empty memory of the given capacity.
func NewIDSetTabuMemory(capacity int) *IDSetTabuMemory {
	return &IDSetTabuMemory{Capacity: capacity, index: make(map[ID]struct{})}
}

func movedIDs(move search.Move[*Solution]) []ID {
	switch m := move.(type) {
	case AdditionMove:
		return []ID{m.Add}
	case DeletionMove:
		return []ID{m.Del}
	case SwapMove:
		return []ID{m.Add, m.Del}
	case GeneralSubsetMove:
		out := make([]ID, 0, len(m.AddSet)+len(m.DelSet))
		out = append(out, m.AddSet...)
		out = append(out, m.DelSet...)
		return out
	default:
		return nil
	}
}

// IsTabu reports whether any ID the move touches was moved within the
// memory's recent window.
func (t *IDSetTabuMemory) IsTabu(move search.Move[*Solution], cur *Solution) bool {
	for _, id := range movedIDs(move) {
		if _, tabu := t.index[id]; tabu {
			return true
		}
	}
	return false
}

// RememberAccepted records the IDs touched by an accepted move, evicting
// the oldest entries once Capacity is exceeded.
func (t *IDSetTabuMemory) RememberAccepted(move search.Move[*Solution], newSolution *Solution) {
	for _, id := range movedIDs(move) {
		t.recent = append(t.recent, id)
		t.index[id] = struct{}{}
	}
	for len(t.recent) > t.Capacity {
		evicted := t.recent[0]
		t.recent = t.recent[1:]
		stillPresent := false
		for _, id := range t.recent {
			if id == evicted {
				stillPresent = true
				break
			}
		}
		if !stillPresent {
			delete(t.index, evicted)
		}
	}
}
