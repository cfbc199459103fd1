// Package subset implements the subset-selection solution family used
// throughout the module's test scenarios and as the representative
// concrete Neighbourhood family spec.md §4.3 describes: items identified
// by unique integers, partitioned into a selected set and an unselected
// set.
package subset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elektrokombinacija/trajectory/errs"
)

// ID identifies an item in a subset universe.
type ID int

// Comparator imposes a total order on IDs. A nil Comparator means
// insertion order is used instead wherever ordering is observable.
type Comparator func(a, b ID) bool

// Solution carries three disjoint logical sets over the same universe:
// All, Selected and Unselected, with the invariants Selected ∩ Unselected
// = ∅ and Selected ∪ Unselected = All maintained after every operation.
type Solution struct {
	all        map[ID]struct{}
	selected   map[ID]struct{}
	unselected map[ID]struct{}
	order      []ID // insertion order over All, used when cmp == nil
	cmp        Comparator
}

// New returns a Solution over allIDs with every ID initially unselected.
// cmp may be nil for insertion-ordered iteration.
func New(allIDs []ID, cmp Comparator) *Solution {
	s := &Solution{
		all:        make(map[ID]struct{}, len(allIDs)),
		selected:   make(map[ID]struct{}),
		unselected: make(map[ID]struct{}, len(allIDs)),
		order:      append([]ID(nil), allIDs...),
		cmp:        cmp,
	}
	for _, id := range allIDs {
		s.all[id] = struct{}{}
		s.unselected[id] = struct{}{}
	}
	return s
}

// Copy returns an independent deep copy.
func (s *Solution) Copy() *Solution {
	c := &Solution{
		all:        make(map[ID]struct{}, len(s.all)),
		selected:   make(map[ID]struct{}, len(s.selected)),
		unselected: make(map[ID]struct{}, len(s.unselected)),
		order:      append([]ID(nil), s.order...),
		cmp:        s.cmp,
	}
	for id := range s.all {
		c.all[id] = struct{}{}
	}
	for id := range s.selected {
		c.selected[id] = struct{}{}
	}
	for id := range s.unselected {
		c.unselected[id] = struct{}{}
	}
	return c
}

// Equals reports content equality: same selected set (the unselected set
// and All are then necessarily equal too, given the partition invariant
// and a shared universe).
func (s *Solution) Equals(other *Solution) bool {
	if len(s.selected) != len(other.selected) {
		return false
	}
	for id := range s.selected {
		if _, ok := other.selected[id]; !ok {
			return false
		}
	}
	return true
}

// Hash is a stable hash over the selected set, consistent with Equals.
func (s *Solution) Hash() uint64 {
	ids := s.SelectedIDsOrdered()
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	for _, id := range ids {
		h ^= uint64(uint32(id))
		h *= 1099511628211
	}
	return h
}

func (s *Solution) String() string {
	ids := s.SelectedIDsOrdered()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Size returns the number of selected IDs.
func (s *Solution) Size() int { return len(s.selected) }

// IsSelected reports whether id is currently selected.
func (s *Solution) IsSelected(id ID) bool {
	_, ok := s.selected[id]
	return ok
}

// Contains reports whether id is part of this solution's universe.
func (s *Solution) Contains(id ID) bool {
	_, ok := s.all[id]
	return ok
}

// Select moves id from unselected to selected. Returns
// *errs.SolutionModificationError if id is not part of the universe or
// is already selected.
func (s *Solution) Select(id ID) error {
	if !s.Contains(id) {
		return &errs.SolutionModificationError{Operation: "Select", Identity: id}
	}
	if s.IsSelected(id) {
		return &errs.SolutionModificationError{Operation: "Select", Identity: id}
	}
	delete(s.unselected, id)
	s.selected[id] = struct{}{}
	return nil
}

// Deselect moves id from selected to unselected. Returns
// *errs.SolutionModificationError if id is not part of the universe or is
// not currently selected.
func (s *Solution) Deselect(id ID) error {
	if !s.Contains(id) {
		return &errs.SolutionModificationError{Operation: "Deselect", Identity: id}
	}
	if !s.IsSelected(id) {
		return &errs.SolutionModificationError{Operation: "Deselect", Identity: id}
	}
	delete(s.selected, id)
	s.unselected[id] = struct{}{}
	return nil
}

// AllIDs returns every ID in the universe, in the order documented for
// this Solution's comparator (insertion order if cmp is nil, else sorted
// by cmp).
func (s *Solution) AllIDs() []ID { return s.orderedView(s.order) }

// SelectedIDsOrdered returns the selected IDs in the solution's documented
// order.
func (s *Solution) SelectedIDsOrdered() []ID {
	out := make([]ID, 0, len(s.selected))
	for _, id := range s.order {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return s.orderedView(out)
}

// UnselectedIDsOrdered returns the unselected IDs in the solution's
// documented order.
func (s *Solution) UnselectedIDsOrdered() []ID {
	out := make([]ID, 0, len(s.unselected))
	for _, id := range s.order {
		if _, ok := s.unselected[id]; ok {
			out = append(out, id)
		}
	}
	return s.orderedView(out)
}

func (s *Solution) orderedView(ids []ID) []ID {
	out := append([]ID(nil), ids...)
	if s.cmp != nil {
		sort.Slice(out, func(i, j int) bool { return s.cmp(out[i], out[j]) })
	}
	return out
}
