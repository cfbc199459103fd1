package subset

// AdditionMove selects a single currently-unselected ID.
type AdditionMove struct{ Add ID }

func (m AdditionMove) Apply(s *Solution) { _ = s.Select(m.Add) }
func (m AdditionMove) Undo(s *Solution)  { _ = s.Deselect(m.Add) }

// DeletionMove deselects a single currently-selected ID.
type DeletionMove struct{ Del ID }

func (m DeletionMove) Apply(s *Solution) { _ = s.Deselect(m.Del) }
func (m DeletionMove) Undo(s *Solution)  { _ = s.Select(m.Del) }

// SwapMove simultaneously selects Add and deselects Del. Only valid for
// fixed-size subsets (it is its own undo record, applying the inverse
// swap).
type SwapMove struct {
	Add ID
	Del ID
}

func (m SwapMove) Apply(s *Solution) {
	_ = s.Select(m.Add)
	_ = s.Deselect(m.Del)
}

func (m SwapMove) Undo(s *Solution) {
	_ = s.Deselect(m.Add)
	_ = s.Select(m.Del)
}

// GeneralSubsetMove selects every ID in AddSet and deselects every ID in
// DelSet. It backs the multi-move neighbourhoods (MultiSwap,
// MultiAddition, MultiDeletion), which aggregate several independent
// single moves into one step.
type GeneralSubsetMove struct {
	AddSet []ID
	DelSet []ID
}

func (m GeneralSubsetMove) Apply(s *Solution) {
	for _, id := range m.AddSet {
		_ = s.Select(id)
	}
	for _, id := range m.DelSet {
		_ = s.Deselect(id)
	}
}

func (m GeneralSubsetMove) Undo(s *Solution) {
	for _, id := range m.DelSet {
		_ = s.Select(id)
	}
	for _, id := range m.AddSet {
		_ = s.Deselect(id)
	}
}
