package schedule

// ToggleBlackout flips the blocked state of the (day, hour) cell on
// the currently selected stage and reports the new state. A cell that
// already holds a slot cannot be toggled; slot-bearing cells render
// the slot instead of the blackout affordance.
func (s *Schedule) ToggleBlackout(day, hour string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cellKey{day, hour, s.selected}
	if _, blocked := s.blackout[key]; blocked {
		delete(s.blackout, key)
		return false, nil
	}

	start, err := minuteOfDay(hour)
	if err != nil {
		return false, err
	}
	if s.collidesLocked(day, s.selected, start, start+defaultSlotMinutes, "") {
		return false, ErrCellOccupied
	}

	s.blackout[key] = struct{}{}
	return true, nil
}

// IsBlocked reports whether the (day, hour) cell on the currently
// selected stage is blacked out.
func (s *Schedule) IsBlocked(day, hour string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, blocked := s.blackout[cellKey{day, hour, s.selected}]
	return blocked
}

// BlackoutCells returns a copy of all blocked cells, unordered.
func (s *Schedule) BlackoutCells() []BlackoutCell {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]BlackoutCell, 0, len(s.blackout))
	for k := range s.blackout {
		out = append(out, BlackoutCell{Day: k.day, Hour: k.hour, StageID: k.stageID})
	}
	return out
}
