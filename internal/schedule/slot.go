package schedule

import (
	"github.com/google/uuid"
)

// defaultSlotMinutes is the duration a dropped slot receives. Drop
// placement is always hour-aligned; finer start times are only
// reachable through Edit.
const defaultSlotMinutes = 60

// Grab marks a performer as the in-flight drag value. A second Grab
// replaces the first.
func (s *Schedule) Grab(performerID string) error {
	if _, ok := s.roster.Performer(performerID); !ok {
		return ErrPerformerNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = performerID
	return nil
}

// CancelDrag abandons the in-flight drag with no effect on the grid.
func (s *Schedule) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = ""
}

// Dragging returns the performer currently being dragged, if any.
func (s *Schedule) Dragging() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging, s.dragging != ""
}

// Drop commits the dragged performer onto the target cell. The drag
// state is cleared regardless of whether placement succeeds.
func (s *Schedule) Drop(day, hour, stageID string) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	performerID := s.dragging
	s.dragging = ""
	if performerID == "" {
		return Slot{}, ErrNoDragInFlight
	}
	return s.placeLocked(performerID, day, hour, stageID)
}

// Place commits a performer onto a (day, hour, stage) cell with the
// default one-hour duration. It fails if the cell is outside the
// event window, blacked out, or collides with an existing slot on the
// same stage and day.
func (s *Schedule) Place(performerID, day, hour, stageID string) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeLocked(performerID, day, hour, stageID)
}

func (s *Schedule) placeLocked(performerID, day, hour, stageID string) (Slot, error) {
	if _, ok := s.stageLocked(stageID); !ok {
		return Slot{}, ErrStageNotFound
	}

	// Callers only offer valid cells, but the bounds are re-derived
	// here so the invariant does not depend on the rendering layer.
	d, ok := s.window.day(day)
	if !ok || !d.validHour(hour) {
		return Slot{}, ErrOutsideWindow
	}

	if _, blocked := s.blackout[cellKey{day, hour, stageID}]; blocked {
		return Slot{}, ErrCellBlocked
	}

	start, err := minuteOfDay(hour)
	if err != nil {
		return Slot{}, err
	}
	end := start + defaultSlotMinutes

	if s.collidesLocked(day, stageID, start, end, "") {
		return Slot{}, ErrSlotConflict
	}

	performer, ok := s.roster.Performer(performerID)
	if !ok {
		return Slot{}, ErrPerformerNotFound
	}

	slot := Slot{
		ID:             uuid.NewString(),
		Day:            day,
		Start:          clockOfMinute(start),
		End:            clockOfMinute(end),
		StageID:        stageID,
		PerformerID:    performer.ID,
		PerformerName:  performer.Name,
		PerformerImage: performer.Image,
	}
	s.slots = append(s.slots, slot)
	return slot, nil
}

// Edit revalidates and updates a committed slot's start, end and
// stage. The slot's day and performer are immutable here. The slot
// itself is excluded from the collision check, so shrinking or
// shifting within its own range always succeeds.
func (s *Schedule) Edit(slotID, newStart, newEnd, newStageID string) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, slot := range s.slots {
		if slot.ID == slotID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Slot{}, ErrSlotNotFound
	}
	if _, ok := s.stageLocked(newStageID); !ok {
		return Slot{}, ErrStageNotFound
	}

	start, err := minuteOfDay(newStart)
	if err != nil {
		return Slot{}, err
	}
	end, err := minuteOfDay(newEnd)
	if err != nil {
		return Slot{}, err
	}
	if end <= start {
		return Slot{}, ErrEndNotAfterStart
	}

	if s.collidesLocked(s.slots[idx].Day, newStageID, start, end, slotID) {
		return Slot{}, ErrSlotConflict
	}

	s.slots[idx].Start = clockOfMinute(start)
	s.slots[idx].End = clockOfMinute(end)
	s.slots[idx].StageID = newStageID
	return s.slots[idx], nil
}

// DeleteSlot removes a committed slot. Removal never creates a
// conflict, so there is nothing to validate.
func (s *Schedule) DeleteSlot(slotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, slot := range s.slots {
		if slot.ID == slotID {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return nil
		}
	}
	return ErrSlotNotFound
}

// CountInHour returns how many slots on the stage start at the given
// hour, across all days. Callers surface this count before invoking
// DeleteAllInHour.
func (s *Schedule) CountInHour(hour, stageID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countInHourLocked(hour, stageID)
}

// DeleteAllInHour removes every slot on the stage whose start hour
// equals the given hour, across all days, and returns how many were
// removed. A zero count is a no-op.
func (s *Schedule) DeleteAllInHour(hour, stageID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countInHourLocked(hour, stageID) == 0 {
		return 0
	}

	removed := 0
	kept := s.slots[:0]
	for _, slot := range s.slots {
		if slot.StageID == stageID && startHour(slot.Start) == startHour(hour) {
			removed++
			continue
		}
		kept = append(kept, slot)
	}
	s.slots = kept
	return removed
}

// Slots returns a copy of all committed slots in placement order.
func (s *Schedule) Slots() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Slot(nil), s.slots...)
}

// SlotsOn returns the slots for one (day, stage) lane.
func (s *Schedule) SlotsOn(day, stageID string) []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Slot
	for _, slot := range s.slots {
		if slot.Day == day && slot.StageID == stageID {
			out = append(out, slot)
		}
	}
	return out
}

func (s *Schedule) countInHourLocked(hour, stageID string) int {
	n := 0
	for _, slot := range s.slots {
		if slot.StageID == stageID && startHour(slot.Start) == startHour(hour) {
			n++
		}
	}
	return n
}

// collidesLocked reports whether [start, end) intersects any slot on
// the same (day, stage) lane, excluding excludeID.
func (s *Schedule) collidesLocked(day, stageID string, start, end int, excludeID string) bool {
	for _, slot := range s.slots {
		if slot.ID == excludeID || slot.Day != day || slot.StageID != stageID {
			continue
		}
		bStart, err := minuteOfDay(slot.Start)
		if err != nil {
			continue
		}
		bEnd, err := minuteOfDay(slot.End)
		if err != nil {
			continue
		}
		if overlaps(start, end, bStart, bEnd) {
			return true
		}
	}
	return false
}

// startHour truncates "HH:MM" to its hour component.
func startHour(clock string) string {
	if len(clock) < 2 {
		return clock
	}
	return clock[:2]
}
