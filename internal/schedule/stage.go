package schedule

import (
	"strings"

	"github.com/google/uuid"
)

// AddStage appends a new scheduling lane. The name must be non-empty
// after trimming.
func (s *Schedule) AddStage(name string) (Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stage{}, ErrEmptyStageName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stage := Stage{ID: uuid.NewString(), Name: name}
	s.stages = append(s.stages, stage)
	return stage, nil
}

// RemoveStage deletes a stage and cascades: every slot assigned to it
// and every blackout cell referencing it are removed as well. The
// last remaining stage cannot be deleted. If the removed stage was
// selected, selection falls back to the first remaining stage.
func (s *Schedule) RemoveStage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, st := range s.stages {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrStageNotFound
	}
	if len(s.stages) == 1 {
		return ErrLastStage
	}

	s.stages = append(s.stages[:idx], s.stages[idx+1:]...)

	kept := s.slots[:0]
	for _, slot := range s.slots {
		if slot.StageID != id {
			kept = append(kept, slot)
		}
	}
	s.slots = kept

	for k := range s.blackout {
		if k.stageID == id {
			delete(s.blackout, k)
		}
	}

	if s.selected == id {
		s.selected = s.stages[0].ID
	}
	return nil
}

// SelectStage makes the stage the active editing lane.
func (s *Schedule) SelectStage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stageLocked(id); !ok {
		return ErrStageNotFound
	}
	s.selected = id
	return nil
}

// SelectedStage returns the active stage identifier.
func (s *Schedule) SelectedStage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Stages returns a copy of the stage list in creation order.
func (s *Schedule) Stages() []Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Stage(nil), s.stages...)
}

func (s *Schedule) stageLocked(id string) (Stage, bool) {
	for _, st := range s.stages {
		if st.ID == id {
			return st, true
		}
	}
	return Stage{}, false
}
