package schedule

import "errors"

var (
	ErrEmptyStageName    = errors.New("stage name is empty")
	ErrStageNotFound     = errors.New("stage not found")
	ErrLastStage         = errors.New("cannot delete the last remaining stage")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotConflict      = errors.New("overlaps with another performer on the same stage")
	ErrCellBlocked       = errors.New("cell is blocked")
	ErrCellOccupied      = errors.New("cell already holds a slot")
	ErrEndNotAfterStart  = errors.New("end time must be after start time")
	ErrPerformerNotFound = errors.New("performer not found")
	ErrOutsideWindow     = errors.New("cell is outside the event window")
	ErrNoDragInFlight    = errors.New("no performer is being dragged")
)
