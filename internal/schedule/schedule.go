// Package schedule implements the in-memory lineup grid for one
// editing session: the event window, the stage list, committed
// performer slots and blacked-out cells. All mutation goes through
// the methods on Schedule; every rejected operation leaves the state
// exactly as it was.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Performer is read-only roster data. The engine copies the display
// fields onto a slot at placement time and never mutates the roster.
type Performer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// RosterLookup resolves a performer by identifier.
type RosterLookup interface {
	Performer(id string) (Performer, bool)
}

// Stage is an independent scheduling lane. Collisions are only
// checked between slots on the same stage.
type Stage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Slot is one committed assignment of a performer to a stage for a
// time range on one day.
type Slot struct {
	ID             string `json:"id"`
	Day            string `json:"day"`   // YYYY-MM-DD
	Start          string `json:"start"` // HH:MM
	End            string `json:"end"`   // HH:MM
	StageID        string `json:"stage_id"`
	PerformerID    string `json:"performer_id"`
	PerformerName  string `json:"performer_name"`
	PerformerImage string `json:"performer_image,omitempty"`
}

// BlackoutCell is a manually blocked (day, hour, stage) cell.
type BlackoutCell struct {
	Day     string `json:"day"`
	Hour    string `json:"hour"` // HH:00
	StageID string `json:"stage_id"`
}

type cellKey struct {
	day, hour, stageID string
}

// Snapshot is the externally visible copy of the grid, suitable for
// rendering or persisting. Mutating it has no effect on the session.
type Snapshot struct {
	Stages        []Stage        `json:"stages"`
	Slots         []Slot         `json:"slots"`
	Blackout      []BlackoutCell `json:"blackout"`
	SelectedStage string         `json:"selected_stage"`
}

// DefaultStageName names the stage every new grid starts with.
const DefaultStageName = "Main Stage"

// Schedule owns the grid state for one editing session.
type Schedule struct {
	mu       sync.Mutex
	window   Window
	roster   RosterLookup
	stages   []Stage
	slots    []Slot
	blackout map[cellKey]struct{}
	selected string // selected stage ID
	dragging string // performer in flight, empty when none
}

// New creates a grid over the given window. The grid starts with a
// single default stage, which is also the selected stage.
func New(window Window, roster RosterLookup) *Schedule {
	main := Stage{ID: uuid.NewString(), Name: DefaultStageName}
	return &Schedule{
		window:   window,
		roster:   roster,
		stages:   []Stage{main},
		blackout: make(map[cellKey]struct{}),
		selected: main.ID,
	}
}

// Window returns the derived event window.
func (s *Schedule) Window() Window {
	return s.window
}

// Snapshot returns a deep copy of the current grid state. Blackout
// cells are emitted in a stable (day, hour, stage) order.
func (s *Schedule) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Stages:        append([]Stage(nil), s.stages...),
		Slots:         append([]Slot(nil), s.slots...),
		SelectedStage: s.selected,
	}
	for k := range s.blackout {
		snap.Blackout = append(snap.Blackout, BlackoutCell{Day: k.day, Hour: k.hour, StageID: k.stageID})
	}
	sort.Slice(snap.Blackout, func(i, j int) bool {
		a, b := snap.Blackout[i], snap.Blackout[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.StageID < b.StageID
	})
	return snap
}

// Restore replaces the grid state with a previously taken snapshot.
// Used to rehydrate a session from the snapshot store.
func (s *Schedule) Restore(snap Snapshot) error {
	if len(snap.Stages) == 0 {
		return ErrStageNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stages = append([]Stage(nil), snap.Stages...)
	s.slots = append([]Slot(nil), snap.Slots...)
	s.blackout = make(map[cellKey]struct{}, len(snap.Blackout))
	for _, c := range snap.Blackout {
		s.blackout[cellKey{c.Day, c.Hour, c.StageID}] = struct{}{}
	}
	s.selected = snap.SelectedStage
	if _, ok := s.stageLocked(s.selected); !ok {
		s.selected = s.stages[0].ID
	}
	return nil
}

// minuteOfDay parses "HH:MM" into minutes since midnight. "24:00" is
// accepted as an end bound.
func minuteOfDay(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return h*60 + m, nil
}

func clockOfMinute(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlaps reports closed-open interval intersection: slots that only
// touch at a boundary do not collide.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// sortClock orders zero-padded HH:MM labels chronologically.
func sortClock(labels []string) {
	sort.Strings(labels)
}
