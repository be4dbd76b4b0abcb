// Package roster bridges the stored performer roster to the lookup
// interface the scheduling engine denormalizes from. A View is frozen
// at session creation; roster edits do not leak into open sessions.
package roster

import (
	"context"

	"lineup/internal/model"
	"lineup/internal/schedule"
)

// Source lists performers, typically the database.
type Source interface {
	ListPerformers(ctx context.Context) ([]model.Performer, error)
}

// View is an immutable point-in-time copy of the roster.
type View struct {
	performers map[string]schedule.Performer
	ordered    []schedule.Performer
}

// Load takes a frozen roster view from the source.
func Load(ctx context.Context, src Source) (*View, error) {
	performers, err := src.ListPerformers(ctx)
	if err != nil {
		return nil, err
	}
	return NewView(performers), nil
}

// NewView builds a frozen view from roster records.
func NewView(performers []model.Performer) *View {
	v := &View{performers: make(map[string]schedule.Performer, len(performers))}
	for _, p := range performers {
		sp := schedule.Performer{
			ID:          p.ID,
			Name:        p.Name,
			Image:       p.Image,
			Description: p.Description,
			Category:    p.Category,
		}
		v.performers[p.ID] = sp
		v.ordered = append(v.ordered, sp)
	}
	return v
}

// Performer implements schedule.RosterLookup.
func (v *View) Performer(id string) (schedule.Performer, bool) {
	p, ok := v.performers[id]
	return p, ok
}

// All returns the roster in source order.
func (v *View) All() []schedule.Performer {
	return append([]schedule.Performer(nil), v.ordered...)
}

// Len returns the roster size.
func (v *View) Len() int {
	return len(v.ordered)
}
