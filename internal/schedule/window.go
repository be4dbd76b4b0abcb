package schedule

import (
	"fmt"
	"time"
)

// Day is one schedulable calendar day of an event.
type Day struct {
	Date     string   `json:"date"`    // YYYY-MM-DD
	Weekday  string   `json:"weekday"` // "Friday"
	Label    string   `json:"label"`   // "Jun 20"
	Hours    []string `json:"hours"`   // hour-aligned grid rows, "21:00".."23:00"
	Quarters []string `json:"quarters"` // quarter-hour picker values
}

// Window is the set of days and per-day time ranges an event spans.
// It is derived once from the event's start and end instants and is
// immutable afterwards.
type Window struct {
	Days      []Day    `json:"days"`
	GridHours []string `json:"grid_hours"` // union of hours valid on at least one day
}

// BuildWindow derives the schedulable window from the event's start and
// end instants. Dates are truncated in the start instant's location,
// since lineups are authored against local wall-clock time.
//
// The first day starts at the event's start hour, the last day ends at
// the event's end hour, middle days span the full day. If end precedes
// start the window degenerates to a single day with no usable range.
func BuildWindow(start, end time.Time) Window {
	loc := start.Location()
	end = end.In(loc)

	startDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	if end.Before(start) {
		return Window{Days: []Day{newDay(startDate, nil, nil)}}
	}

	endDate := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	total := int(endDate.Sub(startDate).Hours()/24) + 1

	days := make([]Day, 0, total)
	gridSet := make(map[string]struct{})
	var gridHours []string

	for i := 0; i < total; i++ {
		date := startDate.AddDate(0, 0, i)

		lo, hi := 0, 23
		if i == 0 {
			lo = start.Hour()
		}
		if i == total-1 {
			hi = end.Hour()
		}

		var hours, quarters []string
		for h := lo; h <= hi; h++ {
			label := fmt.Sprintf("%02d:00", h)
			hours = append(hours, label)
			for m := 0; m < 60; m += 15 {
				quarters = append(quarters, fmt.Sprintf("%02d:%02d", h, m))
			}
			if _, ok := gridSet[label]; !ok {
				gridSet[label] = struct{}{}
				gridHours = append(gridHours, label)
			}
		}

		days = append(days, newDay(date, hours, quarters))
	}

	sortClock(gridHours)
	return Window{Days: days, GridHours: gridHours}
}

func newDay(date time.Time, hours, quarters []string) Day {
	return Day{
		Date:     date.Format("2006-01-02"),
		Weekday:  date.Weekday().String(),
		Label:    date.Format("Jan 2"),
		Hours:    hours,
		Quarters: quarters,
	}
}

// day returns the window day with the given date identifier.
func (w Window) day(date string) (Day, bool) {
	for _, d := range w.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// validHour reports whether the hour row is schedulable on the day.
func (d Day) validHour(hour string) bool {
	for _, h := range d.Hours {
		if h == hour {
			return true
		}
	}
	return false
}
