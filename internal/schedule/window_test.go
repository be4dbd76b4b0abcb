package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindow_OvernightEvent(t *testing.T) {
	start := time.Date(2025, 6, 20, 21, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 21, 3, 0, 0, 0, time.Local)

	w := BuildWindow(start, end)

	require.Len(t, w.Days, 2)

	day1 := w.Days[0]
	assert.Equal(t, "2025-06-20", day1.Date)
	assert.Equal(t, "Friday", day1.Weekday)
	assert.Equal(t, "Jun 20", day1.Label)
	assert.Equal(t, []string{"21:00", "22:00", "23:00"}, day1.Hours)

	day2 := w.Days[1]
	assert.Equal(t, "2025-06-21", day2.Date)
	assert.Equal(t, []string{"00:00", "01:00", "02:00", "03:00"}, day2.Hours)

	// Union of both days' hours, chronological.
	assert.Equal(t, []string{"00:00", "01:00", "02:00", "03:00", "21:00", "22:00", "23:00"}, w.GridHours)
}

func TestBuildWindow_MiddleDaysSpanFullDay(t *testing.T) {
	start := time.Date(2025, 6, 20, 18, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 22, 2, 0, 0, 0, time.Local)

	w := BuildWindow(start, end)

	require.Len(t, w.Days, 3)
	middle := w.Days[1]
	require.Len(t, middle.Hours, 24)
	assert.Equal(t, "00:00", middle.Hours[0])
	assert.Equal(t, "23:00", middle.Hours[23])
}

func TestBuildWindow_SameDayEvent(t *testing.T) {
	start := time.Date(2025, 6, 20, 10, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 20, 18, 30, 0, 0, time.Local)

	w := BuildWindow(start, end)

	require.Len(t, w.Days, 1)
	hours := w.Days[0].Hours
	require.NotEmpty(t, hours)
	assert.Equal(t, "10:00", hours[0])
	assert.Equal(t, "18:00", hours[len(hours)-1])
}

func TestBuildWindow_EndBeforeStartDegenerates(t *testing.T) {
	start := time.Date(2025, 6, 20, 10, 0, 0, 0, time.Local)
	end := start.Add(-2 * time.Hour)

	w := BuildWindow(start, end)

	require.Len(t, w.Days, 1)
	assert.Equal(t, "2025-06-20", w.Days[0].Date)
	assert.Empty(t, w.Days[0].Hours)
	assert.Empty(t, w.Days[0].Quarters)
	assert.Empty(t, w.GridHours)
}

func TestBuildWindow_QuarterGranularity(t *testing.T) {
	start := time.Date(2025, 6, 20, 21, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 21, 3, 0, 0, 0, time.Local)

	w := BuildWindow(start, end)

	day1 := w.Days[0]
	require.Len(t, day1.Quarters, 3*4)
	assert.Equal(t, "21:00", day1.Quarters[0])
	assert.Equal(t, "21:15", day1.Quarters[1])
	assert.Equal(t, "23:45", day1.Quarters[len(day1.Quarters)-1])
}
