package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineup/internal/events"
	"lineup/internal/model"
	"lineup/internal/roster"
)

func testView() *roster.View {
	return roster.NewView([]model.Performer{
		{ID: "p1", Name: "The Midnight Echo"},
		{ID: "p2", Name: "Violet Static"},
	})
}

func newTestManager(timeout time.Duration, bus *events.Bus) *Manager {
	logger := zerolog.New(io.Discard)
	return NewManager(timeout, nil, bus, &logger)
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(time.Hour, nil)

	starts := time.Date(2025, 6, 20, 21, 0, 0, 0, time.Local)
	ends := time.Date(2025, 6, 21, 3, 0, 0, 0, time.Local)
	s := m.Create("evt-1", starts, ends, testView())

	require.NotEmpty(t, s.ID)
	assert.Len(t, s.Grid.Window().Days, 2)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestManager_Expiry(t *testing.T) {
	m := newTestManager(10*time.Millisecond, nil)

	s := m.Create("evt-1", time.Now(), time.Now().Add(6*time.Hour), testView())
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(s.ID)
	assert.False(t, ok)

	removed := m.Cleanup()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.Count())
}

func TestManager_GetRefreshesIdleTimer(t *testing.T) {
	m := newTestManager(50*time.Millisecond, nil)

	s := m.Create("evt-1", time.Now(), time.Now().Add(6*time.Hour), testView())

	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		_, ok := m.Get(s.ID)
		require.True(t, ok)
	}
}

func TestManager_Delete(t *testing.T) {
	m := newTestManager(time.Hour, nil)

	s := m.Create("evt-1", time.Now(), time.Now().Add(6*time.Hour), testView())
	m.Delete(context.Background(), s.ID)

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestManager_CommittedPublishesEvent(t *testing.T) {
	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(events.TypeSlotPlaced, func(e events.Event) error {
		published = append(published, e)
		return nil
	})

	m := newTestManager(time.Hour, bus)
	s := m.Create("evt-1", time.Now(), time.Now().Add(6*time.Hour), testView())

	m.Committed(context.Background(), s, events.TypeSlotPlaced, "slot-123")

	require.Len(t, published, 1)
	assert.Equal(t, s.ID, published[0].SessionID)
	assert.Equal(t, "slot-123", published[0].Details)
	assert.False(t, published[0].CreatedAt.IsZero())
}
