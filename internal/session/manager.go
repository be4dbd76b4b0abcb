// Package session manages the in-memory editing sessions. Each
// session owns one schedule grid; the manager handles lookup, expiry
// and best-effort snapshot persistence.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lineup/internal/events"
	"lineup/internal/roster"
	"lineup/internal/schedule"
)

// Session is one producer's editing session over an event's grid.
type Session struct {
	ID        string
	EventID   string
	StartsAt  time.Time
	EndsAt    time.Time
	Grid      *schedule.Schedule
	Roster    *roster.View
	CreatedAt time.Time

	mu        sync.Mutex
	updatedAt time.Time
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
}

// IsExpired checks if the session has been idle longer than timeout.
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.updatedAt) > timeout
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	timeout  time.Duration
	store    *SnapshotStore
	bus      *events.Bus
	logger   *zerolog.Logger
}

// NewManager creates a session manager. store may be nil when no
// Redis snapshot cache is configured.
func NewManager(timeout time.Duration, store *SnapshotStore, bus *events.Bus, logger *zerolog.Logger) *Manager {
	if timeout <= 0 {
		timeout = 2 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		store:    store,
		bus:      bus,
		logger:   logger,
	}
}

// Create opens a new editing session over the event window, with a
// roster view frozen at this moment.
func (m *Manager) Create(eventID string, startsAt, endsAt time.Time, view *roster.View) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		EventID:   eventID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Grid:      schedule.New(schedule.BuildWindow(startsAt, endsAt), view),
		Roster:    view,
		CreatedAt: now,
		updatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().
		Str("session_id", s.ID).
		Str("event_id", eventID).
		Int("days", len(s.Grid.Window().Days)).
		Int("roster_size", view.Len()).
		Msg("session created")
	return s
}

// Get returns a live session, refreshing its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || s.IsExpired(m.timeout) {
		return nil, false
	}
	s.Touch()
	return s, true
}

// Delete removes a session and its cached snapshot.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn().Err(err).Str("session_id", id).Msg("failed to drop cached snapshot")
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.IsExpired(m.timeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup periodically until ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.Cleanup(); removed > 0 {
				m.logger.Info().Int("removed", removed).Msg("expired sessions cleaned up")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Committed records a successful grid mutation: it refreshes the idle
// timer, publishes the domain event, and writes the snapshot to the
// cache so a reconnecting client can recover its grid.
func (m *Manager) Committed(ctx context.Context, s *Session, eventType, details string) {
	s.Touch()

	if m.bus != nil {
		m.bus.Publish(events.Event{Type: eventType, SessionID: s.ID, Details: details})
	}

	if m.store != nil {
		if err := m.store.Save(ctx, s.ID, s.Grid.Snapshot()); err != nil {
			m.logger.Warn().Err(err).Str("session_id", s.ID).Msg("failed to cache snapshot")
		}
	}
}

// Restore rehydrates a session's grid from the snapshot cache, if one
// exists. Used when a client reconnects to a session the process
// still knows but whose grid it wants to re-sync.
func (m *Manager) Restore(ctx context.Context, s *Session) error {
	if m.store == nil {
		return nil
	}
	snap, ok, err := m.store.Load(ctx, s.ID)
	if err != nil || !ok {
		return err
	}
	return s.Grid.Restore(snap)
}
