// Package audit persists a trail of grid mutations per session.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"lineup/internal/events"
	"lineup/internal/model"
)

// Sink stores audit entries, typically the database.
type Sink interface {
	InsertAudit(ctx context.Context, entry model.AuditEntry) error
}

// Recorder subscribes to the event bus and writes one audit row per
// committed mutation. Failures are logged, never propagated; the
// grid mutation has already happened.
type Recorder struct {
	sink   Sink
	logger *zerolog.Logger
}

// NewRecorder creates a recorder over the sink.
func NewRecorder(sink Sink, logger *zerolog.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger}
}

// Attach subscribes the recorder to all event types on the bus.
func (r *Recorder) Attach(bus *events.Bus) {
	bus.SubscribeAll(r.handle)
}

func (r *Recorder) handle(event events.Event) error {
	entry := model.AuditEntry{
		SessionID: event.SessionID,
		EventType: event.Type,
		Details:   event.Details,
	}
	if err := r.sink.InsertAudit(context.Background(), entry); err != nil {
		r.logger.Error().Err(err).
			Str("session_id", event.SessionID).
			Str("event_type", event.Type).
			Msg("failed to write audit entry")
	}
	return nil
}
