package db

import (
	"context"
	"database/sql"
	"time"

	"lineup/internal/model"
)

// SaveLineup persists a finalized lineup snapshot for an event,
// replacing any earlier one for the same event.
func (db *DB) SaveLineup(ctx context.Context, l *model.Lineup) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO lineups (event_id, starts_at, ends_at, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		l.EventID, l.StartsAt, l.EndsAt, l.Payload, now, now,
	)
	return err
}

// GetLineup returns the stored lineup for an event, or nil.
func (db *DB) GetLineup(ctx context.Context, eventID string) (*model.Lineup, error) {
	var l model.Lineup
	err := db.QueryRowContext(ctx, `
		SELECT id, event_id, starts_at, ends_at, payload, created_at, updated_at
		FROM lineups WHERE event_id = ?`,
		eventID,
	).Scan(&l.ID, &l.EventID, &l.StartsAt, &l.EndsAt, &l.Payload, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLineups returns all stored lineups, newest first.
func (db *DB) ListLineups(ctx context.Context) ([]model.Lineup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, event_id, starts_at, ends_at, payload, created_at, updated_at
		FROM lineups ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lineups []model.Lineup
	for rows.Next() {
		var l model.Lineup
		if err := rows.Scan(&l.ID, &l.EventID, &l.StartsAt, &l.EndsAt, &l.Payload, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lineups = append(lineups, l)
	}
	return lineups, rows.Err()
}
