package db

import (
	"context"

	"lineup/internal/model"
)

// InsertAudit appends one audit row.
func (db *DB) InsertAudit(ctx context.Context, entry model.AuditEntry) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO audit_log (session_id, event_type, details) VALUES (?, ?, ?)",
		entry.SessionID, entry.EventType, entry.Details,
	)
	return err
}

// ListAudit returns the audit trail for a session, oldest first.
func (db *DB) ListAudit(ctx context.Context, sessionID string, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, session_id, event_type, details, created_at
		FROM audit_log WHERE session_id = ? ORDER BY id LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
