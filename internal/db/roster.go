package db

import (
	"context"
	"database/sql"
	"time"

	"lineup/internal/model"
)

// UpsertPerformer inserts or updates a roster record.
func (db *DB) UpsertPerformer(ctx context.Context, p *model.Performer) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO performers (id, name, image, description, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image = excluded.image,
			description = excluded.description,
			category = excluded.category,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Image, p.Description, p.Category, now, now,
	)
	return err
}

// GetPerformer returns one roster record, or nil if it doesn't exist.
func (db *DB) GetPerformer(ctx context.Context, id string) (*model.Performer, error) {
	var p model.Performer
	var image, description, category sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, name, image, description, category, created_at, updated_at
		FROM performers WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &image, &description, &category, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Image = image.String
	p.Description = description.String
	p.Category = category.String
	return &p, nil
}

// ListPerformers returns the roster ordered by name.
func (db *DB) ListPerformers(ctx context.Context) ([]model.Performer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, image, description, category, created_at, updated_at
		FROM performers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performers []model.Performer
	for rows.Next() {
		var p model.Performer
		var image, description, category sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &image, &description, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Image = image.String
		p.Description = description.String
		p.Category = category.String
		performers = append(performers, p)
	}
	return performers, rows.Err()
}

// DeletePerformer removes a roster record.
func (db *DB) DeletePerformer(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM performers WHERE id = ?", id)
	return err
}
