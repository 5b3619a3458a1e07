package videos

import (
	"context"
	"fmt"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/dbx"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {

	query :=
		`SELECT v.id, v.owner_id, v.title, v.video_url, v.thumbnail_url, v.duration, v.views, v.is_published, v.created_at,
                o.id, o.username, o.email, o.fullname, o.avatar_url, o.cover_image_url,
                wh.watched_at
         FROM watch_history wh
         JOIN videos v ON v.id = wh.video_id
         JOIN users o ON o.id = v.owner_id
         WHERE wh.user_id = $1
         ORDER BY wh.watched_at DESC
         `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchEntry{}
	for rows.Next() {
		var e models.WatchEntry
		err := rows.Scan(
			&e.Video.ID, &e.Video.OwnerID, &e.Video.Title, &e.Video.VideoURL, &e.Video.ThumbnailURL,
			&e.Video.Duration, &e.Video.Views, &e.Video.IsPublished, &e.Video.CreatedAt,
			&e.Owner.ID, &e.Owner.Username, &e.Owner.Email, &e.Owner.Fullname,
			&e.Owner.AvatarURL, &e.Owner.CoverImageURL,
			&e.WatchedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) RecordWatch(ctx context.Context, userID, videoID string) error {

	query :=
		`INSERT INTO watch_history (user_id, video_id)
         VALUES ($1, $2)
         ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
         `

	if _, err := r.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
