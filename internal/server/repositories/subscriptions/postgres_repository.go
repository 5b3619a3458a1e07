package subscriptions

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

func (r *PostgresRepository) ChannelStats(ctx context.Context, channelID, viewerID string) (*models.ChannelStats, error) {

	query :=
		`SELECT
             (SELECT count(*) FROM subscriptions WHERE channel_id = $1)    AS subscribers,
             (SELECT count(*) FROM subscriptions WHERE subscriber_id = $1) AS subscribed_to,
             EXISTS (
                 SELECT 1 FROM subscriptions
                 WHERE channel_id = $1 AND subscriber_id = $2
             ) AS is_subscribed
         `

	stats := &models.ChannelStats{}
	err := r.db.QueryRowContext(ctx, query, channelID, viewerID).
		Scan(&stats.Subscribers, &stats.SubscribedTo, &stats.IsSubscribed)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}
