package videos

import (
	"context"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

type Repository interface {
	// WatchHistory lists the user's watched videos, most recent first, each
	// with a projection of its owner.
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)

	// RecordWatch appends a video to the user's watch history; re-watching
	// bumps the watched_at timestamp.
	RecordWatch(ctx context.Context, userID, videoID string) error
}
