package subscriptions

import (
	"context"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

// Repository reads the directed subscriber/channel relationship sets.
type Repository interface {
	// ChannelStats returns both directional counts for the channel plus
	// whether the viewer is among its subscribers.
	ChannelStats(ctx context.Context, channelID, viewerID string) (*models.ChannelStats, error)
}
