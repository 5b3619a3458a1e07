package users

import (
	"context"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

// Repository is the credential store boundary for identity records.
//
// RotateRefreshToken is the only compare-and-write operation: it replaces the
// stored refresh token only when the stored value still equals the presented
// one, as a single conditional UPDATE, so two concurrent refresh calls
// holding the same stale token cannot both rotate it.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateAccountDetails(ctx context.Context, id, fullname, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, presented, next string) error
	ClearRefreshToken(ctx context.Context, id string) error
}
