// Package services contains server-side business logic. This file implements
// UserService, which handles registration, the session lifecycle
// (login, logout, refresh with rotation), password changes, profile and
// media updates, and the channel-profile / watch-history read queries.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/logging"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/auth"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/media"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// FileUpload is a file received from the transport layer, already validated
// to exist. The service only decides where it goes.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RegisterParams carries the registration input. Avatar is required,
// CoverImage may be nil.
type RegisterParams struct {
	Fullname   string
	Username   string
	Email      string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

// UserService provides account and session operations:
//   - Register: create users (avatar upload proxied to the media host)
//   - Login / Logout / Refresh: verify credentials, mint and rotate tokens
//   - ChangePassword, UpdateAccountDetails, UpdateAvatar, UpdateCoverImage
//   - ChannelProfile, WatchHistory, RecordWatch: read-side queries
type UserService struct {
	repos  repomanager.RepositoryManager
	media  media.Store
	issuer *auth.Issuer
	logger logging.Logger
}

// NewUserService constructs a UserService from the repository manager, the
// media store and the token issuer.
func NewUserService(m repomanager.RepositoryManager, store media.Store, issuer *auth.Issuer, logger logging.Logger) *UserService {
	return &UserService{
		repos:  m,
		media:  store,
		issuer: issuer,
		logger: logger.With("module", "user_service"),
	}
}

// Register validates the input, uploads the avatar (required) and cover
// image (optional, failure tolerated), hashes the password, and creates the
// identity record. The returned projection carries neither the password
// hash nor a refresh token.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.Profile, error) {
	p.Fullname = strings.TrimSpace(p.Fullname)
	p.Username = strings.ToLower(strings.TrimSpace(p.Username))
	p.Email = strings.TrimSpace(p.Email)

	if p.Fullname == "" || p.Username == "" || p.Email == "" || p.Password == "" {
		return nil, fmt.Errorf("%w: fullname, username, email and password are required", common.ErrorValidation)
	}
	if p.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar is required", common.ErrorValidation)
	}

	if err := s.checkNotTaken(ctx, p.Username, p.Email); err != nil {
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, media.Object{
		Key:         media.StorageKey("avatars", p.Avatar.Filename),
		ContentType: p.Avatar.ContentType,
		Body:        p.Avatar.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: avatar upload failed", common.ErrorDependency)
	}

	// A failed cover upload does not block registration.
	coverURL := ""
	if p.CoverImage != nil {
		coverURL, err = s.media.Upload(ctx, media.Object{
			Key:         media.StorageKey("covers", p.CoverImage.Filename),
			ContentType: p.CoverImage.ContentType,
			Body:        p.CoverImage.Content,
		})
		if err != nil {
			s.logger.Warn(ctx, "cover image upload failed", "username", p.Username, "error", err.Error())
			coverURL = ""
		}
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repos.Users().Create(ctx, &models.User{
		Username:      p.Username,
		Email:         p.Email,
		Fullname:      p.Fullname,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: username or email is taken", common.ErrorConflict)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user.Profile(), nil
}

// Login locates the user by username or email, verifies the password, and
// mints a token pair. The refresh token is persisted onto the record,
// overwriting any prior value: this is the rotation point that implicitly
// invalidates a previously issued refresh token.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.Profile, *TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil, fmt.Errorf("%w: username or email is required", common.ErrorValidation)
	}

	user, err := s.repos.Users().GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	if err := s.repos.Users().SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user.Profile(), pair, nil
}

// Logout unsets the stored refresh token. Logging out an already
// logged-out user is not an error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.repos.Users().ClearRefreshToken(ctx, userID)
}

// Refresh validates the presented refresh token, checks it against the
// stored value, and rotates it: a fresh pair is issued and the store is
// advanced with a single compare-and-swap. Only the single most recently
// issued refresh token is ever honored; anything else is a reuse event.
func (s *UserService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, fmt.Errorf("%w: refresh token is required", common.ErrorValidation)
	}

	// Verification happens before any record lookup.
	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repos.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		s.logger.Warn(ctx, "refresh token reuse detected", "user_id", user.ID)
		return nil, common.ErrTokenReuse
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repos.Users().RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrTokenReuse) {
			// Lost the race against a concurrent refresh with the same token.
			s.logger.Warn(ctx, "refresh token reuse detected", "user_id", user.ID)
			return nil, common.ErrTokenReuse
		}
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// ChangePassword re-hashes and stores the new password after verifying the
// old one. The existing refresh token is intentionally left in place.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	// The verify-then-update pair runs in one transaction so a concurrent
	// change cannot slip between the read and the write.
	return s.repos.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		user, err := m.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return common.ErrorInternal
		}

		if !checkPassword(user.PasswordHash, oldPassword) {
			return common.ErrorInvalidCredentials
		}

		hash, err := hashPassword(newPassword)
		if err != nil {
			return common.ErrorInternal
		}

		return m.Users().UpdatePasswordHash(ctx, userID, hash)
	})
}

// CurrentUser returns the public projection of the given user.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateAccountDetails sets fullname and email, both required.
func (s *UserService) UpdateAccountDetails(ctx context.Context, userID, fullname, email string) (*models.Profile, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)
	if fullname == "" || email == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", common.ErrorValidation)
	}

	user, err := s.repos.Users().UpdateAccountDetails(ctx, userID, fullname, email)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email is taken", common.ErrorConflict)
		}
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateAvatar uploads the new avatar and persists its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *FileUpload) (*models.Profile, error) {
	return s.updateImage(ctx, userID, file, "avatars", s.repos.Users().UpdateAvatar)
}

// UpdateCoverImage uploads the new cover image and persists its URL. Unlike
// registration, the dedicated endpoint treats a failed upload as an error.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *FileUpload) (*models.Profile, error) {
	return s.updateImage(ctx, userID, file, "covers", s.repos.Users().UpdateCoverImage)
}

// ChannelProfile returns the channel's public fields plus both directional
// subscription counts and whether the viewer is among the subscribers.
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	user, err := s.repos.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stats, err := s.repos.Subscriptions().ChannelStats(ctx, user.ID, viewerID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.ChannelProfile{Profile: *user.Profile(), ChannelStats: *stats}, nil
}

// WatchHistory lists the user's watched videos with owner projections.
func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	return s.repos.Videos().WatchHistory(ctx, userID)
}

// RecordWatch appends a video to the user's watch history.
func (s *UserService) RecordWatch(ctx context.Context, userID, videoID string) error {
	if videoID == "" {
		return fmt.Errorf("%w: video id is required", common.ErrorValidation)
	}
	return s.repos.Videos().RecordWatch(ctx, userID, videoID)
}

// --- helpers below ---

func (s *UserService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) checkNotTaken(ctx context.Context, username, email string) error {
	for _, login := range []string{username, email} {
		_, err := s.repos.Users().GetByLogin(ctx, login)
		if err == nil {
			return fmt.Errorf("%w: username or email is taken", common.ErrorConflict)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}
	}
	return nil
}

func (s *UserService) updateImage(ctx context.Context, userID string, file *FileUpload, prefix string,
	persist func(ctx context.Context, id, url string) (*models.User, error)) (*models.Profile, error) {

	if file == nil {
		return nil, fmt.Errorf("%w: file is required", common.ErrorValidation)
	}

	url, err := s.media.Upload(ctx, media.Object{
		Key:         media.StorageKey(prefix, file.Filename),
		ContentType: file.ContentType,
		Body:        file.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: media upload failed", common.ErrorDependency)
	}

	user, err := persist(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func checkPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
