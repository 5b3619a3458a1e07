// Package httpapi exposes the user-account operations over HTTP: routing,
// request authorization, cookie transport for the token pair, and the JSON
// response envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/logging"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/auth"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/config"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/services"
)

// UserService is the slice of the service layer the HTTP handlers use.
type UserService interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.Profile, error)
	Login(ctx context.Context, identifier, password string) (*models.Profile, *services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, presented string) (*services.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error
	CurrentUser(ctx context.Context, userID string) (*models.Profile, error)
	UpdateAccountDetails(ctx context.Context, userID, fullname, email string) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, userID string, file *services.FileUpload) (*models.Profile, error)
	UpdateCoverImage(ctx context.Context, userID string, file *services.FileUpload) (*models.Profile, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
	RecordWatch(ctx context.Context, userID, videoID string) error
}

type Server struct {
	address string
	users   UserService
	issuer  *auth.Issuer
	logger  logging.Logger

	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration

	engine *gin.Engine
}

func NewServer(cfg *config.Config, users UserService, issuer *auth.Issuer, logger logging.Logger) *Server {
	s := &Server{
		address:         cfg.Address,
		users:           users,
		issuer:          issuer,
		logger:          logger.With("module", "http_server"),
		accessTokenTTL:  cfg.AccessTokenValidityDuration,
		refreshTokenTTL: cfg.RefreshTokenValidityDuration,
	}
	s.engine = s.buildRouter()
	return s
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
