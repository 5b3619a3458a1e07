// Package server initializes and runs the GoTube backend: it wires the
// configuration, database repositories, media store, token issuer and user
// service together, starts the HTTP server, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/logging"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/auth"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/config"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/httpapi"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/media"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/repomanager"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := media.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media store init error: %w", err)
	}

	issuer := auth.NewIssuer(auth.Config{
		AccessSecret:                 []byte(cfg.AccessTokenSecret),
		RefreshSecret:                []byte(cfg.RefreshTokenSecret),
		AccessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		RefreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	})

	us := services.NewUserService(rm, store, issuer, logger)
	srv := httpapi.NewServer(cfg, us, issuer, logger)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
