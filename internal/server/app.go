// Package server initializes and runs the FoodShare API server. It wires
// repositories, applies schema migrations, and serves the HTTP API until
// shutdown is signaled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/server/config"
	"github.com/foodshare/foodshare/internal/server/httpapi"
	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/photos"
	"github.com/foodshare/foodshare/internal/server/requests"
	"github.com/foodshare/foodshare/internal/server/shared/db"
	"github.com/foodshare/foodshare/internal/server/users"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	userService      *users.Service
	listingService   *listings.Service
	requestService   *requests.Service
	messagingService *messaging.Service
	photoService     *photos.Service
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ls := listings.NewService(rm.Listings())

	return &App{
		config:           c,
		logger:           logger,
		userService:      users.NewService(rm.Users(), rm.RefreshTokens(), c),
		listingService:   ls,
		requestService:   requests.NewService(rm.Requests(), ls),
		messagingService: messaging.NewService(rm.Messaging(), ls),
		photoService:     photos.NewService(c),
	}, nil
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
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	handler := httpapi.NewHandler(
		app.userService,
		app.listingService,
		app.requestService,
		app.messagingService,
		app.photoService,
		app.logger,
	)

	srv := &http.Server{
		Addr:         app.config.EndpointAddr,
		Handler:      httpapi.NewRouter(handler, []byte(app.config.SecretKey)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "Server stopped")
}
