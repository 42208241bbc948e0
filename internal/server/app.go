// Package server initializes and runs the marketplace backend: it opens the
// database, applies migrations, assembles the services, and serves the JSON
// API until the process receives a termination signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/logging"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
	"github.com/dkrasnov-dev/baraholka/internal/server/httpapi"
	"github.com/dkrasnov-dev/baraholka/internal/server/mail"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
	"github.com/dkrasnov-dev/baraholka/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	mailer := newMailer(ctx, cfg, logger)

	api := httpapi.NewServer(
		cfg,
		logger,
		services.NewAccountService(db, rm, cfg),
		services.NewResetTokenService(db, rm, mailer, cfg),
		services.NewRatingService(db, rm),
		services.NewListingService(db, rm),
		services.NewMessageService(db, rm),
		services.NewDeletionService(db, rm),
		services.NewPhotoService(cfg),
	)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

// newMailer builds the SMTP mailer, falling back to a no-op one when SMTP is
// not configured so local setups still run.
func newMailer(ctx context.Context, cfg *config.Config, logger logging.Logger) mail.Mailer {
	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		From:        cfg.SMTPFrom,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		logger.Warn(ctx, "smtp not configured, reset mail disabled", "error", err)
		return mail.NopMailer{}
	}
	return mailer
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
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

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	server := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "error shutting down http server", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "error closing db", "error", err)
	}

	app.logger.Info(shutdownCtx, "App stopped")
}
