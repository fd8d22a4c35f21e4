package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/email"
	httpapi "github.com/azmin8744/soliloquio/internal/auth/http"
	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/internal/auth/store/drivers/sqlite"
	"github.com/azmin8744/soliloquio/pkg/jwtx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	tokenService        *service.TokenService
	verificationService *service.VerificationService
	userService         *service.UserService
	authenticator       *service.Authenticator
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	codec, err := jwtx.NewCodec(cfg.TokenSecret, cfg.HostName)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Codec:      app.codec,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.verificationService = &service.VerificationService{Store: app.db}

	app.userService = &service.UserService{
		Store:          app.db,
		Tokens:         app.tokenService,
		Verification:   app.verificationService,
		Email:          app.emailSender(),
		SingleUserMode: app.cfg.SingleUserMode,
	}

	app.authenticator = &service.Authenticator{
		Store:  app.db,
		Tokens: app.tokenService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// emailSender picks SMTP delivery when a relay is configured, log-only
// delivery otherwise.
func (app *Application) emailSender() email.Sender {
	if app.cfg.SMTPHost == "" {
		app.logger.Info("no SMTP host configured, emails will be logged only")
		return &email.LogSender{Logger: app.logger}
	}

	return &email.SMTPSender{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		From:     app.cfg.SMTPFrom,
		Username: app.cfg.SMTPUser,
		Password: app.cfg.SMTPPassword,
		BaseURL:  app.cfg.AppBaseURL,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.AccessTokenTTL,
		app.cfg.RefreshTokenTTL,
	)

	router.Authenticator = app.authenticator
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
