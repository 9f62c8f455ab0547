// Package app assembles the kitchen service: config, database, services,
// HTTP server and graceful shutdown.
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

	httpapi "github.com/tabletopkitchen/kitchen/internal/kitchen/http"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store/drivers/sqlite"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the kitchen service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.TokenService

	userService   *service.UserService
	recipeService *service.RecipeService
	pantryService *service.PantryService
	expirySweeper *service.ExpirySweeper

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "kitchen-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.tokens = &jwtx.TokenService{
		Key: jwtx.Key{
			Secret:   []byte(cfg.JWTSecret),
			Lifetime: cfg.TokenTTL,
		},
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.expirySweeper.Start()

	app.logger.Info("kitchen service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down kitchen service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.expirySweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("kitchen service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
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
	app.userService = &service.UserService{
		Store:  app.db,
		Tokens: app.tokens,
	}
	app.recipeService = &service.RecipeService{Store: app.db}
	app.pantryService = &service.PantryService{Store: app.db}

	app.expirySweeper = service.NewExpirySweeper(
		app.db,
		app.logger,
		app.cfg.ExpirySweepInterval,
		app.cfg.ExpiryWarn,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.RecipeService = app.recipeService
	router.PantryService = app.pantryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
