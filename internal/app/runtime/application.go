// Package runtime wires configuration, storage and the HTTP server into a
// runnable process.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	app "github.com/recipe-room/recipe-room/internal/app"
	"github.com/recipe-room/recipe-room/internal/app/httpapi"
	"github.com/recipe-room/recipe-room/internal/app/metrics"
	"github.com/recipe-room/recipe-room/internal/app/storage/postgres"
	"github.com/recipe-room/recipe-room/internal/auth"
	"github.com/recipe-room/recipe-room/internal/config"
	"github.com/recipe-room/recipe-room/internal/imagestore"
	"github.com/recipe-room/recipe-room/internal/middleware"
	"github.com/recipe-room/recipe-room/internal/paygate"
	"github.com/recipe-room/recipe-room/internal/platform/migrations"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	server *http.Server
	db     *sql.DB
}

// NewApplication constructs the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newWithConfig(cfg)
}

func newWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	stores, db, err := buildStores(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTLDuration())

	deps := app.Dependencies{Tokens: tokens}
	if cfg.ImageStore.BaseURL != "" {
		deps.Images = imagestore.New(imagestore.Config{
			BaseURL: cfg.ImageStore.BaseURL,
			APIKey:  cfg.ImageStore.APIKey,
			Secret:  cfg.ImageStore.Secret,
			Folder:  cfg.ImageStore.Folder,
		})
	} else {
		log.Warn("image store not configured; uploads disabled")
	}
	if cfg.Payments.BaseURL != "" {
		deps.Gateway = paygate.New(paygate.Config{
			BaseURL:     cfg.Payments.BaseURL,
			Username:    cfg.Payments.Username,
			Password:    cfg.Payments.Password,
			CallbackURL: cfg.Payments.CallbackURL,
		})
	} else {
		log.Warn("payment gateway not configured; payments disabled")
	}

	application := app.New(stores, deps, log)

	authMW := middleware.NewAuthMiddleware(tokens, log, nil)

	// The limiter is applied inside the router, after authentication, so
	// signed-in callers are keyed by user id rather than remote address.
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(10 * time.Minute)
	handler := httpapi.NewHandler(application, authMW, limiter)

	tracing := middleware.NewTracingMiddleware(log)
	cors := middleware.NewCORS(cfg.Server.CORSOrigins)

	chain := metrics.InstrumentHandler(handler)
	chain = tracing.Handler(chain)
	chain = cors.Handler(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return &Application{cfg: cfg, log: log, server: server, db: db}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Infof("HTTP server listening on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	timeout := time.Duration(a.cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	return nil
}

// buildStores opens PostgreSQL when a DSN is configured and runs migrations;
// otherwise every store falls back to the in-memory implementation.
func buildStores(cfg *config.Config, log *logger.Logger) (app.Stores, *sql.DB, error) {
	if cfg.Database.DSN == "" {
		log.Warn("no database configured; using in-memory storage")
		return app.Stores{}, nil, nil
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return app.Stores{}, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}

	store := postgres.New(db)
	return app.Stores{
		Users:     store,
		Recipes:   store,
		Groups:    store,
		Comments:  store,
		Ratings:   store,
		Bookmarks: store,
		Payments:  store,
	}, db, nil
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
