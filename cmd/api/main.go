// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockroomhq/stockroom-be/internal/adapters/db"
	"github.com/stockroomhq/stockroom-be/internal/adapters/memory"
	"github.com/stockroomhq/stockroom-be/internal/adapters/storage"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
	"github.com/stockroomhq/stockroom-be/internal/core/services"
	"github.com/stockroomhq/stockroom-be/internal/handlers"
	"github.com/stockroomhq/stockroom-be/internal/handlers/middleware"
	"github.com/stockroomhq/stockroom-be/internal/pkg/config"
	"github.com/stockroomhq/stockroom-be/internal/pkg/logger"
	"github.com/stockroomhq/stockroom-be/migrations"
	"github.com/stockroomhq/stockroom-be/web"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting stockroom inventory service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("cache_dir", cfg.Storage.CacheDir),
	)

	// The photo cache directory must exist before anything else starts.
	if err := cfg.EnsureCacheDir(); err != nil {
		slogger.Error("failed to prepare cache directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database      ports.Database
	photoStore    ports.PhotoStore
	itemService   *services.ItemService
	itemHandler   *handlers.ItemHandler
	healthHandler *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	photoStore, err := storage.NewDiskPhotoStore(cfg.Storage.CacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}
	deps.photoStore = photoStore

	var itemRepo ports.ItemRepository

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		logger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name),
		)

		database, err := db.NewDatabase(ctx, &db.Config{
			Host:               cfg.Database.Host,
			Port:               cfg.Database.Port,
			User:               cfg.Database.User,
			Password:           cfg.Database.Password,
			Database:           cfg.Database.Name,
			SSLMode:            cfg.Database.SSLMode,
			MaxConnections:     cfg.Database.MaxConnections,
			MinConnections:     cfg.Database.MinConnections,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
			ConnectTimeout:     cfg.Database.ConnectTimeout,
			EnableQueryLogging: cfg.Database.EnableQueryLogging,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.database = database

		if err := runMigrations(ctx, cfg, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		itemRepo = db.NewItemRepository(database, logger)

	case config.BackendMemory:
		logger.Info("using in-memory item repository")
		itemRepo = memory.NewItemRepository()

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	deps.itemService = services.NewItemService(itemRepo, photoStore, logger)
	deps.itemHandler = handlers.NewItemHandler(deps.itemService, logger, cfg.Storage.MaxUploadBytes)
	deps.healthHandler = handlers.NewHealthHandler(deps.database, cfg, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	registerRoutes(mux, deps)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Inventory endpoints using Go 1.22 method-specific routing
	mux.HandleFunc("POST /register", deps.itemHandler.Register)
	mux.HandleFunc("GET /inventory", deps.itemHandler.ListItems)
	mux.HandleFunc("GET /inventory/{id}", deps.itemHandler.GetItem)
	mux.HandleFunc("PUT /inventory/{id}", deps.itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /inventory/{id}", deps.itemHandler.DeleteItem)
	mux.HandleFunc("GET /inventory/{id}/photo", deps.itemHandler.GetPhoto)
	mux.HandleFunc("PUT /inventory/{id}/photo", deps.itemHandler.ReplacePhoto)

	// Search responds in plain text for both query and form submissions
	mux.HandleFunc("GET /search", deps.itemHandler.Search)
	mux.HandleFunc("POST /search", deps.itemHandler.Search)

	// Embedded test pages
	staticFS := web.StaticFS()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "index.html")
	})
	mux.HandleFunc("GET /photo.html", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "photo.html")
	})

	// Everything else is a plain-text 404
	mux.HandleFunc("/", handlers.NotFound)
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		Source:      migrations.FS,
		SourceDir:   ".",
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrations(ctx, migrationConfig, logger, 3)
}
