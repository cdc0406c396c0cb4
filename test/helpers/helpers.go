// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-be/internal/adapters/db"
	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/pkg/config"
	"github.com/stockroomhq/stockroom-be/migrations"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	// Pull PostgreSQL image
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_stockroom",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	// Clean up on test completion
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_stockroom",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	t.Cleanup(database.Close)

	// Run migrations
	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		Source:     migrations.FS,
		SourceDir:  ".",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrations(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Storage: config.StorageConfig{
			Backend:        config.BackendMemory,
			CacheDir:       os.TempDir(),
			MaxUploadBytes: 32 << 20,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_stockroom",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
		},
	}
}

// CreateTestItem creates a test item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := &domain.Item{
		ID:          uuid.New().String(),
		Name:        "Test Shelf Bracket",
		Description: "Steel bracket, 200mm, holds up to 40kg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CompareItems compares two items for testing
func CompareItems(t *testing.T, expected, actual *domain.Item) {
	t.Helper()

	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.Name, actual.Name)
	require.Equal(t, expected.Description, actual.Description)
	if expected.Photo == nil {
		require.Nil(t, actual.Photo)
	} else {
		require.NotNil(t, actual.Photo)
		require.Equal(t, *expected.Photo, *actual.Photo)
	}
}

// TruncateItems truncates the items table in the test database
func TruncateItems(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "TRUNCATE TABLE items CASCADE")
	require.NoError(t, err, "Failed to truncate items table")
}

// SeedItems seeds the database with test items
func SeedItems(t *testing.T, db *pgxpool.Pool, items []domain.Item) {
	t.Helper()

	ctx := context.Background()

	for _, item := range items {
		query := `
			INSERT INTO items (id, name, description, photo, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err := db.Exec(ctx, query,
			item.ID, item.Name, item.Description, item.Photo,
			item.CreatedAt, item.UpdatedAt,
		)
		require.NoError(t, err, "Failed to seed test data")
	}
}
