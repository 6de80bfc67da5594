package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/xwing-campaign/internal/api"
	"github.com/dom/xwing-campaign/internal/config"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/dom/xwing-campaign/internal/repository/gormstore"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated store, either a sqlite file or a postgres container
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	Driver    string
	DSN       string
}

// NewTestDB opens a fresh sqlite database in a temporary directory
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "xwing.db") + "?_foreign_keys=on"
	db, err := gormstore.NewConnection(gormstore.DriverSQLite, dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	testDB := &TestDB{
		DB:     db,
		Driver: gormstore.DriverSQLite,
		DSN:    dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// NewPostgresTestDB starts a PostgreSQL testcontainer. The test is skipped
// unless XWING_PG_TESTS is set.
func NewPostgresTestDB(t *testing.T) *TestDB {
	t.Helper()

	if os.Getenv("XWING_PG_TESTS") == "" {
		t.Skip("XWING_PG_TESTS not set")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_xwing"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gormstore.NewConnection(gormstore.DriverPostgres, dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		Driver:    gormstore.DriverPostgres,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup closes the connection and terminates the container, if any
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		gormstore.Close(tdb.DB)
	}
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"sessions",
		"pilots",
		"campaigns",
		"users",
		"ships",
		"missions",
		"upgrades",
	}

	for _, table := range tables {
		stmt := fmt.Sprintf("DELETE FROM %s", table)
		if tdb.Driver == gormstore.DriverPostgres {
			stmt = fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
		}
		if err := tdb.DB.Exec(stmt).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "0", // Random port
		Environment:          "test",
		DatabaseDriver:       gormstore.DriverSQLite,
		SessionSecret:        "test-session-secret-for-testing-only",
		SessionTTL:           time.Hour,
		SessionPurgeInterval: time.Minute,
		BcryptCost:           bcrypt.MinCost, // Fast hashing for tests
		AdminUser:            "admin",
		FixturesSource:       "none",
		LockRetries:          3,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := gormstore.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
