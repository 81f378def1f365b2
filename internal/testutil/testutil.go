package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brfrastenen/brfweb/internal/api"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/content"
	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/repository"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_brfweb"),
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

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&domain.NewsItem{},
		&domain.AuditEntry{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"audit_entries",
		"news_items",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "development",
		DatabaseURL:        "",
		SessionSecret:      "test-session-secret-for-testing-only",
		SessionCookieTTL:   15 * time.Minute,
		WebSessionTTL:      time.Hour,
		LoginRatePerMinute: 600,
		LoginRateBurst:     100,
	}
}

// TestServer wires the full router on top of in-memory fakes so
// handler tests can assert storage call counts without a database.
type TestServer struct {
	Server   *httptest.Server
	Config   *config.Config
	News     *FakeNewsRepository
	Audit    *FakeAuditRepository
	Verifier *StaticVerifier
	Services *service.Services
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	newsRepo := &FakeNewsRepository{}
	auditRepo := &FakeAuditRepository{}
	verifier := &StaticVerifier{
		Token: "valid-id-token",
		Identity: identity.Identity{
			UID:         "u1",
			Email:       "styrelsen@example.se",
			DisplayName: "Styrelsen",
		},
	}

	repos := &repository.Repositories{News: newsRepo, Audit: auditRepo}
	services := service.NewServices(repos, verifier, cfg)

	renderer, err := web.NewRenderer(cfg.BaseURL)
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	registry, err := content.Load()
	if err != nil {
		t.Fatalf("failed to load page registry: %v", err)
	}

	router := api.NewRouter(services, cfg, renderer, registry, nil)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
	})

	return &TestServer{
		Server:   server,
		Config:   cfg,
		News:     newsRepo,
		Audit:    auditRepo,
		Verifier: verifier,
		Services: services,
	}
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
