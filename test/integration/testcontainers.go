package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	migrationsfs "github.com/gatehouse-sec/gatehouse/db"
	"github.com/gatehouse-sec/gatehouse/pkg/audit"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/apikey"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/token"
	"github.com/gatehouse-sec/gatehouse/pkg/config"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/gormdir"
	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
	"github.com/gatehouse-sec/gatehouse/pkg/server/endpoints"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Directory   *gormdir.Directory
	Container   testcontainers.Container
	Server      *server.Server
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer, runs the embedded
// migrations against it, and serves an in-process gateway with the token
// and apikey strategies enabled.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gatehouse_test"),
		tcpostgres.WithUsername("gatehouse"),
		tcpostgres.WithPassword("gatehouse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://gatehouse:gatehouse@%s:%s/gatehouse_test?sslmode=disable", host, port.Port())

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	serverPort := 18080
	serverURL := fmt.Sprintf("http://127.0.0.1:%d", serverPort)

	dir := gormdir.New(db)
	srv, err := startInlineServer(db, dir, serverPort)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start inline server: %w", err)
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          db,
		Directory:   dir,
		Container:   pgContainer,
		Server:      srv,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// startInlineServer runs the gateway in-process (no binary needed)
func startInlineServer(db *gorm.DB, dir *gormdir.Directory, port int) (*server.Server, error) {
	registry := authenticator.NewRegistry()
	registry.Register(token.New(""))
	registry.Register(apikey.New("Gatehouse"))
	if err := registry.Enable("token"); err != nil {
		return nil, err
	}
	if err := registry.Enable("apikey"); err != nil {
		return nil, err
	}
	if err := registry.SetEntryPoint("token"); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = port

	p := pipeline.New(registry, dir)
	p.AuditFunc = func(audit.Event) {}

	s := server.NewServer(dir, registry, cfg, db)
	endpoints.RegisterAll(s, p)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("inline server: %v", err)
		}
	}()

	return s, nil
}

// runMigrations applies the embedded migrations to the test database
func runMigrations(dbURL string) error {
	source, err := iofs.New(migrationsfs.Migrations, "migrations")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = tc.Server.Shutdown(shutdownCtx)
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
