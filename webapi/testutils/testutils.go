// Package testutils runs the backend against a real Postgres started with
// Testcontainers.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infracache "github.com/casevault/casevault/infra/cache"
	"github.com/casevault/casevault/infra/migrations"
	docrepo "github.com/casevault/casevault/infra/repository/document"
	userrepo "github.com/casevault/casevault/infra/repository/user"
	"github.com/casevault/casevault/pkg/app"
	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// E2ETestSuite provides a test suite with a real Postgres database using
// Testcontainers. It is skipped under -short and when no container runtime
// is available.
type E2ETestSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	DB          *gorm.DB
	App         *fiber.App
	Cfg         *config.App
}

func (s *E2ETestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping e2e suite in short mode")
	}
	ctx := context.Background()

	ctr, err := s.startPostgresContainer(ctx)
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
	}
	s.pgContainer = ctr

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(migrations.Run(dsn, migrations.Up))

	s.DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.Cfg = &config.App{
		Env: "test",
		Auth: &config.Auth{
			Strategy: "hmac",
			Hmac:     &config.Hmac{Secret: "e2e-secret", Issuer: "casevault-dev"},
		},
		DocumentCache: &config.DocumentCache{TTL: time.Minute},
		RateLimit:     &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	memCache := infracache.NewMemoryCache()
	a, err := app.New(&app.Deps{
		UserRepo:      userrepo.New(s.DB),
		DocumentRepo:  docrepo.New(s.DB),
		DocumentCache: memCache,
		Logger:        slog.Default(),
		Closers:       []io.Closer{memCache},
	}, s.Cfg)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = a.Close() })
	s.App = webapi.SetupApp(a)
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.pgContainer != nil {
		_ = testcontainers.TerminateContainer(s.pgContainer)
	}
}

// startPostgresContainer starts a Postgres container using Testcontainers
func (s *E2ETestSuite) startPostgresContainer(ctx context.Context) (ctr *tcpostgres.PostgresContainer, err error) {
	defer func() {
		// Run panics when no Docker daemon can be found.
		if r := recover(); r != nil {
			ctr, err = nil, errNoDocker{r}
		}
	}()
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

// MakeRequest sends a request through the app under test.
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.App.Test(req, 10_000)
	s.Require().NoError(err)
	return resp
}

type errNoDocker struct{ v any }

func (e errNoDocker) Error() string { return fmt.Sprintf("docker unavailable: %v", e.v) }
