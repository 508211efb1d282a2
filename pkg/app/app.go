package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/casevault/casevault/pkg/cache"
	"github.com/casevault/casevault/pkg/config"
	repodoc "github.com/casevault/casevault/pkg/repository/document"
	repouser "github.com/casevault/casevault/pkg/repository/user"
	"github.com/casevault/casevault/pkg/service/auth"
	"github.com/casevault/casevault/pkg/service/document"
)

// Deps contains the infrastructure the backend services are built on.
type Deps struct {
	UserRepo      repouser.Repository
	DocumentRepo  repodoc.Repository
	DocumentCache cache.DocumentCache
	Logger        *slog.Logger
	// Closers are released by App.Close in order.
	Closers []io.Closer
}

type App struct {
	Deps            *Deps
	Config          *config.App
	AuthService     *auth.Service
	DocumentService *document.Service
}

func New(deps *Deps, cfg *config.App) (*App, error) {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	authMap := map[string]func() *auth.Service{
		"firebase": func() *auth.Service {
			return auth.NewWithFirebase(cfg.Auth.Firebase, deps.UserRepo, deps.Logger)
		},
		"hmac": func() *auth.Service {
			return auth.NewWithHMAC(cfg.Auth.Hmac, deps.UserRepo, deps.Logger)
		},
	}
	authFactory, ok := authMap[cfg.Auth.Strategy]
	if !ok {
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.Auth.Strategy)
	}
	app.AuthService = authFactory()
	app.DocumentService = document.New(
		deps.DocumentRepo,
		deps.DocumentCache,
		cfg.DocumentCache.TTL,
		deps.Logger,
	)
	return app, nil
}

// Close releases the dependencies and returns the first error.
func (a *App) Close() error {
	return CloseAll(a.Deps.Closers)
}

// CloseAll closes every closer, even after a failure, and returns the first
// error.
func CloseAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
