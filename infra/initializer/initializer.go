package initializer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/casevault/casevault/infra"
	infracache "github.com/casevault/casevault/infra/cache"
	docrepo "github.com/casevault/casevault/infra/repository/document"
	userrepo "github.com/casevault/casevault/infra/repository/user"
	"github.com/casevault/casevault/pkg/app"
	"github.com/casevault/casevault/pkg/cache"
	"github.com/casevault/casevault/pkg/config"
)

var openDB = infra.NewDBConnection

// InitializeDependencies opens the database and the document cache. On
// failure everything opened so far is closed again.
func InitializeDependencies(cfg *config.App, logger *slog.Logger) (*app.Deps, error) {
	deps := &app.Deps{Logger: logger}
	fail := func(err error) (*app.Deps, error) {
		if cerr := app.CloseAll(deps.Closers); cerr != nil {
			logger.Warn("Failed to release dependencies", "error", cerr)
		}
		return nil, err
	}

	db, err := openDB(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		deps.Closers = append(deps.Closers, sqlDB)
	}
	deps.UserRepo = userrepo.New(db)
	deps.DocumentRepo = docrepo.New(db)

	documentCache, closer, err := newDocumentCache(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize document cache", "error", err)
		return fail(err)
	}
	deps.DocumentCache = documentCache
	deps.Closers = append(deps.Closers, closer)
	return deps, nil
}

// newDocumentCache uses Redis when REDIS_URL is set and memory otherwise.
func newDocumentCache(cfg *config.App, logger *slog.Logger) (cache.DocumentCache, io.Closer, error) {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		logger.Info("Using in-memory document cache")
		c := infracache.NewMemoryCache()
		return c, c, nil
	}
	client, err := infracache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Redis document cache: %w", err)
	}
	logger.Info("Using Redis document cache", "prefix", cfg.Redis.KeyPrefix+cfg.DocumentCache.Prefix)
	return infracache.NewRedisDocumentCache(
		client,
		cfg.Redis.KeyPrefix+cfg.DocumentCache.Prefix,
		logger,
	), client, nil
}
