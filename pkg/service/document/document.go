// Package document serves case documents through a read-through cache.
package document

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/casevault/casevault/pkg/cache"
	"github.com/casevault/casevault/pkg/domain"
	domaindoc "github.com/casevault/casevault/pkg/domain/document"
	repodoc "github.com/casevault/casevault/pkg/repository/document"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

type Service struct {
	repo   repodoc.Repository
	cache  cache.DocumentCache
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// New builds the service. A nil cache disables caching.
func New(
	repo repodoc.Repository,
	c cache.DocumentCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, cache: c, ttl: ttl, logger: logger}
}

// GetByID returns the document or domain.ErrNotFound. Cache failures are
// logged and fall through to the repository.
func (s *Service) GetByID(
	ctx context.Context,
	collection, id string,
) (*domaindoc.Document, error) {
	log := s.logger.With("context", "GetByID", "collection", collection, "id", id)
	if collection == "" || id == "" {
		return nil, domain.ErrNotFound
	}
	key := domaindoc.Key(collection, id)

	if s.cache != nil {
		doc, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("Document cache read failed", "error", err)
		} else if doc != nil {
			return doc, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Callers sharing the flight must not fail when the first one goes away.
		flightCtx := context.WithoutCancel(ctx)
		doc, err := s.repo.Get(flightCtx, collection, id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(flightCtx, key, doc, s.ttl); err != nil {
				log.Warn("Document cache write failed", "error", err)
			}
		}
		return doc, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("Failed to load document", "error", err)
		}
		return nil, err
	}
	log.Debug("Document loaded", "shared", shared)
	return v.(*domaindoc.Document), nil
}

// Invalidate drops the cached copy of a document.
func (s *Service) Invalidate(ctx context.Context, collection, id string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, domaindoc.Key(collection, id))
}
