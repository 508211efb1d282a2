package cache

import (
	"context"
	"time"

	"github.com/casevault/casevault/pkg/domain/document"
)

// DocumentCache caches documents by key. A miss is reported as (nil, nil).
type DocumentCache interface {
	Get(ctx context.Context, key string) (*document.Document, error)
	Set(ctx context.Context, key string, doc *document.Document, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
