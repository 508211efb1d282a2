package document

import (
	"context"

	"github.com/casevault/casevault/pkg/domain/document"
)

// Repository reads case documents from the document store.
type Repository interface {
	// Get returns the document with the given id in collection, or
	// domain.ErrNotFound.
	Get(ctx context.Context, collection, id string) (*document.Document, error)
}
