package document

import (
	"context"
	"errors"

	"github.com/casevault/casevault/pkg/domain"
	domaindoc "github.com/casevault/casevault/pkg/domain/document"
	repodoc "github.com/casevault/casevault/pkg/repository/document"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) repodoc.Repository {
	return &repository{db: db}
}

func (r *repository) Get(
	ctx context.Context,
	collection, id string,
) (*domaindoc.Document, error) {
	var m Document
	if err := r.db.WithContext(
		ctx,
	).Where("collection = ? AND id = ?", collection, id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

var _ repodoc.Repository = (*repository)(nil)
