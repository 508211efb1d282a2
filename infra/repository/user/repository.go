package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/casevault/casevault/pkg/domain"
	domainuser "github.com/casevault/casevault/pkg/domain/user"
	repouser "github.com/casevault/casevault/pkg/repository/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) repouser.Repository {
	return &repository{db: db}
}

// Upsert inserts the user or refreshes the token-derived columns of an
// existing row. created_at is never overwritten.
func (r *repository) Upsert(
	ctx context.Context,
	u *domainuser.User,
) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "email_verified", "last_login_at", "updated_at",
		}),
	}).Create(toModel(u)).Error
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.UID, err)
	}
	return nil
}

func (r *repository) Get(
	ctx context.Context,
	uid string,
) (*domainuser.User, error) {
	var m User
	if err := r.db.WithContext(
		ctx,
	).Where("uid = ?", uid).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

var _ repouser.Repository = (*repository)(nil)
