package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/casevault/casevault/pkg/domain"
	domainuser "github.com/casevault/casevault/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	now := time.Now().UTC()
	u := &domainuser.User{UID: "uid-1", Email: "user@example.com", LastLoginAt: now, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+) ON CONFLICT \("uid"\) DO UPDATE SET (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Upsert(context.Background(), u))

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(errors.New("insert failed"))
	err := repo.Upsert(context.Background(), u)
	assert.ErrorContains(t, err, "upsert user uid-1")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"uid", "email", "email_verified", "last_login_at", "created_at", "updated_at"}).
		AddRow("uid-1", "user@example.com", true, now, now, now)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uid = \$1 LIMIT \$2`).
		WithArgs("uid-1", 1).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
	assert.True(t, got.EmailVerified)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(gorm.ErrRecordNotFound)
	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
