package fixtures

import (
	"context"
	"time"

	"github.com/casevault/casevault/pkg/domain/document"
	"github.com/casevault/casevault/pkg/domain/user"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Upsert(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, uid string) (*user.User, error) {
	args := m.Called(ctx, uid)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository(t testingT) *MockDocumentRepository {
	m := &MockDocumentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDocumentRepository) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

type MockDocumentCache struct {
	mock.Mock
}

func NewMockDocumentCache(t testingT) *MockDocumentCache {
	m := &MockDocumentCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDocumentCache) Get(ctx context.Context, key string) (*document.Document, error) {
	args := m.Called(ctx, key)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentCache) Set(ctx context.Context, key string, doc *document.Document, ttl time.Duration) error {
	return m.Called(ctx, key, doc, ttl).Error(0)
}

func (m *MockDocumentCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
