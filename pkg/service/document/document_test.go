package document_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/casevault/casevault/internal/fixtures"
	"github.com/casevault/casevault/pkg/domain"
	domaindoc "github.com/casevault/casevault/pkg/domain/document"
	"github.com/casevault/casevault/pkg/service/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var caseDoc = &domaindoc.Document{ID: "c-1", Collection: "cases", Data: json.RawMessage(`{"title":"Smith v. Jones"}`)}

func TestGetByID_CacheHit(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	c := fixtures.NewMockDocumentCache(t)
	c.On("Get", mock.Anything, "cases/c-1").Return(caseDoc, nil).Once()

	svc := document.New(repo, c, time.Minute, slog.Default())
	got, err := svc.GetByID(context.Background(), "cases", "c-1")

	require.NoError(t, err)
	assert.Same(t, caseDoc, got)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByID_MissLoadsAndFills(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	c := fixtures.NewMockDocumentCache(t)
	c.On("Get", mock.Anything, "cases/c-1").Return(nil, nil).Once()
	repo.On("Get", mock.Anything, "cases", "c-1").Return(caseDoc, nil).Once()
	c.On("Set", mock.Anything, "cases/c-1", caseDoc, time.Minute).Return(nil).Once()

	svc := document.New(repo, c, time.Minute, slog.Default())
	got, err := svc.GetByID(context.Background(), "cases", "c-1")

	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
}

func TestGetByID_CacheErrorsAreBypassed(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	c := fixtures.NewMockDocumentCache(t)
	c.On("Get", mock.Anything, "cases/c-1").Return(nil, errors.New("redis down")).Once()
	repo.On("Get", mock.Anything, "cases", "c-1").Return(caseDoc, nil).Once()
	c.On("Set", mock.Anything, "cases/c-1", caseDoc, document.DefaultTTL).Return(errors.New("redis down")).Once()

	svc := document.New(repo, c, 0, slog.Default())
	got, err := svc.GetByID(context.Background(), "cases", "c-1")

	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	repo.On("Get", mock.Anything, "cases", "nope").Return(nil, domain.ErrNotFound).Once()

	svc := document.New(repo, nil, time.Minute, slog.Default())
	_, err := svc.GetByID(context.Background(), "cases", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	release := make(chan struct{})
	var calls sync.WaitGroup
	calls.Add(1)
	repo.On("Get", mock.Anything, "cases", "c-1").
		Run(func(mock.Arguments) {
			calls.Done()
			<-release
		}).
		Return(caseDoc, nil).Once()

	svc := document.New(repo, nil, time.Minute, slog.Default())
	const n = 5
	var wg sync.WaitGroup
	results := make(chan *domaindoc.Document, n)
	wg.Add(1)
	go func() {
		defer wg.Done()
		doc, _ := svc.GetByID(context.Background(), "cases", "c-1")
		results <- doc
	}()
	calls.Wait()
	for range n - 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, _ := svc.GetByID(context.Background(), "cases", "c-1")
			results <- doc
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for doc := range results {
		assert.Same(t, caseDoc, doc)
	}
}

func TestGetByID_FlightSurvivesCancelledCaller(t *testing.T) {
	t.Parallel()
	repo := fixtures.NewMockDocumentRepository(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	repoErr := make(chan error, 1)
	repo.On("Get", mock.Anything, "cases", "c-1").
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
			repoErr <- args.Get(0).(context.Context).Err()
		}).
		Return(caseDoc, nil).Once()

	svc := document.New(repo, nil, time.Minute, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *domaindoc.Document, 1)
	go func() {
		doc, _ := svc.GetByID(ctx, "cases", "c-1")
		done <- doc
	}()
	<-entered
	cancel()
	close(release)

	assert.NoError(t, <-repoErr)
	assert.Same(t, caseDoc, <-done)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	c := fixtures.NewMockDocumentCache(t)
	c.On("Delete", mock.Anything, "cases/c-1").Return(nil).Once()

	svc := document.New(nil, c, time.Minute, slog.Default())
	assert.NoError(t, svc.Invalidate(context.Background(), "cases", "c-1"))
	assert.NoError(t, document.New(nil, nil, 0, slog.Default()).Invalidate(context.Background(), "cases", "c-1"))
}
