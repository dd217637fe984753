package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tipster/domain/entities"
	"tipster/domain/events"
	"tipster/domain/testhelpers"
	"tipster/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Publish", mock.AnythingOfType("events.MatchCreatedEvent")).Return(nil)
	publisher.On("Flush", ctx).Return(nil)

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))

	match := testutil.CreateTestMatch(1, 24*time.Hour)
	require.NoError(t, uow.MatchRepository().Create(ctx, match))
	require.NoError(t, uow.EventBus().Publish(events.MatchCreatedEvent{MatchID: match.ID}))
	require.NoError(t, uow.Commit())

	assert.Equal(t, 1, testutil.CountRows(t, testDB.DB, "matches"))
	publisher.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Discard")
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	matchID := testutil.InsertMatch(t, testDB.DB, testutil.CreateTestMatch(1, 24*time.Hour))

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Discard").Return()

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.PredictionRepository().UpsertBatch(ctx, []*entities.Prediction{
		{UserID: "user-1", MatchID: matchID, PredictedHomeScore: 1, PredictedAwayScore: 1},
	}))
	require.NoError(t, uow.Rollback())

	assert.Equal(t, 0, testutil.CountRows(t, testDB.DB, "predictions"))
	publisher.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Flush", mock.Anything)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	t.Parallel()

	uow := CreateTestUnitOfWork(nil, &testhelpers.MockTransactionalEventPublisher{})

	assert.Panics(t, func() { uow.MatchRepository() })
	assert.Panics(t, func() { uow.PredictionRepository() })
	assert.EqualError(t, uow.Commit(), "no transaction to commit")
}

func TestUnitOfWork_FlushFailureDoesNotFailCommit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Flush", ctx).Return(errors.New("nats unavailable"))

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AuthorizedEmailRepository().Grant(ctx, "ops@example.com", entities.RoleAdmin))
	require.NoError(t, uow.Commit())

	assert.Equal(t, 1, testutil.CountRows(t, testDB.DB, "authorized_emails"))
}
