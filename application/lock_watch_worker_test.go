package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"tipster/domain/entities"
	"tipster/domain/events"
	"tipster/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLockWatchWorker_Tick(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	to := from.Add(time.Minute)
	window := time.Hour

	t.Run("publishes locked matches and prunes sessions", func(t *testing.T) {
		t.Parallel()
		uow := testhelpers.NewMockUnitOfWork()
		worker := NewLockWatchWorker(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, window)

		match := &entities.Match{ID: 5, Matchday: 2, HomeTeam: "Ajax", AwayTeam: "PSV", MatchDate: to.Add(window)}

		uow.On("Begin", mock.Anything).Return(nil)
		uow.Matches.On("GetKickingOffBetween", mock.Anything, from.Add(window), to.Add(window)).Return([]*entities.Match{match}, nil)
		uow.Events.On("Publish", events.MatchLockedEvent{
			MatchID:   5,
			Matchday:  2,
			HomeTeam:  "Ajax",
			AwayTeam:  "PSV",
			MatchDate: match.MatchDate,
		}).Return(nil)
		uow.Sessions.On("DeleteExpired", mock.Anything, to).Return(int64(3), nil)
		uow.On("Commit").Return(nil)

		require.NoError(t, worker.Tick(context.Background(), from, to))
		uow.AssertExpectations(t)
	})

	t.Run("rolls back when the query fails", func(t *testing.T) {
		t.Parallel()
		uow := testhelpers.NewMockUnitOfWork()
		worker := NewLockWatchWorker(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, window)

		uow.On("Begin", mock.Anything).Return(nil)
		uow.Matches.On("GetKickingOffBetween", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
		uow.On("Rollback").Return(nil)

		err := worker.Tick(context.Background(), from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "entering lock window")
		uow.AssertNotCalled(t, "Commit")
		uow.Sessions.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})
}

func TestLockWatchWorker_StartStop(t *testing.T) {
	t.Parallel()

	uow := testhelpers.NewMockUnitOfWork()
	uow.On("Begin", mock.Anything).Return(nil).Maybe()
	uow.Matches.On("GetKickingOffBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*entities.Match{}, nil).Maybe()
	uow.Sessions.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	uow.On("Commit").Return(nil).Maybe()

	worker := NewLockWatchWorker(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := worker.Start(ctx, 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	stop()

	assert.NotPanics(t, assert.PanicTestFunc(cancel))
}
