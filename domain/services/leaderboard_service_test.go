package services

import (
	"context"
	"errors"
	"testing"

	"tipster/domain"
	"tipster/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_Leaderboard(t *testing.T) {
	t.Parallel()

	t.Run("returns rows in store order", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		rows := []*entities.ScoreboardEntry{
			{UserID: "u1", Username: "alice", ExactHits: 4, DirectionHits: 6, TotalPoints: 18},
			{UserID: "u2", Username: "bob", ExactHits: 2, DirectionHits: 7, TotalPoints: 13},
		}
		mocks.UserScoreRepo.On("GetAll", mock.Anything).Return(rows, nil)

		got, err := NewLeaderboardService(mocks.UserScoreRepo).Leaderboard(context.Background())

		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		mocks.UserScoreRepo.On("GetAll", mock.Anything).Return(nil, errors.New("relation does not exist"))

		got, err := NewLeaderboardService(mocks.UserScoreRepo).Leaderboard(context.Background())

		assert.Nil(t, got)
		assert.Equal(t, domain.KindPersistenceFailure, domain.KindOf(err))
	})
}
