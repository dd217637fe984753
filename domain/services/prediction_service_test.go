package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPredictionService_IsLocked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{name: "well before window", offset: 3 * time.Hour, want: false},
		{name: "exactly one hour before kickoff", offset: 60 * time.Minute, want: false},
		{name: "one second inside window", offset: 60*time.Minute - time.Second, want: true},
		{name: "ten minutes before kickoff", offset: 10 * time.Minute, want: true},
		{name: "at kickoff", offset: 0, want: true},
		{name: "already started", offset: -30 * time.Minute, want: true},
	}

	svc := NewTestMocks().NewTestPredictionService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			match := TestMatch(1, 1, tt.offset)
			assert.Equal(t, tt.want, svc.IsLocked(match, TestNow))
		})
	}
}

func TestPredictionService_LoadOpenRound(t *testing.T) {
	t.Parallel()

	t.Run("nil identity is unauthenticated", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		round, err := svc.LoadOpenRound(context.Background(), nil)

		require.Error(t, err)
		assert.Nil(t, round)
		assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
		mocks.MatchRepo.AssertNotCalled(t, "GetUpcoming", mock.Anything, mock.Anything)
	})

	t.Run("no upcoming matches gives empty round", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return([]*entities.Match{}, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)

		round, err := svc.LoadOpenRound(context.Background(), TestIdentity())

		require.NoError(t, err)
		assert.True(t, round.IsEmpty())
		assert.Equal(t, 0, round.Matchday)
		mocks.AssertAllExpectations(t)
	})

	t.Run("keeps lowest matchday and merges predictions", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		upcoming := []*entities.Match{
			TestMatch(2, 3, 3*time.Hour),
			TestMatch(1, 3, 10*time.Minute),
			TestMatch(3, 4, 24*time.Hour),
		}
		predictions := []*entities.Prediction{
			{UserID: TestUserID, MatchID: 2, PredictedHomeScore: 2, PredictedAwayScore: 1},
			{UserID: TestUserID, MatchID: 3, PredictedHomeScore: 0, PredictedAwayScore: 0},
		}
		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(upcoming, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return(predictions, nil)

		round, err := svc.LoadOpenRound(context.Background(), TestIdentity())

		require.NoError(t, err)
		assert.Equal(t, 3, round.Matchday)
		assert.Equal(t, TestNow, round.LoadedAt)
		require.Len(t, round.Matches, 2)

		assert.Equal(t, int64(1), round.Matches[0].Match.ID)
		assert.True(t, round.Matches[0].Locked)
		assert.Nil(t, round.Matches[0].Prediction)

		assert.Equal(t, int64(2), round.Matches[1].Match.ID)
		assert.False(t, round.Matches[1].Locked)
		require.NotNil(t, round.Matches[1].Prediction)
		assert.Equal(t, entities.Score{Home: 2, Away: 1}, *round.Matches[1].Prediction)

		_, found := round.Find(3)
		assert.False(t, found, "later matchday must not be offered")
		mocks.AssertAllExpectations(t)
	})

	t.Run("store failure surfaces as persistence failure", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(nil, errors.New("connection refused"))
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil).Maybe()

		round, err := svc.LoadOpenRound(context.Background(), TestIdentity())

		require.Error(t, err)
		assert.Nil(t, round)
		assert.Equal(t, domain.KindPersistenceFailure, domain.KindOf(err))
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestPredictionService_SubmitPredictions(t *testing.T) {
	t.Parallel()

	t.Run("locked match rejected while open match persists", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		matchA := TestMatch(10, 5, 10*time.Minute)
		matchB := TestMatch(11, 5, 3*time.Hour)
		upcoming := []*entities.Match{matchA, matchB}

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(upcoming, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil).Once()
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{
			{UserID: TestUserID, MatchID: 11, PredictedHomeScore: 0, PredictedAwayScore: 0},
		}, nil).Once()

		mocks.UoW.On("Begin", mock.Anything).Return(nil)
		mocks.UoW.Predictions.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(preds []*entities.Prediction) bool {
			return len(preds) == 1 &&
				preds[0].MatchID == 11 &&
				preds[0].UserID == TestUserID &&
				preds[0].PredictedHomeScore == 0 &&
				preds[0].PredictedAwayScore == 0
		})).Return(nil)
		mocks.UoW.Events.On("Publish", events.PredictionsSubmittedEvent{
			UserID:   TestUserID,
			Matchday: 5,
			MatchIDs: []int64{11},
		}).Return(nil)
		mocks.UoW.On("Commit").Return(nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			10: {Home: 2, Away: 1},
			11: {Home: 0, Away: 0},
		})

		require.NoError(t, err)
		assert.True(t, report.Submitted())
		assert.Equal(t, []int64{11}, report.Accepted)
		assert.Equal(t, []entities.Rejection{{MatchID: 10, Reason: entities.RejectLocked}}, report.Rejected)

		require.NotNil(t, report.Round)
		rm, ok := report.Round.Find(11)
		require.True(t, ok)
		require.NotNil(t, rm.Prediction)
		assert.Equal(t, entities.Score{Home: 0, Away: 0}, *rm.Prediction)

		mocks.AssertAllExpectations(t)
		mocks.UoW.AssertNotCalled(t, "Rollback")
	})

	t.Run("entries outside open round and negative scores are rejected without a write", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		upcoming := []*entities.Match{
			TestMatch(1, 2, 4*time.Hour),
			TestMatch(2, 3, 48*time.Hour),
		}
		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(upcoming, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			1:  {Home: -1, Away: 2},
			2:  {Home: 1, Away: 1},
			99: {Home: 1, Away: 0},
		})

		require.NoError(t, err)
		assert.False(t, report.Submitted())
		assert.Empty(t, report.Accepted)
		assert.Equal(t, []entities.Rejection{
			{MatchID: 1, Reason: entities.RejectInvalidScore},
			{MatchID: 2, Reason: entities.RejectNotInOpenRound},
			{MatchID: 99, Reason: entities.RejectNotInOpenRound},
		}, report.Rejected)
		assert.Equal(t, 2, report.Round.Matchday)

		mocks.UoW.AssertNotCalled(t, "Begin", mock.Anything)
		mocks.UoW.Predictions.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("out of range score is rejected while sibling entry persists", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		upcoming := []*entities.Match{TestMatch(1, 1, 2*time.Hour), TestMatch(2, 1, 3*time.Hour)}
		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(upcoming, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)
		mocks.UoW.On("Begin", mock.Anything).Return(nil)
		mocks.UoW.Predictions.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(preds []*entities.Prediction) bool {
			return len(preds) == 1 && preds[0].MatchID == 2
		})).Return(nil)
		mocks.UoW.Events.On("Publish", events.PredictionsSubmittedEvent{
			UserID:   TestUserID,
			Matchday: 1,
			MatchIDs: []int64{2},
		}).Return(nil)
		mocks.UoW.On("Commit").Return(nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			1: {Home: entities.MaxScore + 1, Away: 0},
			2: {Home: 2, Away: entities.MaxScore},
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{2}, report.Accepted)
		assert.Equal(t, []entities.Rejection{{MatchID: 1, Reason: entities.RejectInvalidScore}}, report.Rejected)
		mocks.AssertAllExpectations(t)
	})

	t.Run("empty submission writes nothing", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return([]*entities.Match{TestMatch(1, 1, 2*time.Hour)}, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{})

		require.NoError(t, err)
		assert.False(t, report.Submitted())
		assert.Empty(t, report.Rejected)
		mocks.UoW.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("store failure rolls back and reports persistence failure", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return([]*entities.Match{TestMatch(1, 1, 2*time.Hour)}, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)
		mocks.UoW.On("Begin", mock.Anything).Return(nil)
		mocks.UoW.Predictions.On("UpsertBatch", mock.Anything, mock.Anything).Return(errors.New("deadlock detected"))
		mocks.UoW.On("Rollback").Return(nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			1: {Home: 1, Away: 0},
		})

		require.Error(t, err)
		assert.Nil(t, report)
		assert.True(t, errors.Is(err, domain.ErrPersistenceFailure))
		mocks.UoW.AssertExpectations(t)
		mocks.UoW.AssertNotCalled(t, "Commit")
		mocks.UoW.Events.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("resubmission overwrites the stored score", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return([]*entities.Match{TestMatch(7, 1, 2*time.Hour)}, nil)
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{
			{UserID: TestUserID, MatchID: 7, PredictedHomeScore: 1, PredictedAwayScore: 1},
		}, nil).Once()
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{
			{UserID: TestUserID, MatchID: 7, PredictedHomeScore: 3, PredictedAwayScore: 2},
		}, nil).Once()
		mocks.UoW.On("Begin", mock.Anything).Return(nil)
		mocks.UoW.Predictions.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
		mocks.UoW.Events.On("Publish", mock.AnythingOfType("events.PredictionsSubmittedEvent")).Return(nil)
		mocks.UoW.On("Commit").Return(nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			7: {Home: 3, Away: 2},
		})

		require.NoError(t, err)
		rm, ok := report.Round.Find(7)
		require.True(t, ok)
		assert.Equal(t, entities.Score{Home: 3, Away: 2}, *rm.Prediction)
		mocks.AssertAllExpectations(t)
	})

	t.Run("failed re-fetch falls back to local reconcile", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return([]*entities.Match{TestMatch(7, 1, 2*time.Hour)}, nil).Once()
		mocks.MatchRepo.On("GetUpcoming", mock.Anything, TestNow).Return(nil, errors.New("timeout")).Once()
		mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{}, nil)
		mocks.UoW.On("Begin", mock.Anything).Return(nil)
		mocks.UoW.Predictions.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
		mocks.UoW.Events.On("Publish", mock.Anything).Return(nil)
		mocks.UoW.On("Commit").Return(nil)

		report, err := svc.SubmitPredictions(context.Background(), TestIdentity(), map[int64]entities.Score{
			7: {Home: 4, Away: 0},
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{7}, report.Accepted)
		rm, ok := report.Round.Find(7)
		require.True(t, ok)
		require.NotNil(t, rm.Prediction)
		assert.Equal(t, entities.Score{Home: 4, Away: 0}, *rm.Prediction)
	})

	t.Run("nil identity is unauthenticated", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := mocks.NewTestPredictionService()

		report, err := svc.SubmitPredictions(context.Background(), nil, map[int64]entities.Score{1: {}})

		require.Error(t, err)
		assert.Nil(t, report)
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})
}

func TestPredictionService_LoadResults(t *testing.T) {
	t.Parallel()

	mocks := NewTestMocks()
	svc := mocks.NewTestPredictionService()

	home, away := 2, 2
	played := TestMatch(4, 1, -48*time.Hour)
	played.ActualHomeScore = &home
	played.ActualAwayScore = &away
	unpredicted := TestMatch(5, 1, -47*time.Hour)
	unpredicted.ActualHomeScore = &home
	unpredicted.ActualAwayScore = &away

	mocks.MatchRepo.On("GetWithResults", mock.Anything).Return([]*entities.Match{played, unpredicted}, nil)
	mocks.PredictionRepo.On("GetByUser", mock.Anything, TestUserID).Return([]*entities.Prediction{
		{UserID: TestUserID, MatchID: 4, PredictedHomeScore: 1, PredictedAwayScore: 1},
	}, nil)

	rows, err := svc.LoadResults(context.Background(), TestIdentity())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Prediction)
	assert.Equal(t, entities.Score{Home: 1, Away: 1}, *rows[0].Prediction)
	assert.Nil(t, rows[1].Prediction)
	mocks.AssertAllExpectations(t)
}

func TestPredictionService_LoadHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity *entities.Identity
		setup    func(*TestMocks)
		wantLen  int
		wantKind domain.ErrorKind
	}{
		{
			name:     "returns history",
			identity: TestIdentity(),
			setup: func(m *TestMocks) {
				m.PredictionRepo.On("GetHistoryByUser", mock.Anything, TestUserID).Return([]*entities.PredictionWithMatch{
					{Prediction: entities.Prediction{UserID: TestUserID, MatchID: 1}, Match: *TestMatch(1, 1, time.Hour)},
				}, nil)
			},
			wantLen: 1,
		},
		{
			name:     "store failure",
			identity: TestIdentity(),
			setup: func(m *TestMocks) {
				m.PredictionRepo.On("GetHistoryByUser", mock.Anything, TestUserID).Return(nil, errors.New("boom"))
			},
			wantKind: domain.KindPersistenceFailure,
		},
		{
			name:     "no identity",
			identity: nil,
			setup:    func(*TestMocks) {},
			wantKind: domain.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mocks := NewTestMocks()
			tt.setup(mocks)
			svc := mocks.NewTestPredictionService()

			history, err := svc.LoadHistory(context.Background(), tt.identity)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, history, tt.wantLen)
		})
	}
}
