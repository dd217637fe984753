package testhelpers

import (
	"context"
	"time"

	"tipster/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockPredictionService is a mock implementation of PredictionService
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) LoadOpenRound(ctx context.Context, identity *entities.Identity) (*entities.OpenRound, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OpenRound), args.Error(1)
}

func (m *MockPredictionService) IsLocked(match *entities.Match, now time.Time) bool {
	args := m.Called(match, now)
	return args.Bool(0)
}

func (m *MockPredictionService) SubmitPredictions(ctx context.Context, identity *entities.Identity, predictions map[int64]entities.Score) (*entities.SubmissionReport, error) {
	args := m.Called(ctx, identity, predictions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SubmissionReport), args.Error(1)
}

func (m *MockPredictionService) LoadResults(ctx context.Context, identity *entities.Identity) ([]*entities.ResultRow, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ResultRow), args.Error(1)
}

func (m *MockPredictionService) LoadHistory(ctx context.Context, identity *entities.Identity) ([]*entities.PredictionWithMatch, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PredictionWithMatch), args.Error(1)
}

// MockMatchAdminService is a mock implementation of MatchAdminService
type MockMatchAdminService struct {
	mock.Mock
}

func (m *MockMatchAdminService) ListAllMatches(ctx context.Context) ([]*entities.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchAdminService) GetMatch(ctx context.Context, matchID int64) (*entities.Match, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchAdminService) CreateMatch(ctx context.Context, input entities.NewMatch) (*entities.Match, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchAdminService) RecordResult(ctx context.Context, matchID int64, homeScore, awayScore int) (*entities.Match, error) {
	args := m.Called(ctx, matchID, homeScore, awayScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

// MockSessionGate is a mock implementation of SessionGate
type MockSessionGate struct {
	mock.Mock
}

func (m *MockSessionGate) ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Identity), args.Error(1)
}

func (m *MockSessionGate) RequireAuthenticated(ctx context.Context, token string) (entities.GateResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(entities.GateResult), args.Error(1)
}

func (m *MockSessionGate) RequireAdmin(ctx context.Context, token string) (entities.GateResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(entities.GateResult), args.Error(1)
}

func (m *MockSessionGate) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionGate) IssueSession(ctx context.Context, userID, email string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, email, ttl)
	return args.String(0), args.Error(1)
}

// MockLeaderboardService is a mock implementation of LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Leaderboard(ctx context.Context) ([]*entities.ScoreboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ScoreboardEntry), args.Error(1)
}
