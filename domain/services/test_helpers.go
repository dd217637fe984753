package services

import (
	"testing"
	"time"

	"tipster/domain/entities"
	"tipster/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestUserID  = "5b1f6f3e-7d55-4c84-9a8a-2f0e7c1c0a11"
	TestEmail   = "fan@example.com"
	TestAdminID = "0c7e1a2b-3344-4f5e-8a9b-c0d1e2f3a4b5"
	TestToken   = "test-session-token"
)

// TestNow is the fixed clock used across service tests
var TestNow = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

// TestMocks aggregates the mocks used by service tests
type TestMocks struct {
	MatchRepo      *testhelpers.MockMatchRepository
	PredictionRepo *testhelpers.MockPredictionRepository
	UserScoreRepo  *testhelpers.MockUserScoreRepository
	SessionRepo    *testhelpers.MockSessionRepository
	AuthRepo       *testhelpers.MockAuthorizedEmailRepository
	UoW            *testhelpers.MockUnitOfWork
	UoWFactory     *testhelpers.MockUnitOfWorkFactory
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	uow := testhelpers.NewMockUnitOfWork()
	return &TestMocks{
		MatchRepo:      &testhelpers.MockMatchRepository{},
		PredictionRepo: &testhelpers.MockPredictionRepository{},
		UserScoreRepo:  &testhelpers.MockUserScoreRepository{},
		SessionRepo:    &testhelpers.MockSessionRepository{},
		AuthRepo:       &testhelpers.MockAuthorizedEmailRepository{},
		UoW:            uow,
		UoWFactory:     &testhelpers.MockUnitOfWorkFactory{UoW: uow},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.MatchRepo.AssertExpectations(t)
	m.PredictionRepo.AssertExpectations(t)
	m.UserScoreRepo.AssertExpectations(t)
	m.SessionRepo.AssertExpectations(t)
	m.AuthRepo.AssertExpectations(t)
	m.UoW.AssertExpectations(t)
}

// NewTestPredictionService builds a prediction service pinned to TestNow
func (m *TestMocks) NewTestPredictionService() *predictionService {
	svc := NewPredictionService(m.MatchRepo, m.PredictionRepo, m.UoWFactory, entities.DefaultLockWindow).(*predictionService)
	svc.now = func() time.Time { return TestNow }
	return svc
}

// NewTestSessionGate builds a session gate pinned to TestNow
func (m *TestMocks) NewTestSessionGate() *sessionGate {
	gate := NewSessionGate(m.SessionRepo, m.AuthRepo).(*sessionGate)
	gate.now = func() time.Time { return TestNow }
	return gate
}

// TestIdentity returns a regular user identity
func TestIdentity() *entities.Identity {
	return &entities.Identity{ID: TestUserID, Email: TestEmail, Role: entities.RoleUser}
}

// TestMatch builds a match kicking off at TestNow+offset
func TestMatch(id int64, matchday int, offset time.Duration) *entities.Match {
	return &entities.Match{
		ID:        id,
		Matchday:  matchday,
		MatchDate: TestNow.Add(offset),
		HomeTeam:  "Home " + string(rune('A'+id%26)),
		AwayTeam:  "Away " + string(rune('A'+id%26)),
	}
}
