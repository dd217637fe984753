package testhelpers

import (
	"context"
	"time"

	"tipster/domain/entities"
	"tipster/domain/events"
	"tipster/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*entities.Match, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) GetAll(ctx context.Context) ([]*entities.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) GetWithResults(ctx context.Context) ([]*entities.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) GetKickingOffBetween(ctx context.Context, from, to time.Time) ([]*entities.Match, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) Create(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) UpdateResult(ctx context.Context, id int64, homeScore, awayScore int) (*entities.Match, error) {
	args := m.Called(ctx, id, homeScore, awayScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Prediction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetHistoryByUser(ctx context.Context, userID string) ([]*entities.PredictionWithMatch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PredictionWithMatch), args.Error(1)
}

func (m *MockPredictionRepository) UpsertBatch(ctx context.Context, predictions []*entities.Prediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

// MockUserScoreRepository is a mock implementation of UserScoreRepository
type MockUserScoreRepository struct {
	mock.Mock
}

func (m *MockUserScoreRepository) GetAll(ctx context.Context) ([]*entities.ScoreboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ScoreboardEntry), args.Error(1)
}

// MockAuthorizedEmailRepository is a mock implementation of AuthorizedEmailRepository
type MockAuthorizedEmailRepository struct {
	mock.Mock
}

func (m *MockAuthorizedEmailRepository) HasRole(ctx context.Context, email string, role entities.Role) (bool, error) {
	args := m.Called(ctx, email, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizedEmailRepository) Grant(ctx context.Context, email string, role entities.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the embedded mocks so expectations can be set on them directly.
type MockUnitOfWork struct {
	mock.Mock

	Matches         *MockMatchRepository
	Predictions     *MockPredictionRepository
	AuthorizedEmail *MockAuthorizedEmailRepository
	Sessions        *MockSessionRepository
	Events          *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work backed by fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Matches:         &MockMatchRepository{},
		Predictions:     &MockPredictionRepository{},
		AuthorizedEmail: &MockAuthorizedEmailRepository{},
		Sessions:        &MockSessionRepository{},
		Events:          &MockEventPublisher{},
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) MatchRepository() interfaces.MatchRepository {
	return m.Matches
}

func (m *MockUnitOfWork) PredictionRepository() interfaces.PredictionRepository {
	return m.Predictions
}

func (m *MockUnitOfWork) AuthorizedEmailRepository() interfaces.AuthorizedEmailRepository {
	return m.AuthorizedEmail
}

func (m *MockUnitOfWork) SessionRepository() interfaces.SessionRepository {
	return m.Sessions
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Events
}

// AssertExpectations verifies the unit of work and every repository mock
func (m *MockUnitOfWork) AssertExpectations(t mock.TestingT) bool {
	ok := m.Mock.AssertExpectations(t)
	ok = m.Matches.AssertExpectations(t) && ok
	ok = m.Predictions.AssertExpectations(t) && ok
	ok = m.AuthorizedEmail.AssertExpectations(t) && ok
	ok = m.Sessions.AssertExpectations(t) && ok
	ok = m.Events.AssertExpectations(t) && ok
	return ok
}

// MockUnitOfWorkFactory hands out a fixed unit of work
type MockUnitOfWorkFactory struct {
	UoW interfaces.UnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}
