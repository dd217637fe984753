package services

import (
	"context"
	"strings"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/events"
	"tipster/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// matchAdminService implements the MatchAdminService interface
type matchAdminService struct {
	matchRepo  interfaces.MatchRepository
	uowFactory interfaces.UnitOfWorkFactory
}

// NewMatchAdminService creates a new match admin service
func NewMatchAdminService(matchRepo interfaces.MatchRepository, uowFactory interfaces.UnitOfWorkFactory) interfaces.MatchAdminService {
	return &matchAdminService{
		matchRepo:  matchRepo,
		uowFactory: uowFactory,
	}
}

// ListAllMatches returns every match ordered by kickoff
func (s *matchAdminService) ListAllMatches(ctx context.Context) ([]*entities.Match, error) {
	matches, err := s.matchRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to list matches")
	}
	return matches, nil
}

// GetMatch returns one match for editing
func (s *matchAdminService) GetMatch(ctx context.Context, matchID int64) (*entities.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to load match")
	}
	if match == nil {
		return nil, domain.NewNotFound("match %d not found", matchID)
	}
	return match, nil
}

// CreateMatch validates and inserts a new fixture with no result
func (s *matchAdminService) CreateMatch(ctx context.Context, input entities.NewMatch) (_ *entities.Match, err error) {
	home := strings.TrimSpace(input.HomeTeam)
	away := strings.TrimSpace(input.AwayTeam)

	if home == "" || away == "" {
		return nil, domain.NewValidationFailure("home and away team are required")
	}
	if input.MatchDate.IsZero() {
		return nil, domain.NewValidationFailure("match date is required")
	}
	if input.Matchday < 0 {
		return nil, domain.NewValidationFailure("matchday must be positive, got %d", input.Matchday)
	}

	matchday := input.Matchday
	if matchday == 0 {
		matchday = 1
	}

	match := &entities.Match{
		Matchday:  matchday,
		MatchDate: input.MatchDate.UTC(),
		HomeTeam:  home,
		AwayTeam:  away,
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err := uow.MatchRepository().Create(ctx, match); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to create match")
	}

	if err := uow.EventBus().Publish(events.MatchCreatedEvent{
		MatchID:   match.ID,
		Matchday:  match.Matchday,
		HomeTeam:  match.HomeTeam,
		AwayTeam:  match.AwayTeam,
		MatchDate: match.MatchDate,
	}); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to publish match created event")
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to commit match")
	}

	log.WithFields(log.Fields{
		"match_id": match.ID,
		"matchday": match.Matchday,
		"home":     match.HomeTeam,
		"away":     match.AwayTeam,
	}).Info("Match created")

	return match, nil
}

// RecordResult stores the actual score of a match. Results may be recorded or
// corrected at any time, including before kickoff.
func (s *matchAdminService) RecordResult(ctx context.Context, matchID int64, homeScore, awayScore int) (_ *entities.Match, err error) {
	if !(entities.Score{Home: homeScore, Away: awayScore}).Valid() {
		return nil, domain.NewValidationFailure("scores must be between 0 and %d, got %d-%d", entities.MaxScore, homeScore, awayScore)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	match, err := uow.MatchRepository().UpdateResult(ctx, matchID, homeScore, awayScore)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to record result")
	}
	if match == nil {
		return nil, domain.NewNotFound("match %d not found", matchID)
	}

	if err := uow.EventBus().Publish(events.MatchResultRecordedEvent{
		MatchID:   match.ID,
		HomeTeam:  match.HomeTeam,
		AwayTeam:  match.AwayTeam,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to publish result recorded event")
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to commit result")
	}

	log.WithFields(log.Fields{
		"match_id":   match.ID,
		"home_score": homeScore,
		"away_score": awayScore,
	}).Info("Match result recorded")

	return match, nil
}
