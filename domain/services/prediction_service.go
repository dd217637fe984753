package services

import (
	"context"
	"sort"
	"time"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/events"
	"tipster/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// predictionService implements the PredictionService interface
type predictionService struct {
	matchRepo      interfaces.MatchRepository
	predictionRepo interfaces.PredictionRepository
	uowFactory     interfaces.UnitOfWorkFactory
	lockWindow     time.Duration
	now            func() time.Time
}

// NewPredictionService creates a new prediction service. The repositories are
// used for reads outside a transaction and must be safe for concurrent use.
func NewPredictionService(
	matchRepo interfaces.MatchRepository,
	predictionRepo interfaces.PredictionRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	lockWindow time.Duration,
) interfaces.PredictionService {
	if lockWindow <= 0 {
		lockWindow = entities.DefaultLockWindow
	}
	return &predictionService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		uowFactory:     uowFactory,
		lockWindow:     lockWindow,
		now:            time.Now,
	}
}

// IsLocked reports whether match stopped accepting predictions at now
func (s *predictionService) IsLocked(match *entities.Match, now time.Time) bool {
	return match.IsLockedAt(now, s.lockWindow)
}

// LoadOpenRound returns the lowest upcoming matchday with the identity's predictions merged in
func (s *predictionService) LoadOpenRound(ctx context.Context, identity *entities.Identity) (*entities.OpenRound, error) {
	if identity == nil {
		return nil, domain.NewUnauthenticated("sign in to see the open round")
	}
	return s.loadOpenRound(ctx, identity.ID, s.now())
}

func (s *predictionService) loadOpenRound(ctx context.Context, userID string, now time.Time) (*entities.OpenRound, error) {
	var (
		upcoming    []*entities.Match
		predictions []*entities.Prediction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.GetUpcoming(gctx, now)
		if err != nil {
			return domain.NewPersistenceFailure(err, "failed to load upcoming matches")
		}
		upcoming = matches
		return nil
	})
	g.Go(func() error {
		preds, err := s.predictionRepo.GetByUser(gctx, userID)
		if err != nil {
			return domain.NewPersistenceFailure(err, "failed to load predictions")
		}
		predictions = preds
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchday, matches := entities.NextMatchday(upcoming)
	round := &entities.OpenRound{
		Matchday: matchday,
		Matches:  make([]entities.RoundMatch, 0, len(matches)),
		LoadedAt: now,
	}

	byMatch := make(map[int64]entities.Score, len(predictions))
	for _, p := range predictions {
		byMatch[p.MatchID] = p.Score()
	}

	for _, m := range matches {
		rm := entities.RoundMatch{
			Match:  *m,
			Locked: s.IsLocked(m, now),
		}
		if score, ok := byMatch[m.ID]; ok {
			rm.Prediction = &score
		}
		round.Matches = append(round.Matches, rm)
	}

	return round, nil
}

// SubmitPredictions validates each entry against the open round and upserts the
// accepted ones in a single transaction. Rejected entries never fail the call.
func (s *predictionService) SubmitPredictions(ctx context.Context, identity *entities.Identity, predictions map[int64]entities.Score) (*entities.SubmissionReport, error) {
	if identity == nil {
		return nil, domain.NewUnauthenticated("sign in to submit predictions")
	}

	now := s.now()
	round, err := s.loadOpenRound(ctx, identity.ID, now)
	if err != nil {
		return nil, err
	}

	report := &entities.SubmissionReport{
		Accepted: []int64{},
		Rejected: []entities.Rejection{},
	}

	matchIDs := make([]int64, 0, len(predictions))
	for id := range predictions {
		matchIDs = append(matchIDs, id)
	}
	sort.Slice(matchIDs, func(i, j int) bool { return matchIDs[i] < matchIDs[j] })

	toStore := make([]*entities.Prediction, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		score := predictions[matchID]
		rm, ok := round.Find(matchID)
		switch {
		case !ok:
			report.Rejected = append(report.Rejected, entities.Rejection{MatchID: matchID, Reason: entities.RejectNotInOpenRound})
		case rm.Locked:
			report.Rejected = append(report.Rejected, entities.Rejection{MatchID: matchID, Reason: entities.RejectLocked})
		case !score.Valid():
			report.Rejected = append(report.Rejected, entities.Rejection{MatchID: matchID, Reason: entities.RejectInvalidScore})
		default:
			report.Accepted = append(report.Accepted, matchID)
			toStore = append(toStore, &entities.Prediction{
				UserID:             identity.ID,
				MatchID:            matchID,
				PredictedHomeScore: score.Home,
				PredictedAwayScore: score.Away,
			})
		}
	}

	if len(toStore) == 0 {
		report.Round = round
		return report, nil
	}

	if err := s.store(ctx, identity.ID, round.Matchday, toStore, report.Accepted); err != nil {
		return nil, err
	}

	refreshed, err := s.loadOpenRound(ctx, identity.ID, s.now())
	if err != nil {
		// Write is committed, so fall back to a local reconcile.
		log.WithFields(log.Fields{
			"user_id": identity.ID,
			"error":   err,
		}).Warn("Failed to re-fetch open round after submission")
		refreshed = reconcileRound(round, toStore)
	}
	report.Round = refreshed

	log.WithFields(log.Fields{
		"user_id":  identity.ID,
		"matchday": round.Matchday,
		"accepted": len(report.Accepted),
		"rejected": len(report.Rejected),
	}).Info("Predictions submitted")

	return report, nil
}

func (s *predictionService) store(ctx context.Context, userID string, matchday int, toStore []*entities.Prediction, accepted []int64) (err error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return domain.NewPersistenceFailure(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err := uow.PredictionRepository().UpsertBatch(ctx, toStore); err != nil {
		return domain.NewPersistenceFailure(err, "failed to save predictions")
	}

	if err := uow.EventBus().Publish(events.PredictionsSubmittedEvent{
		UserID:   userID,
		Matchday: matchday,
		MatchIDs: accepted,
	}); err != nil {
		return domain.NewPersistenceFailure(err, "failed to publish predictions submitted event")
	}

	if err := uow.Commit(); err != nil {
		return domain.NewPersistenceFailure(err, "failed to commit predictions")
	}
	return nil
}

// reconcileRound returns a copy of round with stored overlaid
func reconcileRound(round *entities.OpenRound, stored []*entities.Prediction) *entities.OpenRound {
	out := &entities.OpenRound{
		Matchday: round.Matchday,
		Matches:  make([]entities.RoundMatch, len(round.Matches)),
		LoadedAt: round.LoadedAt,
	}
	copy(out.Matches, round.Matches)

	for _, p := range stored {
		for i := range out.Matches {
			if out.Matches[i].Match.ID == p.MatchID {
				score := p.Score()
				out.Matches[i].Prediction = &score
			}
		}
	}
	return out
}

// LoadResults returns played matches paired with the identity's predictions
func (s *predictionService) LoadResults(ctx context.Context, identity *entities.Identity) ([]*entities.ResultRow, error) {
	if identity == nil {
		return nil, domain.NewUnauthenticated("sign in to see results")
	}

	var (
		played      []*entities.Match
		predictions []*entities.Prediction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.GetWithResults(gctx)
		if err != nil {
			return domain.NewPersistenceFailure(err, "failed to load results")
		}
		played = matches
		return nil
	})
	g.Go(func() error {
		preds, err := s.predictionRepo.GetByUser(gctx, identity.ID)
		if err != nil {
			return domain.NewPersistenceFailure(err, "failed to load predictions")
		}
		predictions = preds
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byMatch := make(map[int64]entities.Score, len(predictions))
	for _, p := range predictions {
		byMatch[p.MatchID] = p.Score()
	}

	rows := make([]*entities.ResultRow, 0, len(played))
	for _, m := range played {
		row := &entities.ResultRow{Match: *m}
		if score, ok := byMatch[m.ID]; ok {
			row.Prediction = &score
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadHistory returns all predictions of the identity with match details
func (s *predictionService) LoadHistory(ctx context.Context, identity *entities.Identity) ([]*entities.PredictionWithMatch, error) {
	if identity == nil {
		return nil, domain.NewUnauthenticated("sign in to see your profile")
	}

	history, err := s.predictionRepo.GetHistoryByUser(ctx, identity.ID)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to load prediction history")
	}
	return history, nil
}
