package application

import (
	"context"
	"fmt"
	"time"

	"tipster/domain/events"
	"tipster/domain/interfaces"
	"tipster/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// LockWatchWorker announces matches as they enter the lock window and prunes
// expired sessions. Each match is announced once per process: the worker only
// looks at lock times between its previous and current tick.
type LockWatchWorker struct {
	uowFactory interfaces.UnitOfWorkFactory
	lockWindow time.Duration
	now        func() time.Time
}

// NewLockWatchWorker creates a new lock watch worker
func NewLockWatchWorker(uowFactory interfaces.UnitOfWorkFactory, lockWindow time.Duration) *LockWatchWorker {
	return &LockWatchWorker{
		uowFactory: uowFactory,
		lockWindow: lockWindow,
		now:        time.Now,
	}
}

// Start runs the worker every interval until ctx is cancelled or the returned stop func is called
func (w *LockWatchWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithFields(log.Fields{
			"interval":    interval,
			"lock_window": w.lockWindow,
		}).Info("Lock watch worker started")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := w.now()
		for {
			select {
			case <-ctx.Done():
				log.Info("Lock watch worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Lock watch worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				current := w.now()
				if err := w.Tick(ctx, last, current); err != nil {
					log.WithError(err).Error("Lock watch tick failed")
					continue
				}
				last = current
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// Tick announces matches whose lock time falls in (from, to] and deletes sessions expired by to
func (w *LockWatchWorker) Tick(ctx context.Context, from, to time.Time) (err error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	matches, err := uow.MatchRepository().GetKickingOffBetween(ctx, from.Add(w.lockWindow), to.Add(w.lockWindow))
	if err != nil {
		return fmt.Errorf("failed to get matches entering lock window: %w", err)
	}

	for _, m := range matches {
		if err := uow.EventBus().Publish(events.MatchLockedEvent{
			MatchID:   m.ID,
			Matchday:  m.Matchday,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			MatchDate: m.MatchDate,
		}); err != nil {
			return fmt.Errorf("failed to publish match locked event for match %d: %w", m.ID, err)
		}
	}

	pruned, err := uow.SessionRepository().DeleteExpired(ctx, to)
	if err != nil {
		return fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit lock watch tick: %w", err)
	}

	for range matches {
		observability.GetMetrics().RecordMatchLocked()
	}

	if len(matches) > 0 || pruned > 0 {
		log.WithFields(log.Fields{
			"locked_matches":  len(matches),
			"pruned_sessions": pruned,
		}).Info("Lock watch tick completed")
	}
	return nil
}
