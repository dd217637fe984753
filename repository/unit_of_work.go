package repository

import (
	"context"
	"errors"
	"fmt"

	"tipster/database"
	"tipster/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	matchRepo              interfaces.MatchRepository
	predictionRepo         interfaces.PredictionRepository
	authorizedEmailRepo    interfaces.AuthorizedEmailRepository
	sessionRepo            interfaces.SessionRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a UnitOfWork whose events go through transactionalPublisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.matchRepo = newMatchRepository(tx)
	u.predictionRepo = newPredictionRepository(tx)
	u.authorizedEmailRepo = newAuthorizedEmailRepository(tx)
	u.sessionRepo = newSessionRepository(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// Events are best-effort once the transaction has committed
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Warn("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// MatchRepository returns the match repository for this unit of work
func (u *unitOfWork) MatchRepository() interfaces.MatchRepository {
	if u.matchRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.matchRepo
}

// PredictionRepository returns the prediction repository for this unit of work
func (u *unitOfWork) PredictionRepository() interfaces.PredictionRepository {
	if u.predictionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.predictionRepo
}

func (u *unitOfWork) AuthorizedEmailRepository() interfaces.AuthorizedEmailRepository {
	if u.authorizedEmailRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.authorizedEmailRepo
}

func (u *unitOfWork) SessionRepository() interfaces.SessionRepository {
	if u.sessionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.sessionRepo
}

// EventBus returns the transactional publisher; events are held until Commit
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work has no event publisher")
	}
	return u.transactionalPublisher
}
