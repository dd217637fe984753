package repository

import (
	"tipster/database"
	"tipster/domain/interfaces"
)

// CreateTestUnitOfWork creates a unit of work for testing with the provided transactional publisher
func CreateTestUnitOfWork(db *database.DB, transactionalPublisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return NewUnitOfWorkFactory(db).CreateWithPublisher(transactionalPublisher)
}
