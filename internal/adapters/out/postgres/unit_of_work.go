// Package postgres persists the catalog, users and orders with GORM. The
// repositories live in subpackages; this package ties them to one transaction
// and owns the schema migration.
//
// Order placement is the only caller that begins a transaction: it reads dish
// prices and writes the order with its items atomically.
//
//	uow := NewGormUnitOfWorkFactory(db).Create()
//	if err := uow.Begin(ctx); err != nil {
//		return err
//	}
//	defer uow.Rollback(ctx)
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//		return err
//	}
//	return uow.Commit(ctx)
//
// A GormUnitOfWork holds one transaction and must stay on one goroutine.
package postgres

import (
	"context"

	"catering/internal/adapters/out/postgres/catalogrepo"
	"catering/internal/adapters/out/postgres/orderrepo"
	"catering/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate inserted since Begin.
type trackedAggregate struct {
	ID        int64
	Aggregate any
}

// GormUnitOfWorkFactory creates units of work over a shared connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a unit of work with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork wraps at most one open transaction and the ids it inserted.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit returns gorm.ErrInvalidTransaction without an open transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback also forgets the tracked aggregates. After Commit it only returns
// gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository writes through the open transaction, or the pool before Begin.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DishRepository() ports.DishRepository {
	return catalogrepo.NewGormDishRepository(uow.conn())
}

// TrackAggregate is called by repositories after an insert.
func (uow *GormUnitOfWork) TrackAggregate(id int64, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedIDs returns the ids of the aggregates written since Begin.
func (uow *GormUnitOfWork) TrackedIDs() []int64 {
	ids := make([]int64, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		ids = append(ids, t.ID)
	}
	return ids
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
