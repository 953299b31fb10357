// Package commands holds the write side of the service: placing orders and
// driving them through cooking, delivery and the recommendation batch.
//
// Orchestration handlers never open transactions. They coordinate through the
// tracking store and conditional order status writes, so concurrent tasks of
// the same order cannot overwrite each other. PlaceOrder is the only handler
// that runs inside a unit of work.
package commands

import (
	"context"

	"catering/internal/core/ports"
)

// Transaction scoped views of the postgres adapter, narrowed to what a handler uses.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DishRepoFactory interface {
		DishRepository() ports.DishRepository
	}

	// OrderUoW reads dish prices and writes the order with its items atomically.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//		return err
	//	}
	//	defer uow.Rollback(ctx)
	//	dishes, err := uow.DishRepository().GetByIDs(ctx, ids)
	//	...
	//	return uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		DishRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
