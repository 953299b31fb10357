package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per operation; instances are never shared.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction spanning the catalog and the order tables.
// Repositories obtained after Begin write inside the transaction; before Begin
// they use the plain connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit fails when Begin was not called.
	Commit(ctx context.Context) error
	// Rollback after Commit returns an error and changes nothing.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DishRepository() DishRepository
}
