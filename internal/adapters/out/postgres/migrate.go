package postgres

import (
	"context"

	"catering/internal/adapters/out/postgres/catalogrepo"
	"catering/internal/adapters/out/postgres/orderrepo"
	"catering/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []any {
	return []any{
		&userrepo.UserDTO{},
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.DishDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
	}
}

// Migrate creates or alters the tables to match the models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
