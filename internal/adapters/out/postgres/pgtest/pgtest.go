// Package pgtest starts a disposable PostgreSQL container with the service schema
// for integration suites.
package pgtest

import (
	"context"
	"time"

	postgres_adapter "catering/internal/adapters/out/postgres"
	"catering/internal/adapters/out/postgres/catalogrepo"
	"catering/internal/core/domain/model/restaurant"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a running container with a migrated schema.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates every model.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err = postgres_adapter.Migrate(ctx, db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every table and resets identities.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE order_items, orders, dishes, restaurants, users RESTART IDENTITY CASCADE").Error
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// Catalog is the seeded set of restaurants and dishes.
type Catalog struct {
	KFC, Silpo     *restaurant.Restaurant
	Twister, Wings *restaurant.Dish
	Borscht        *restaurant.Dish
}

// SeedCatalog inserts KFC with two dishes and Silpo with one.
func (d *Database) SeedCatalog(ctx context.Context) (Catalog, error) {
	repo := catalogrepo.NewGormDishRepository(d.DB)
	var c Catalog

	kfcID, err := repo.AddRestaurant(ctx, "KFC", "Khreshchatyk 1")
	if err != nil {
		return c, err
	}
	silpoID, err := repo.AddRestaurant(ctx, "Silpo", "Antonovycha 176")
	if err != nil {
		return c, err
	}

	twisterID, err := repo.AddDish(ctx, kfcID, "Twister", 15000)
	if err != nil {
		return c, err
	}
	wingsID, err := repo.AddDish(ctx, kfcID, "Wings", 12000)
	if err != nil {
		return c, err
	}
	borschtID, err := repo.AddDish(ctx, silpoID, "Borscht", 9000)
	if err != nil {
		return c, err
	}

	dishes, err := repo.GetByIDs(ctx, []int64{twisterID, wingsID, borschtID})
	if err != nil {
		return c, err
	}
	c.Twister, c.Wings, c.Borscht = dishes[0], dishes[1], dishes[2]
	c.KFC, c.Silpo = c.Twister.Restaurant(), c.Borscht.Restaurant()
	return c, nil
}
