package orderrepo

import (
	"context"
	"errors"

	"catering/internal/core/domain/model/order"
	"catering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository. tracker may be nil
// when the repository is used outside a unit of work.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and assigns the generated id to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := aggregate.AssignID(dto.ID); err != nil {
		return err
	}

	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// CompareAndSetStatus runs a single conditional UPDATE, so only one of several
// concurrent callers observes RowsAffected == 1.
func (r *GormOrderRepository) CompareAndSetStatus(
	ctx context.Context,
	id int64,
	from []order.Status,
	to order.Status,
) (bool, error) {
	if err := to.Validate(); err != nil {
		return false, err
	}
	if len(from) == 0 {
		return false, nil
	}

	names := make([]string, 0, len(from))
	for _, s := range from {
		names = append(names, s.String())
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status IN ?", id, names).
		Update("status", to.String())
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, errs.NewObjectNotFoundError("order", id)
	}
	return false, nil
}

// GetLastDelivered retrieves up to limit delivered orders of a user, newest first.
func (r *GormOrderRepository) GetLastDelivered(ctx context.Context, userID int64, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("user_id = ? AND status = ?", userID, order.Delivered.String()).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Dish.Restaurant")
}
