package catalogrepo

import (
	"context"

	"catering/internal/core/domain/model/restaurant"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormDishRepository implements ports.DishRepository using GORM.
type GormDishRepository struct {
	db *gorm.DB
}

func NewGormDishRepository(db *gorm.DB) *GormDishRepository {
	return &GormDishRepository{db: db}
}

// GetByIDs loads the dishes among ids with their restaurants, ordered as ids.
// Unknown ids are left out.
func (r *GormDishRepository) GetByIDs(ctx context.Context, ids []int64) ([]*restaurant.Dish, error) {
	if len(ids) == 0 {
		return []*restaurant.Dish{}, nil
	}

	var dtos []DishDTO
	err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("id = ANY(?)", pq.Array(ids)).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]DishDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	dishes := make([]*restaurant.Dish, 0, len(dtos))
	for _, id := range ids {
		dto, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)

		d, err := DishToDomain(dto)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}

	return dishes, nil
}

// AddRestaurant stores a restaurant row and returns its id. Used for seeding.
func (r *GormDishRepository) AddRestaurant(ctx context.Context, name, address string) (int64, error) {
	dto := RestaurantDTO{Name: name, Address: address}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}

// AddDish stores a dish of an existing restaurant and returns its id.
func (r *GormDishRepository) AddDish(ctx context.Context, restaurantID int64, name string, price int64) (int64, error) {
	dto := DishDTO{Name: name, Price: price, RestaurantID: restaurantID}
	if err := r.db.WithContext(ctx).Omit("Restaurant").Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}
