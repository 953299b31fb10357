// Package catalogrepo maps restaurants and their dishes to relational tables and
// reads the catalog for order placement and recommendations.
package catalogrepo

import (
	"catering/internal/core/domain/model/restaurant"
)

// RestaurantDTO is a row of the restaurants table. Name doubles as the provider
// selector, so it is stored as written by operators.
type RestaurantDTO struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"type:text;not null;uniqueIndex"`
	Address string `gorm:"type:text;not null"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// DishDTO is a row of the dishes table. Price is kept in minor currency units.
type DishDTO struct {
	ID           int64         `gorm:"primaryKey;autoIncrement"`
	Name         string        `gorm:"type:text;not null"`
	Price        int64         `gorm:"not null"`
	RestaurantID int64         `gorm:"not null;index"`
	Restaurant   RestaurantDTO `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

func (DishDTO) TableName() string {
	return "dishes"
}

// RestaurantToDomain rebuilds a restaurant from its row.
func RestaurantToDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	return restaurant.NewRestaurant(dto.ID, dto.Name, dto.Address)
}

// DishToDomain rebuilds a dish together with its owning restaurant. The
// Restaurant association must be preloaded.
func DishToDomain(dto DishDTO) (*restaurant.Dish, error) {
	owner, err := RestaurantToDomain(dto.Restaurant)
	if err != nil {
		return nil, err
	}
	return restaurant.NewDish(dto.ID, owner, dto.Name, dto.Price)
}

// DishFromDomain flattens a dish; the restaurant row is referenced, not copied.
func DishFromDomain(d *restaurant.Dish) DishDTO {
	return DishDTO{
		ID:           d.ID(),
		Name:         d.Name(),
		Price:        d.Price(),
		RestaurantID: d.Restaurant().ID(),
	}
}
