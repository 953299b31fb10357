// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"catering/internal/adapters/out/postgres/catalogrepo"
	"catering/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored by name so the table stays readable from SQL.
type OrderDTO struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"`
	UserID           int64      `gorm:"not null;index:idx_orders_user_status,priority:1"`
	Status           string     `gorm:"type:text;not null;index:idx_orders_user_status,priority:2"`
	DeliveryProvider string     `gorm:"type:text;not null"`
	ETA              *time.Time `gorm:"column:eta"`
	Total            int64      `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one dish line of an order.
type OrderItemDTO struct {
	ID       int64               `gorm:"primaryKey;autoIncrement"`
	OrderID  int64               `gorm:"not null;index"`
	DishID   int64               `gorm:"not null"`
	Dish     catalogrepo.DishDTO `gorm:"foreignKey:DishID"`
	Quantity int                 `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
// Dishes are referenced by id and are never written through an order.
func fromDomain(o *order.Order) OrderDTO {
	var eta *time.Time
	if !o.ETA().IsZero() {
		v := o.ETA()
		eta = &v
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:       item.ID(),
			OrderID:  o.ID(),
			DishID:   item.Dish().ID(),
			Quantity: item.Quantity(),
		})
	}

	return OrderDTO{
		ID:               o.ID(),
		UserID:           o.UserID(),
		Status:           o.Status().String(),
		DeliveryProvider: o.DeliveryProvider(),
		ETA:              eta,
		Total:            o.Total(),
		Items:            items,
	}
}

// toDomain rebuilds an order aggregate. Items.Dish.Restaurant must be preloaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		dish, dishErr := catalogrepo.DishToDomain(itemDTO.Dish)
		if dishErr != nil {
			return nil, dishErr
		}
		item, itemErr := order.NewItem(itemDTO.ID, dish, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var eta time.Time
	if dto.ETA != nil {
		eta = *dto.ETA
	}

	return order.RestoreOrder(dto.ID, dto.UserID, status, dto.DeliveryProvider, eta, dto.Total, items), nil
}
