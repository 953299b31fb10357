package recommendation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/restaurant"
)

const (
	// Namespace is the cache namespace holding one Set per user id.
	Namespace = "recommendations"

	// OrdersLimit is how many of the latest delivered orders feed the prompt.
	OrdersLimit = 5

	// Threshold is the maximum number of dishes recommended to one user.
	Threshold = 2
)

var (
	// ErrInvalidRecommendation is returned when the model output is not a list of dish ids.
	ErrInvalidRecommendation = errors.New("language model returned invalid dish ids")

	// ErrUnknownDishes is returned when some recommended ids are missing from the catalog.
	ErrUnknownDishes = errors.New("some recommended dishes are not in the catalog")
)

// DishView is the cached representation of a recommended dish.
type DishView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	RestaurantID int64  `json:"restaurant"`
}

// NewDishView flattens a catalog dish.
func NewDishView(d *restaurant.Dish) DishView {
	return DishView{
		ID:           d.ID(),
		Name:         d.Name(),
		Price:        d.Price(),
		RestaurantID: d.Restaurant().ID(),
	}
}

// Set is the value cached per user.
type Set struct {
	Dishes []DishView `json:"dishes"`
}

// ParseDishIDs parses comma separated ids such as "12, 7". Duplicates collapse and
// at most Threshold ids are kept.
func ParseDishIDs(raw string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]struct{})
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecommendation, raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > Threshold {
		ids = ids[:Threshold]
	}
	return ids, nil
}

// BuildPrompt describes the delivered orders and asks for up to Threshold dish ids.
func BuildPrompt(history []*order.Order) string {
	var b strings.Builder
	b.WriteString("Below you can see the list of orders:\n")
	for _, o := range history {
		fmt.Fprintf(&b, "order %d:\n", o.ID())
		for _, item := range o.Items() {
			d := item.Dish()
			fmt.Fprintf(&b, "  - dish id=%d name=%q restaurant=%q quantity=%d\n",
				d.ID(), d.Name(), d.Restaurant().Name(), item.Quantity())
		}
	}
	fmt.Fprintf(&b, "\nReturn me up to %d top dishes according to this list.\n", Threshold)
	b.WriteString("Return it without any verbosity except of comma separated ids.\n")
	return b.String()
}
