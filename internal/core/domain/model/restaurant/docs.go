// Package restaurant models the catalog side of an order: restaurants that cook
// sub-orders and the dishes they sell.
//
// A restaurant's Kind decides which provider integration receives its sub-order.
// The kind is resolved from the restaurant name once, when an order is scheduled;
// a name without an integration yields ErrUnsupportedRestaurant.
package restaurant
