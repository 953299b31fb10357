// Package order provides the Order aggregate root and the canonical order status.
//
// The package includes:
//   - Order: identity, owner, totals and the aggregate status of a customer submission
//   - Item: an immutable dish line; items are grouped into per-restaurant sub-orders
//   - Status: the canonical progression every provider vocabulary maps onto
//
// Key business rules:
//   - An order holds at least one item and its total is derived from the items
//   - Status follows NOT_STARTED -> COOKING -> COOKED -> DELIVERY_LOOKUP -> DELIVERY -> DELIVERED,
//     where COOKED may also be reached directly from NOT_STARTED
//   - DELIVERED is terminal
package order
