package entities

import (
	"time"
)

// OrderStatus represents the status of a food order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusPreparing: {},
	OrderStatusReady:     {},
	OrderStatusServed:    {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	_, ok := validOrderStatuses[s]
	return ok
}

// IsTerminal reports whether the order has been handed over to the customer.
// Entering a terminal status is what prompts the customer for a rating.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusServed
}

// Order represents a customer's order at a restaurant
type Order struct {
	ID           string      `json:"id" db:"id"`
	RestaurantID string      `json:"restaurant_id" db:"restaurant_id"`
	CustomerID   string      `json:"customer_id" db:"customer_id"`
	Status       OrderStatus `json:"status" db:"status"`
	TotalAmount  float64     `json:"total_amount" db:"total_amount"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
