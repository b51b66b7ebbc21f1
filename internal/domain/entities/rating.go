package entities

import (
	"math"
	"time"
)

const (
	MinRatingValue = 1.0
	MaxRatingValue = 5.0
)

// Rating is a single customer's rating of a restaurant, optionally tied to an order.
// (RestaurantID, CustomerID, OrderID) is unique.
type Rating struct {
	ID           string    `json:"id" db:"id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	OrderID      *string   `json:"order_id,omitempty" db:"order_id"`
	Value        float64   `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ValidRatingValue reports whether v lies in [1,5] with at most one decimal place
func ValidRatingValue(v float64) bool {
	if math.IsNaN(v) || v < MinRatingValue || v > MaxRatingValue {
		return false
	}
	tenths := v * 10
	return math.Abs(tenths-math.Round(tenths)) < 1e-9
}

// RatingTotals is the aggregate of all ratings for one restaurant, kept in tenths
// so the mean can be rounded exactly.
type RatingTotals struct {
	SumTenths int64 `db:"sum_tenths"`
	Count     int64 `db:"count"`
}

// ToTenths converts a one-decimal rating into integer tenths
func ToTenths(v float64) int64 {
	return int64(math.Round(v * 10))
}

// Mean returns the average rounded half-up to one decimal place.
// ok is false when there are no ratings.
func (t RatingTotals) Mean() (mean float64, ok bool) {
	if t.Count <= 0 {
		return 0, false
	}
	// round(sum/count) at the tenths digit, half-up, in integer arithmetic
	tenths := (2*t.SumTenths + t.Count) / (2 * t.Count)
	return float64(tenths) / 10, true
}
