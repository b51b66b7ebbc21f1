package entities

import "time"

// NotificationStatus represents whether the recipient has seen a notification
type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// CustomerNotification is delivered to a customer. OrderID and PostID point at the
// context that produced it; both are nil for generic notices.
type CustomerNotification struct {
	ID             string             `json:"id" db:"id"`
	CustomerID     string             `json:"customer_id" db:"customer_id"`
	OrderID        *string            `json:"order_id,omitempty" db:"order_id"`
	Title          string             `json:"title" db:"title"`
	Message        string             `json:"message" db:"message"`
	Status         NotificationStatus `json:"status" db:"status"`
	PostID         *string            `json:"post_id,omitempty" db:"post_id"`
	ReplyContent   *string            `json:"reply_content,omitempty" db:"reply_content"`
	RestaurantName *string            `json:"restaurant_name,omitempty" db:"restaurant_name"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// OwnerNotification is delivered to a restaurant owner. CommentID is unique.
type OwnerNotification struct {
	ID             string             `json:"id" db:"id"`
	RestaurantID   string             `json:"restaurant_id" db:"restaurant_id"`
	CustomerID     string             `json:"customer_id" db:"customer_id"`
	PostID         string             `json:"post_id" db:"post_id"`
	CommentID      string             `json:"comment_id" db:"comment_id"`
	Title          string             `json:"title" db:"title"`
	Message        string             `json:"message" db:"message"`
	Status         NotificationStatus `json:"status" db:"status"`
	CommentContent string             `json:"comment_content" db:"comment_content"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// NotificationOutcome records what a notification generator did with an event
type NotificationOutcome string

const (
	OutcomeCreated                  NotificationOutcome = "created"
	OutcomeSkippedMissingParent     NotificationOutcome = "skipped_missing_parent"
	OutcomeSkippedMissingRestaurant NotificationOutcome = "skipped_missing_restaurant"
	OutcomeSkippedNotTerminal       NotificationOutcome = "skipped_not_terminal"
	OutcomeSkippedUnchangedStatus   NotificationOutcome = "skipped_unchanged_status"
	OutcomeSkippedAlreadyRated      NotificationOutcome = "skipped_already_rated"
)

// Created reports whether the outcome produced a notification row
func (o NotificationOutcome) Created() bool {
	return o == OutcomeCreated
}
