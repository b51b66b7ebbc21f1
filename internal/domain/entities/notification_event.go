package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationAudience identifies who a realtime notification is addressed to
type NotificationAudience string

const (
	AudienceCustomer   NotificationAudience = "customer"
	AudienceRestaurant NotificationAudience = "restaurant"
)

// NotificationEvent is pushed on the realtime feed when a notification row is inserted
type NotificationEvent struct {
	ID                   string                `json:"id"`
	Audience             NotificationAudience  `json:"audience"`
	RecipientID          string                `json:"recipient_id"`
	Timestamp            time.Time             `json:"timestamp"`
	CustomerNotification *CustomerNotification `json:"customer_notification,omitempty"`
	OwnerNotification    *OwnerNotification    `json:"owner_notification,omitempty"`
}

// NewCustomerNotificationEvent wraps a customer notification for the feed
func NewCustomerNotificationEvent(n *CustomerNotification) *NotificationEvent {
	return &NotificationEvent{
		ID:                   uuid.NewString(),
		Audience:             AudienceCustomer,
		RecipientID:          n.CustomerID,
		Timestamp:            time.Now().UTC(),
		CustomerNotification: n,
	}
}

// NewOwnerNotificationEvent wraps an owner notification for the feed
func NewOwnerNotificationEvent(n *OwnerNotification) *NotificationEvent {
	return &NotificationEvent{
		ID:                uuid.NewString(),
		Audience:          AudienceRestaurant,
		RecipientID:       n.RestaurantID,
		Timestamp:         time.Now().UTC(),
		OwnerNotification: n,
	}
}
