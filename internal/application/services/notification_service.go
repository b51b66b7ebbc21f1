package services

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/providers"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	"github.com/yangonbites/platform/pkg/config"
)

// NotificationService serves the notification read and update surface for
// customers and restaurant owners
type NotificationService struct {
	repos   *repositories.Repositories
	cache   providers.CacheProvider
	cfg     config.NotificationConfig
	metrics *observability.Metrics
}

// NewNotificationService creates a new notification service. cache may be nil.
func NewNotificationService(repos *repositories.Repositories, cache providers.CacheProvider, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{repos: repos, cache: cache, cfg: cfg}
}

// SetMetrics enables cache lookup counters
func (s *NotificationService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// ClampLimit applies the default for a missing limit and caps oversized ones
func (s *NotificationService) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultListLimit
	}
	if limit > s.cfg.MaxListLimit {
		return s.cfg.MaxListLimit
	}
	return limit
}

// ListForCustomer returns a customer's notifications, newest first
func (s *NotificationService) ListForCustomer(ctx context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error) {
	return s.repos.CustomerNotifications.ListByCustomer(ctx, customerID, s.ClampLimit(limit))
}

// CustomerUnreadCount counts a customer's unread notifications
func (s *NotificationService) CustomerUnreadCount(ctx context.Context, customerID string) (int, error) {
	return s.cachedCount(ctx, customerUnreadKey(customerID), func() (int, error) {
		return s.repos.CustomerNotifications.CountUnread(ctx, customerID)
	})
}

// MarkCustomerRead marks one customer notification as read
func (s *NotificationService) MarkCustomerRead(ctx context.Context, id string) (*entities.CustomerNotification, error) {
	notification, err := s.repos.CustomerNotifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.Status != entities.NotificationStatusRead {
		if err := s.repos.CustomerNotifications.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		notification.Status = entities.NotificationStatusRead
		s.invalidate(ctx, customerUnreadKey(notification.CustomerID))
	}
	return notification, nil
}

// MarkAllCustomerRead marks every unread notification of a customer as read
func (s *NotificationService) MarkAllCustomerRead(ctx context.Context, customerID string) (int64, error) {
	changed, err := s.repos.CustomerNotifications.MarkAllRead(ctx, customerID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, customerUnreadKey(customerID))
	return changed, nil
}

// ListForRestaurant returns a restaurant's owner notifications, newest first
func (s *NotificationService) ListForRestaurant(ctx context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error) {
	return s.repos.OwnerNotifications.ListByRestaurant(ctx, restaurantID, s.ClampLimit(limit))
}

// RestaurantUnreadCount counts a restaurant's unread owner notifications
func (s *NotificationService) RestaurantUnreadCount(ctx context.Context, restaurantID string) (int, error) {
	return s.cachedCount(ctx, restaurantUnreadKey(restaurantID), func() (int, error) {
		return s.repos.OwnerNotifications.CountUnread(ctx, restaurantID)
	})
}

// MarkOwnerRead marks one owner notification as read
func (s *NotificationService) MarkOwnerRead(ctx context.Context, id string) (*entities.OwnerNotification, error) {
	notification, err := s.repos.OwnerNotifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.Status != entities.NotificationStatusRead {
		if err := s.repos.OwnerNotifications.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		notification.Status = entities.NotificationStatusRead
		s.invalidate(ctx, restaurantUnreadKey(notification.RestaurantID))
	}
	return notification, nil
}

// MarkAllOwnerRead marks every unread owner notification of a restaurant as read
func (s *NotificationService) MarkAllOwnerRead(ctx context.Context, restaurantID string) (int64, error) {
	changed, err := s.repos.OwnerNotifications.MarkAllRead(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, restaurantUnreadKey(restaurantID))
	return changed, nil
}

func (s *NotificationService) cachedCount(ctx context.Context, key string, load func() (int, error)) (int, error) {
	return readThroughCount(ctx, s.cache, s.metrics, key, s.cfg.UnreadCacheTTLSecs, load)
}

func (s *NotificationService) invalidate(ctx context.Context, key string) {
	invalidateCount(ctx, s.cache, key)
}
