package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yangonbites/platform/internal/api/handlers"
	"github.com/yangonbites/platform/internal/domain/entities"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

type stubNotificationService struct {
	lastLimit int
	unread    int
	listErr   error
}

func (s *stubNotificationService) ListForCustomer(ctx context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error) {
	s.lastLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []*entities.CustomerNotification{{ID: notificationID, CustomerID: customerID, Status: entities.NotificationStatusUnread}}, nil
}

func (s *stubNotificationService) CustomerUnreadCount(ctx context.Context, customerID string) (int, error) {
	return s.unread, nil
}

func (s *stubNotificationService) MarkCustomerRead(ctx context.Context, id string) (*entities.CustomerNotification, error) {
	if id == missingNotificationID {
		return nil, apperrors.NewNotFoundError("notification with id " + missingNotificationID + " not found")
	}
	return &entities.CustomerNotification{ID: id, Status: entities.NotificationStatusRead}, nil
}

func (s *stubNotificationService) MarkAllCustomerRead(ctx context.Context, customerID string) (int64, error) {
	return 3, nil
}

func (s *stubNotificationService) ListForRestaurant(ctx context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error) {
	s.lastLimit = limit
	return []*entities.OwnerNotification{}, nil
}

func (s *stubNotificationService) RestaurantUnreadCount(ctx context.Context, restaurantID string) (int, error) {
	return s.unread, nil
}

func (s *stubNotificationService) MarkOwnerRead(ctx context.Context, id string) (*entities.OwnerNotification, error) {
	return &entities.OwnerNotification{ID: id, Status: entities.NotificationStatusRead}, nil
}

func (s *stubNotificationService) MarkAllOwnerRead(ctx context.Context, restaurantID string) (int64, error) {
	return 0, nil
}

func TestNotificationHandler_ListCustomerNotifications(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantLimit int
	}{
		{name: "default limit", query: "", wantCode: http.StatusOK, wantLimit: 0},
		{name: "explicit limit", query: "?limit=50", wantCode: http.StatusOK, wantLimit: 50},
		{name: "invalid limit", query: "?limit=abc", wantCode: http.StatusBadRequest},
		{name: "negative limit", query: "?limit=-1", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubNotificationService{lastLimit: -99}
			handler := handlers.NewNotificationHandler(service)

			req := httptest.NewRequest(http.MethodGet, "/api/customers/"+customerID+"/notifications"+tt.query, nil)
			req.SetPathValue("id", customerID)
			w := httptest.NewRecorder()

			handler.ListCustomerNotifications(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantLimit, service.lastLimit)
				assert.Equal(t, float64(1), decodeBody(t, w)["count"])
			}
		})
	}
}

func TestNotificationHandler_ListFailureIsGeneric(t *testing.T) {
	service := &stubNotificationService{listErr: errors.New("connection reset by peer")}
	handler := handlers.NewNotificationHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+customerID+"/notifications", nil)
	req.SetPathValue("id", customerID)
	w := httptest.NewRecorder()

	handler.ListCustomerNotifications(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to list notifications", decodeBody(t, w)["error"])
}

func TestNotificationHandler_UnreadAndMarkRead(t *testing.T) {
	service := &stubNotificationService{unread: 4}
	handler := handlers.NewNotificationHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+customerID+"/notifications/unread-count", nil)
	req.SetPathValue("id", customerID)
	w := httptest.NewRecorder()
	handler.CustomerUnreadCount(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["unread"])

	req = httptest.NewRequest(http.MethodPatch, "/api/notifications/"+notificationID+"/read", nil)
	req.SetPathValue("id", notificationID)
	w = httptest.NewRecorder()
	handler.MarkCustomerRead(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "read", decodeBody(t, w)["status"])

	req = httptest.NewRequest(http.MethodPatch, "/api/notifications/"+missingNotificationID+"/read", nil)
	req.SetPathValue("id", missingNotificationID)
	w = httptest.NewRecorder()
	handler.MarkCustomerRead(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/customers/"+customerID+"/notifications/read-all", nil)
	req.SetPathValue("id", customerID)
	w = httptest.NewRecorder()
	handler.MarkAllCustomerRead(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody(t, w)["updated"])
}
