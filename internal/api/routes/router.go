package routes

import (
	"net/http"

	"github.com/yangonbites/platform/internal/api/handlers"
	"github.com/yangonbites/platform/internal/api/middleware"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	commentHandler      *handlers.CommentHandler
	orderHandler        *handlers.OrderHandler
	ratingHandler       *handlers.RatingHandler
	notificationHandler *handlers.NotificationHandler
	sseHandler          *handlers.SSEHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	commentHandler *handlers.CommentHandler,
	orderHandler *handlers.OrderHandler,
	ratingHandler *handlers.RatingHandler,
	notificationHandler *handlers.NotificationHandler,
	sseHandler *handlers.SSEHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		commentHandler:      commentHandler,
		orderHandler:        orderHandler,
		ratingHandler:       ratingHandler,
		notificationHandler: notificationHandler,
		sseHandler:          sseHandler,
		allowedOrigins:      allowedOrigins,
		metrics:             metrics,
	}
}

// handle registers a route wrapped with per-route observability
func (r *Router) handle(pattern string, handler http.HandlerFunc) {
	r.mux.Handle(pattern, middleware.ObservabilityMiddleware(r.metrics, pattern)(handler))
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Blog comment endpoints
	r.handle("GET /api/posts/{id}/comments", r.commentHandler.ListComments)
	r.handle("POST /api/posts/{id}/comments", r.commentHandler.CreateComment)
	r.handle("PATCH /api/comments/{id}", r.commentHandler.EditComment)
	r.handle("DELETE /api/comments/{id}", r.commentHandler.DeleteComment)

	// Order endpoints
	r.handle("PATCH /api/orders/{id}/status", r.orderHandler.UpdateOrderStatus)

	// Rating endpoints
	r.handle("POST /api/ratings", r.ratingHandler.SubmitRating)
	r.handle("PATCH /api/ratings/{id}", r.ratingHandler.UpdateRating)
	r.handle("DELETE /api/ratings/{id}", r.ratingHandler.DeleteRating)

	// Customer notification inbox
	r.handle("GET /api/customers/{id}/notifications", r.notificationHandler.ListCustomerNotifications)
	r.handle("GET /api/customers/{id}/notifications/unread-count", r.notificationHandler.CustomerUnreadCount)
	r.handle("POST /api/customers/{id}/notifications/read-all", r.notificationHandler.MarkAllCustomerRead)
	r.handle("PATCH /api/notifications/{id}/read", r.notificationHandler.MarkCustomerRead)

	// Restaurant owner inbox
	r.handle("GET /api/restaurants/{id}/owner-notifications", r.notificationHandler.ListOwnerNotifications)
	r.handle("GET /api/restaurants/{id}/owner-notifications/unread-count", r.notificationHandler.OwnerUnreadCount)
	r.handle("POST /api/restaurants/{id}/owner-notifications/read-all", r.notificationHandler.MarkAllOwnerRead)
	r.handle("PATCH /api/owner-notifications/{id}/read", r.notificationHandler.MarkOwnerRead)

	// Realtime feed
	r.handle("GET /api/stream/customers/{id}/notifications", r.sseHandler.StreamCustomerNotifications)
	r.handle("GET /api/stream/restaurants/{id}/notifications", r.sseHandler.StreamRestaurantNotifications)

	var handler http.Handler = r.mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.RecoverMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}
