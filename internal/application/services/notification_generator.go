package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

const (
	ReplyNotificationTitle   = "New reply to your comment"
	CommentNotificationTitle = "New comment on your blog post"
	RatingPromptTitle        = "Rate your experience"
	RatingPromptMessage      = "Your order has been completed. How was your experience? Tap to rate the service."

	fallbackRestaurantName = "Restaurant"
	fallbackCustomerName   = "A customer"

	previewMaxRunes  = 100
	previewKeepRunes = 97
	previewEllipsis  = "..."
)

// Triggers label the generator runs in metrics and logs
const (
	TriggerReply       = "reply"
	TriggerRootComment = "root_comment"
	TriggerOrderStatus = "order_status"
)

// Preview shortens comment content for a notification message.
// Content of up to 100 runes is kept whole; longer content keeps 97 runes and gains "...".
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewMaxRunes {
		return content
	}
	return string(runes[:previewKeepRunes]) + previewEllipsis
}

// GenerationResult is what a generator did for one event. At most one of the
// notification fields is set, and only when Outcome is created.
type GenerationResult struct {
	Outcome              entities.NotificationOutcome
	CustomerNotification *entities.CustomerNotification
	OwnerNotification    *entities.OwnerNotification
}

// NotificationGenerator derives notifications from comment and order writes.
// It runs against the repositories of the transaction that made the write.
type NotificationGenerator struct {
	metrics *observability.Metrics
	now     func() time.Time
}

// NewNotificationGenerator creates a new notification generator
func NewNotificationGenerator() *NotificationGenerator {
	return &NotificationGenerator{now: func() time.Time { return time.Now().UTC() }}
}

// SetMetrics enables outcome counters
func (g *NotificationGenerator) SetMetrics(metrics *observability.Metrics) {
	g.metrics = metrics
}

// OnReplyInserted notifies the author of the parent comment about a reply
func (g *NotificationGenerator) OnReplyInserted(ctx context.Context, repos *repositories.Repositories, reply *entities.Comment) (*GenerationResult, error) {
	if !reply.IsReply() {
		return nil, apperrors.NewValidationError("comment is not a reply")
	}

	parent, err := repos.Comments.GetByID(ctx, *reply.ParentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return g.skip(ctx, TriggerReply, entities.OutcomeSkippedMissingParent, reply.ID), nil
		}
		return nil, err
	}

	restaurantName, err := g.restaurantNameForPost(ctx, repos, reply.PostID)
	if err != nil {
		return nil, err
	}

	displayName := fallbackRestaurantName
	if restaurantName != nil {
		displayName = *restaurantName
	}

	postID := reply.PostID
	content := reply.Content
	notification := &entities.CustomerNotification{
		ID:             uuid.NewString(),
		CustomerID:     parent.AuthorID,
		Title:          ReplyNotificationTitle,
		Message:        fmt.Sprintf("%s replied: \"%s\"", displayName, Preview(reply.Content)),
		Status:         entities.NotificationStatusUnread,
		PostID:         &postID,
		ReplyContent:   &content,
		RestaurantName: restaurantName,
		CreatedAt:      g.now(),
	}

	if err := repos.CustomerNotifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	g.record(ctx, TriggerReply, entities.OutcomeCreated)
	return &GenerationResult{Outcome: entities.OutcomeCreated, CustomerNotification: notification}, nil
}

// OnRootCommentInserted notifies the restaurant that owns the post about a new comment
func (g *NotificationGenerator) OnRootCommentInserted(ctx context.Context, repos *repositories.Repositories, comment *entities.Comment) (*GenerationResult, error) {
	if comment.IsReply() {
		return nil, apperrors.NewValidationError("comment is a reply")
	}

	post, err := repos.Posts.GetByID(ctx, comment.PostID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return g.skip(ctx, TriggerRootComment, entities.OutcomeSkippedMissingRestaurant, comment.ID), nil
		}
		return nil, err
	}

	if _, err := repos.Restaurants.GetByID(ctx, post.RestaurantID); err != nil {
		if apperrors.IsNotFound(err) {
			return g.skip(ctx, TriggerRootComment, entities.OutcomeSkippedMissingRestaurant, comment.ID), nil
		}
		return nil, err
	}

	customerName, err := g.customerName(ctx, repos, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	notification := &entities.OwnerNotification{
		ID:             uuid.NewString(),
		RestaurantID:   post.RestaurantID,
		CustomerID:     comment.AuthorID,
		PostID:         post.ID,
		CommentID:      comment.ID,
		Title:          CommentNotificationTitle,
		Message:        fmt.Sprintf("%s commented on your blog post \"%s\": \"%s\"", customerName, post.Title, Preview(comment.Content)),
		Status:         entities.NotificationStatusUnread,
		CommentContent: comment.Content,
		CreatedAt:      g.now(),
	}

	if err := repos.OwnerNotifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	g.record(ctx, TriggerRootComment, entities.OutcomeCreated)
	return &GenerationResult{Outcome: entities.OutcomeCreated, OwnerNotification: notification}, nil
}

// OnOrderStatusChanged prompts the customer for a rating when the order enters a
// terminal status and the order has not been rated yet
func (g *NotificationGenerator) OnOrderStatusChanged(ctx context.Context, repos *repositories.Repositories, order *entities.Order, oldStatus entities.OrderStatus) (*GenerationResult, error) {
	if !order.Status.IsTerminal() {
		return g.skip(ctx, TriggerOrderStatus, entities.OutcomeSkippedNotTerminal, order.ID), nil
	}
	if order.Status == oldStatus {
		return g.skip(ctx, TriggerOrderStatus, entities.OutcomeSkippedUnchangedStatus, order.ID), nil
	}

	orderID := order.ID
	rated, err := repos.Ratings.Exists(ctx, order.RestaurantID, order.CustomerID, &orderID)
	if err != nil {
		return nil, err
	}
	if rated {
		return g.skip(ctx, TriggerOrderStatus, entities.OutcomeSkippedAlreadyRated, order.ID), nil
	}

	notification := &entities.CustomerNotification{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID,
		OrderID:    &orderID,
		Title:      RatingPromptTitle,
		Message:    RatingPromptMessage,
		Status:     entities.NotificationStatusUnread,
		CreatedAt:  g.now(),
	}

	if err := repos.CustomerNotifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	g.record(ctx, TriggerOrderStatus, entities.OutcomeCreated)
	return &GenerationResult{Outcome: entities.OutcomeCreated, CustomerNotification: notification}, nil
}

// restaurantNameForPost returns nil when the post or its restaurant cannot be resolved
func (g *NotificationGenerator) restaurantNameForPost(ctx context.Context, repos *repositories.Repositories, postID string) (*string, error) {
	post, err := repos.Posts.GetByID(ctx, postID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	restaurant, err := repos.Restaurants.GetByID(ctx, post.RestaurantID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	name := strings.TrimSpace(restaurant.Name)
	if name == "" {
		return nil, nil
	}
	return &name, nil
}

func (g *NotificationGenerator) customerName(ctx context.Context, repos *repositories.Repositories, profileID string) (string, error) {
	profile, err := repos.Profiles.GetByID(ctx, profileID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fallbackCustomerName, nil
		}
		return "", err
	}
	if name := profile.DisplayName(); name != "" {
		return name, nil
	}
	return fallbackCustomerName, nil
}

func (g *NotificationGenerator) skip(ctx context.Context, trigger string, outcome entities.NotificationOutcome, subjectID string) *GenerationResult {
	log.Ctx(ctx).Debug().
		Str("trigger", trigger).
		Str("outcome", string(outcome)).
		Str("subject_id", subjectID).
		Msg("notification skipped")
	g.record(ctx, trigger, outcome)
	return &GenerationResult{Outcome: outcome}
}

func (g *NotificationGenerator) record(ctx context.Context, trigger string, outcome entities.NotificationOutcome) {
	observability.RecordNotificationOutcome(ctx, g.metrics, trigger, string(outcome))
}
