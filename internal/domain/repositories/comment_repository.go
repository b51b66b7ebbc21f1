package repositories

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// CommentRepository defines the interface for blog comment data operations
type CommentRepository interface {
	// Create inserts a new comment
	Create(ctx context.Context, comment *entities.Comment) error

	// GetByID retrieves a comment by ID, including soft-deleted comments
	GetByID(ctx context.Context, id string) (*entities.Comment, error)

	// Update persists content, edited and deleted flags
	Update(ctx context.Context, comment *entities.Comment) error

	// ListByPost returns visible comments of a post, oldest first
	ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error)
}

// PostRepository defines read access to blog posts
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*entities.BlogPost, error)
}
