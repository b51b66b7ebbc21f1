package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

var commentColumns = columns(
	"id", "post_id", "author_id", "content", "parent_id",
	"is_deleted", "is_edited", "created_at", "updated_at",
)

// CommentAdapter implements the CommentRepository interface
type CommentAdapter struct {
	exec postgres.Executor
}

// NewCommentAdapter creates a new comment adapter
func NewCommentAdapter(exec postgres.Executor) repositories.CommentRepository {
	return &CommentAdapter{exec: exec}
}

// Create inserts a comment
func (a *CommentAdapter) Create(ctx context.Context, comment *entities.Comment) error {
	record := goqu.Record{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"content":    comment.Content,
		"parent_id":  nullString(comment.ParentID),
		"is_deleted": comment.IsDeleted,
		"is_edited":  comment.IsEdited,
		"created_at": comment.CreatedAt,
		"updated_at": comment.UpdatedAt,
	}

	query, args, err := dialect.Insert("comments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build comment insert query", err)
	}

	if _, err := a.exec.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create comment")
	}
	return nil
}

// GetByID retrieves a comment by ID whether or not it is soft-deleted
func (a *CommentAdapter) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	query, args, err := dialect.From("comments").
		Select(commentColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build comment query", err)
	}

	comment := &entities.Comment{}
	if err := sqlx.GetContext(ctx, a.exec, comment, query, args...); err != nil {
		return nil, mapReadError(err, "comment", id)
	}
	return comment, nil
}

// Update persists content and flags
func (a *CommentAdapter) Update(ctx context.Context, comment *entities.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	query, args, err := dialect.Update("comments").
		Set(goqu.Record{
			"content":    comment.Content,
			"is_deleted": comment.IsDeleted,
			"is_edited":  comment.IsEdited,
			"updated_at": comment.UpdatedAt,
		}).
		Where(goqu.Ex{"id": comment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build comment update query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update comment")
	}
	return expectOneRow(result, "comment", comment.ID)
}

// ListByPost returns visible comments of a post, oldest first
func (a *CommentAdapter) ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	query, args, err := dialect.From("comments").
		Select(commentColumns...).
		Where(goqu.Ex{"post_id": postID, "is_deleted": false}).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build comment list query", err)
	}

	comments := []*entities.Comment{}
	if err := sqlx.SelectContext(ctx, a.exec, &comments, query, args...); err != nil {
		return nil, mapQueryError(err, "failed to list comments")
	}
	return comments, nil
}

// PostAdapter implements the PostRepository interface
type PostAdapter struct {
	exec postgres.Executor
}

// NewPostAdapter creates a new blog post adapter
func NewPostAdapter(exec postgres.Executor) repositories.PostRepository {
	return &PostAdapter{exec: exec}
}

// GetByID retrieves a blog post by ID
func (a *PostAdapter) GetByID(ctx context.Context, id string) (*entities.BlogPost, error) {
	query, args, err := dialect.From("blog_posts").
		Select(columns("id", "restaurant_id", "title", "is_published", "created_at", "updated_at")...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build blog post query", err)
	}

	post := &entities.BlogPost{}
	if err := sqlx.GetContext(ctx, a.exec, post, query, args...); err != nil {
		return nil, mapReadError(err, "blog post", id)
	}
	return post, nil
}
