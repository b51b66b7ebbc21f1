package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

const maxCommentRunes = 5000

// CommentResult is a stored comment together with the notification it produced
type CommentResult struct {
	Comment      *entities.Comment
	Notification *GenerationResult
}

// CommentService handles blog comments and replies
type CommentService struct {
	uow       repositories.UnitOfWork
	generator *NotificationGenerator
	feed      *NotificationFeed
}

// NewCommentService creates a new comment service
func NewCommentService(uow repositories.UnitOfWork, generator *NotificationGenerator, feed *NotificationFeed) *CommentService {
	return &CommentService{uow: uow, generator: generator, feed: feed}
}

// Create stores a comment and derives its notification in the same transaction.
// A failing notification is rolled back on its own; the comment is still stored.
func (s *CommentService) Create(ctx context.Context, comment *entities.Comment) (*CommentResult, error) {
	if err := validateContent(comment.Content); err != nil {
		return nil, err
	}
	if comment.PostID == "" || comment.AuthorID == "" {
		return nil, apperrors.NewValidationError("post_id and author_id are required")
	}
	if comment.ParentID != nil && *comment.ParentID == "" {
		comment.ParentID = nil
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.IsDeleted = false
	comment.IsEdited = false

	result := &CommentResult{Comment: comment}
	err := s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()

		if comment.IsReply() {
			parent, err := repos.Comments.GetByID(ctx, *comment.ParentID)
			if err != nil {
				if apperrors.IsNotFound(err) {
					return apperrors.NewValidationError("parent comment does not exist")
				}
				return err
			}
			if parent.PostID != comment.PostID {
				return apperrors.NewValidationError("parent comment belongs to a different post")
			}
		}

		if err := repos.Comments.Create(ctx, comment); err != nil {
			return err
		}

		trigger, savepoint := TriggerRootComment, "comment_notification"
		if comment.IsReply() {
			trigger, savepoint = TriggerReply, "reply_notification"
		}

		spErr := tx.Savepoint(ctx, savepoint, func(ctx context.Context) error {
			var (
				generated *GenerationResult
				err       error
			)
			if comment.IsReply() {
				generated, err = s.generator.OnReplyInserted(ctx, repos, comment)
			} else {
				generated, err = s.generator.OnRootCommentInserted(ctx, repos, comment)
			}
			result.Notification = generated
			return err
		})
		if spErr != nil {
			result.Notification = nil
			log.Ctx(ctx).Warn().Err(spErr).
				Str("trigger", trigger).
				Str("comment_id", comment.ID).
				Msg("notification rolled back, comment kept")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, result.Notification)
	return result, nil
}

// Edit replaces the content of a comment owned by authorID
func (s *CommentService) Edit(ctx context.Context, id, authorID, content string) (*entities.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	var updated *entities.Comment
	err := s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		comment, err := s.ownedComment(ctx, tx.Repos(), id, authorID)
		if err != nil {
			return err
		}
		comment.Content = content
		comment.IsEdited = true
		if err := tx.Repos().Comments.Update(ctx, comment); err != nil {
			return err
		}
		updated = comment
		return nil
	})
	return updated, err
}

// SoftDelete hides a comment owned by authorID. Replies to it keep their parent.
func (s *CommentService) SoftDelete(ctx context.Context, id, authorID string) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		comment, err := s.ownedComment(ctx, tx.Repos(), id, authorID)
		if err != nil {
			return err
		}
		if comment.IsDeleted {
			return nil
		}
		comment.IsDeleted = true
		return tx.Repos().Comments.Update(ctx, comment)
	})
}

// ListByPost returns the visible comments of a post, oldest first
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	return s.uow.Repos().Comments.ListByPost(ctx, postID)
}

func (s *CommentService) ownedComment(ctx context.Context, repos *repositories.Repositories, id, authorID string) (*entities.Comment, error) {
	comment, err := repos.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, apperrors.NewNotFoundError("comment with id " + id + " not found")
	}
	if comment.AuthorID != authorID {
		return nil, apperrors.NewUnauthorizedError("only the author can change a comment")
	}
	return comment, nil
}

// validateContent leaves content untouched; it is stored and quoted verbatim
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("content must not be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentRunes {
		return apperrors.NewValidationError("content is too long")
	}
	return nil
}
