package handlers

import (
	"context"
	"net/http"

	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
)

// CommentService defines the comment operations used by the handler
type CommentService interface {
	Create(ctx context.Context, comment *entities.Comment) (*services.CommentResult, error)
	Edit(ctx context.Context, id, authorID, content string) (*entities.Comment, error)
	SoftDelete(ctx context.Context, id, authorID string) error
	ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error)
}

// CommentHandler handles blog comment endpoints
type CommentHandler struct {
	service CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type createCommentRequest struct {
	AuthorID string  `json:"author_id" validate:"required,uuid"`
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

type editCommentRequest struct {
	AuthorID string `json:"author_id" validate:"required,uuid"`
	Content  string `json:"content" validate:"required"`
}

type commentResponse struct {
	Comment             *entities.Comment            `json:"comment"`
	NotificationOutcome entities.NotificationOutcome `json:"notification_outcome,omitempty"`
}

// CreateComment handles POST /api/posts/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "post ID")
	if !ok {
		return
	}

	var req createCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.service.Create(r.Context(), &entities.Comment{
		PostID:   postID,
		AuthorID: req.AuthorID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondWithAppError(w, r, err, "failed to create comment")
		return
	}

	resp := commentResponse{Comment: result.Comment}
	if result.Notification != nil {
		resp.NotificationOutcome = result.Notification.Outcome
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// ListComments handles GET /api/posts/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "post ID")
	if !ok {
		return
	}

	comments, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to list comments")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"count":    len(comments),
	})
}

// EditComment handles PATCH /api/comments/{id}
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "comment ID")
	if !ok {
		return
	}

	var req editCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment, err := h.service.Edit(r.Context(), commentID, req.AuthorID, req.Content)
	if err != nil {
		respondWithAppError(w, r, err, "failed to edit comment")
		return
	}
	respondWithJSON(w, http.StatusOK, commentResponse{Comment: comment})
}

// DeleteComment handles DELETE /api/comments/{id}?author_id=
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "comment ID")
	if !ok {
		return
	}
	authorID, ok := queryID(w, r, "author_id")
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), commentID, authorID); err != nil {
		respondWithAppError(w, r, err, "failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
