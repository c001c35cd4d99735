package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// ListComments handles GET .../reviews/{review_id}/comments (public)
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetComment handles GET .../comments/{comment_id} (public)
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// CreateComment handles POST .../reviews/{review_id}/comments (authenticated)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

// UpdateComment handles PATCH .../comments/{comment_id} (author, moderator, admin)
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated", comment)
}

// DeleteComment handles DELETE .../comments/{comment_id} (author, moderator, admin)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteComment(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted", nil)
}
