package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// ListReviews handles GET /api/v1/titles/{title_id}/reviews (public)
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "title_id"), parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /api/v1/titles/{title_id}/reviews/{review_id} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// CreateReview handles POST /api/v1/titles/{title_id}/reviews (authenticated)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), actorFromRequest(r), chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// UpdateReview handles PATCH /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteReview(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}

// GetTitleRating handles GET /api/v1/titles/{title_id}/rating (public)
func (h *ReviewHandler) GetTitleRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.service.GetTitleRating(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get title rating")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}
