package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), r.URL.Query().Get("search"), parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// CreateCategory handles POST /api/v1/categories (admin)
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created", category)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug} (admin)
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), actorFromRequest(r), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(w, h.log, err, "delete category")
		return
	}

	utils.ResponseSuccess(w, "Category deleted", nil)
}

func (h *CategoryHandler) MethodNotAllowed(action usecase.Action) http.HandlerFunc {
	return methodGuard(usecase.ResourceCategory, action, h.log)
}
