package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// ListTitles handles GET /api/v1/titles
// Filters: genre and category (slug), name, year.
func (h *TitleHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year, err := utils.ParseOptionalInt(query.Get("year"))
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "Enter a number"})
		return
	}

	filter := &request.TitleFilterRequest{
		Genre:    query.Get("genre"),
		Category: query.Get("category"),
		Name:     query.Get("name"),
		Year:     year,
	}

	titles, err := h.service.ListTitles(r.Context(), filter, parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /api/v1/titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitle(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// CreateTitle handles POST /api/v1/titles (admin)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), actorFromRequest(r), chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTitle(r.Context(), actorFromRequest(r), chi.URLParam(r, "title_id")); err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseSuccess(w, "Title deleted", nil)
}
