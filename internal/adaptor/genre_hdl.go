package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// ListGenres handles GET /api/v1/genres
func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context(), r.URL.Query().Get("search"), parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

// CreateGenre handles POST /api/v1/genres (admin)
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "Genre created", genre)
}

// DeleteGenre handles DELETE /api/v1/genres/{slug} (admin)
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGenre(r.Context(), actorFromRequest(r), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}

	utils.ResponseSuccess(w, "Genre deleted", nil)
}

func (h *GenreHandler) MethodNotAllowed(action usecase.Action) http.HandlerFunc {
	return methodGuard(usecase.ResourceGenre, action, h.log)
}
