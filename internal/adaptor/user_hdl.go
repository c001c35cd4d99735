package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// ListUsers handles GET /api/v1/users (admin)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), actorFromRequest(r), r.URL.Query().Get("search"), parsePagination(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreateUser handles POST /api/v1/users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create user")
		return
	}

	utils.ResponseCreated(w, "User created", user)
}

// GetUser handles GET /api/v1/users/{username} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateUser handles PATCH /api/v1/users/{username} (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "username"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated", user)
}

// DeleteUser handles DELETE /api/v1/users/{username} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), actorFromRequest(r), chi.URLParam(r, "username")); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), actorFromRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateProfile handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", user)
}

// ProfileMethodNotAllowed answers verbs /users/me does not expose.
func (h *UserHandler) ProfileMethodNotAllowed(action usecase.Action) http.HandlerFunc {
	return methodGuard(usecase.ResourceProfile, action, h.log)
}
