package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "signup")
		return
	}

	utils.ResponseSuccess(w, "Confirmation code sent", resp)
}

// Token handles POST /api/v1/auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Token(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "obtain token")
		return
	}

	utils.ResponseCreated(w, "Token issued", resp)
}
