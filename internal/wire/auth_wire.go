package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/token", authHandler.Token)
}
