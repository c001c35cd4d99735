package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// wireUser configures account routes. Access is decided by the user service.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)   // GET /api/v1/users?search=&page=1&per_page=10
		r.Post("/", userHandler.CreateUser) // POST /api/v1/users

		// /me is matched before {username}, so "me" is never treated as a username.
		r.Get("/me", userHandler.GetProfile)
		r.Patch("/me", userHandler.UpdateProfile)
		r.Delete("/me", userHandler.ProfileMethodNotAllowed(usecase.ActionDelete))
		r.Post("/me", userHandler.ProfileMethodNotAllowed(usecase.ActionCreate))

		r.Get("/{username}", userHandler.GetUser)
		r.Patch("/{username}", userHandler.UpdateUser)
		r.Delete("/{username}", userHandler.DeleteUser)
	})
}
