package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// wireCatalog configures genres and categories. Neither exposes retrieve or update by slug.
func wireCatalog(r chi.Router, genreHandler *adaptor.GenreHandler, categoryHandler *adaptor.CategoryHandler) {
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", genreHandler.ListGenres)
		r.Post("/", genreHandler.CreateGenre)
		r.Delete("/{slug}", genreHandler.DeleteGenre)
		r.Get("/{slug}", genreHandler.MethodNotAllowed(usecase.ActionRetrieve))
		r.Patch("/{slug}", genreHandler.MethodNotAllowed(usecase.ActionUpdate))
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.ListCategories)
		r.Post("/", categoryHandler.CreateCategory)
		r.Delete("/{slug}", categoryHandler.DeleteCategory)
		r.Get("/{slug}", categoryHandler.MethodNotAllowed(usecase.ActionRetrieve))
		r.Patch("/{slug}", categoryHandler.MethodNotAllowed(usecase.ActionUpdate))
	})
}
