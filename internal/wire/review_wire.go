package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview configures reviews and their comments under a title.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Get("/titles/{title_id}/rating", reviewHandler.GetTitleRating)

	r.Route("/titles/{title_id}/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.ListReviews)
		r.Post("/", reviewHandler.CreateReview)
		r.Get("/{review_id}", reviewHandler.GetReview)
		r.Patch("/{review_id}", reviewHandler.UpdateReview)
		r.Delete("/{review_id}", reviewHandler.DeleteReview)

		r.Route("/{review_id}/comments", func(r chi.Router) {
			r.Get("/", commentHandler.ListComments)
			r.Post("/", commentHandler.CreateComment)
			r.Get("/{comment_id}", commentHandler.GetComment)
			r.Patch("/{comment_id}", commentHandler.UpdateComment)
			r.Delete("/{comment_id}", commentHandler.DeleteComment)
		})
	})
}
