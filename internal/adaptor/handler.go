package adaptor

import (
	"yamdb/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Title    *TitleHandler
	Genre    *GenreHandler
	Category *CategoryHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Title:    NewTitleHandler(service.Title, log),
		Genre:    NewGenreHandler(service.Genre, log),
		Category: NewCategoryHandler(service.Category, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
	}
}
