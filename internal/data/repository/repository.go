package repository

import (
	"yamdb/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User       UserRepository
	Category   CategoryRepository
	Genre      GenreRepository
	GenreTitle GenreTitleRepository
	Title      TitleRepository
	Review     ReviewRepository
	Comment    CommentRepository

	// Tx is nil on repositories already bound to a transaction.
	Tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repos := newRepositories(db, log)
	repos.Tx = NewTransactor(db, log)
	return repos
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(q, log),
		Category:   NewCategoryRepository(q, log),
		Genre:      NewGenreRepository(q, log),
		GenreTitle: NewGenreTitleRepository(q, log),
		Title:      NewTitleRepository(q, log),
		Review:     NewReviewRepository(q, log),
		Comment:    NewCommentRepository(q, log),
	}
}
