package usecase

import (
	"context"
	"time"

	"yamdb/internal/data/repository"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mailer delivers confirmation codes.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Limiter throttles repeated actions on a key across processes.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

type Service struct {
	Auth     AuthService
	User     UserService
	Title    TitleService
	Genre    GenreService
	Category CategoryService
	Review   ReviewService
	Comment  CommentService
}

func NewService(repo *repository.Repository, config *utils.Config, mailer Mailer, limiter Limiter, log *zap.Logger) *Service {
	codes := newCodeIssuer(repo, config.Code, log)

	return &Service{
		Auth:     NewAuthService(repo, codes, mailer, limiter, config, log),
		User:     NewUserService(repo, codes, log),
		Title:    NewTitleService(repo, log),
		Genre:    NewGenreService(repo, log),
		Category: NewCategoryService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}

// parseID treats a malformed identifier like a missing record.
func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NotFoundError(resource)
	}
	return id, nil
}
