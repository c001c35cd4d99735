package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenreService interface {
	ListGenres(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	CreateGenre(ctx context.Context, actor Actor, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, actor Actor, slug string) error
}

type genreService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGenreService(repo *repository.Repository, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		log:  log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) ListGenres(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	genres, err := s.repo.Genre.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.repo.Genre.CountAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	data := make([]response.GenreResponse, len(genres))
	for i, genre := range genres {
		data[i] = response.GenreToResponse(genre)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *genreService) CreateGenre(ctx context.Context, actor Actor, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := authorize(actor, ResourceGenre, ActionCreate, false); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Genre.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check genre slug: %w", err)
	}
	if existing != nil {
		return nil, FieldError("slug", "A genre with this slug already exists")
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		if repository.IsConstraint(err, repository.ConstraintGenreSlug) {
			return nil, FieldError("slug", "A genre with this slug already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, actor Actor, slug string) error {
	if err := authorize(actor, ResourceGenre, ActionDelete, false); err != nil {
		return err
	}

	if err := s.repo.Genre.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Genre")
		}
		return fmt.Errorf("delete genre: %w", err)
	}

	s.log.Info("Genre deleted", zap.String("slug", slug), zap.String("admin_id", actor.UserID.String()))
	return nil
}
