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

type CategoryService interface {
	ListCategories(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, actor Actor, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor Actor, slug string) error
}

type categoryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCategoryService(repo *repository.Repository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) ListCategories(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	categories, err := s.repo.Category.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	total, err := s.repo.Category.CountAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	data := make([]response.CategoryResponse, len(categories))
	for i, category := range categories {
		data[i] = response.CategoryToResponse(category)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, actor Actor, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := authorize(actor, ResourceCategory, ActionCreate, false); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Category.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check category slug: %w", err)
	}
	if existing != nil {
		return nil, FieldError("slug", "A category with this slug already exists")
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		if repository.IsConstraint(err, repository.ConstraintCategorySlug) {
			return nil, FieldError("slug", "A category with this slug already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor Actor, slug string) error {
	if err := authorize(actor, ResourceCategory, ActionDelete, false); err != nil {
		return err
	}

	if err := s.repo.Category.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Category")
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info("Category deleted", zap.String("slug", slug), zap.String("admin_id", actor.UserID.String()))
	return nil
}
