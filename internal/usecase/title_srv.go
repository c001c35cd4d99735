package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	ListTitles(ctx context.Context, filter *request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, actor Actor, req *request.CreateTitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, actor Actor, titleID string, req *request.UpdateTitleRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, actor Actor, titleID string) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
		now:  time.Now,
	}
}

func (s *titleService) ListTitles(ctx context.Context, filter *request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	repoFilter := repository.TitleFilter{
		Genre:    filter.Genre,
		Category: filter.Category,
		Name:     filter.Name,
		Year:     filter.Year,
	}

	titles, err := s.repo.Title.FindAll(ctx, repoFilter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	if err := s.attachGenres(ctx, titles); err != nil {
		return nil, err
	}

	data := make([]response.TitleResponse, len(titles))
	for i, title := range titles {
		data[i] = response.TitleToResponse(title, RoundRating(title.AverageScore))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *titleService) GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	id, err := parseID(titleID, "Title")
	if err != nil {
		return nil, err
	}
	return s.loadTitle(ctx, id)
}

func (s *titleService) CreateTitle(ctx context.Context, actor Actor, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	if err := authorize(actor, ResourceTitle, ActionCreate, false); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkYear(*req.Year); err != nil {
		return nil, err
	}

	now := s.now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
	}

	// Title row and genre links are written together or not at all.
	err := s.repo.Tx.InTx(ctx, func(tx *repository.Repository) error {
		categoryID, err := resolveCategory(ctx, tx, req.Category)
		if err != nil {
			return err
		}
		title.CategoryID = categoryID

		genres, err := resolveGenres(ctx, tx, req.Genre)
		if err != nil {
			return err
		}

		if err := tx.Title.Create(ctx, title); err != nil {
			return err
		}
		return tx.GenreTitle.CreateBatch(ctx, repository.NewGenreTitleLinks(title.ID, genres, now))
	})
	if err != nil {
		return nil, s.writeError(err, "create title")
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("year", title.Year),
	)

	return s.loadTitle(ctx, title.ID)
}

func (s *titleService) UpdateTitle(ctx context.Context, actor Actor, titleID string, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	if err := authorize(actor, ResourceTitle, ActionUpdate, false); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID(titleID, "Title")
	if err != nil {
		return nil, err
	}

	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, FieldError("name", "This field may not be blank")
	}

	err = s.repo.Tx.InTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.Title.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError("Title")
		}

		title := current.Title
		if req.Name != nil {
			title.Name = *req.Name
		}
		if req.Year != nil {
			title.Year = *req.Year
		}
		if req.Description != nil {
			title.Description = req.Description
		}
		if req.Category != nil {
			categoryID, err := resolveCategory(ctx, tx, *req.Category)
			if err != nil {
				return err
			}
			title.CategoryID = categoryID
		}
		title.UpdatedAt = s.now()

		if err := tx.Title.Update(ctx, &title); err != nil {
			return err
		}

		if req.Genre != nil {
			genres, err := resolveGenres(ctx, tx, *req.Genre)
			if err != nil {
				return err
			}
			if err := tx.GenreTitle.DeleteByTitleID(ctx, id); err != nil {
				return err
			}
			return tx.GenreTitle.CreateBatch(ctx, repository.NewGenreTitleLinks(id, genres, title.UpdatedAt))
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "update title")
	}

	s.log.Info("Title updated", zap.String("title_id", titleID))

	return s.loadTitle(ctx, id)
}

func (s *titleService) DeleteTitle(ctx context.Context, actor Actor, titleID string) error {
	if err := authorize(actor, ResourceTitle, ActionDelete, false); err != nil {
		return err
	}

	id, err := parseID(titleID, "Title")
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Title")
		}
		return fmt.Errorf("delete title: %w", err)
	}

	s.log.Info("Title deleted",
		zap.String("title_id", titleID),
		zap.String("admin_id", actor.UserID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *titleService) checkYear(year int) error {
	if year > s.now().Year() {
		return FieldError("year", "Year cannot be later than the current year")
	}
	return nil
}

func (s *titleService) loadTitle(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, NotFoundError("Title")
	}

	if err := s.attachGenres(ctx, []*entity.TitleDetail{title}); err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title, RoundRating(title.AverageScore))
	return &resp, nil
}

func (s *titleService) attachGenres(ctx context.Context, titles []*entity.TitleDetail) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(titles))
	for i, title := range titles {
		ids[i] = title.ID
	}

	genres, err := s.repo.GenreTitle.FindGenresByTitleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	for _, title := range titles {
		if g, ok := genres[title.ID]; ok {
			title.Genres = g
		}
	}
	return nil
}

func (s *titleService) writeError(err error, operation string) error {
	if _, ok := AsError(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrForeignKey) {
		return ValidationError("Referenced genre or category no longer exists", nil)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("Title")
	}
	s.log.Error("Failed to "+operation, zap.Error(err))
	return fmt.Errorf("%s: %w", operation, err)
}

// resolveCategory maps a slug to its id. An empty slug means no category.
func resolveCategory(ctx context.Context, repo *repository.Repository, slug string) (*uuid.UUID, error) {
	if slug == "" {
		return nil, nil
	}

	category, err := repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, FieldError("category", fmt.Sprintf("Category %q does not exist", slug))
	}
	return &category.ID, nil
}

func resolveGenres(ctx context.Context, repo *repository.Repository, slugs []string) ([]*entity.Genre, error) {
	unique := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		unique[slug] = struct{}{}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	wanted := make([]string, 0, len(unique))
	for slug := range unique {
		wanted = append(wanted, slug)
	}
	sort.Strings(wanted)

	genres, err := repo.Genre.FindBySlugs(ctx, wanted)
	if err != nil {
		return nil, err
	}

	if len(genres) != len(wanted) {
		found := make(map[string]struct{}, len(genres))
		for _, genre := range genres {
			found[genre.Slug] = struct{}{}
		}
		var missing []string
		for _, slug := range wanted {
			if _, ok := found[slug]; !ok {
				missing = append(missing, slug)
			}
		}
		return nil, FieldError("genre", "Unknown genre: "+strings.Join(missing, ", "))
	}

	return genres, nil
}
