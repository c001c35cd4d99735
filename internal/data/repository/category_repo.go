package repository

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error)
	CountAll(ctx context.Context, search string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCategoryRepository(db database.Querier, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "category")),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	query := `INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.Slug, category.CreatedAt)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create category",
			zap.Error(err),
			zap.String("slug", category.Slug),
		)
		return fmt.Errorf("create category %s: %w", category.Slug, err)
	}

	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM categories WHERE id = $1`, id)
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at FROM categories WHERE slug = $1`, slug)
}

func (r *categoryRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		r.log.Error("Failed to find categories",
			zap.Error(err),
			zap.String("search", search),
		)
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*entity.Category, 0)
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			r.log.Error("Failed to scan category row", zap.Error(err))
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM categories WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.QueryRow(ctx, query, search).Scan(&total); err != nil {
		r.log.Error("Failed to count categories", zap.Error(err))
		return 0, fmt.Errorf("count categories: %w", err)
	}

	return total, nil
}

func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		r.log.Error("Failed to delete category",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return fmt.Errorf("delete category %s: %w", slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}

	r.log.Info("Category deleted", zap.String("slug", slug))
	return nil
}

func (r *categoryRepository) findOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var category entity.Category
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find category",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("find category %v: %w", arg, err)
	}

	return &category, nil
}
