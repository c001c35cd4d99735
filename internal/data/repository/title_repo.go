package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Empty fields are ignored.
type TitleFilter struct {
	Genre    string // genre slug
	Category string // category slug
	Name     string
	Year     *int
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.TitleDetail, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, title *entity.Title) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTitleRepository(db database.Querier, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

// The rating column is aggregated on every read so it always reflects the committed reviews.
const titleDetailSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, t.created_at, t.updated_at,
	       c.id, c.name, c.slug, c.created_at,
	       (SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
`

func scanTitleDetail(row rowScanner) (*entity.TitleDetail, error) {
	var (
		detail       entity.TitleDetail
		categoryID   *uuid.UUID
		categoryName *string
		categorySlug *string
		categoryAt   *time.Time
	)

	err := row.Scan(
		&detail.ID,
		&detail.Name,
		&detail.Year,
		&detail.Description,
		&detail.CategoryID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
		&categoryAt,
		&detail.AverageScore,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		detail.Category = &entity.Category{
			BaseSimple: entity.BaseSimple{ID: *categoryID, CreatedAt: *categoryAt},
			Name:       *categoryName,
			Slug:       *categorySlug,
		}
	}
	detail.Genres = make([]*entity.Genre, 0)

	return &detail, nil
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error) {
	query := titleDetailSelect + ` WHERE t.id = $1`

	detail, err := scanTitleDetail(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by ID %s: %w", id.String(), err)
	}

	return detail, nil
}

func buildTitleFilter(filter TitleFilter) (string, []any) {
	var conditions []string
	args := []any{}
	argCount := 1

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM genre_titles gt
			INNER JOIN genres g ON g.id = gt.genre_id
			WHERE gt.title_id = t.id AND lower(g.slug) = lower($%d))`, argCount))
		args = append(args, filter.Genre)
		argCount++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("lower(c.slug) = lower($%d)", argCount))
		args = append(args, filter.Category)
		argCount++
	}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("lower(t.name) = lower($%d)", argCount))
		args = append(args, filter.Name)
		argCount++
	}

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", argCount))
		args = append(args, *filter.Year)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.TitleDetail, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(titleDetailSelect)

	where, args := buildTitleFilter(filter)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.name, t.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find titles",
			zap.Error(err),
			zap.Any("filter", filter),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find titles: %w", err)
	}
	defer rows.Close()

	titles := make([]*entity.TitleDetail, 0)
	for rows.Next() {
		detail, err := scanTitleDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, detail)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}

	r.log.Debug("Titles found",
		zap.Int("count", len(titles)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	where, args := buildTitleFilter(filter)
	query := `SELECT COUNT(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count titles",
			zap.Error(err),
			zap.Any("filter", filter),
		)
		return 0, fmt.Errorf("count titles: %w", err)
	}

	return total, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return false, fmt.Errorf("check title %s: %w", id.String(), err)
	}
	return exists, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %s: %w", title.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}
