package repository

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindBySlug(ctx context.Context, slug string) (*entity.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error)
	CountAll(ctx context.Context, search string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGenreRepository(db database.Querier, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, genre.ID, genre.Name, genre.Slug, genre.CreatedAt)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("slug", genre.Slug),
		)
		return fmt.Errorf("create genre %s: %w", genre.Slug, err)
	}

	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	query := `SELECT id, name, slug, created_at FROM genres WHERE slug = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Slug,
		&genre.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find genre by slug %s: %w", slug, err)
	}

	return &genre, nil
}

func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	query := `SELECT id, name, slug, created_at FROM genres WHERE slug = ANY($1) ORDER BY name`

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		r.log.Error("Failed to find genres by slugs",
			zap.Error(err),
			zap.Strings("slugs", slugs),
		)
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}

	return r.collect(rows)
}

func (r *genreRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		r.log.Error("Failed to find genres",
			zap.Error(err),
			zap.String("search", search),
		)
		return nil, fmt.Errorf("find genres: %w", err)
	}

	return r.collect(rows)
}

func (r *genreRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM genres WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.QueryRow(ctx, query, search).Scan(&total); err != nil {
		r.log.Error("Failed to count genres", zap.Error(err))
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return total, nil
}

func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return fmt.Errorf("delete genre %s: %w", slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s: %w", slug, ErrNotFound)
	}

	r.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}

func (r *genreRepository) collect(rows pgx.Rows) ([]*entity.Genre, error) {
	defer rows.Close()

	genres := make([]*entity.Genre, 0)
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}

	return genres, nil
}
