package repository

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenreTitleRepository interface {
	// Bridge table operations
	CreateBatch(ctx context.Context, links []*entity.GenreTitle) error
	DeleteByTitleID(ctx context.Context, titleID uuid.UUID) error
	FindGenresByTitleIDs(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error)
}

type genreTitleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGenreTitleRepository(db database.Querier, log *zap.Logger) GenreTitleRepository {
	return &genreTitleRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre_title")),
	}
}

// NewGenreTitleLinks builds bridge rows for a title.
func NewGenreTitleLinks(titleID uuid.UUID, genres []*entity.Genre, now time.Time) []*entity.GenreTitle {
	links := make([]*entity.GenreTitle, 0, len(genres))
	for _, genre := range genres {
		links = append(links, &entity.GenreTitle{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			GenreID:    genre.ID,
			TitleID:    titleID,
		})
	}
	return links
}

func (r *genreTitleRepository) CreateBatch(ctx context.Context, links []*entity.GenreTitle) error {
	if len(links) == 0 {
		return nil
	}

	query := `
		INSERT INTO genre_titles (id, genre_id, title_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (genre_id, title_id) DO NOTHING
	`

	for _, link := range links {
		if err := r.insert(ctx, query, link); err != nil {
			return err
		}
	}

	r.log.Debug("Genre links created", zap.Int("count", len(links)))
	return nil
}

func (r *genreTitleRepository) insert(ctx context.Context, query string, link *entity.GenreTitle) error {
	_, err := r.db.Exec(ctx, query, link.ID, link.GenreID, link.TitleID, link.CreatedAt)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create genre link",
			zap.Error(err),
			zap.String("title_id", link.TitleID.String()),
			zap.String("genre_id", link.GenreID.String()),
		)
		return fmt.Errorf("create genre link for title %s: %w", link.TitleID.String(), err)
	}
	return nil
}

func (r *genreTitleRepository) DeleteByTitleID(ctx context.Context, titleID uuid.UUID) error {
	query := `DELETE FROM genre_titles WHERE title_id = $1`

	if _, err := r.db.Exec(ctx, query, titleID); err != nil {
		r.log.Error("Failed to delete genre links by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return fmt.Errorf("delete genre links for title %s: %w", titleID.String(), err)
	}

	return nil
}

func (r *genreTitleRepository) FindGenresByTitleIDs(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	result := make(map[uuid.UUID][]*entity.Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT gt.title_id, g.id, g.name, g.slug, g.created_at
		FROM genre_titles gt
		INNER JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, titleIDs)
	if err != nil {
		r.log.Error("Failed to find genres by title IDs",
			zap.Error(err),
			zap.Int("titles", len(titleIDs)),
		)
		return nil, fmt.Errorf("find genres by title IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID uuid.UUID
		var genre entity.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			r.log.Error("Failed to scan genre link row", zap.Error(err))
			return nil, fmt.Errorf("scan genre link row: %w", err)
		}
		result[titleID] = append(result[titleID], &genre)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genre link rows: %w", err)
	}

	return result, nil
}
