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

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, titleID, id uuid.UUID) (*entity.Review, error)
	FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error)
	CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	GetTitleReviewStats(ctx context.Context, titleID uuid.UUID) (*float64, int64, error) // average, count
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at
	FROM reviews r
	INNER JOIN users u ON u.id = r.author_id
`

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.CreatedAt,
	)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("title_id", review.TitleID.String()),
		)
		return fmt.Errorf("create review for title %s by user %s: %w",
			review.TitleID.String(), review.AuthorID.String(), err)
	}

	return nil
}

// FindByID only matches a review that belongs to the given title.
func (r *reviewRepository) FindByID(ctx context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	query := reviewSelect + ` WHERE r.id = $1 AND r.title_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, id, titleID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
			zap.String("title_id", titleID.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by title ID %s: %w", titleID.String(), err)
	}
	defer rows.Close()

	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	query := reviewSelect + ` WHERE r.author_id = $1 AND r.title_id = $2 LIMIT 1`

	review, err := scanReview(r.db.QueryRow(ctx, query, authorID, titleID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and title",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("title_id", titleID.String()),
		)
		return nil, fmt.Errorf("find review by author %s and title %s: %w",
			authorID.String(), titleID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE title_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, titleID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return 0, fmt.Errorf("count reviews by title ID %s: %w", titleID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `UPDATE reviews SET text = $2, score = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, review.ID, review.Text, review.Score)
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), translateError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

// GetTitleReviewStats returns a nil average when the title has no reviews.
func (r *reviewRepository) GetTitleReviewStats(ctx context.Context, titleID uuid.UUID) (*float64, int64, error) {
	query := `
		SELECT AVG(score)::float8 AS avg_score, COUNT(*) AS review_count
		FROM reviews
		WHERE title_id = $1
	`

	var avgScore *float64
	var reviewCount int64
	if err := r.db.QueryRow(ctx, query, titleID).Scan(&avgScore, &reviewCount); err != nil {
		r.log.Error("Failed to get title review stats",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return nil, 0, fmt.Errorf("get title review stats for %s: %w", titleID.String(), err)
	}

	return avgScore, reviewCount, nil
}
