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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, reviewID, id uuid.UUID) (*entity.Comment, error)
	FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error)
	CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error)
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCommentRepository(db database.Querier, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.created_at
	FROM comments c
	INNER JOIN users u ON u.id = c.author_id
`

func scanComment(row rowScanner) (*entity.Comment, error) {
	var comment entity.Comment
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		err = translateError(err)
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("review_id", comment.ReviewID.String()),
		)
		return fmt.Errorf("create comment for review %s: %w", comment.ReviewID.String(), err)
	}

	return nil
}

// FindByID only matches a comment that belongs to the given review.
func (r *commentRepository) FindByID(ctx context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1 AND c.review_id = $2`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id, reviewID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return nil, fmt.Errorf("find comment by ID %s: %w", id.String(), err)
	}

	return comment, nil
}

func (r *commentRepository) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE c.review_id = $1
		ORDER BY c.created_at, c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, reviewID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find comments by review ID",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
		)
		return nil, fmt.Errorf("find comments by review ID %s: %w", reviewID.String(), err)
	}
	defer rows.Close()

	comments := make([]*entity.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count comments", zap.Error(err))
		return 0, fmt.Errorf("count comments by review ID %s: %w", reviewID.String(), err)
	}
	return count, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	result, err := r.db.Exec(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, comment.ID, comment.Text)
	if err != nil {
		r.log.Error("Failed to update comment",
			zap.Error(err),
			zap.String("comment_id", comment.ID.String()),
		)
		return fmt.Errorf("update comment %s: %w", comment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return fmt.Errorf("delete comment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Comment deleted", zap.String("comment_id", id.String()))
	return nil
}
