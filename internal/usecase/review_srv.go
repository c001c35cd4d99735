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
	"yamdb/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	ListReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, actor Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, titleID, reviewID string) error

	// GetTitleRating reports the rounded average and number of reviews for a title.
	GetTitleRating(ctx context.Context, titleID string) (*response.TitleRatingResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) ListReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	data := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		data[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := authorize(actor, ResourceReview, ActionCreate, false); err != nil {
		return nil, err
	}

	tid, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.UserID, tid)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		metrics.DuplicateReviews.WithLabelValues("precheck").Inc()
		return nil, ErrDuplicateReview
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		TitleID:    tid,
		AuthorID:   actor.UserID,
		Text:       req.Text,
		Score:      req.Score,
	}

	// A concurrent request may pass the pre-check too; the unique constraint decides.
	if err := s.repo.Review.Create(ctx, review); err != nil {
		if repository.IsConstraint(err, repository.ConstraintReviewAuthorTitle) {
			metrics.DuplicateReviews.WithLabelValues("constraint").Inc()
			s.log.Warn("Duplicate review rejected by constraint",
				zap.String("author_id", actor.UserID.String()),
				zap.String("title_id", titleID),
			)
			return nil, ErrDuplicateReview
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, NotFoundError("Title")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID),
		zap.Int("score", review.Score),
	)

	created, err := s.repo.Review.FindByID(ctx, tid, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	if created == nil {
		return nil, NotFoundError("Review")
	}

	resp := response.ReviewToResponse(created)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := precheck(actor, ResourceReview, ActionUpdate); err != nil {
		return nil, err
	}

	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, ResourceReview, ActionUpdate, review.AuthorID == actor.UserID); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Review")
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actor.UserID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, titleID, reviewID string) error {
	if err := precheck(actor, ResourceReview, ActionDelete); err != nil {
		return err
	}

	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authorize(actor, ResourceReview, ActionDelete, review.AuthorID == actor.UserID); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Review")
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("actor_role", string(actor.Role)),
	)
	return nil
}

func (s *reviewService) GetTitleRating(ctx context.Context, titleID string) (*response.TitleRatingResponse, error) {
	id, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.repo.Review.GetTitleReviewStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("title rating: %w", err)
	}

	return &response.TitleRatingResponse{
		TitleID:     id.String(),
		Rating:      RoundRating(avg),
		ReviewCount: count,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) requireTitle(ctx context.Context, titleID string) (uuid.UUID, error) {
	id, err := parseID(titleID, "Title")
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.repo.Title.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check title: %w", err)
	}
	if !exists {
		return uuid.Nil, NotFoundError("Title")
	}
	return id, nil
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID string) (*entity.Review, error) {
	return findReview(ctx, s.repo, titleID, reviewID)
}

// findReview resolves a review under its title; a mismatch is reported as not found.
func findReview(ctx context.Context, repo *repository.Repository, titleID, reviewID string) (*entity.Review, error) {
	tid, err := parseID(titleID, "Title")
	if err != nil {
		return nil, err
	}
	rid, err := parseID(reviewID, "Review")
	if err != nil {
		return nil, err
	}

	review, err := repo.Review.FindByID(ctx, tid, rid)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, NotFoundError("Review")
	}
	return review, nil
}
