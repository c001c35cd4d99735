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

type CommentService interface {
	ListComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, actor Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, actor Actor, titleID, reviewID, commentID string, req *request.CommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, actor Actor, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) ListComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	data := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		data[i] = response.CommentToResponse(comment)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := authorize(actor, ResourceComment, ActionCreate, false); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		ReviewID:   review.ID,
		AuthorID:   actor.UserID,
		Text:       req.Text,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, NotFoundError("Review")
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID),
	)

	created, err := s.repo.Comment.FindByID(ctx, review.ID, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	if created == nil {
		return nil, NotFoundError("Comment")
	}

	resp := response.CommentToResponse(created)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor Actor, titleID, reviewID, commentID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := precheck(actor, ResourceComment, ActionUpdate); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, ResourceComment, ActionUpdate, comment.AuthorID == actor.UserID); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Comment")
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.log.Info("Comment updated", zap.String("comment_id", commentID))

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, titleID, reviewID, commentID string) error {
	if err := precheck(actor, ResourceComment, ActionDelete); err != nil {
		return err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authorize(actor, ResourceComment, ActionDelete, comment.AuthorID == actor.UserID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Comment")
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID),
		zap.String("actor_id", actor.UserID.String()),
	)
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(commentID, "Comment")
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, review.ID, cid)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, NotFoundError("Comment")
	}
	return comment, nil
}
