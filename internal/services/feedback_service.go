package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type CommentRepository interface {
	Store[models.Comment]
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, id int64, patch models.CommentPatch) (*models.Comment, error)
}

type LikeRepository interface {
	Store[models.Like]
	Create(ctx context.Context, l *models.Like) (*models.Like, error)
}

// CommentService manages star ratings with a message left on a center
type CommentService struct {
	repo   CommentRepository
	spec   listing.Spec
	logger *slog.Logger
}

func NewCommentService(repo CommentRepository, spec listing.Spec, logger *slog.Logger) *CommentService {
	return &CommentService{repo: repo, spec: spec, logger: logger}
}

func (s *CommentService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Comment], error) {
	return fetchPage[models.Comment](ctx, s.logger, "comments", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *CommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	return getByID[models.Comment](ctx, s.logger, "comment", s.repo, id)
}

func (s *CommentService) Create(ctx context.Context, actor models.Actor, c *models.Comment) (*models.Comment, error) {
	c.UserID = actor.ID
	c.Message = strings.TrimSpace(c.Message)

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, repoError(s.logger, "failed to create comment", err)
	}
	s.logger.Info("comment created", slog.Int64("comment_id", created.ID), slog.Int64("edu_center_id", created.EduCenterID))
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, actor models.Actor, id int64, patch models.CommentPatch) (*models.Comment, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update comment", err, slog.Int64("comment_id", id))
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete comment", err, slog.Int64("comment_id", id))
	}
	s.logger.Info("comment deleted", slog.Int64("comment_id", id), slog.Int64("actor_id", actor.ID))
	return nil
}

func (s *CommentService) authorize(ctx context.Context, actor models.Actor, id int64) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(comment.UserID, privileged...) {
		return models.ErrForbidden
	}
	return nil
}

// LikeService records at most one like per user and center
type LikeService struct {
	repo   LikeRepository
	spec   listing.Spec
	logger *slog.Logger
}

func NewLikeService(repo LikeRepository, spec listing.Spec, logger *slog.Logger) *LikeService {
	return &LikeService{repo: repo, spec: spec, logger: logger}
}

func (s *LikeService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Like], error) {
	return fetchPage[models.Like](ctx, s.logger, "likes", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *LikeService) Create(ctx context.Context, actor models.Actor, eduCenterID int64) (*models.Like, error) {
	like, err := s.repo.Create(ctx, &models.Like{UserID: actor.ID, EduCenterID: eduCenterID})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewValidationError("edu_center_id", "You already liked this edu center")
		}
		return nil, repoError(s.logger, "failed to create like", err)
	}
	return like, nil
}

func (s *LikeService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	like, err := getByID[models.Like](ctx, s.logger, "like", s.repo, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(like.UserID, privileged...) {
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete like", err, slog.Int64("like_id", id))
	}
	return nil
}
