package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type EduCenterRepository interface {
	Store[models.EduCenter]
	Create(ctx context.Context, c *models.EduCenter) (*models.EduCenter, error)
	Update(ctx context.Context, id int64, patch models.EduCenterPatch) (*models.EduCenter, error)
}

// EduCenterService manages education centers. A ceo may only change the
// centers they own; admins may change any.
type EduCenterService struct {
	repo   EduCenterRepository
	spec   listing.Spec
	logger *slog.Logger
}

func NewEduCenterService(repo EduCenterRepository, spec listing.Spec, logger *slog.Logger) *EduCenterService {
	return &EduCenterService{repo: repo, spec: spec, logger: logger}
}

func (s *EduCenterService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.EduCenter], error) {
	return fetchPage[models.EduCenter](ctx, s.logger, "edu centers", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *EduCenterService) Get(ctx context.Context, id int64) (*models.EduCenter, error) {
	return getByID[models.EduCenter](ctx, s.logger, "edu center", s.repo, id)
}

// Create stores a center owned by the caller
func (s *EduCenterService) Create(ctx context.Context, actor models.Actor, c *models.EduCenter) (*models.EduCenter, error) {
	c.UserID = actor.ID

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, repoError(s.logger, "failed to create edu center", err)
	}
	s.logger.Info("edu center created", slog.Int64("edu_center_id", created.ID), slog.Int64("user_id", actor.ID))
	return created, nil
}

func (s *EduCenterService) Update(ctx context.Context, actor models.Actor, id int64, patch models.EduCenterPatch) (*models.EduCenter, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update edu center", err, slog.Int64("edu_center_id", id))
	}
	s.logger.Info("edu center updated", slog.Int64("edu_center_id", id), slog.Int64("actor_id", actor.ID))
	return updated, nil
}

func (s *EduCenterService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete edu center", err, slog.Int64("edu_center_id", id))
	}
	s.logger.Info("edu center deleted", slog.Int64("edu_center_id", id), slog.Int64("actor_id", actor.ID))
	return nil
}

// authorize loads the center and checks the actor may change it
func (s *EduCenterService) authorize(ctx context.Context, actor models.Actor, id int64) error {
	center, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(center.UserID, privileged...) {
		s.logger.Info("edu center change denied", slog.Int64("edu_center_id", id), slog.Int64("actor_id", actor.ID))
		return models.ErrForbidden
	}
	return nil
}
