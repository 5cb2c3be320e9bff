package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type ResourceRepository interface {
	Store[models.Resource]
	Create(ctx context.Context, res *models.Resource) (*models.Resource, error)
	Update(ctx context.Context, id int64, patch models.ResourcePatch) (*models.Resource, error)
}

type ResourceService struct {
	repo   ResourceRepository
	spec   listing.Spec
	logger *slog.Logger
}

func NewResourceService(repo ResourceRepository, spec listing.Spec, logger *slog.Logger) *ResourceService {
	return &ResourceService{repo: repo, spec: spec, logger: logger}
}

func (s *ResourceService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Resource], error) {
	return fetchPage[models.Resource](ctx, s.logger, "resources", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *ResourceService) Get(ctx context.Context, id int64) (*models.Resource, error) {
	return getByID[models.Resource](ctx, s.logger, "resource", s.repo, id)
}

func (s *ResourceService) Create(ctx context.Context, actor models.Actor, res *models.Resource) (*models.Resource, error) {
	res.UserID = actor.ID

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, repoError(s.logger, "failed to create resource", err)
	}
	s.logger.Info("resource created", slog.Int64("resource_id", created.ID), slog.Int64("user_id", actor.ID))
	return created, nil
}

func (s *ResourceService) Update(ctx context.Context, actor models.Actor, id int64, patch models.ResourcePatch) (*models.Resource, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update resource", err, slog.Int64("resource_id", id))
	}
	return updated, nil
}

func (s *ResourceService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete resource", err, slog.Int64("resource_id", id))
	}
	s.logger.Info("resource deleted", slog.Int64("resource_id", id), slog.Int64("actor_id", actor.ID))
	return nil
}

func (s *ResourceService) authorize(ctx context.Context, actor models.Actor, id int64) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(res.UserID, privileged...) {
		return models.ErrForbidden
	}
	return nil
}
