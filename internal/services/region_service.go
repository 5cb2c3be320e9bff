package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type RegionRepository interface {
	Store[models.Region]
	Create(ctx context.Context, name string) (*models.Region, error)
	Update(ctx context.Context, id int64, name string) (*models.Region, error)
}

type RegionService struct {
	repo   RegionRepository
	spec   listing.Spec
	logger *slog.Logger
}

func NewRegionService(repo RegionRepository, spec listing.Spec, logger *slog.Logger) *RegionService {
	return &RegionService{repo: repo, spec: spec, logger: logger}
}

func (s *RegionService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Region], error) {
	return fetchPage[models.Region](ctx, s.logger, "regions", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *RegionService) Get(ctx context.Context, id int64) (*models.Region, error) {
	return getByID[models.Region](ctx, s.logger, "region", s.repo, id)
}

func (s *RegionService) Create(ctx context.Context, name string) (*models.Region, error) {
	region, err := s.repo.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, repoError(s.logger, "failed to create region", duplicateName(err))
	}
	s.logger.Info("region created", slog.Int64("region_id", region.ID))
	return region, nil
}

func (s *RegionService) Update(ctx context.Context, id int64, name string) (*models.Region, error) {
	region, err := s.repo.Update(ctx, id, strings.TrimSpace(name))
	if err != nil {
		return nil, repoError(s.logger, "failed to update region", duplicateName(err), slog.Int64("region_id", id))
	}
	s.logger.Info("region updated", slog.Int64("region_id", id))
	return region, nil
}

func (s *RegionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete region", err, slog.Int64("region_id", id))
	}
	s.logger.Info("region deleted", slog.Int64("region_id", id))
	return nil
}
