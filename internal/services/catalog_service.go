package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type CatalogRepository interface {
	Store[models.CatalogItem]
	Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
	Update(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error)
}

// CatalogService manages one of the admin curated name lists, subjects or
// fields of study. kind names the list in logs.
type CatalogService struct {
	repo   CatalogRepository
	kind   string
	spec   listing.Spec
	logger *slog.Logger
}

func NewCatalogService(repo CatalogRepository, kind string, spec listing.Spec, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, kind: kind, spec: spec, logger: logger}
}

func (s *CatalogService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.CatalogItem], error) {
	return fetchPage[models.CatalogItem](ctx, s.logger, s.kind+"s", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.CatalogItem, error) {
	return getByID[models.CatalogItem](ctx, s.logger, s.kind, s.repo, id)
}

func (s *CatalogService) Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	item.Name = strings.TrimSpace(item.Name)

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, repoError(s.logger, "failed to create "+s.kind, duplicateName(err))
	}
	s.logger.Info(s.kind+" created", slog.Int64("id", created.ID))
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update "+s.kind, duplicateName(err), slog.Int64("id", id))
	}
	s.logger.Info(s.kind+" updated", slog.Int64("id", id))
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete "+s.kind, err, slog.Int64("id", id))
	}
	s.logger.Info(s.kind+" deleted", slog.Int64("id", id))
	return nil
}
