package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type BranchRepository interface {
	Store[models.Branch]
	Create(ctx context.Context, b *models.Branch) (*models.Branch, error)
	Update(ctx context.Context, id int64, patch models.BranchPatch) (*models.Branch, error)
}

// EduCenterReader looks up the center a branch belongs to
type EduCenterReader interface {
	GetByID(ctx context.Context, id int64) (*models.EduCenter, error)
}

// BranchService manages branches. Admins may change any branch; a ceo only
// the branches they own and only under centers they own.
type BranchService struct {
	repo    BranchRepository
	centers EduCenterReader
	spec    listing.Spec
	logger  *slog.Logger
}

func NewBranchService(repo BranchRepository, centers EduCenterReader, spec listing.Spec, logger *slog.Logger) *BranchService {
	return &BranchService{repo: repo, centers: centers, spec: spec, logger: logger}
}

func (s *BranchService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Branch], error) {
	return fetchPage[models.Branch](ctx, s.logger, "branches", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *BranchService) Get(ctx context.Context, id int64) (*models.Branch, error) {
	return getByID[models.Branch](ctx, s.logger, "branch", s.repo, id)
}

// Create stores a branch owned by the caller
func (s *BranchService) Create(ctx context.Context, actor models.Actor, b *models.Branch) (*models.Branch, error) {
	if err := s.checkCenter(ctx, actor, b.EduCenterID); err != nil {
		return nil, err
	}
	b.UserID = actor.ID

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, repoError(s.logger, "failed to create branch", err)
	}
	s.logger.Info("branch created", slog.Int64("branch_id", created.ID), slog.Int64("user_id", actor.ID))
	return created, nil
}

func (s *BranchService) Update(ctx context.Context, actor models.Actor, id int64, patch models.BranchPatch) (*models.Branch, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	if patch.EduCenterID != nil {
		if err := s.checkCenter(ctx, actor, *patch.EduCenterID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update branch", err, slog.Int64("branch_id", id))
	}
	s.logger.Info("branch updated", slog.Int64("branch_id", id), slog.Int64("actor_id", actor.ID))
	return updated, nil
}

func (s *BranchService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete branch", err, slog.Int64("branch_id", id))
	}
	s.logger.Info("branch deleted", slog.Int64("branch_id", id), slog.Int64("actor_id", actor.ID))
	return nil
}

func (s *BranchService) authorize(ctx context.Context, actor models.Actor, id int64) error {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(branch.UserID, models.RoleAdmin) {
		s.logger.Info("branch change denied", slog.Int64("branch_id", id), slog.Int64("actor_id", actor.ID))
		return models.ErrForbidden
	}
	return nil
}

// checkCenter requires the target center to exist and, for non admins, to
// belong to the caller
func (s *BranchService) checkCenter(ctx context.Context, actor models.Actor, centerID int64) error {
	center, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewValidationError("edu_center_id", "Edu center not found")
		}
		return repoError(s.logger, "failed to get edu center", err, slog.Int64("edu_center_id", centerID))
	}
	if !actor.CanManage(center.UserID, models.RoleAdmin) {
		s.logger.Info("branch on foreign edu center denied",
			slog.Int64("edu_center_id", centerID),
			slog.Int64("actor_id", actor.ID))
		return models.ErrForbidden
	}
	return nil
}
