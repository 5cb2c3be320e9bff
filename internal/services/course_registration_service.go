package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

type CourseRegistrationRepository interface {
	Store[models.CourseRegistration]
	Create(ctx context.Context, reg *models.CourseRegistration) (*models.CourseRegistration, error)
	Update(ctx context.Context, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error)
}

// BranchReader looks up the branch a registration points at
type BranchReader interface {
	GetByID(ctx context.Context, id int64) (*models.Branch, error)
}

// CourseRegistrationService manages a user's sign ups for a course at a
// branch. Only the registering user may change or cancel one.
type CourseRegistrationService struct {
	repo     CourseRegistrationRepository
	branches BranchReader
	spec     listing.Spec
	logger   *slog.Logger
}

func NewCourseRegistrationService(repo CourseRegistrationRepository, branches BranchReader, spec listing.Spec, logger *slog.Logger) *CourseRegistrationService {
	return &CourseRegistrationService{repo: repo, branches: branches, spec: spec, logger: logger}
}

// ListMine lists the caller's own registrations
func (s *CourseRegistrationService) ListMine(ctx context.Context, actor models.Actor, rawQuery string) (*listing.Page[*models.CourseRegistration], error) {
	q := listing.Parse(rawQuery, s.spec).Scoped("user_id", actor.ID)
	return fetchPage[models.CourseRegistration](ctx, s.logger, "course registrations", s.repo, q)
}

func (s *CourseRegistrationService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.CourseRegistration], error) {
	return fetchPage[models.CourseRegistration](ctx, s.logger, "course registrations", s.repo, listing.Parse(rawQuery, s.spec))
}

func (s *CourseRegistrationService) Create(ctx context.Context, actor models.Actor, reg *models.CourseRegistration) (*models.CourseRegistration, error) {
	if err := s.checkBranch(ctx, reg.BranchID, reg.EduCenterID); err != nil {
		return nil, err
	}
	reg.UserID = actor.ID

	created, err := s.repo.Create(ctx, reg)
	if err != nil {
		return nil, repoError(s.logger, "failed to create course registration", err)
	}
	s.logger.Info("course registration created",
		slog.Int64("registration_id", created.ID),
		slog.Int64("branch_id", created.BranchID))
	return created, nil
}

func (s *CourseRegistrationService) Update(ctx context.Context, actor models.Actor, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error) {
	reg, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.BranchID != nil || patch.EduCenterID != nil {
		branchID, centerID := reg.BranchID, reg.EduCenterID
		if patch.BranchID != nil {
			branchID = *patch.BranchID
		}
		if patch.EduCenterID != nil {
			centerID = *patch.EduCenterID
		}
		if err := s.checkBranch(ctx, branchID, centerID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(s.logger, "failed to update course registration", err, slog.Int64("registration_id", id))
	}
	return updated, nil
}

func (s *CourseRegistrationService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete course registration", err, slog.Int64("registration_id", id))
	}
	return nil
}

func (s *CourseRegistrationService) authorize(ctx context.Context, actor models.Actor, id int64) (*models.CourseRegistration, error) {
	reg, err := getByID[models.CourseRegistration](ctx, s.logger, "course registration", s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(reg.UserID) {
		return nil, models.ErrForbidden
	}
	return reg, nil
}

// checkBranch requires the branch to exist under the given center
func (s *CourseRegistrationService) checkBranch(ctx context.Context, branchID, centerID int64) error {
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewValidationError("branch_id", "Branch not found")
		}
		return repoError(s.logger, "failed to get branch", err, slog.Int64("branch_id", branchID))
	}
	if branch.EduCenterID != centerID {
		return models.NewValidationError("branch_id", "Branch does not belong to this edu center")
	}
	return nil
}
