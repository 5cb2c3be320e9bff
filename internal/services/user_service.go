package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkgauth "github.com/BradenHooton/educenter/pkg/auth"
	pkglogger "github.com/BradenHooton/educenter/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Store[models.User]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Activate(ctx context.Context, id int64) (bool, error)
}

var (
	allRoles    = []string{models.RoleUser, models.RoleCEO, models.RoleAdmin, models.RoleSuperAdmin}
	allStatuses = []string{models.StatusPending, models.StatusActive}
)

// UserService handles the admin side of account management
type UserService struct {
	repo        UserRepository
	spec        listing.Spec
	bcryptCost  int
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewUserService(repo UserRepository, spec listing.Spec, bcryptCost int, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		spec:        spec,
		bcryptCost:  bcryptCost,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// CreateUserInput is an account created by an admin. It starts active.
type CreateUserInput struct {
	Email    string
	Phone    string
	Password string
	FullName string
	Role     string
	RegionID *int64
	Year     *int
	Image    string
}

func (s *UserService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.User], error) {
	return fetchPage[models.User](ctx, s.logger, "users", s.repo, listing.Parse(rawQuery, s.spec))
}

// ListByRegion lists the users of one region under the usual query rules
func (s *UserService) ListByRegion(ctx context.Context, regionID int64, rawQuery string) (*listing.Page[*models.User], error) {
	q := listing.Parse(rawQuery, s.spec).Scoped("region_id", regionID)
	return fetchPage[models.User](ctx, s.logger, "users", s.repo, q)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return getByID[models.User](ctx, s.logger, "user", s.repo, id)
}

func (s *UserService) Create(ctx context.Context, actor models.Actor, in CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !oneOf(in.Role, allRoles...) {
		return nil, models.NewValidationError("role", "must be one of: "+strings.Join(allRoles, ", "))
	}
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError("password", err.Error())
	}

	hashedPassword, err := pkgauth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		Status:       models.StatusActive,
		RegionID:     in.RegionID,
		Year:         in.Year,
		Image:        in.Image,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, repoError(s.logger, "failed to create user", err)
	}

	s.logger.Info("user created", slog.Int64("user_id", user.ID), slog.Int64("actor_id", actor.ID))
	s.auditLogger.LogAccountAction("user_created", actor.ID, user.ID, map[string]string{"role": user.Role})
	return user, nil
}

// Update applies an admin patch. Role and status are the only way an
// account changes privileges, so both are checked against the known values.
func (s *UserService) Update(ctx context.Context, actor models.Actor, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.Role != nil && !oneOf(*patch.Role, allRoles...) {
		return nil, models.NewValidationError("role", "must be one of: "+strings.Join(allRoles, ", "))
	}
	if patch.Status != nil && !oneOf(*patch.Status, allStatuses...) {
		return nil, models.NewValidationError("status", "must be one of: "+strings.Join(allStatuses, ", "))
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, repoError(s.logger, "failed to update user", err, slog.Int64("user_id", id))
	}

	metadata := map[string]string{}
	if patch.Role != nil {
		metadata["role"] = *patch.Role
	}
	if patch.Status != nil {
		metadata["status"] = *patch.Status
	}
	s.logger.Info("user updated", slog.Int64("user_id", id), slog.Int64("actor_id", actor.ID))
	s.auditLogger.LogAccountAction("user_updated", actor.ID, id, metadata)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "failed to delete user", err, slog.Int64("user_id", id))
	}

	s.logger.Info("user deleted", slog.Int64("user_id", id), slog.Int64("actor_id", actor.ID))
	s.auditLogger.LogAccountAction("user_deleted", actor.ID, id, nil)
	return nil
}

// AdminSeed is the account created at startup when none exists for Email
type AdminSeed struct {
	Email    string
	Password string
	Phone    string
}

// EnsureAdmin creates the bootstrap admin account. An empty email disables
// it; an existing account with that email is left as is.
func (s *UserService) EnsureAdmin(ctx context.Context, seed AdminSeed) error {
	if seed.Email == "" {
		return nil
	}

	existing, err := s.repo.GetByEmail(ctx, normalizeEmail(seed.Email))
	if err == nil {
		s.logger.Debug("bootstrap admin already present", slog.Int64("user_id", existing.ID))
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	user, err := s.Create(ctx, models.Actor{}, CreateUserInput{
		Email:    seed.Email,
		Phone:    seed.Phone,
		Password: seed.Password,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	s.logger.Info("bootstrap admin created", slog.Int64("user_id", user.ID))
	return nil
}
