package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/models"
	pkgauth "github.com/BradenHooton/educenter/pkg/auth"
	pkglogger "github.com/BradenHooton/educenter/pkg/logger"
)

const defaultEmailTimeout = 10 * time.Second

// AuthServiceConfig carries the settings AuthService reads from config
type AuthServiceConfig struct {
	Env          string
	BcryptCost   int
	EmailTimeout time.Duration
}

// AuthService drives an account from registration through OTP
// verification to an active session
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	otp         *auth.OTPManager
	email       EmailService
	timing      *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	cfg         AuthServiceConfig

	// dispatch runs email delivery off the request path
	dispatch func(func())
}

func NewAuthService(
	repo UserRepository,
	tm *auth.TokenManager,
	otp *auth.OTPManager,
	email EmailService,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	cfg AuthServiceConfig,
) *AuthService {
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = defaultEmailTimeout
	}
	return &AuthService{
		repo:        repo,
		tm:          tm,
		otp:         otp,
		email:       email,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
		cfg:         cfg,
		dispatch:    func(f func()) { go f() },
	}
}

// RegisterInput is a validated registration request
type RegisterInput struct {
	Email    string
	Phone    string
	Password string
	FullName string
	Role     string
	RegionID *int64
	Year     *int
	Image    string
}

// LoginResult holds the token pair of a successful login. Pending is set
// instead when the credentials were right but the account is not verified.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Pending      bool   `json:"-"`
}

// selfServiceRoles are the roles a caller may pick at registration
var selfServiceRoles = []string{models.RoleUser, models.RoleCEO}

// Register creates a pending account and sends its OTP. The code is never
// part of the result.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !oneOf(in.Role, selfServiceRoles...) {
		return models.NewValidationError("role", "must be one of: user, ceo")
	}

	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return models.NewValidationError("password", err.Error())
	}

	taken, err := s.identityTaken(ctx, in.Email, in.Phone)
	if err != nil {
		s.logger.Error("failed to check existing identity", slog.Any("error", err))
		return models.ErrInternalServer
	}
	if taken {
		s.logger.Info("registration failed: user already exists")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "register_failed",
			Email:         in.Email,
			FailureReason: "duplicate_identity",
		})
		return models.ErrDuplicateIdentity
	}

	hashedPassword, err := pkgauth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
		FullName:     in.FullName,
		Role:         in.Role,
		Status:       models.StatusPending,
		RegionID:     in.RegionID,
		Year:         in.Year,
		Image:        in.Image,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same identity
		if errors.Is(err, models.ErrConflict) {
			return models.ErrDuplicateIdentity
		}
		return repoError(s.logger, "failed to create user", err)
	}

	code, err := s.otp.Generate(user.Email)
	if err != nil {
		s.logger.Error("failed to generate OTP", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}
	s.sendOTP(ctx, user, code)

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
		pkglogger.RedactedAttr("otp", code, s.cfg.Env))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "register",
		UserID:    user.ID,
		Success:   true,
	})

	return nil
}

// Verify activates a pending account when code matches the current OTP
// window. Verifying an active account again succeeds without changes.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("verification failed: user not found")
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if !s.otp.Validate(user.Email, strings.TrimSpace(code)) {
		s.logger.Info("verification failed: invalid code", slog.Int64("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "verify_failed",
			UserID:        user.ID,
			FailureReason: "invalid_otp",
		})
		return models.ErrInvalidOTP
	}

	if user.IsActive() {
		s.logger.Debug("verification skipped: already active", slog.Int64("user_id", user.ID))
		return nil
	}

	activated, err := s.repo.Activate(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to activate user", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}
	if !activated {
		// A concurrent verification got there first
		s.logger.Debug("verification raced: already active", slog.Int64("user_id", user.ID))
		return nil
	}

	s.logger.Info("user verified", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "verify",
		UserID:    user.ID,
		Success:   true,
	})

	return nil
}

// Login checks the credentials and issues a token pair to active accounts
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	start := time.Now()
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: user not found")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				Email:         email,
				FailureReason: "user_not_found",
			})
			s.timing.WaitFrom(start, false)
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: incorrect password", slog.Int64("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "incorrect_password",
		})
		s.timing.WaitFrom(start, false)
		return nil, models.ErrIncorrectPassword
	}

	if !user.IsActive() {
		s.logger.Info("login blocked: account not verified", slog.Int64("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "account_not_verified",
		})
		return &LoginResult{Pending: true}, nil
	}

	accessToken, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(user)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a new access token from a refresh token. Role and status
// are read again so a demoted account does not keep its old claims.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tm.ValidateRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "token_refresh_failed",
			FailureReason: "invalid_token",
		})
		return "", models.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found for token refresh", slog.Int64("user_id", claims.UserID))
			return "", models.ErrInvalidRefreshToken
		}
		s.logger.Error("failed to get user for token refresh", slog.Int64("user_id", claims.UserID), slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if !user.IsActive() {
		s.logger.Info("token refresh blocked: account not verified", slog.Int64("user_id", user.ID))
		return "", models.ErrInvalidRefreshToken
	}

	accessToken, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("token refreshed", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "token_refresh",
		UserID:    user.ID,
		Success:   true,
	})

	return accessToken, nil
}

// Me returns the account behind an access token
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get current user", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// ResendOTP sends the current code again to a pending account. Unknown and
// active accounts are skipped silently so the answer does not reveal them.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Debug("resend skipped: user not found")
			return nil
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsActive() {
		s.logger.Debug("resend skipped: already active", slog.Int64("user_id", user.ID))
		return nil
	}

	code, err := s.otp.Generate(user.Email)
	if err != nil {
		s.logger.Error("failed to generate OTP", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}
	s.sendOTP(ctx, user, code)

	s.logger.Info("OTP resent",
		slog.Int64("user_id", user.ID),
		pkglogger.RedactedAttr("otp", code, s.cfg.Env))

	return nil
}

// identityTaken checks email and phone separately so either clash is caught
func (s *AuthService) identityTaken(ctx context.Context, email, phone string) (bool, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	if _, err := s.repo.GetByPhone(ctx, phone); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	return false, nil
}

// sendOTP hands the email to dispatch. The send outlives the request, so
// it gets its own deadline.
func (s *AuthService) sendOTP(ctx context.Context, user *models.User, code string) {
	detached := context.WithoutCancel(ctx)
	to, name := user.Email, user.FullName

	s.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(detached, s.cfg.EmailTimeout)
		defer cancel()

		if err := s.email.SendOTPEmail(sendCtx, to, name, code); err != nil {
			s.logger.Error("failed to deliver OTP email",
				slog.String("email", pkglogger.SanitizedEmail(to)),
				slog.Any("error", err))
		}
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
