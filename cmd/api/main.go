package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/background"
	"github.com/BradenHooton/educenter/internal/config"
	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/handlers"
	"github.com/BradenHooton/educenter/internal/listing"
	middlewareCustom "github.com/BradenHooton/educenter/internal/middleware"
	"github.com/BradenHooton/educenter/internal/repositories"
	"github.com/BradenHooton/educenter/internal/routes"
	"github.com/BradenHooton/educenter/internal/services"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
	pkglogger "github.com/BradenHooton/educenter/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(startupCtx, cfg.Database.DSN(), logger); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize database
	db, err := database.NewConnection(startupCtx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	regionRepo := repositories.NewRegionRepository(db)
	subjectRepo := repositories.NewSubjectRepository(db)
	fieldRepo := repositories.NewFieldRepository(db)
	centerRepo := repositories.NewEduCenterRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	resourceRepo := repositories.NewResourceRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	registrationRepo := repositories.NewCourseRegistrationRepository(db)

	// Token, OTP and timing primitives
	tokenManager := auth.NewTokenManager(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	otpManager := auth.NewOTPManager(cfg.OTP.Salt, cfg.OTP.Period, cfg.OTP.Skew)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})

	auditLogger := pkglogger.NewAuditLogger(logger)

	emailService, err := newEmailService(startupCtx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Every list endpoint shares the configured page size bounds
	limits := listing.Limits{Default: cfg.Listing.DefaultLimit, Max: cfg.Listing.MaxLimit}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, otpManager, emailService, timingDelay, logger, auditLogger, services.AuthServiceConfig{
		Env:          cfg.Server.Env,
		BcryptCost:   cfg.Auth.BcryptCost,
		EmailTimeout: cfg.Email.SendTimeout,
	})
	userService := services.NewUserService(userRepo, repositories.UserListSpec.WithLimits(limits), cfg.Auth.BcryptCost, logger, auditLogger)
	regionService := services.NewRegionService(regionRepo, repositories.RegionListSpec.WithLimits(limits), logger)
	subjectService := services.NewCatalogService(subjectRepo, "subject", repositories.CatalogListSpec.WithLimits(limits), logger)
	fieldService := services.NewCatalogService(fieldRepo, "field", repositories.CatalogListSpec.WithLimits(limits), logger)
	centerService := services.NewEduCenterService(centerRepo, repositories.EduCenterListSpec.WithLimits(limits), logger)
	branchService := services.NewBranchService(branchRepo, centerRepo, repositories.BranchListSpec.WithLimits(limits), logger)
	resourceService := services.NewResourceService(resourceRepo, repositories.ResourceListSpec.WithLimits(limits), logger)
	commentService := services.NewCommentService(commentRepo, repositories.CommentListSpec.WithLimits(limits), logger)
	likeService := services.NewLikeService(likeRepo, repositories.LikeListSpec.WithLimits(limits), logger)
	registrationService := services.NewCourseRegistrationService(registrationRepo, branchRepo, repositories.CourseRegistrationListSpec.WithLimits(limits), logger)

	// Bootstrap first admin user if configured
	if err := userService.EnsureAdmin(startupCtx, services.AdminSeed{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Phone:    cfg.Admin.Phone,
	}); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	startupCancel()

	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Register routes
	routes.RegisterRoutes(router, routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUserHandler(userService),
		Regions:       handlers.NewRegionHandler(regionService),
		Subjects:      handlers.NewCatalogHandler(subjectService, "Subject"),
		Fields:        handlers.NewCatalogHandler(fieldService, "Field"),
		EduCenters:    handlers.NewEduCenterHandler(centerService),
		Branches:      handlers.NewBranchHandler(branchService),
		Resources:     handlers.NewResourceHandler(resourceService),
		Comments:      handlers.NewCommentHandler(commentService),
		Likes:         handlers.NewLikeHandler(likeService),
		Registrations: handlers.NewCourseRegistrationHandler(registrationService),
		Health:        handlers.Health(db),
	}, tokenManager, routes.Limits{
		Auth:   middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Auth.RateLimitPerMinute, IPConfig: ipConfig},
		Writes: middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Auth.WriteLimitPerMinute, IPConfig: ipConfig},
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.PendingAccountTTL, cfg.Auth.CleanupInterval)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newEmailService picks the OTP delivery backend. The log backend is meant
// for development and prints codes only outside production.
func newEmailService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.EmailService, error) {
	if cfg.Email.Provider != "ses" {
		logger.Warn("email provider is log, OTP emails will not be delivered")
		return services.NewLogEmailService(logger, cfg.Server.Env), nil
	}

	validFor := time.Duration(cfg.OTP.Period) * time.Second
	return services.NewSESEmailService(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.VerifyURLBase, validFor, logger)
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
