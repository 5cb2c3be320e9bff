package routes

import (
	"net/http"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/handlers"
	"github.com/BradenHooton/educenter/internal/middleware"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Regions       *handlers.RegionHandler
	Subjects      *handlers.CatalogHandler
	Fields        *handlers.CatalogHandler
	EduCenters    *handlers.EduCenterHandler
	Branches      *handlers.BranchHandler
	Resources     *handlers.ResourceHandler
	Comments      *handlers.CommentHandler
	Likes         *handlers.LikeHandler
	Registrations *handlers.CourseRegistrationHandler
	Health        http.HandlerFunc
}

// Limits holds the per-minute budgets for the two rate limited surfaces
type Limits struct {
	Auth   middleware.RateLimitConfig
	Writes middleware.RateLimitConfig
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, tokens auth.AccessTokenValidator, limits Limits) {
	router.Get("/health", h.Health)

	// Auth endpoints - no token, limited per client IP
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(limits.Auth))
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/verify", h.Auth.Verify)
		r.Post("/auth/resend-otp", h.Auth.ResendOTP)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/access-token", h.Auth.AccessToken)
	})

	// Public reads
	router.Get("/regions/all", h.Regions.List)
	router.Get("/regions/{id}", h.Regions.Get)
	router.Get("/subjects/all", h.Subjects.List)
	router.Get("/subjects/{id}", h.Subjects.Get)
	router.Get("/fields/all", h.Fields.List)
	router.Get("/fields/{id}", h.Fields.Get)
	router.Get("/edu-centers/all", h.EduCenters.List)
	router.Get("/edu-centers/{id}", h.EduCenters.Get)
	router.Get("/comments/all", h.Comments.List)
	router.Get("/comments/{id}", h.Comments.Get)
	router.Get("/likes/all", h.Likes.List)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(tokens))

		r.Get("/auth/me", h.Auth.Me)
		r.Get("/branches/all", h.Branches.List)
		r.Get("/branches/{id}", h.Branches.Get)
		r.Get("/resources/all", h.Resources.List)
		r.Get("/resources/{id}", h.Resources.Get)
		r.Get("/registrations/my", h.Registrations.ListMine)

		// Admin-only reads
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/users/all", h.Users.ListUsers)
			r.Get("/users/byregion/{id}", h.Users.ListByRegion)
			r.Get("/users/{id}", h.Users.GetUser)
			r.Get("/registrations/all", h.Registrations.List)
		})

		// Writes share one per-user budget
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByUser(limits.Writes))

			// Any authenticated user; ownership is checked by the services
			r.Post("/resources", h.Resources.Create)
			r.Patch("/resources/{id}", h.Resources.Update)
			r.Delete("/resources/{id}", h.Resources.Delete)
			r.Post("/comments", h.Comments.Create)
			r.Patch("/comments/{id}", h.Comments.Update)
			r.Delete("/comments/{id}", h.Comments.Delete)
			r.Post("/likes", h.Likes.Create)
			r.Delete("/likes/{id}", h.Likes.Delete)
			r.Post("/registrations", h.Registrations.Create)
			r.Patch("/registrations/{id}", h.Registrations.Update)
			r.Delete("/registrations/{id}", h.Registrations.Delete)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin, models.RoleCEO))
				r.Post("/edu-centers", h.EduCenters.Create)
				r.Patch("/edu-centers/{id}", h.EduCenters.Update)
				r.Delete("/edu-centers/{id}", h.EduCenters.Delete)
				r.Post("/branches", h.Branches.Create)
				r.Patch("/branches/{id}", h.Branches.Update)
				r.Delete("/branches/{id}", h.Branches.Delete)
			})

			r.With(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)).Patch("/regions/{id}", h.Regions.Update)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin))
				r.Post("/users", h.Users.CreateUser)
				r.Patch("/users/{id}", h.Users.UpdateUser)
				r.Delete("/users/{id}", h.Users.DeleteUser)
				r.Post("/regions", h.Regions.Create)
				r.Delete("/regions/{id}", h.Regions.Delete)
				r.Post("/subjects", h.Subjects.Create)
				r.Patch("/subjects/{id}", h.Subjects.Update)
				r.Delete("/subjects/{id}", h.Subjects.Delete)
				r.Post("/fields", h.Fields.Create)
				r.Patch("/fields/{id}", h.Fields.Update)
				r.Delete("/fields/{id}", h.Fields.Delete)
			})
		})
	})
}
