package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/handlers"
	"github.com/BradenHooton/educenter/internal/middleware"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", time.Hour, 24*time.Hour)
	router := chi.NewRouter()

	RegisterRoutes(router, Handlers{
		Auth:          handlers.NewAuthHandler(&handlers.MockAuthService{}),
		Users:         handlers.NewUserHandler(&handlers.MockUserService{}),
		Regions:       handlers.NewRegionHandler(nil),
		Subjects:      handlers.NewCatalogHandler(nil, "Subject"),
		Fields:        handlers.NewCatalogHandler(nil, "Field"),
		EduCenters:    handlers.NewEduCenterHandler(&handlers.MockEduCenterService{}),
		Branches:      handlers.NewBranchHandler(nil),
		Resources:     handlers.NewResourceHandler(nil),
		Comments:      handlers.NewCommentHandler(nil),
		Likes:         handlers.NewLikeHandler(&handlers.MockLikeService{}),
		Registrations: handlers.NewCourseRegistrationHandler(nil),
		Health:        handlers.Health(&handlers.MockHealthChecker{}),
	}, tm, Limits{
		Auth:   middleware.RateLimitConfig{RequestsPerMinute: 100},
		Writes: middleware.RateLimitConfig{RequestsPerMinute: 100},
	})

	return router, tm
}

func bearer(t *testing.T, tm *auth.TokenManager, role, status string) string {
	t.Helper()
	token, err := tm.GenerateAccessToken(&models.User{ID: 7, Role: role, Status: status})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_AccessControl(t *testing.T) {
	router, tm := newTestRouter(t)

	centerBody := `{"name":"Bright Future","region_id":1,"location":"Tashkent, Chilonzor","phone":"+998901234567"}`

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		role       string
		status     string
		wantStatus int
	}{
		{name: "health is public", method: "GET", path: "/health", wantStatus: http.StatusOK},
		{name: "edu center list is public", method: "GET", path: "/edu-centers/all", wantStatus: http.StatusOK},
		{name: "likes list is public", method: "GET", path: "/likes/all", wantStatus: http.StatusOK},
		{name: "branches need a token", method: "GET", path: "/branches/all", wantStatus: http.StatusUnauthorized},
		{name: "me needs a token", method: "GET", path: "/auth/me", wantStatus: http.StatusUnauthorized},
		{name: "users list without token", method: "GET", path: "/users/all", wantStatus: http.StatusUnauthorized},
		{name: "users list as user", method: "GET", path: "/users/all", role: models.RoleUser, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "users list as ceo", method: "GET", path: "/users/all", role: models.RoleCEO, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "users list as admin", method: "GET", path: "/users/all", role: models.RoleAdmin, status: models.StatusActive, wantStatus: http.StatusOK},
		{name: "pending account is rejected", method: "GET", path: "/users/all", role: models.RoleAdmin, status: models.StatusPending, wantStatus: http.StatusUnauthorized},
		{name: "edu center create as user", method: "POST", path: "/edu-centers", body: centerBody, role: models.RoleUser, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "edu center create as ceo", method: "POST", path: "/edu-centers", body: centerBody, role: models.RoleCEO, status: models.StatusActive, wantStatus: http.StatusCreated},
		{name: "region delete as super-admin", method: "DELETE", path: "/regions/1", role: models.RoleSuperAdmin, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "subject create as ceo", method: "POST", path: "/subjects", body: `{"name":"Math"}`, role: models.RoleCEO, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "registrations all as user", method: "GET", path: "/registrations/all", role: models.RoleUser, status: models.StatusActive, wantStatus: http.StatusForbidden},
		{name: "like delete as user reaches service", method: "DELETE", path: "/likes/3", role: models.RoleUser, status: models.StatusActive, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tm, tt.role, tt.status))
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRoutes_AuthEndpointsAreRateLimited(t *testing.T) {
	tm := auth.NewTokenManager("a", "b", time.Hour, time.Hour)
	router := chi.NewRouter()
	RegisterRoutes(router, Handlers{
		Auth:          handlers.NewAuthHandler(&handlers.MockAuthService{}),
		Users:         handlers.NewUserHandler(nil),
		Regions:       handlers.NewRegionHandler(nil),
		Subjects:      handlers.NewCatalogHandler(nil, "Subject"),
		Fields:        handlers.NewCatalogHandler(nil, "Field"),
		EduCenters:    handlers.NewEduCenterHandler(nil),
		Branches:      handlers.NewBranchHandler(nil),
		Resources:     handlers.NewResourceHandler(nil),
		Comments:      handlers.NewCommentHandler(nil),
		Likes:         handlers.NewLikeHandler(nil),
		Registrations: handlers.NewCourseRegistrationHandler(nil),
		Health:        handlers.Health(&handlers.MockHealthChecker{}),
	}, tm, Limits{
		Auth:   middleware.RateLimitConfig{RequestsPerMinute: 2},
		Writes: middleware.RateLimitConfig{RequestsPerMinute: 100},
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/auth/resend-otp", strings.NewReader(`{"email":"ann@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.9.9.9:1000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
