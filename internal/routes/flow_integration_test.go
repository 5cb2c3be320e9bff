//go:build integration

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/database/dbtest"
	"github.com/BradenHooton/educenter/internal/handlers"
	"github.com/BradenHooton/educenter/internal/listing"
	middlewareCustom "github.com/BradenHooton/educenter/internal/middleware"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/BradenHooton/educenter/internal/repositories"
	"github.com/BradenHooton/educenter/internal/services"
	pkglogger "github.com/BradenHooton/educenter/pkg/logger"
)

var testContainer *dbtest.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testContainer, err = dbtest.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = testContainer.Teardown(ctx)
	os.Exit(code)
}

// testServer is the full API on a real database with email captured in memory
type testServer struct {
	server *httptest.Server
	otp    *auth.OTPManager
	email  *services.MockEmailService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, testContainer.Truncate(context.Background()))

	db := testContainer.DB
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	auditLogger := pkglogger.NewAuditLogger(logger)

	tokenManager := auth.NewTokenManager("access-secret-for-flow-tests", "refresh-secret-for-flow-tests", 15*time.Minute, time.Hour)
	otpManager := auth.NewOTPManager("flow-test-salt", 300, 1)
	email := &services.MockEmailService{}

	userRepo := repositories.NewUserRepository(db)
	centerRepo := repositories.NewEduCenterRepository(db)
	limits := listing.Limits{Default: 10, Max: 100}

	authService := services.NewAuthService(userRepo, tokenManager, otpManager, email, nil, logger, auditLogger,
		services.AuthServiceConfig{Env: "test", BcryptCost: bcrypt.MinCost})
	userService := services.NewUserService(userRepo, repositories.UserListSpec.WithLimits(limits), bcrypt.MinCost, logger, auditLogger)
	regionService := services.NewRegionService(repositories.NewRegionRepository(db), repositories.RegionListSpec.WithLimits(limits), logger)
	centerService := services.NewEduCenterService(centerRepo, repositories.EduCenterListSpec.WithLimits(limits), logger)
	likeService := services.NewLikeService(repositories.NewLikeRepository(db), repositories.LikeListSpec.WithLimits(limits), logger)

	require.NoError(t, userService.EnsureAdmin(context.Background(), services.AdminSeed{
		Email:    "admin@educenter.uz",
		Password: "adminpass1",
		Phone:    "+998900000000",
	}))

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	r.Use(chiMiddleware.Recoverer)

	RegisterRoutes(r, Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUserHandler(userService),
		Regions:       handlers.NewRegionHandler(regionService),
		Subjects:      handlers.NewCatalogHandler(nil, "Subject"),
		Fields:        handlers.NewCatalogHandler(nil, "Field"),
		EduCenters:    handlers.NewEduCenterHandler(centerService),
		Branches:      handlers.NewBranchHandler(nil),
		Resources:     handlers.NewResourceHandler(nil),
		Comments:      handlers.NewCommentHandler(nil),
		Likes:         handlers.NewLikeHandler(likeService),
		Registrations: handlers.NewCourseRegistrationHandler(nil),
		Health:        handlers.Health(db),
	}, tokenManager, Limits{
		Auth:   middlewareCustom.RateLimitConfig{RequestsPerMinute: 1000},
		Writes: middlewareCustom.RateLimitConfig{RequestsPerMinute: 1000},
	})

	ts := &testServer{server: httptest.NewServer(r), otp: otpManager, email: email}
	t.Cleanup(ts.server.Close)
	return ts
}

// do sends a JSON request and decodes the JSON answer into out when out is not nil
func (ts *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) login(t *testing.T, email, password string) services.LoginResult {
	t.Helper()
	var tokens services.LoginResult
	status := ts.do(t, "POST", "/auth/login", "", map[string]string{"email": email, "password": password}, &tokens)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, tokens.AccessToken)
	return tokens
}

func TestFlow_RegisterVerifyLogin(t *testing.T) {
	ts := newTestServer(t)

	registration := map[string]any{
		"email":     "Ann@Example.com",
		"phone":     "+998901234567",
		"password":  "secretpass1",
		"full_name": "Ann Karimova",
		"role":      models.RoleCEO,
	}

	var msg map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/register", "", registration, &msg))
	assert.Equal(t, "Otp sended to your email", msg["message"])
	assert.NotContains(t, msg, "otp")

	// Same identity again
	var errBody map[string]string
	require.Equal(t, http.StatusBadRequest, ts.do(t, "POST", "/auth/register", "", registration, &errBody))
	assert.Equal(t, "User already exists", errBody["message"])

	// Pending accounts get a message instead of tokens
	msg = nil
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/login", "", map[string]string{"email": "ann@example.com", "password": "secretpass1"}, &msg))
	assert.Equal(t, "Your account is not verified please verify", msg["message"])

	errBody = nil
	require.Equal(t, http.StatusBadRequest, ts.do(t, "POST", "/auth/verify", "", map[string]string{"email": "ann@example.com", "otp": "000000"}, &errBody))

	code, err := ts.otp.Generate("ann@example.com")
	require.NoError(t, err)
	msg = nil
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/verify", "", map[string]string{"email": "ann@example.com", "otp": code}, &msg))
	assert.Equal(t, "Verified", msg["message"])

	tokens := ts.login(t, "ann@example.com", "secretpass1")

	var me models.User
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/auth/me", tokens.AccessToken, nil, &me))
	assert.Equal(t, "ann@example.com", me.Email)
	assert.Equal(t, models.RoleCEO, me.Role)
	assert.Equal(t, models.StatusActive, me.Status)

	var refreshed handlers.AccessTokenResponse
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/access-token", "", map[string]string{"refresh_token": tokens.RefreshToken}, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	// A refresh token is not an access token
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, "GET", "/auth/me", tokens.RefreshToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, "POST", "/auth/access-token", "", map[string]string{"refresh_token": tokens.AccessToken}, nil))
}

func TestFlow_DirectoryOwnership(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.login(t, "admin@educenter.uz", "adminpass1")

	var region models.Region
	require.Equal(t, http.StatusCreated, ts.do(t, "POST", "/regions", admin.AccessToken, map[string]string{"name": "Tashkent"}, &region))

	ceoPassword := registerAndVerify(t, ts, "boss@example.com", "+998901111111", models.RoleCEO)
	ceo := ts.login(t, "boss@example.com", ceoPassword)
	rivalPassword := registerAndVerify(t, ts, "rival@example.com", "+998902222222", models.RoleCEO)
	rival := ts.login(t, "rival@example.com", rivalPassword)

	var center models.EduCenter
	require.Equal(t, http.StatusCreated, ts.do(t, "POST", "/edu-centers", ceo.AccessToken, map[string]any{
		"name":      "Bright Future",
		"region_id": region.ID,
		"location":  "Chilonzor 9, Tashkent",
		"phone":     "+998903333333",
	}, &center))

	var me models.User
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/auth/me", ceo.AccessToken, nil, &me))
	assert.Equal(t, me.ID, center.UserID)

	assert.Equal(t, http.StatusForbidden, ts.do(t, "PATCH", fmt.Sprintf("/edu-centers/%d", center.ID), rival.AccessToken, map[string]string{"name": "Taken Over"}, nil))
	assert.Equal(t, http.StatusOK, ts.do(t, "PATCH", fmt.Sprintf("/edu-centers/%d", center.ID), admin.AccessToken, map[string]string{"name": "Bright Future Plus"}, nil))

	var page listing.Page[models.EduCenter]
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/edu-centers/all?name=bright&nameSort=asc", "", nil, &page))
	require.EqualValues(t, 1, page.TotalCount)
	assert.Equal(t, "Bright Future Plus", page.Data[0].Name)

	body := map[string]int64{"edu_center_id": center.ID}
	assert.Equal(t, http.StatusCreated, ts.do(t, "POST", "/likes", rival.AccessToken, body, nil))
	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, ts.do(t, "POST", "/likes", rival.AccessToken, body, &errBody))
	assert.Equal(t, "You already liked this edu center", errBody["message"])

	var users listing.Page[models.User]
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/users/all?role=ceo&limit=1", admin.AccessToken, nil, &users))
	assert.EqualValues(t, 2, users.TotalCount)
	assert.Equal(t, 2, users.TotalPages)
	assert.Len(t, users.Data, 1)
}

// registerAndVerify creates an active account and returns its password
func registerAndVerify(t *testing.T, ts *testServer, email, phone, role string) string {
	t.Helper()
	password := "password1" + phone[len(phone)-2:]

	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/register", "", map[string]any{
		"email":     email,
		"phone":     phone,
		"password":  password,
		"full_name": "Flow " + role,
		"role":      role,
	}, nil))

	code, err := ts.otp.Generate(email)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/auth/verify", "", map[string]string{"email": email, "otp": code}, nil))
	return password
}
