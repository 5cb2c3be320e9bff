package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/BradenHooton/educenter/internal/services"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds active access token claims to the request context
func WithAuthContext(req *http.Request, userID int64, role string) *http.Request {
	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: userID,
		Role:   role,
		Status: models.StatusActive,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status, error code and message of an error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError, expectedMessage string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, resp.Message, "Error message mismatch")
	} else {
		assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	}
}

// AssertMessageResponse checks a {"message": ...} success body
func AssertMessageResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	var resp pkghttp.MessageResponse
	AssertJSONResponse(t, w, expectedStatus, &resp)
	assert.Equal(t, expectedMessage, resp.Message)
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc  func(ctx context.Context, in services.RegisterInput) error
	VerifyFunc    func(ctx context.Context, email, code string) error
	LoginFunc     func(ctx context.Context, email, password string) (*services.LoginResult, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (string, error)
	MeFunc        func(ctx context.Context, userID int64) (*models.User, error)
	ResendOTPFunc func(ctx context.Context, email string) error
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) error {
	if m.RegisterFunc == nil {
		return nil
	}
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Verify(ctx context.Context, email, code string) error {
	if m.VerifyFunc == nil {
		return nil
	}
	return m.VerifyFunc(ctx, email, code)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshFunc == nil {
		return "", models.ErrInvalidRefreshToken
	}
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *MockAuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	if m.MeFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.MeFunc(ctx, userID)
}

func (m *MockAuthService) ResendOTP(ctx context.Context, email string) error {
	if m.ResendOTPFunc == nil {
		return nil
	}
	return m.ResendOTPFunc(ctx, email)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	ListFunc         func(ctx context.Context, rawQuery string) (*listing.Page[*models.User], error)
	ListByRegionFunc func(ctx context.Context, regionID int64, rawQuery string) (*listing.Page[*models.User], error)
	GetFunc          func(ctx context.Context, id int64) (*models.User, error)
	CreateFunc       func(ctx context.Context, actor models.Actor, in services.CreateUserInput) (*models.User, error)
	UpdateFunc       func(ctx context.Context, actor models.Actor, id int64, patch models.UserPatch) (*models.User, error)
	DeleteFunc       func(ctx context.Context, actor models.Actor, id int64) error
}

func (m *MockUserService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.User], error) {
	if m.ListFunc == nil {
		return emptyPage[*models.User](), nil
	}
	return m.ListFunc(ctx, rawQuery)
}

func (m *MockUserService) ListByRegion(ctx context.Context, regionID int64, rawQuery string) (*listing.Page[*models.User], error) {
	if m.ListByRegionFunc == nil {
		return emptyPage[*models.User](), nil
	}
	return m.ListByRegionFunc(ctx, regionID, rawQuery)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockUserService) Create(ctx context.Context, actor models.Actor, in services.CreateUserInput) (*models.User, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrDuplicateIdentity
	}
	return m.CreateFunc(ctx, actor, in)
}

func (m *MockUserService) Update(ctx context.Context, actor models.Actor, id int64, patch models.UserPatch) (*models.User, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, actor, id, patch)
}

func (m *MockUserService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, actor, id)
}

// MockEduCenterService implements EduCenterService for testing
type MockEduCenterService struct {
	ListFunc   func(ctx context.Context, rawQuery string) (*listing.Page[*models.EduCenter], error)
	GetFunc    func(ctx context.Context, id int64) (*models.EduCenter, error)
	CreateFunc func(ctx context.Context, actor models.Actor, c *models.EduCenter) (*models.EduCenter, error)
	UpdateFunc func(ctx context.Context, actor models.Actor, id int64, patch models.EduCenterPatch) (*models.EduCenter, error)
	DeleteFunc func(ctx context.Context, actor models.Actor, id int64) error
}

func (m *MockEduCenterService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.EduCenter], error) {
	if m.ListFunc == nil {
		return emptyPage[*models.EduCenter](), nil
	}
	return m.ListFunc(ctx, rawQuery)
}

func (m *MockEduCenterService) Get(ctx context.Context, id int64) (*models.EduCenter, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockEduCenterService) Create(ctx context.Context, actor models.Actor, c *models.EduCenter) (*models.EduCenter, error) {
	if m.CreateFunc == nil {
		c.ID = 1
		c.UserID = actor.ID
		return c, nil
	}
	return m.CreateFunc(ctx, actor, c)
}

func (m *MockEduCenterService) Update(ctx context.Context, actor models.Actor, id int64, patch models.EduCenterPatch) (*models.EduCenter, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrForbidden
	}
	return m.UpdateFunc(ctx, actor, id, patch)
}

func (m *MockEduCenterService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, actor, id)
}

// MockLikeService implements LikeService for testing
type MockLikeService struct {
	ListFunc   func(ctx context.Context, rawQuery string) (*listing.Page[*models.Like], error)
	CreateFunc func(ctx context.Context, actor models.Actor, eduCenterID int64) (*models.Like, error)
	DeleteFunc func(ctx context.Context, actor models.Actor, id int64) error
}

func (m *MockLikeService) List(ctx context.Context, rawQuery string) (*listing.Page[*models.Like], error) {
	if m.ListFunc == nil {
		return emptyPage[*models.Like](), nil
	}
	return m.ListFunc(ctx, rawQuery)
}

func (m *MockLikeService) Create(ctx context.Context, actor models.Actor, eduCenterID int64) (*models.Like, error) {
	if m.CreateFunc == nil {
		return &models.Like{ID: 1, UserID: actor.ID, EduCenterID: eduCenterID}, nil
	}
	return m.CreateFunc(ctx, actor, eduCenterID)
}

func (m *MockLikeService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, actor, id)
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}

func emptyPage[T any]() *listing.Page[T] {
	return &listing.Page[T]{Data: []T{}, CurrentPage: 1, Limit: listing.DefaultLimit}
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithChiIDFromURL sets the last path segment as the "id" route parameter,
// e.g. /users/7 -> id=7
func WithChiIDFromURL(r *http.Request) *http.Request {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) >= 2 {
		return WithChiRouteContext(r, map[string]string{"id": parts[len(parts)-1]})
	}
	return r
}
