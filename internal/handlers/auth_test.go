package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BradenHooton/educenter/internal/handlers"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/BradenHooton/educenter/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterBody() map[string]any {
	return map[string]any{
		"email":     "a@x.com",
		"phone":     "+998901234567",
		"password":  "pw123456",
		"full_name": "Ann Lee",
	}
}

func TestRegister_Success(t *testing.T) {
	var got services.RegisterInput
	mockService := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) error {
			got = in
			return nil
		},
	}
	handler := handlers.NewAuthHandler(mockService)

	w := httptest.NewRecorder()
	handler.Register(w, handlers.NewTestRequest(t, "POST", "/auth/register", validRegisterBody()))

	handlers.AssertMessageResponse(t, w, http.StatusOK, "Otp sended to your email")
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "Ann Lee", got.FullName)
	assert.NotContains(t, w.Body.String(), "otp\"")
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(body map[string]any)
		message string
	}{
		{"missing email", func(b map[string]any) { delete(b, "email") }, "email is required"},
		{"bad email", func(b map[string]any) { b["email"] = "not-an-email" }, "email must be a valid email address"},
		{"bad phone", func(b map[string]any) { b["phone"] = "901234567" }, "phone must be a phone number like +998901234567"},
		{"short password", func(b map[string]any) { b["password"] = "pw1" }, "password must have a minimum of 8 characters"},
		{"admin role", func(b map[string]any) { b["role"] = "admin" }, "role must be one of: user ceo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &handlers.MockAuthService{
				RegisterFunc: func(ctx context.Context, in services.RegisterInput) error {
					t.Fatal("service must not be called")
					return nil
				},
			}
			handler := handlers.NewAuthHandler(mockService)

			body := validRegisterBody()
			tt.mutate(body)

			w := httptest.NewRecorder()
			handler.Register(w, handlers.NewTestRequest(t, "POST", "/auth/register", body))

			handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request", tt.message)
		})
	}
}

func TestRegister_UnknownFieldRejected(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

	body := validRegisterBody()
	body["status"] = "active"

	w := httptest.NewRecorder()
	handler.Register(w, handlers.NewTestRequest(t, "POST", "/auth/register", body))

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request", `unknown field "status"`)
}

func TestRegister_Duplicate(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) error {
			return models.ErrDuplicateIdentity
		},
	})

	w := httptest.NewRecorder()
	handler.Register(w, handlers.NewTestRequest(t, "POST", "/auth/register", validRegisterBody()))

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request", "User already exists")
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"verified", nil, http.StatusOK, "Verified"},
		{"unknown email", models.ErrNotFound, http.StatusNotFound, "User not found"},
		{"wrong code", models.ErrInvalidOTP, http.StatusBadRequest, "Code is not valid or expired"},
		{"database down", models.ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewAuthHandler(&handlers.MockAuthService{
				VerifyFunc: func(ctx context.Context, email, code string) error {
					assert.Equal(t, "123456", code)
					return tt.err
				},
			})

			w := httptest.NewRecorder()
			handler.Verify(w, handlers.NewTestRequest(t, "POST", "/auth/verify", map[string]string{
				"email": "a@x.com",
				"otp":   "123456",
			}))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestVerify_MalformedCode(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

	w := httptest.NewRecorder()
	handler.Verify(w, handlers.NewTestRequest(t, "POST", "/auth/verify", map[string]string{
		"email": "a@x.com",
		"otp":   "12ab",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	t.Run("tokens", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&handlers.MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
				return &services.LoginResult{AccessToken: "acc", RefreshToken: "ref"}, nil
			},
		})

		w := httptest.NewRecorder()
		handler.Login(w, handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "pw123456",
		}))

		var resp map[string]any
		handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Equal(t, "acc", resp["access_token"])
		assert.Equal(t, "ref", resp["refresh_token"])
		assert.NotContains(t, resp, "Pending")
	})

	t.Run("pending account gets no tokens", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&handlers.MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
				return &services.LoginResult{Pending: true}, nil
			},
		})

		w := httptest.NewRecorder()
		handler.Login(w, handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "pw123456",
		}))

		handlers.AssertMessageResponse(t, w, http.StatusOK, "Your account is not verified please verify")
		assert.NotContains(t, w.Body.String(), "access_token")
	})

	t.Run("unknown user", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

		w := httptest.NewRecorder()
		handler.Login(w, handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "nobody@x.com",
			"password": "pw123456",
		}))

		handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request", "User not found")
	})

	t.Run("wrong password", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&handlers.MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
				return nil, models.ErrIncorrectPassword
			},
		})

		w := httptest.NewRecorder()
		handler.Login(w, handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "wrong-pass1",
		}))

		handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized", "Password is incorrect")
	})
}

func TestAccessToken(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{
		RefreshFunc: func(ctx context.Context, refreshToken string) (string, error) {
			if refreshToken == "good" {
				return "new-access", nil
			}
			return "", models.ErrInvalidRefreshToken
		},
	})

	w := httptest.NewRecorder()
	handler.AccessToken(w, handlers.NewTestRequest(t, "POST", "/auth/access-token", map[string]string{"refresh_token": "good"}))
	var resp handlers.AccessTokenResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "new-access", resp.AccessToken)

	w = httptest.NewRecorder()
	handler.AccessToken(w, handlers.NewTestRequest(t, "POST", "/auth/access-token", map[string]string{"refresh_token": "bad"}))
	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized", "Invalid refresh token")

	w = httptest.NewRecorder()
	handler.AccessToken(w, httptest.NewRequest("POST", "/auth/access-token", strings.NewReader("{")))
	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized", "Invalid refresh token")
}

func TestMe(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{
		MeFunc: func(ctx context.Context, userID int64) (*models.User, error) {
			if userID != 7 {
				return nil, models.ErrNotFound
			}
			return &models.User{ID: 7, Email: "a@x.com", PasswordHash: "$2a$secret", Role: models.RoleUser, Status: models.StatusActive}, nil
		},
	})

	w := httptest.NewRecorder()
	handler.Me(w, handlers.WithAuthContext(handlers.NewTestRequest(t, "GET", "/auth/me", nil), 7, models.RoleUser))

	var user map[string]any
	handlers.AssertJSONResponse(t, w, http.StatusOK, &user)
	assert.Equal(t, float64(7), user["id"])
	assert.NotContains(t, w.Body.String(), "$2a$secret")

	w = httptest.NewRecorder()
	handler.Me(w, handlers.WithAuthContext(handlers.NewTestRequest(t, "GET", "/auth/me", nil), 8, models.RoleUser))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found", "User not found")

	w = httptest.NewRecorder()
	handler.Me(w, handlers.NewTestRequest(t, "GET", "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResendOTP_NeutralAnswer(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

	w := httptest.NewRecorder()
	handler.ResendOTP(w, handlers.NewTestRequest(t, "POST", "/auth/resend-otp", map[string]string{"email": "who@x.com"}))

	assert.Equal(t, http.StatusOK, w.Code)
}
