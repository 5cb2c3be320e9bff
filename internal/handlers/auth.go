package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/educenter/internal/models"
	"github.com/BradenHooton/educenter/internal/services"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) error
	Verify(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	ResendOTP(ctx context.Context, email string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,uzphone"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=user ceo"`
	RegionID *int64 `json:"region_id" validate:"omitempty,gt=0"`
	Year     *int   `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Image    string `json:"image" validate:"omitempty,max=255"`
}

// VerifyRequest represents the request body for OTP verification
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest represents the request body for resending the OTP
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AccessTokenResponse is the body of a successful refresh
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates a pending account and emails its OTP
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.service.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		RegionID: req.RegionID,
		Year:     req.Year,
		Image:    req.Image,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Otp sended to your email")
}

// Verify activates a pending account
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.service.Verify(r.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		respondError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Verified")
}

// ResendOTP sends the current code again. The answer does not reveal
// whether the email is registered.
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "If the account is waiting for verification, a new code was sent")
}

// Login exchanges credentials for a token pair
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteBadRequest(w, "User not found")
			return
		}
		respondError(w, err)
		return
	}

	if result.Pending {
		pkghttp.WriteMessage(w, http.StatusOK, "Your account is not verified please verify")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// AccessToken mints a new access token from a refresh token
// @Router /auth/access-token [post]
func (h *AuthHandler) AccessToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		pkghttp.WriteUnauthorized(w, "Invalid refresh token")
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AccessTokenResponse{AccessToken: accessToken})
}

// Me returns the authenticated identity
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.service.Me(r.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		respondError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}
